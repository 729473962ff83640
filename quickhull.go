// Package quickhull computes the convex hull of a set of 3-D points.
//
// The construction is the incremental QuickHull algorithm:
//   - A tetrahedron is seeded from four extreme, non-coplanar input points
//   - Every remaining point is assigned to the outside set of one facet it lies above
//   - While some facet has outside points, its furthest point p is added: the
//     facets visible from p are removed and the hole is closed with a fan of
//     new facets from p to the horizon, and the orphaned points are reassigned
//   - The final facet graph is flattened into indexed vertex and facet arrays
//
// Facets live in an arena addressed by integer handles. Traversals (visible set
// flood fill, export) are iterative.
//
// References:
//   - Barber, Dobkin, Huhdanpaa: "The Quickhull Algorithm for Convex Hulls" (1996)
package quickhull

import (
	"fmt"
	"log/slog"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// builder owns all the state of one hull construction.
type builder struct {
	mesh

	cfg Config
	log *slog.Logger

	// Per-step scratch, emptied at the end of every scan iteration.
	marks        map[facetID]visitState
	horizon      map[vertexID]horizonEdge
	horizonOrder []vertexID
	pinched      []vertexID
	visible      []facetID
	newFacets    []facetID
	pool         []vertexID

	iterations int
}

func newBuilder(cfg Config) *builder {
	return &builder{
		cfg:     cfg,
		log:     cfg.Logger,
		marks:   make(map[facetID]visitState),
		horizon: make(map[vertexID]horizonEdge),
	}
}

// Build computes the convex hull of points with DefaultConfig.
func Build(points []mgl64.Vec3) (*Hull, error) {
	return BuildWithConfig(points, DefaultConfig())
}

// BuildWithConfig computes the convex hull of points.
//
// Parameters:
//   - points: at least 4 points; duplicates are merged
//   - cfg: tolerances and logger, zero fields take their defaults
//
// Returns:
//   - *Hull: hull vertices and outward-wound triangular facets
//   - error: ErrTooFewPoints, ErrAllPointsCollinear or ErrAllPointsCoplanar
//     (all wrapping ErrDegenerateInput), or ErrInvalidPoint for NaN/Inf input.
//     No hull is returned with an error.
func BuildWithConfig(points []mgl64.Vec3, cfg Config) (*Hull, error) {
	cfg = cfg.withDefaults()

	if len(points) < 4 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !geometry.IsFinite(p) {
			return nil, fmt.Errorf("%w: index %d is %v", ErrInvalidPoint, i, p)
		}
	}
	cfg = cfg.scaledTo(points)

	b := newBuilder(cfg)
	simplex, candidates, err := b.initSimplex(points)
	if err != nil {
		return nil, err
	}

	b.partitionOutsideSet(simplex, candidates)
	b.scan()

	hull := b.export()
	b.log.Debug("hull built",
		"points", len(points),
		"iterations", b.iterations,
		"vertices", len(hull.Vertices),
		"facets", len(hull.Facets))

	return hull, nil
}
