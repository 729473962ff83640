package quickhull

import (
	"fmt"
	"math"
	"slices"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// loadVertices fills the vertex pool with the distinct input points, in input
// order. Points within DuplicateTolerance of an earlier kept point (in x-sorted
// order) are dropped.
func (b *builder) loadVertices(points []mgl64.Vec3) {
	tol := b.cfg.DuplicateTolerance

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return geometry.CompareVec3(points[i], points[j])
	})

	// kept is sorted by x, so only the tail within tol of the current x can
	// hold a duplicate.
	kept := make([]int, 0, len(points))
	for _, i := range order {
		p := points[i]
		duplicate := false
		for k := len(kept) - 1; k >= 0 && points[kept[k]][0] >= p[0]-tol; k-- {
			if geometry.ApproxEqual(points[kept[k]], p, tol) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, i)
		}
	}
	slices.Sort(kept)

	for _, i := range kept {
		b.vertices = append(b.vertices, vertex{point: points[i]})
	}
}

// extremes returns the vertices with the smallest and largest coordinate along
// the axis of largest extent.
func (b *builder) extremes() (vertexID, vertexID) {
	var lo, hi [3]vertexID
	for i := range b.vertices {
		v := vertexID(i)
		p := b.point(v)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < b.point(lo[axis])[axis] {
				lo[axis] = v
			}
			if p[axis] > b.point(hi[axis])[axis] {
				hi[axis] = v
			}
		}
	}

	best, bestExtent := 0, -1.0
	for axis := 0; axis < 3; axis++ {
		extent := b.point(hi[axis])[axis] - b.point(lo[axis])[axis]
		if extent > bestExtent {
			best, bestExtent = axis, extent
		}
	}
	return lo[best], hi[best]
}

// initSimplex builds the starting tetrahedron and returns its facets together
// with the vertices that are not part of it.
//
// Algorithm:
//  1. Drop duplicate points; fewer than 4 distinct points is degenerate
//  2. Reject a fully collinear set (line through the first two points)
//  3. Base triangle: the two extremes along the widest axis, plus the point
//     farthest from the line through them
//  4. Apex: the point farthest from the base plane, on either side
//  5. Orient the base away from the apex and link the 4 facets
func (b *builder) initSimplex(points []mgl64.Vec3) ([]facetID, []vertexID, error) {
	b.loadVertices(points)
	if len(b.vertices) < 4 {
		return nil, nil, fmt.Errorf("%w: %d distinct out of %d", ErrTooFewPoints, len(b.vertices), len(points))
	}

	if b.allCollinear() {
		return nil, nil, ErrAllPointsCollinear
	}

	v0, v1 := b.extremes()
	v2, lineDist := vertexID(-1), -1.0
	for i := range b.vertices {
		d := geometry.DistanceToLine(b.point(vertexID(i)), b.point(v0), b.point(v1))
		if d > lineDist {
			v2, lineDist = vertexID(i), d
		}
	}
	if lineDist <= b.cfg.CollinearTolerance {
		return nil, nil, ErrAllPointsCollinear
	}

	base, ok := geometry.NewPlane(b.point(v0), b.point(v1), b.point(v2))
	if !ok {
		return nil, nil, ErrAllPointsCollinear
	}

	apex, apexDist := vertexID(-1), 0.0
	for i := range b.vertices {
		d := base.Distance(b.point(vertexID(i)))
		if math.Abs(d) > math.Abs(apexDist) {
			apex, apexDist = vertexID(i), d
		}
	}
	if math.Abs(apexDist) <= b.cfg.Epsilon {
		return nil, nil, ErrAllPointsCoplanar
	}
	// The apex must lie above (v0, v1, v2) so that (v0, v2, v1) faces away from it.
	if apexDist < 0 {
		v1, v2 = v2, v1
	}

	b.log.Debug("initial simplex",
		"vertices", []vertexID{v0, v1, v2, apex},
		"distinct", len(b.vertices),
		"height", math.Abs(apexDist))

	f0 := b.newFacet(v0, v2, v1)
	f1 := b.newFacet(v0, v1, apex)
	f2 := b.newFacet(v0, apex, v2)
	f3 := b.newFacet(v1, v2, apex)

	b.facet(f0).neighbors = [3]facetID{f2, f3, f1}
	b.facet(f1).neighbors = [3]facetID{f0, f3, f2}
	b.facet(f2).neighbors = [3]facetID{f1, f3, f0}
	b.facet(f3).neighbors = [3]facetID{f0, f2, f1}

	for _, v := range [4]vertexID{v0, v1, v2, apex} {
		b.vertices[v].onHull = true
	}

	candidates := make([]vertexID, 0, len(b.vertices)-4)
	for i := range b.vertices {
		if !b.vertices[i].onHull {
			candidates = append(candidates, vertexID(i))
		}
	}

	return []facetID{f0, f1, f2, f3}, candidates, nil
}

// allCollinear scans for a point off the line through the first two
// distinct vertices.
func (b *builder) allCollinear() bool {
	p0, p1 := b.point(0), b.point(1)
	for i := 2; i < len(b.vertices); i++ {
		if !geometry.Collinear(p0, p1, b.point(vertexID(i)), b.cfg.CollinearTolerance) {
			return false
		}
	}
	return true
}
