package quickhull

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCornerBuilder seeds a builder with the tetrahedron (0,0,0), (1,0,0),
// (0,1,0), (0,0,1) plus extra points. The slanted facet x+y+z=1 is facet 3.
func newCornerBuilder(t *testing.T, extra ...mgl64.Vec3) (*builder, []facetID, []vertexID) {
	t.Helper()

	points := append([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, extra...)
	b := newTestBuilder()
	facets, candidates, err := b.initSimplex(points)
	require.NoError(t, err)
	require.Equal(t, [3]vertexID{1, 2, 3}, b.facet(3).vertices)
	return b, facets, candidates
}

func TestFurthestPoint(t *testing.T) {
	b, _, _ := newCornerBuilder(t, mgl64.Vec3{0.4, 0.4, 0.4})
	for _, p := range []mgl64.Vec3{{1, 1, 1}, {0.5, 0.5, 0.5}, {2, 0, 0}} {
		b.vertices = append(b.vertices, vertex{point: p})
	}

	f := b.facet(3)
	f.outside = []vertexID{4, 5, 6, 7}

	assert.Equal(t, vertexID(5), b.furthestPoint(3))
	assert.ElementsMatch(t, []vertexID{4, 6, 7}, b.facet(3).outside)

	assert.Equal(t, vertexID(7), b.furthestPoint(3))
	assert.Equal(t, vertexID(6), b.furthestPoint(3))
	assert.Equal(t, vertexID(4), b.furthestPoint(3))

	assert.Panics(t, func() { b.furthestPoint(3) })
}

func TestScanSingleStep(t *testing.T) {
	b, facets, candidates := newCornerBuilder(t, mgl64.Vec3{0.4, 0.4, 0.4})
	b.partitionOutsideSet(facets, candidates)
	require.Equal(t, []facetID{3}, b.pending)

	b.scan()

	assert.Equal(t, 1, b.iterations)
	assert.True(t, b.vertices[4].onHull)
	assert.Empty(t, b.pending)
	assert.Equal(t, 6, b.liveFacets())
	assert.Empty(t, b.marks, "visit marks must not outlive a step")
	assert.Empty(t, b.horizon)
	assert.Empty(t, b.pinched)

	h := b.export()
	assert.Len(t, h.Vertices, 5)
	assert.Len(t, h.Facets, 6)
	require.NoError(t, h.Validate(testEps))
}

func TestFindVisibleFacets(t *testing.T) {
	b, _, _ := newCornerBuilder(t)
	b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{2, 2, -0.5}})
	p := vertexID(4)

	b.findVisibleFacets(p, 3)

	// The slanted facet and the base z=0 see the point, x=0 and y=0 do not.
	assert.ElementsMatch(t, []facetID{3, 0}, b.visible)
	assert.Equal(t, visitedInterior, b.marks[3])
	assert.Equal(t, visitedInterior, b.marks[0])
	assert.Equal(t, visitedBorder, b.marks[1])
	assert.Equal(t, visitedBorder, b.marks[2])

	require.Len(t, b.horizon, 4)
	from := b.horizonOrder[0]
	for range b.horizon {
		edge, ok := b.horizon[from]
		require.True(t, ok, "horizon is open at %d", from)
		assert.Equal(t, visitedInterior, b.marks[edge.visible])
		assert.Equal(t, visitedBorder, b.marks[edge.border])
		from = edge.to
	}
	assert.Equal(t, b.horizonOrder[0], from, "horizon must close")

	b.gatherOutsideSet()
	b.constructNewFacets(p)
	require.Len(t, b.newFacets, 4)
	for _, id := range b.visible {
		b.freeFacet(id)
	}

	for _, id := range b.newFacets {
		f := b.facet(id)
		assert.Equal(t, p, f.vertices[0])
		assert.True(t, f.plane.Valid())
	}

	h := b.export()
	assert.Len(t, h.Vertices, 5)
	assert.Len(t, h.Facets, 6)
	require.NoError(t, h.Validate(testEps))
}

func TestFindVisibleFacetsRecordsDoubleBorder(t *testing.T) {
	b, _, _ := newCornerBuilder(t)
	// Sees the slanted facet and both y=0 and z=0, leaving x=0 as the only
	// border facet, adjacent to the visible region along three edges.
	b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{3, -0.5, -0.5}})

	b.findVisibleFacets(4, 3)

	assert.Len(t, b.visible, 3)
	assert.Equal(t, visitedBorder, b.marks[2])
	assert.Len(t, b.horizon, 3)
	for _, edge := range b.horizon {
		assert.Equal(t, facetID(2), edge.border)
	}
}

func TestConstructNewFacetsRejectsMalformedHorizon(t *testing.T) {
	t.Run("too few edges", func(t *testing.T) {
		b, _, _ := newCornerBuilder(t)
		b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{1, 1, 1}})
		b.horizon[1] = horizonEdge{from: 1, to: 2, visible: 3, border: 0}
		b.horizon[2] = horizonEdge{from: 2, to: 1, visible: 3, border: 2}
		b.horizonOrder = append(b.horizonOrder, 1, 2)

		assert.Panics(t, func() { b.constructNewFacets(4) })
	})

	t.Run("open loop", func(t *testing.T) {
		b, _, _ := newCornerBuilder(t)
		b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{1, 1, 1}})
		b.horizon[1] = horizonEdge{from: 1, to: 2, visible: 3, border: 0}
		b.horizon[2] = horizonEdge{from: 2, to: 3, visible: 3, border: 2}
		b.horizon[0] = horizonEdge{from: 0, to: 1, visible: 0, border: 1}
		b.horizonOrder = append(b.horizonOrder, 1, 2, 0)

		assert.Panics(t, func() { b.constructNewFacets(4) })
	})

	t.Run("duplicate start vertex", func(t *testing.T) {
		b, _, _ := newCornerBuilder(t)
		f := b.facet(3)
		assert.True(t, b.addHorizonEdge(f, 0, 3, 0))
		assert.False(t, b.addHorizonEdge(f, 0, 3, 0))
		assert.Len(t, b.horizon, 1)
	})
}

// newHullBuilder runs a whole construction and keeps the builder, so tests
// can drive single steps against a finished mesh.
func newHullBuilder(t *testing.T, points []mgl64.Vec3) *builder {
	t.Helper()

	b := newTestBuilder()
	facets, candidates, err := b.initSimplex(points)
	require.NoError(t, err)
	b.partitionOutsideSet(facets, candidates)
	b.scan()
	return b
}

// facetWith returns the live facet made of the three given vertices.
func facetWith(t *testing.T, b *builder, vertices ...vertexID) facetID {
	t.Helper()

	for i := range b.facets {
		f := &b.facets[i]
		if !f.alive {
			continue
		}
		if slices.Equal(slices.Sorted(slices.Values(f.vertices[:])), slices.Sorted(slices.Values(vertices))) {
			return facetID(i)
		}
	}
	require.FailNow(t, "no facet with vertices", "%v", vertices)
	return noFacet
}

var octahedron = []mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
}

func TestRepairHorizonAbsorbsCoplanarBorder(t *testing.T) {
	b, _, _ := newCornerBuilder(t)
	// Sees the base z=0 and lies exactly in the plane x=0.
	b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{0, 0.3, -1}})
	p := vertexID(4)

	b.findVisibleFacets(p, 0)
	require.Equal(t, []facetID{0}, b.visible)

	require.True(t, b.repairHorizon(p))
	assert.ElementsMatch(t, []facetID{0, 2}, b.visible)
	require.Len(t, b.horizon, 4)
	assert.Equal(t, 4, b.horizonLoopLength())
	for _, edge := range b.horizon {
		d := b.facet(edge.border).plane.Distance(b.point(p))
		assert.Less(t, d, -b.cfg.Epsilon, "border facet %d is not below the new point", edge.border)
	}

	b.gatherOutsideSet()
	b.gatherBuriedVertices()
	assert.Empty(t, b.pool)
	b.constructNewFacets(p)
	for _, id := range b.visible {
		b.freeFacet(id)
	}

	h := b.export()
	assert.Len(t, h.Vertices, 5)
	assert.Len(t, h.Facets, 6)
	require.NoError(t, h.Validate(testEps))
}

func TestRepairHorizonResolvesPinch(t *testing.T) {
	b := newHullBuilder(t, octahedron)
	require.Equal(t, 8, b.liveFacets())

	// Two facets meeting only at the +z vertex.
	top := vertexID(4)
	for _, id := range []facetID{facetWith(t, b, 0, 2, 4), facetWith(t, b, 1, 3, 4)} {
		b.absorb(id)
	}
	b.collectHorizon()
	require.Equal(t, []vertexID{top}, b.pinched)

	assert.Equal(t, 2, b.absorbPinches())
	b.collectHorizon()
	assert.Empty(t, b.pinched)
	assert.Len(t, b.visible, 4)
	assert.Len(t, b.horizon, 4)
	assert.Equal(t, 4, b.horizonLoopLength())

	b.gatherBuriedVertices()
	assert.Equal(t, []vertexID{top}, b.pool)
	assert.False(t, b.vertices[top].onHull)
	assert.True(t, b.vertices[top].requeued)
}

func TestRepairHorizonAbsorbsEnclosedRegion(t *testing.T) {
	b := newHullBuilder(t, octahedron)

	near := facetWith(t, b, 0, 2, 4)
	far := facetWith(t, b, 1, 3, 5)
	for i := range b.facets {
		id := facetID(i)
		if b.facets[i].alive && id != near && id != far {
			b.absorb(id)
		}
	}
	b.collectHorizon()
	require.Len(t, b.horizon, 6)
	require.Empty(t, b.pinched)
	require.Equal(t, 3, b.horizonLoopLength())

	assert.Equal(t, 1, b.absorbEnclosedRegions(mgl64.Vec3{2, 2, 2}))
	assert.Equal(t, visitedInterior, b.marks[near])
	assert.NotEqual(t, visitedInterior, b.marks[far])

	b.collectHorizon()
	assert.Len(t, b.horizon, 3)
	assert.Equal(t, 3, b.horizonLoopLength())
}

func TestRepairHorizonGivesUpOnWholeHull(t *testing.T) {
	b := newHullBuilder(t, octahedron)
	for i := range b.facets {
		if b.facets[i].alive {
			b.absorb(facetID(i))
		}
	}
	b.collectHorizon()

	b.vertices = append(b.vertices, vertex{point: mgl64.Vec3{0, 0, 0}})
	assert.False(t, b.repairHorizon(vertexID(len(b.vertices)-1)))
}
