package quickhull

import (
	"fmt"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

type vertexID int32

type facetID int32

const noFacet facetID = -1

// vertex is an input point. onHull is set while the point is a vertex of the
// hull under construction. requeued is set once the point has been buried
// under a new fan and handed back to the partition.
type vertex struct {
	point    mgl64.Vec3
	onHull   bool
	requeued bool
}

// facet is an oriented triangle of the hull under construction.
// neighbors[i] shares the edge (vertices[i], vertices[(i+1)%3]).
// outside holds the candidate points strictly above plane that no other facet
// has claimed; the facet owns it.
type facet struct {
	vertices  [3]vertexID
	neighbors [3]facetID
	outside   []vertexID
	plane     geometry.Plane
	alive     bool
}

// edge returns the directed edge i of the facet.
func (f *facet) edge(i int) (vertexID, vertexID) {
	return f.vertices[i], f.vertices[(i+1)%3]
}

// mesh is the vertex pool and the facet arena. Facets are addressed by
// stable handles; a freed slot is recycled by the next newFacet.
type mesh struct {
	vertices []vertex
	facets   []facet
	free     []facetID

	// pending lists the facets with a nonempty outside set.
	// pendingPos[id] is the position of id in pending, or -1.
	pending    []facetID
	pendingPos []int
}

func (m *mesh) point(v vertexID) mgl64.Vec3 {
	return m.vertices[v].point
}

// facet returns the live facet behind id. Dereferencing a freed handle is a bug.
func (m *mesh) facet(id facetID) *facet {
	if id < 0 || int(id) >= len(m.facets) || !m.facets[id].alive {
		panic(fmt.Sprintf("quickhull: access to dead facet %d", id))
	}
	return &m.facets[id]
}

// newFacet allocates the triangle (a, b, c) with no neighbors and an empty
// outside set. A zero-area triangle gets an invalid plane, which has no point
// above it.
func (m *mesh) newFacet(a, b, c vertexID) facetID {
	plane, _ := geometry.NewPlane(m.point(a), m.point(b), m.point(c))
	f := facet{
		vertices:  [3]vertexID{a, b, c},
		neighbors: [3]facetID{noFacet, noFacet, noFacet},
		plane:     plane,
		alive:     true,
	}

	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		m.facets[id] = f
		return id
	}

	m.facets = append(m.facets, f)
	m.pendingPos = append(m.pendingPos, -1)
	return facetID(len(m.facets) - 1)
}

// freeFacet releases id. The facet must not be pending.
func (m *mesh) freeFacet(id facetID) {
	f := m.facet(id)
	if m.pendingPos[id] >= 0 {
		panic(fmt.Sprintf("quickhull: freeing pending facet %d", id))
	}
	*f = facet{}
	m.free = append(m.free, id)
}

// liveFacets returns the number of facets currently alive.
func (m *mesh) liveFacets() int {
	return len(m.facets) - len(m.free)
}

// neighborIndex returns the slot of f's edge running from a to b.
func (m *mesh) neighborIndex(id facetID, a, b vertexID) int {
	f := m.facet(id)
	for i := 0; i < 3; i++ {
		if u, v := f.edge(i); u == a && v == b {
			return i
		}
	}
	panic(fmt.Sprintf("quickhull: facet %d has no edge %d->%d", id, a, b))
}

func (m *mesh) pushPending(id facetID) {
	if m.pendingPos[id] >= 0 {
		return
	}
	m.pendingPos[id] = len(m.pending)
	m.pending = append(m.pending, id)
}

// removePending drops id from the pending list using swap-with-last.
func (m *mesh) removePending(id facetID) {
	pos := m.pendingPos[id]
	if pos < 0 {
		return
	}
	last := len(m.pending) - 1
	moved := m.pending[last]
	m.pending[pos] = moved
	m.pendingPos[moved] = pos
	m.pending = m.pending[:last]
	m.pendingPos[id] = -1
}

// popPending removes and returns the most recently queued facet.
func (m *mesh) popPending() (facetID, bool) {
	if len(m.pending) == 0 {
		return noFacet, false
	}
	id := m.pending[len(m.pending)-1]
	m.removePending(id)
	return id, true
}
