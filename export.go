package quickhull

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// export flattens the facet graph into a Hull. Facets are numbered in
// breadth-first order from the first live facet of the arena, vertices in the
// order those facets reference them.
func (b *builder) export() *Hull {
	root := noFacet
	for i := range b.facets {
		if b.facets[i].alive {
			root = facetID(i)
			break
		}
	}
	if root == noFacet {
		panic("quickhull: no facet left to export")
	}

	facetIndex := make([]int, len(b.facets))
	for i := range facetIndex {
		facetIndex[i] = -1
	}
	vertexIndex := make(map[vertexID]int, len(b.vertices))

	order := make([]facetID, 0, b.liveFacets())
	order = append(order, root)
	facetIndex[root] = 0

	hull := &Hull{}
	for k := 0; k < len(order); k++ {
		f := b.facet(order[k])
		for _, v := range f.vertices {
			if _, ok := vertexIndex[v]; !ok {
				vertexIndex[v] = len(hull.Vertices)
				hull.Vertices = append(hull.Vertices, b.point(v))
			}
		}
		for _, n := range f.neighbors {
			if facetIndex[n] < 0 {
				facetIndex[n] = len(order)
				order = append(order, n)
			}
		}
	}
	if len(order) != b.liveFacets() {
		panic(fmt.Sprintf("quickhull: facet graph is disconnected (%d of %d facets reached)",
			len(order), b.liveFacets()))
	}

	hull.Facets = make([]Facet, len(order))
	for k, id := range order {
		f := b.facet(id)
		for i := 0; i < 3; i++ {
			hull.Facets[k].Vertices[i] = vertexIndex[f.vertices[i]]
			hull.Facets[k].Neighbors[i] = facetIndex[f.neighbors[i]]
		}
	}

	return hull
}

// Facet is an exported hull triangle. Vertices are wound counter-clockwise seen
// from outside; Neighbors[i] is the facet across the edge
// (Vertices[i], Vertices[(i+1)%3]).
type Facet struct {
	Vertices  [3]int
	Neighbors [3]int
}

// Hull is the result of a construction: the hull vertices and the triangles
// indexing them. It is a plain value, safe to share once built.
type Hull struct {
	Vertices []mgl64.Vec3
	Facets   []Facet
}
