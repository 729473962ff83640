package quickhull

import (
	"fmt"
	"math"
	"slices"

	"github.com/akmonengine/quickhull/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// visitState marks facets during a single horizon scan step.
type visitState uint8

const (
	unvisited visitState = iota
	visitedInterior
	visitedBorder
)

// horizonEdge is an edge between a visible facet and a border facet, directed
// as it runs in the visible facet.
type horizonEdge struct {
	from, to vertexID
	visible  facetID
	border   facetID
}

// scan runs the expansion loop until no facet has outside points left.
//
// Each step:
//  1. Pop a pending facet and take its furthest outside point p
//  2. Flood fill the facets visible from p and collect the horizon edges
//  3. Grow the visible set until the horizon is one convex loop around p
//  4. Pool the outside points of the visible facets and the vertices they bury
//  5. Fan new facets from p to the horizon, then free the visible facets
//  6. Partition the pooled points over the new facets
func (b *builder) scan() {
	for {
		id, ok := b.popPending()
		if !ok {
			return
		}
		b.iterations++

		p := b.furthestPoint(id)
		b.findVisibleFacets(p, id)
		if !b.repairHorizon(p) {
			b.log.Warn("point skipped, no horizon left",
				"iteration", b.iterations,
				"point", p,
				"visible", len(b.visible))
			b.updateFacetPendList([]facetID{id})
			b.resetStep()
			continue
		}

		b.gatherOutsideSet()
		b.gatherBuriedVertices()
		b.constructNewFacets(p)

		for _, v := range b.visible {
			b.freeFacet(v)
		}

		b.partitionOutsideSet(b.newFacets, b.pool)
		b.vertices[p].onHull = true

		b.log.Debug("horizon step",
			"iteration", b.iterations,
			"point", p,
			"visible", len(b.visible),
			"horizon", len(b.newFacets),
			"pending", len(b.pending))

		b.resetStep()
	}
}

func (b *builder) resetStep() {
	clear(b.marks)
	clear(b.horizon)
	b.horizonOrder = b.horizonOrder[:0]
	b.pinched = b.pinched[:0]
	b.visible = b.visible[:0]
	b.newFacets = b.newFacets[:0]
	b.pool = b.pool[:0]
}

// furthestPoint removes and returns the outside point of id with the largest
// distance to its plane. The first of several equidistant points wins.
func (b *builder) furthestPoint(id facetID) vertexID {
	f := b.facet(id)
	best, bestDist := -1, math.Inf(-1)
	for i, v := range f.outside {
		if d := f.plane.Distance(b.point(v)); d > bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		panic(fmt.Sprintf("quickhull: pending facet %d has no outside point", id))
	}

	p := f.outside[best]
	last := len(f.outside) - 1
	f.outside[best] = f.outside[last]
	f.outside = f.outside[:last]
	return p
}

// findVisibleFacets collects in b.visible every facet reachable from start
// through visible facets whose plane has p strictly above it, then records in
// b.horizon the edges separating them from the rest of the hull.
//
// The fill is breadth first over b.visible itself, so no recursion is involved.
func (b *builder) findVisibleFacets(p vertexID, start facetID) {
	point := b.point(p)
	eps := b.cfg.Epsilon

	b.marks[start] = visitedInterior
	b.visible = append(b.visible, start)

	for k := 0; k < len(b.visible); k++ {
		f := b.facet(b.visible[k])
		for i := 0; i < 3; i++ {
			neighbor := f.neighbors[i]
			if b.marks[neighbor] != unvisited {
				continue
			}
			if b.facet(neighbor).plane.IsAbove(point, eps) {
				b.marks[neighbor] = visitedInterior
				b.visible = append(b.visible, neighbor)
				continue
			}
			b.marks[neighbor] = visitedBorder
		}
	}

	b.collectHorizon()
}

// collectHorizon rebuilds b.horizon from the current visible set. A vertex
// the boundary leaves twice is recorded in b.pinched instead.
func (b *builder) collectHorizon() {
	clear(b.horizon)
	b.horizonOrder = b.horizonOrder[:0]
	b.pinched = b.pinched[:0]

	for _, id := range b.visible {
		f := b.facet(id)
		for i := 0; i < 3; i++ {
			neighbor := f.neighbors[i]
			if b.marks[neighbor] == visitedInterior {
				continue
			}
			b.marks[neighbor] = visitedBorder
			if !b.addHorizonEdge(f, i, id, neighbor) {
				from, _ := f.edge(i)
				b.pinched = append(b.pinched, from)
			}
		}
	}
}

// addHorizonEdge records edge i of f. It reports false when another horizon
// edge already leaves the same vertex.
func (b *builder) addHorizonEdge(f *facet, i int, visible, border facetID) bool {
	from, to := f.edge(i)
	if _, exists := b.horizon[from]; exists {
		return false
	}
	b.horizon[from] = horizonEdge{from: from, to: to, visible: visible, border: border}
	b.horizonOrder = append(b.horizonOrder, from)
	return true
}

// repairHorizon grows the visible set until fanning p to the horizon yields a
// convex cap:
//   - p is below every border facet by more than Epsilon, and the far vertex
//     of each border facet is below the new facet on its edge
//   - the horizon is a single simple loop: the facets around a vertex it
//     passes twice are absorbed, as is every region cut off from the side of
//     the hull facing away from p
//   - consecutive new facets do not fold over each other by more than Epsilon
//
// The facets it absorbs are coplanar with p within tolerance or lie under the
// cap. It reports false when the visible set would cover the whole hull.
func (b *builder) repairHorizon(p vertexID) bool {
	point := b.point(p)
	for {
		if len(b.horizon) == 0 || len(b.visible) >= b.liveFacets() {
			return false
		}

		absorbed := b.absorbFoldedBorders(point)
		if absorbed == 0 {
			absorbed = b.absorbPinches()
		}
		if absorbed == 0 {
			absorbed = b.absorbEnclosedRegions(point)
		}
		if absorbed == 0 {
			absorbed = b.absorbReflexCorners(point)
		}
		if absorbed == 0 {
			return true
		}
		b.collectHorizon()
	}
}

func (b *builder) absorb(id facetID) {
	b.marks[id] = visitedInterior
	b.visible = append(b.visible, id)
}

// absorbFoldedBorders absorbs the border facets that the new facet on their
// horizon edge would not meet at a convex angle.
func (b *builder) absorbFoldedBorders(point mgl64.Vec3) int {
	n := 0
	for _, from := range b.horizonOrder {
		edge := b.horizon[from]
		if b.marks[edge.border] == visitedInterior {
			continue
		}
		if b.foldsOver(edge, point) {
			b.absorb(edge.border)
			n++
		}
	}
	return n
}

func (b *builder) foldsOver(edge horizonEdge, point mgl64.Vec3) bool {
	eps := b.cfg.Epsilon
	border := b.facet(edge.border)
	if border.plane.Distance(point) > -eps {
		return true
	}

	plane, ok := geometry.NewPlane(point, b.point(edge.from), b.point(edge.to))
	if !ok {
		return true
	}
	slot := b.neighborIndex(edge.border, edge.to, edge.from)
	far := border.vertices[(slot+2)%3]
	return plane.Distance(b.point(far)) > -eps
}

// absorbPinches absorbs the border facets meeting the visible set along an
// edge through a pinched vertex.
func (b *builder) absorbPinches() int {
	if len(b.pinched) == 0 {
		return 0
	}

	n := 0
	count := len(b.visible)
	for k := 0; k < count; k++ {
		f := b.facet(b.visible[k])
		for i := 0; i < 3; i++ {
			neighbor := f.neighbors[i]
			if b.marks[neighbor] == visitedInterior {
				continue
			}
			from, to := f.edge(i)
			if slices.Contains(b.pinched, from) || slices.Contains(b.pinched, to) {
				b.absorb(neighbor)
				n++
			}
		}
	}
	return n
}

// horizonLoopLength walks the horizon from its first edge and returns the
// number of edges on that loop.
func (b *builder) horizonLoopLength() int {
	if len(b.horizonOrder) == 0 {
		return 0
	}
	start := b.horizonOrder[0]
	from, n := start, 0
	for n <= len(b.horizon) {
		edge, ok := b.horizon[from]
		if !ok {
			return n
		}
		n++
		if edge.to == start {
			return n
		}
		from = edge.to
	}
	return n
}

// absorbEnclosedRegions handles a horizon made of several loops. The facets
// outside the visible set then form several regions; the one holding the
// facet p lies furthest below is kept and the others are absorbed.
func (b *builder) absorbEnclosedRegions(point mgl64.Vec3) int {
	if b.horizonLoopLength() == len(b.horizon) {
		return 0
	}

	seen := make(map[facetID]bool)
	var keep []facetID
	var absorbed [][]facetID
	keepDist := math.Inf(1)

	for i := range b.facets {
		seed := facetID(i)
		if !b.facets[i].alive || seen[seed] || b.marks[seed] == visitedInterior {
			continue
		}

		region := []facetID{seed}
		seen[seed] = true
		lowest := math.Inf(1)
		for k := 0; k < len(region); k++ {
			f := b.facet(region[k])
			lowest = math.Min(lowest, f.plane.Distance(point))
			for _, neighbor := range f.neighbors {
				if seen[neighbor] || b.marks[neighbor] == visitedInterior {
					continue
				}
				seen[neighbor] = true
				region = append(region, neighbor)
			}
		}

		if lowest < keepDist {
			if keep != nil {
				absorbed = append(absorbed, keep)
			}
			keep, keepDist = region, lowest
		} else {
			absorbed = append(absorbed, region)
		}
	}

	n := 0
	for _, region := range absorbed {
		for _, id := range region {
			b.absorb(id)
			n++
		}
	}
	return n
}

// absorbReflexCorners walks the horizon loop and absorbs both border facets
// at a horizon vertex where consecutive new facets would fold outward.
func (b *builder) absorbReflexCorners(point mgl64.Vec3) int {
	eps := b.cfg.Epsilon
	n := 0
	for _, from := range b.horizonOrder {
		edge := b.horizon[from]
		next := b.horizon[edge.to]

		plane, ok := geometry.NewPlane(point, b.point(edge.from), b.point(edge.to))
		if ok && plane.Distance(b.point(next.to)) <= eps {
			continue
		}
		for _, border := range []facetID{edge.border, next.border} {
			if b.marks[border] != visitedInterior {
				b.absorb(border)
				n++
			}
		}
	}
	return n
}

// gatherOutsideSet moves the outside points of the visible facets into b.pool
// and takes those facets off the pending list.
func (b *builder) gatherOutsideSet() {
	for _, id := range b.visible {
		f := b.facet(id)
		b.pool = append(b.pool, f.outside...)
		f.outside = nil
		b.removePending(id)
	}
}

// gatherBuriedVertices takes the vertices of the visible facets that are not
// on the horizon off the hull. Each vertex is pooled the first time it is
// buried, so a new facet can claim it back.
func (b *builder) gatherBuriedVertices() {
	for _, id := range b.visible {
		for _, v := range b.facet(id).vertices {
			vx := &b.vertices[v]
			if _, onHorizon := b.horizon[v]; onHorizon || !vx.onHull {
				continue
			}
			vx.onHull = false
			if !vx.requeued {
				vx.requeued = true
				b.pool = append(b.pool, v)
			}
		}
	}
}

// constructNewFacets walks the horizon as a closed loop and builds one facet
// (p, from, to) per edge. Each new facet takes the border facet as neighbor 1
// and the previous and next new facets as neighbors 0 and 2.
func (b *builder) constructNewFacets(p vertexID) {
	if len(b.horizon) < 3 {
		panic(fmt.Sprintf("quickhull: horizon has %d edges", len(b.horizon)))
	}

	start := b.horizonOrder[0]
	edge := b.horizon[start]
	for {
		id := b.newFacet(p, edge.from, edge.to)
		nf := b.facet(id)
		nf.neighbors[1] = edge.border

		slot := b.neighborIndex(edge.border, edge.to, edge.from)
		border := b.facet(edge.border)
		if border.neighbors[slot] != edge.visible {
			panic(fmt.Sprintf("quickhull: facet %d is not adjacent to %d", edge.border, edge.visible))
		}
		border.neighbors[slot] = id

		b.newFacets = append(b.newFacets, id)
		if edge.to == start {
			break
		}
		next, ok := b.horizon[edge.to]
		if !ok {
			panic(fmt.Sprintf("quickhull: horizon is open at vertex %d", edge.to))
		}
		if len(b.newFacets) > len(b.horizon) {
			panic("quickhull: horizon loop does not close")
		}
		edge = next
	}
	if len(b.newFacets) != len(b.horizon) {
		panic(fmt.Sprintf("quickhull: horizon splits into several loops (%d of %d edges walked)",
			len(b.newFacets), len(b.horizon)))
	}

	last := b.newFacets[len(b.newFacets)-1]
	for _, id := range b.newFacets {
		b.facet(id).neighbors[0] = last
		b.facet(last).neighbors[2] = id
		last = id
	}
}
