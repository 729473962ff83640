package quickhull

// determineOutsideSet moves every candidate strictly above one of facets into
// that facet's outside set. The first facet that claims a point keeps it.
// Candidates claimed by no facet are inside the hull and dropped.
//
// candidates is consumed: its backing array is reused.
func (b *builder) determineOutsideSet(facets []facetID, candidates []vertexID) {
	eps := b.cfg.Epsilon
	for _, id := range facets {
		if len(candidates) == 0 {
			return
		}
		f := b.facet(id)
		remaining := candidates[:0]
		for _, v := range candidates {
			if f.plane.IsAbove(b.point(v), eps) {
				f.outside = append(f.outside, v)
			} else {
				remaining = append(remaining, v)
			}
		}
		candidates = remaining
	}
}

// updateFacetPendList queues the facets whose outside set is nonempty.
// Calling it again on the same facets has no effect.
func (b *builder) updateFacetPendList(facets []facetID) {
	for _, id := range facets {
		if len(b.facet(id).outside) > 0 {
			b.pushPending(id)
		}
	}
}

// partitionOutsideSet distributes candidates over facets and queues the
// facets that received work.
func (b *builder) partitionOutsideSet(facets []facetID, candidates []vertexID) {
	b.determineOutsideSet(facets, candidates)
	b.updateFacetPendList(facets)
}
