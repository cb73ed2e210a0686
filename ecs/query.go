package ecs

// smallest returns the store with the fewest entries, or nil if any store is
// missing.
func smallest(stores ...*SparseSet) *SparseSet {
	var best *SparseSet
	for _, s := range stores {
		if s == nil {
			return nil
		}
		if best == nil || s.Len() < best.Len() {
			best = s
		}
	}
	return best
}

// intersect returns the ids present in every store, iterating the smallest.
func intersect(stores ...*SparseSet) []entityID {
	base := smallest(stores...)
	if base == nil {
		return nil
	}
	out := make([]entityID, 0, base.Len())
	for _, id := range base.ids() {
		all := true
		for _, s := range stores {
			if s != base && !s.Has(id) {
				all = false
				break
			}
		}
		if all {
			out = append(out, id)
		}
	}
	return out
}
