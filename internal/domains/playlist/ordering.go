package playlist

// ComputeInsertionOrder returns the order value for a new membership.
//
// Without a requested order it appends: max(existing)+1, or 1 for an
// empty playlist. A requested order is returned verbatim, with no bounds
// check and no shifting of neighbours, so a caller-supplied value can
// introduce a duplicate or a gap. That is the inherited contract; the
// dense invariant is re-established on the next removal, not here.
func ComputeInsertionOrder(existingOrders []int, requested *int) int {
	if requested != nil {
		return *requested
	}

	max := 0
	for _, o := range existingOrders {
		if o > max {
			max = o
		}
	}
	return max + 1
}

// RenumberAfterRemoval assigns each remaining membership its 1-based rank.
// The input must be the playlist's surviving memberships sorted ascending
// by current order; relative order is preserved. Pure: returns a new
// slice and never touches the input. Applying it to an already-dense
// sequence is a fixed point.
func RenumberAfterRemoval(remaining []Membership) []Membership {
	renumbered := make([]Membership, len(remaining))
	for i, m := range remaining {
		m.Order = i + 1
		renumbered[i] = m
	}
	return renumbered
}
