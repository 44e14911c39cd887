package booking

import "time"

// Overlaps reports whether [s1, e1) and [s2, e2) intersect. Intervals are
// half-open: a booking ending exactly when another starts does not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FirstConflict returns the first existing booking that blocks the proposed
// occurrence, or nil when the slot is free.
//
// blocking is the resolved blocking-set of part ids for the proposal. An
// empty set means a whole-resource proposal, which conflicts with every
// active booking on the resource. A whole-resource existing booking
// (nil PartID) conflicts with every proposal.
func FirstConflict(existing []*Booking, occ Occurrence, blocking map[string]struct{}) *Booking {
	for _, b := range existing {
		if !b.Status.Active() {
			continue
		}
		if !Overlaps(occ.Start, occ.End, b.StartTime, b.EndTime) {
			continue
		}
		if len(blocking) == 0 || b.PartID == nil {
			return b
		}
		if _, ok := blocking[*b.PartID]; ok {
			return b
		}
	}
	return nil
}
