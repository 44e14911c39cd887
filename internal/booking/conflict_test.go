package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint", ts(9), ts(10), ts(11), ts(12), false},
		{"contained", ts(9), ts(12), ts(10), ts(11), true},
		{"partial", ts(9), ts(11), ts(10), ts(12), true},
		{"identical", ts(9), ts(11), ts(9), ts(11), true},
		// Half-open: back-to-back slots share a boundary instant but do
		// not overlap.
		{"end touches start", ts(9), ts(10), ts(10), ts(11), false},
		{"start touches end", ts(10), ts(11), ts(9), ts(10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestFirstConflict(t *testing.T) {
	occ := Occurrence{Start: ts(10), End: ts(12)}

	active := func(partID *string) *Booking {
		return &Booking{
			ID:        "existing",
			PartID:    partID,
			StartTime: ts(11),
			EndTime:   ts(13),
			Status:    StatusApproved,
		}
	}

	t.Run("cancelled and rejected bookings never conflict", func(t *testing.T) {
		for _, status := range []Status{StatusCancelled, StatusRejected} {
			b := active(nil)
			b.Status = status
			assert.Nil(t, FirstConflict([]*Booking{b}, occ, nil))
		}
	})

	t.Run("pending bookings still occupy their slot", func(t *testing.T) {
		b := active(nil)
		b.Status = StatusPending
		assert.NotNil(t, FirstConflict([]*Booking{b}, occ, nil))
	})

	t.Run("non-overlapping booking does not conflict", func(t *testing.T) {
		b := active(nil)
		b.StartTime, b.EndTime = ts(12), ts(14) // starts exactly at occ end
		assert.Nil(t, FirstConflict([]*Booking{b}, occ, nil))
	})

	t.Run("whole-resource proposal conflicts with any part booking", func(t *testing.T) {
		b := active(strPtr("part-a"))
		got := FirstConflict([]*Booking{b}, occ, nil)
		require.NotNil(t, got)
		assert.Equal(t, "existing", got.ID)
	})

	t.Run("whole-resource existing booking conflicts with any proposal", func(t *testing.T) {
		b := active(nil)
		blocking := map[string]struct{}{"part-a": {}}
		assert.NotNil(t, FirstConflict([]*Booking{b}, occ, blocking))
	})

	t.Run("part booking conflicts only when in the blocking set", func(t *testing.T) {
		b := active(strPtr("part-a"))

		inSet := map[string]struct{}{"part-a": {}}
		assert.NotNil(t, FirstConflict([]*Booking{b}, occ, inSet))

		otherSet := map[string]struct{}{"part-b": {}}
		assert.Nil(t, FirstConflict([]*Booking{b}, occ, otherSet))
	})

	t.Run("returns the first blocking booking", func(t *testing.T) {
		first := active(nil)
		first.ID = "first"
		second := active(nil)
		second.ID = "second"

		got := FirstConflict([]*Booking{first, second}, occ, nil)
		require.NotNil(t, got)
		assert.Equal(t, "first", got.ID)
	})
}
