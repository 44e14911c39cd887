package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandOccurrences(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no recurrence yields the single requested slot", func(t *testing.T) {
		got := ExpandOccurrences(start, end, nil)
		require.Len(t, got, 1)
		assert.Equal(t, start, got[0].Start)
		assert.Equal(t, end, got[0].End)
	})

	t.Run("weekly with inclusive end date", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: time.Date(2026, 1, 22, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		require.Len(t, got, 4)

		// Jan 1, 8, 15, 22. The last occurrence starts at 10:00 on the end
		// date itself and must still be generated.
		assert.Equal(t, time.Date(2026, 1, 22, 10, 0, 0, 0, time.UTC), got[3].Start)
		assert.Equal(t, time.Date(2026, 1, 22, 12, 0, 0, 0, time.UTC), got[3].End)

		for _, occ := range got {
			assert.Equal(t, 2*time.Hour, occ.End.Sub(occ.Start))
		}
	})

	t.Run("weekly stops before end date when next slot passes it", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		require.Len(t, got, 3) // Jan 1, 8, 15
	})

	t.Run("biweekly advances fourteen days", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceBiweekly,
			EndDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		require.Len(t, got, 3) // Jan 1, 15, 29
		assert.Equal(t, time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC), got[2].Start)
	})

	t.Run("monthly advances by calendar month", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceMonthly,
			EndDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		require.Len(t, got, 4) // Jan 1, Feb 1, Mar 1, Apr 1
		assert.Equal(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), got[3].Start)
	})

	t.Run("monthly keeps the duration when the slot spans a month boundary", func(t *testing.T) {
		// A slot starting late on the 31st: AddDate normalizes Jan 31 +1
		// month to Mar 3. The end must follow the start by the original
		// duration instead of being advanced on its own, which would land
		// on Mar 1 and invert the interval.
		s := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
		e := time.Date(2026, 2, 1, 1, 0, 0, 0, time.UTC)
		rec := &Recurrence{
			Type:    RecurrenceMonthly,
			EndDate: time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(s, e, rec)
		require.Len(t, got, 3) // Jan 31, Mar 3, Apr 3

		for _, occ := range got {
			assert.True(t, occ.End.After(occ.Start))
			assert.Equal(t, 2*time.Hour, occ.End.Sub(occ.Start))
		}
		assert.Equal(t, time.Date(2026, 3, 3, 23, 0, 0, 0, time.UTC), got[1].Start)
		assert.Equal(t, time.Date(2026, 3, 4, 1, 0, 0, 0, time.UTC), got[1].End)
	})

	t.Run("series is capped regardless of end date", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: time.Date(2036, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		assert.Len(t, got, MaxSeriesOccurrences)
	})

	t.Run("end date before start yields no occurrences", func(t *testing.T) {
		rec := &Recurrence{
			Type:    RecurrenceWeekly,
			EndDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		}

		got := ExpandOccurrences(start, end, rec)
		assert.Empty(t, got)
	})
}

func TestValidRecurrenceType(t *testing.T) {
	assert.True(t, ValidRecurrenceType(RecurrenceWeekly))
	assert.True(t, ValidRecurrenceType(RecurrenceBiweekly))
	assert.True(t, ValidRecurrenceType(RecurrenceMonthly))
	assert.False(t, ValidRecurrenceType("daily"))
	assert.False(t, ValidRecurrenceType(""))
}
