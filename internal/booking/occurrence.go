package booking

import "time"

// RecurrenceType defines how a recurring booking repeats.
type RecurrenceType string

const (
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceBiweekly RecurrenceType = "biweekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
)

// MaxSeriesOccurrences bounds how many occurrences a single recurring
// request may generate, regardless of the recurrence end date.
const MaxSeriesOccurrences = 52

// ValidRecurrenceType reports whether t is a known recurrence type.
func ValidRecurrenceType(t RecurrenceType) bool {
	switch t {
	case RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Recurrence describes the repetition of a booking request.
// EndDate is inclusive: occurrences starting on EndDate (any time of day)
// are still generated.
type Recurrence struct {
	Type    RecurrenceType
	EndDate time.Time
}

// Occurrence is one concrete time slot derived from a booking request.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandOccurrences turns a booking request into its concrete occurrences.
// Without a recurrence the result is the single requested slot. With one,
// the start is advanced period by period until it passes the recurrence end
// date (inclusive through end of day) or the series cap is reached. Each
// occurrence keeps the requested slot's duration: only the start is
// advanced, so AddDate normalization on short months can never invert an
// interval. The first element is always the requested slot.
func ExpandOccurrences(start, end time.Time, rec *Recurrence) []Occurrence {
	if rec == nil {
		return []Occurrence{{Start: start, End: end}}
	}

	// Inclusive end date: anything up to 23:59:59.999... of that day counts.
	limit := endOfDay(rec.EndDate)
	duration := end.Sub(start)

	occurrences := make([]Occurrence, 0, 4)
	s := start

	for !s.After(limit) && len(occurrences) < MaxSeriesOccurrences {
		occurrences = append(occurrences, Occurrence{Start: s, End: s.Add(duration)})
		s = advance(s, rec.Type)
	}

	return occurrences
}

func advance(t time.Time, rt RecurrenceType) time.Time {
	switch rt {
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceBiweekly:
		return t.AddDate(0, 0, 14)
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
