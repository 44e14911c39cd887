package resource

import (
	"net/http"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidDurations = apperror.New(http.StatusBadRequest, "min booking duration cannot exceed max booking duration")
)

// Stored sentinel values meaning "no limit". Kept for compatibility with
// existing rows; the domain API exposes them as nil durations instead.
const (
	UnlimitedMinMinutes = 0
	UnlimitedMaxMinutes = 9999
)

// Resource represents a bookable facility (e.g., Hall A, Court 2).
type Resource struct {
	ID                 string
	Name               string
	Description        string
	RequiresApproval   bool
	MinBookingMinutes  int
	MaxBookingMinutes  int
	AdvanceBookingDays int // 0 = bookable arbitrarily far ahead
	CreatedAt          time.Time
}

// MinDuration returns the minimum booking duration, or nil when the stored
// value is the "unlimited" sentinel.
func (r *Resource) MinDuration() *time.Duration {
	if r.MinBookingMinutes <= UnlimitedMinMinutes {
		return nil
	}
	d := time.Duration(r.MinBookingMinutes) * time.Minute
	return &d
}

// MaxDuration returns the maximum booking duration, or nil when the stored
// value is the "unlimited" sentinel.
func (r *Resource) MaxDuration() *time.Duration {
	if r.MaxBookingMinutes >= UnlimitedMaxMinutes {
		return nil
	}
	d := time.Duration(r.MaxBookingMinutes) * time.Minute
	return &d
}

// Filter defines parameters for listing resources.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
