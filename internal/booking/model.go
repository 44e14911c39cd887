package booking

import (
	"net/http"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrResourceNotFound  = apperror.New(http.StatusNotFound, "resource not found")
	ErrPartNotFound      = apperror.New(http.StatusNotFound, "part not found for this resource")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrInvalidRecurrence = apperror.New(http.StatusBadRequest, "invalid recurrence")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrTooShort          = apperror.New(http.StatusBadRequest, "booking is shorter than the resource's minimum duration")
	ErrTooLong           = apperror.New(http.StatusBadRequest, "booking is longer than the resource's maximum duration")
	ErrTooFarAhead       = apperror.New(http.StatusBadRequest, "booking is beyond the resource's advance booking window")
	ErrTitleRequired     = apperror.New(http.StatusBadRequest, "title is required")
	ErrLicenseDenied     = apperror.New(http.StatusForbidden, "booking not permitted by license")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrNotPending        = apperror.New(http.StatusConflict, "booking is not pending approval")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Active reports whether a booking in this status still occupies its time
// slot. Rejected and cancelled bookings never conflict with anything.
func (s Status) Active() bool {
	return s != StatusRejected && s != StatusCancelled
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Booking is one reservation of a resource, or of one of its parts.
// A nil PartID means the whole resource is booked.
type Booking struct {
	ID           string
	ResourceID   string
	ResourceName string
	PartID       *string
	PartName     *string
	UserID       string
	UserName     string
	Title        string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status

	// Recurrence linkage. The root booking of a series carries the
	// recurrence descriptor; children point back via ParentBookingID.
	IsRecurring       bool
	RecurrenceType    *RecurrenceType
	RecurrenceEndDate *time.Time
	ParentBookingID   *string

	TotalPrice *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID     string
	ResourceID string
	PartID     string
	Status     string
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
