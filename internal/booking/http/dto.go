package http

import (
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/booking"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	PartID        string     `form:"part_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	UserID        string     `form:"user_id" binding:"omitempty,uuid"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.StartTimeFrom != nil && r.StartTimeTo != nil {
		if r.StartTimeFrom.After(*r.StartTimeTo) {
			return booking.ErrInvalidTimeRange
		}
	}
	return nil
}

// RecurrenceBody describes the optional recurrence of a create request.
type RecurrenceBody struct {
	Type    string    `json:"type" binding:"required,oneof=weekly biweekly monthly"`
	EndDate time.Time `json:"end_date" binding:"required"`
}

type CreateBookingBody struct {
	ResourceID string          `json:"resource_id" binding:"required,uuid"`
	PartIDs    []string        `json:"part_ids" binding:"omitempty,dive,uuid"`
	Title      string          `json:"title" binding:"required"`
	StartTime  time.Time       `json:"start_time" binding:"required"`
	EndTime    time.Time       `json:"end_time" binding:"required"`
	Recurrence *RecurrenceBody `json:"recurrence"`
}

// Validate performs custom validation for CreateBookingBody.
func (r *CreateBookingBody) Validate() error {
	if !r.EndTime.After(r.StartTime) {
		return booking.ErrInvalidTimeRange
	}
	if r.Recurrence != nil && r.Recurrence.EndDate.Before(r.StartTime) {
		return booking.ErrInvalidRecurrence
	}
	return nil
}

type RescheduleBookingBody struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Validate performs custom validation for RescheduleBookingBody.
func (r *RescheduleBookingBody) Validate() error {
	if !r.EndTime.After(r.StartTime) {
		return booking.ErrInvalidTimeRange
	}
	return nil
}

type BookingResponse struct {
	ID                string     `json:"id"`
	ResourceID        string     `json:"resource_id"`
	ResourceName      string     `json:"resource_name"`
	PartID            *string    `json:"part_id"`
	PartName          *string    `json:"part_name"`
	UserID            string     `json:"user_id"`
	UserName          string     `json:"user_name"`
	Title             string     `json:"title"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	Status            string     `json:"status"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrenceType    *string    `json:"recurrence_type,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date,omitempty"`
	ParentBookingID   *string    `json:"parent_booking_id,omitempty"`
	TotalPrice        *float64   `json:"total_price,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	var recType *string
	if b.RecurrenceType != nil {
		t := string(*b.RecurrenceType)
		recType = &t
	}
	return BookingResponse{
		ID:                b.ID,
		ResourceID:        b.ResourceID,
		ResourceName:      b.ResourceName,
		PartID:            b.PartID,
		PartName:          b.PartName,
		UserID:            b.UserID,
		UserName:          b.UserName,
		Title:             b.Title,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            string(b.Status),
		IsRecurring:       b.IsRecurring,
		RecurrenceType:    recType,
		RecurrenceEndDate: b.RecurrenceEndDate,
		ParentBookingID:   b.ParentBookingID,
		TotalPrice:        b.TotalPrice,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// CreateBookingResponse wraps the created batch.
type CreateBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Count    int               `json:"count"`
}

// PurgeResponse reports how many rows an admin purge removed.
type PurgeResponse struct {
	Purged int64 `json:"purged"`
}
