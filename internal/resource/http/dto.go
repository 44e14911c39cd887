package http

import (
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/request"
	"github.com/Nyggen1981/arena-booking-sub002/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Keyword string `form:"keyword"`
}

// Validate performs custom validation for ListResourcesRequest.
func (r *ListResourcesRequest) Validate() error {
	return nil
}

type ResourceResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	RequiresApproval   bool      `json:"requires_approval"`
	MinBookingMinutes  *int      `json:"min_booking_minutes"` // null = unlimited
	MaxBookingMinutes  *int      `json:"max_booking_minutes"` // null = unlimited
	AdvanceBookingDays int       `json:"advance_booking_days"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	resp := ResourceResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		RequiresApproval:   r.RequiresApproval,
		AdvanceBookingDays: r.AdvanceBookingDays,
		CreatedAt:          r.CreatedAt,
	}
	// Expose the sentinels as nulls on the wire.
	if r.MinBookingMinutes > resource.UnlimitedMinMinutes {
		min := r.MinBookingMinutes
		resp.MinBookingMinutes = &min
	}
	if r.MaxBookingMinutes < resource.UnlimitedMaxMinutes {
		max := r.MaxBookingMinutes
		resp.MaxBookingMinutes = &max
	}
	return resp
}

type CreateBody struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	RequiresApproval   bool   `json:"requires_approval"`
	MinBookingMinutes  *int   `json:"min_booking_minutes" binding:"omitempty,min=0"`
	MaxBookingMinutes  *int   `json:"max_booking_minutes" binding:"omitempty,min=1"`
	AdvanceBookingDays *int   `json:"advance_booking_days" binding:"omitempty,min=0"`
}

// Validate performs custom validation for CreateBody.
func (r *CreateBody) Validate() error {
	return nil
}

type UpdateBody struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	RequiresApproval   *bool   `json:"requires_approval"`
	MinBookingMinutes  *int    `json:"min_booking_minutes" binding:"omitempty,min=0"`
	MaxBookingMinutes  *int    `json:"max_booking_minutes" binding:"omitempty,min=1"`
	AdvanceBookingDays *int    `json:"advance_booking_days" binding:"omitempty,min=0"`
}

// Validate performs custom validation for UpdateBody.
func (r *UpdateBody) Validate() error {
	return nil
}
