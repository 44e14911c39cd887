package http

import (
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/part"
)

type PartResponse struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	Name       string    `json:"name"`
	ParentID   *string   `json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewResponse(p *part.Part) PartResponse {
	return PartResponse{
		ID:         p.ID,
		ResourceID: p.ResourceID,
		Name:       p.Name,
		ParentID:   p.ParentID,
		CreatedAt:  p.CreatedAt,
	}
}

type CreateBody struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

type UpdateBody struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
	// ClearParent detaches the part from its parent.
	ClearParent bool `json:"clear_parent"`
}
