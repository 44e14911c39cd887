package part

import (
	"net/http"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "part not found")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrParentMismatch   = apperror.New(http.StatusBadRequest, "parent part must belong to the same resource")
	ErrParentCycle      = apperror.New(http.StatusBadRequest, "part cannot be its own ancestor")
)

// Part represents a bookable sub-unit of a resource (e.g., the left half
// of a hall). A part may reference a parent part of the same resource.
type Part struct {
	ID         string
	ResourceID string
	Name       string
	ParentID   *string
	CreatedAt  time.Time
}

// Filter defines parameters for listing parts.
type Filter struct {
	ResourceID string
	Page       int
	PageSize   int
}
