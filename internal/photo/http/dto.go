package http

import (
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/photo"
)

// PhotoResponse is the shape of photo metadata returned in API responses.
type PhotoResponse struct {
	ID           string    `json:"id"`
	ResourceID   string    `json:"resource_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPhotoResponse converts a domain photo.Photo to a PhotoResponse.
func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	var thumbURL *string
	if p.ThumbnailPath != nil {
		u := photo.ThumbnailURL(p.ID)
		thumbURL = &u
	}

	return PhotoResponse{
		ID:           p.ID,
		ResourceID:   p.ResourceID,
		Filename:     p.Filename,
		ContentType:  p.ContentType,
		Size:         p.Size,
		URL:          photo.PhotoURL(p.ID),
		ThumbnailURL: thumbURL,
		CreatedAt:    p.CreatedAt,
	}
}

// ListPhotosResponse wraps the photos attached to a resource.
type ListPhotosResponse struct {
	Photos []PhotoResponse `json:"photos"`
}
