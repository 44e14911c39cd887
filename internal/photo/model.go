package photo

import (
	"net/http"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "photo not found")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, "resource not found")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, "uploaded file must be an image")
	ErrNoThumbnail      = apperror.New(http.StatusNotFound, "thumbnail not available for this photo")
)

// Photo represents an image attached to a resource.
type Photo struct {
	ID            string    `json:"id"`
	ResourceID    string    `json:"resource_id"`
	UploaderID    string    `json:"uploader_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// PhotoURL returns the public URL for accessing a photo by its ID.
func PhotoURL(id string) string {
	return "/photos/" + id
}

// ThumbnailURL returns the public URL for accessing a photo's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/photos/" + id + "/thumbnail"
}
