package domain

import (
	"context"
	"io"
)

// FileStorage stores and deletes binary objects (infrastructure port).
// Implementations may use S3, local disk, etc.
type FileStorage interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// UploadService handles event image uploads.
type UploadService interface {
	// UploadEventImage stores the image, records its URL on the event, and
	// returns the URL. Only the event owner or an admin may upload.
	UploadEventImage(ctx context.Context, p Principal, eventID, filename, contentType string, body io.Reader) (string, error)
	DeleteEventImage(ctx context.Context, p Principal, eventID string) error
}
