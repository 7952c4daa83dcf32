package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/domain"
)

// Accepted content types for event images.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type uploadService struct {
	storage        domain.FileStorage
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewUploadService creates an UploadService backed by the given file storage.
func NewUploadService(storage domain.FileStorage, eventRepo domain.EventRepository, timeout time.Duration) domain.UploadService {
	return &uploadService{
		storage:        storage,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *uploadService) UploadEventImage(ctx context.Context, p domain.Principal, eventID, filename, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, contentType)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}
	if !p.IsAdmin() && event.CreatedBy != p.UserID {
		return "", domain.ErrForbidden
	}

	key := eventImageKey(eventID, filename, ext)
	url, err := s.storage.Put(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	if err := s.eventRepo.SetImageURL(ctx, eventID, url); err != nil {
		return "", fmt.Errorf("record image url: %w", err)
	}
	return url, nil
}

func (s *uploadService) DeleteEventImage(ctx context.Context, p domain.Principal, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !p.IsAdmin() && event.CreatedBy != p.UserID {
		return domain.ErrForbidden
	}
	if event.ImageURL == "" {
		return domain.ErrNotFound
	}
	key := storageKeyFromURL(event.ImageURL)
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if err := s.eventRepo.SetImageURL(ctx, eventID, ""); err != nil {
		return fmt.Errorf("clear image url: %w", err)
	}
	return nil
}

// eventImageKey builds a collision-free object key under events/<id>/.
// The original filename is kept only as a sanitized suffix for operators
// browsing the bucket.
func eventImageKey(eventID, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("events/%s/%s-%s%s", eventID, uuid.NewString(), base, ext)
}

// storageKeyFromURL strips the scheme and bucket host, leaving the object key.
func storageKeyFromURL(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	if i := strings.Index(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
