package cover

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/bookbuddy/server/internal/domain"
)

type UploadInput struct {
	UserID      string
	BookID      string
	Reader      io.Reader
	ContentType string
	Size        int64
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Cover, error)
	Download(ctx context.Context, userID, bookID string) (io.ReadCloser, *domain.Cover, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type coverStore interface {
	Put(ctx context.Context, c *domain.Cover) error
	Get(ctx context.Context, userID, bookID string) (*domain.Cover, error)
}

type shelfStore interface {
	Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error)
	Update(ctx context.Context, userID, bookID string, set map[string]interface{}) error
}

type service struct {
	objects objectStore
	covers  coverStore
	shelves shelfStore
}

type ServiceDeps struct {
	Objects objectStore
	Covers  coverStore
	Shelves shelfStore
}

func NewService(deps ServiceDeps) Service {
	return &service{objects: deps.Objects, covers: deps.Covers, shelves: deps.Shelves}
}

// Upload stores a cover image for a shelved book. The object key is
// deterministic per (user, book), so re-uploading replaces the old image.
func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Cover, error) {
	if _, err := s.shelves.Get(ctx, input.UserID, input.BookID); err != nil {
		return nil, fmt.Errorf("book not on shelf: %w", domain.ErrNotFound)
	}

	key := fmt.Sprintf("covers/%s/%s", input.UserID, input.BookID)
	hasher := sha256.New()
	tee := io.TeeReader(input.Reader, hasher)
	if _, err := s.objects.Upload(ctx, key, tee, input.ContentType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Cover{
		UserID:      input.UserID,
		BookID:      input.BookID,
		Object:      key,
		Size:        input.Size,
		ContentType: input.ContentType,
		Hash:        hex.EncodeToString(hasher.Sum(nil)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.covers.Put(ctx, c); err != nil {
		return nil, err
	}
	if err := s.shelves.Update(ctx, input.UserID, input.BookID, map[string]interface{}{"cover_key": key}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Download(ctx context.Context, userID, bookID string) (io.ReadCloser, *domain.Cover, error) {
	c, err := s.covers.Get(ctx, userID, bookID)
	if err != nil {
		return nil, nil, fmt.Errorf("cover not found: %w", domain.ErrNotFound)
	}
	body, err := s.objects.Download(ctx, c.Object)
	if err != nil {
		return nil, nil, err
	}
	return body, c, nil
}
