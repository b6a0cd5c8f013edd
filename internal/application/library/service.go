package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookbuddy/server/internal/domain"
	"github.com/bookbuddy/server/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldStatus     = "status"
	fieldTotalPages = "total_pages"
	fieldNotes      = "notes"
)

// Filters narrows a library listing. Both filters compose with logical AND.
type Filters struct {
	Status string // exact status match
	Query  string // case-insensitive substring match against the title
}

type Service interface {
	ListBooks(ctx context.Context, userID string, f Filters) ([]domain.BookView, error)
	AddBook(ctx context.Context, userID string, req domain.AddBookRequest) (*domain.BookView, error)
	GetBook(ctx context.Context, userID, bookID string) (*domain.BookDetail, error)
	UpdateBook(ctx context.Context, userID, bookID string, req domain.UpdateBookRequest) (*domain.BookDetail, error)
	RemoveBook(ctx context.Context, userID, bookID string) error
}

type bookStore interface {
	Put(ctx context.Context, b *domain.Book) error
	Get(ctx context.Context, bookID string) (*domain.Book, error)
	GetByCatalogID(ctx context.Context, catalogID string) (*domain.Book, error)
	GetMany(ctx context.Context, bookIDs []string) (map[string]*domain.Book, error)
	AddUserRef(ctx context.Context, bookID, userID string) error
	RemoveUserRef(ctx context.Context, bookID, userID string) error
}

type shelfStore interface {
	Put(ctx context.Context, e *domain.ShelfEntry) error
	Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ShelfEntry, error)
	Update(ctx context.Context, userID, bookID string, set map[string]interface{}) error
	Delete(ctx context.Context, userID, bookID string) error
}

type dailyStore interface {
	ListByBook(ctx context.Context, userID, bookID string) ([]domain.Daily, error)
}

type service struct {
	books   bookStore
	shelves shelfStore
	dailies dailyStore
}

type ServiceDeps struct {
	Books   bookStore
	Shelves shelfStore
	Dailies dailyStore
}

func NewService(deps ServiceDeps) Service {
	return &service{books: deps.Books, shelves: deps.Shelves, dailies: deps.Dailies}
}

// ListBooks joins the user's shelf with the canonical books and applies the
// filters. An empty shelf, or filters matching nothing, returns an empty
// slice, not an error.
func (s *service) ListBooks(ctx context.Context, userID string, f Filters) ([]domain.BookView, error) {
	entries, err := s.shelves.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []domain.BookView{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BookID)
	}
	books, err := s.books.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]domain.BookView, 0, len(entries))
	for _, e := range entries {
		b, ok := books[e.BookID]
		if !ok {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(f.Query)) {
			continue
		}
		views = append(views, domain.BookView{
			BookID:       b.BookID,
			Title:        b.Title,
			Authors:      b.Authors,
			ThumbnailURL: b.ThumbnailURL,
			Status:       e.Status,
		})
	}
	return views, nil
}

// AddBook find-or-creates the canonical book by catalog id and the shelf
// entry by (user, book). Re-adding a book the user already shelved is a
// no-op that returns the existing association.
func (s *service) AddBook(ctx context.Context, userID string, req domain.AddBookRequest) (*domain.BookView, error) {
	book, err := s.books.GetByCatalogID(ctx, req.CatalogID)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now().UTC()
		book = &domain.Book{
			BookID:       id.New(),
			Title:        req.Title,
			Authors:      req.Authors,
			ThumbnailURL: req.ThumbnailURL,
			CatalogID:    req.CatalogID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.books.Put(ctx, book); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	entry, err := s.shelves.Get(ctx, userID, book.BookID)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now().UTC()
		entry = &domain.ShelfEntry{
			UserID:     userID,
			BookID:     book.BookID,
			Status:     domain.StatusCurrent,
			TotalPages: req.TotalPages,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.shelves.Put(ctx, entry); err != nil {
			return nil, err
		}
		// Back-reference set union is idempotent: a retry after a partial
		// failure converges instead of duplicating.
		if err := s.books.AddUserRef(ctx, book.BookID, userID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &domain.BookView{
		BookID:       book.BookID,
		Title:        book.Title,
		Authors:      book.Authors,
		ThumbnailURL: book.ThumbnailURL,
		Status:       entry.Status,
	}, nil
}

// GetBook returns the combined detail view: canonical fields, the user's
// association, and every daily for the pair newest first.
func (s *service) GetBook(ctx context.Context, userID, bookID string) (*domain.BookDetail, error) {
	entry, err := s.shelves.Get(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("book not on shelf: %w", domain.ErrNotFound)
	}
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	dailies, err := s.dailies.ListByBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.DailyView, 0, len(dailies))
	for _, d := range dailies {
		views = append(views, domain.DailyView{
			BookID:       book.BookID,
			Title:        book.Title,
			Authors:      book.Authors,
			ThumbnailURL: book.ThumbnailURL,
			Date:         d.Date,
			CurrentPage:  d.CurrentPage,
		})
	}
	return &domain.BookDetail{
		BookID:       book.BookID,
		Title:        book.Title,
		Authors:      book.Authors,
		ThumbnailURL: book.ThumbnailURL,
		Status:       entry.Status,
		TotalPages:   entry.TotalPages,
		Notes:        entry.Notes,
		Dailies:      views,
	}, nil
}

// UpdateBook applies a sparse patch to the association's mutable fields.
// Only supplied fields change; everything else is untouched.
func (s *service) UpdateBook(ctx context.Context, userID, bookID string, req domain.UpdateBookRequest) (*domain.BookDetail, error) {
	if _, err := s.shelves.Get(ctx, userID, bookID); err != nil {
		return nil, fmt.Errorf("book not on shelf: %w", domain.ErrNotFound)
	}

	set := map[string]interface{}{}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status %q: %w", *req.Status, domain.ErrBadRequest)
		}
		set[fieldStatus] = *req.Status
	}
	if req.TotalPages != nil {
		set[fieldTotalPages] = *req.TotalPages
	}
	if req.Notes != nil {
		set[fieldNotes] = *req.Notes
	}
	if len(set) > 0 {
		if err := s.shelves.Update(ctx, userID, bookID, set); err != nil {
			return nil, err
		}
	}
	return s.GetBook(ctx, userID, bookID)
}

// RemoveBook detaches the association and drops the back-reference. The
// canonical book record stays even when nobody references it anymore.
// Idempotent: removing an absent association succeeds quietly.
func (s *service) RemoveBook(ctx context.Context, userID, bookID string) error {
	if err := s.shelves.Delete(ctx, userID, bookID); err != nil {
		return err
	}
	return s.books.RemoveUserRef(ctx, bookID, userID)
}
