package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/bookbuddy/server/internal/domain"
)

// defaultWindowDays is the lookback for date-anchored queries.
const defaultWindowDays = 30

// RangeFilters narrows a generic listing. DateMin keeps only entries strictly
// after that date; BookID restricts to one book. Both optional.
type RangeFilters struct {
	DateMin domain.Date
	BookID  string
}

// DayView is the three-part answer to "how is reading going around this
// date": entries on the day itself, entries within the lookback window, and
// the books currently being read.
type DayView struct {
	DailiesMatch []domain.DailyView `json:"dailies_match"`
	DailiesRange []domain.DailyView `json:"dailies_range"`
	CurrentBooks []domain.BookView  `json:"current_books"`
}

type Service interface {
	UpsertDaily(ctx context.Context, userID string, req domain.UpsertDailyRequest) (*domain.DailyView, error)
	DeleteDaily(ctx context.Context, userID string, req domain.DeleteDailyRequest) (bool, error)
	QueryByDate(ctx context.Context, userID string, target domain.Date, windowDays int) (*DayView, error)
	QueryRange(ctx context.Context, userID string, f RangeFilters) ([]domain.DailyView, error)
}

type dailyStore interface {
	Upsert(ctx context.Context, d *domain.Daily) error
	Delete(ctx context.Context, userID string, date domain.Date, bookID string) (bool, error)
	QueryWindow(ctx context.Context, userID string, from, to domain.Date) ([]domain.Daily, error)
	QueryAfter(ctx context.Context, userID string, after domain.Date, bookID string) ([]domain.Daily, error)
}

type shelfStore interface {
	Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ShelfEntry, error)
}

type bookStore interface {
	Get(ctx context.Context, bookID string) (*domain.Book, error)
	GetMany(ctx context.Context, bookIDs []string) (map[string]*domain.Book, error)
}

type service struct {
	dailies dailyStore
	shelves shelfStore
	books   bookStore
}

type ServiceDeps struct {
	Dailies dailyStore
	Shelves shelfStore
	Books   bookStore
}

func NewService(deps ServiceDeps) Service {
	return &service{dailies: deps.Dailies, shelves: deps.Shelves, books: deps.Books}
}

// UpsertDaily writes or overwrites the single entry for (user, book, date).
// The book must be on the user's shelf: a daily against an unshelved book is
// rejected rather than silently orphaned.
func (s *service) UpsertDaily(ctx context.Context, userID string, req domain.UpsertDailyRequest) (*domain.DailyView, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.shelves.Get(ctx, userID, req.BookID); err != nil {
		return nil, fmt.Errorf("book not on shelf: %w", domain.ErrBadRequest)
	}
	book, err := s.books.Get(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Daily{
		UserID:      userID,
		EntryKey:    domain.DailyKey(date, req.BookID),
		BookID:      req.BookID,
		Date:        date,
		CurrentPage: req.CurrentPage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.dailies.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return &domain.DailyView{
		BookID:       book.BookID,
		Title:        book.Title,
		Authors:      book.Authors,
		ThumbnailURL: book.ThumbnailURL,
		Date:         date,
		CurrentPage:  req.CurrentPage,
	}, nil
}

// DeleteDaily removes the keyed entry. The bool reports whether anything
// existed; deleting an absent entry is not an error.
func (s *service) DeleteDaily(ctx context.Context, userID string, req domain.DeleteDailyRequest) (bool, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return false, err
	}
	return s.dailies.Delete(ctx, userID, date, req.BookID)
}

// QueryByDate answers for a target calendar day: the entries on that exact
// day, the entries within [target - windowDays, target], and the user's
// currently-read books. All day comparisons are UTC calendar days.
func (s *service) QueryByDate(ctx context.Context, userID string, target domain.Date, windowDays int) (*DayView, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	match, err := s.dailies.QueryWindow(ctx, userID, target, target)
	if err != nil {
		return nil, err
	}
	window, err := s.dailies.QueryWindow(ctx, userID, target.AddDays(-windowDays), target)
	if err != nil {
		return nil, err
	}

	matchViews, err := s.inflate(ctx, match)
	if err != nil {
		return nil, err
	}
	windowViews, err := s.inflate(ctx, window)
	if err != nil {
		return nil, err
	}
	current, err := s.currentBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DayView{
		DailiesMatch: matchViews,
		DailiesRange: windowViews,
		CurrentBooks: current,
	}, nil
}

// QueryRange is the generic listing: optional strictly-after date floor,
// optional single-book restriction, newest first.
func (s *service) QueryRange(ctx context.Context, userID string, f RangeFilters) ([]domain.DailyView, error) {
	dailies, err := s.dailies.QueryAfter(ctx, userID, f.DateMin, f.BookID)
	if err != nil {
		return nil, err
	}
	return s.inflate(ctx, dailies)
}

// inflate joins daily rows with their books' summary fields.
func (s *service) inflate(ctx context.Context, dailies []domain.Daily) ([]domain.DailyView, error) {
	views := make([]domain.DailyView, 0, len(dailies))
	if len(dailies) == 0 {
		return views, nil
	}

	seen := map[string]bool{}
	var ids []string
	for _, d := range dailies {
		if !seen[d.BookID] {
			seen[d.BookID] = true
			ids = append(ids, d.BookID)
		}
	}
	books, err := s.books.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, d := range dailies {
		v := domain.DailyView{
			BookID:      d.BookID,
			Date:        d.Date,
			CurrentPage: d.CurrentPage,
		}
		if b, ok := books[d.BookID]; ok {
			v.Title = b.Title
			v.Authors = b.Authors
			v.ThumbnailURL = b.ThumbnailURL
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *service) currentBooks(ctx context.Context, userID string) ([]domain.BookView, error) {
	entries, err := s.shelves.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.BookView, 0)
	if len(entries) == 0 {
		return views, nil
	}

	var ids []string
	for _, e := range entries {
		if e.Status == domain.StatusCurrent {
			ids = append(ids, e.BookID)
		}
	}
	if len(ids) == 0 {
		return views, nil
	}
	books, err := s.books.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		b, ok := books[e.BookID]
		if !ok || e.Status != domain.StatusCurrent {
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
