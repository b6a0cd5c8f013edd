package domain

import "time"

// Reading statuses a shelf entry can carry.
const (
	StatusCurrent    = "Current"
	StatusFinished   = "Finished"
	StatusWantToRead = "Want to Read"
)

// ValidStatus reports whether s is one of the fixed reading statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusCurrent, StatusFinished, StatusWantToRead:
		return true
	}
	return false
}

// Book is the canonical record shared across all accounts. Records are
// deduplicated by CatalogID: the same physical book is one row no matter how
// many users shelve it. UserIDs is an informational back-reference only.
type Book struct {
	BookID       string    `json:"id" dynamodbav:"book_id"`
	Title        string    `json:"title" dynamodbav:"title"`
	Authors      []string  `json:"authors" dynamodbav:"authors"`
	ThumbnailURL string    `json:"thumbnail_url" dynamodbav:"thumbnail_url"`
	CatalogID    string    `json:"catalog_id" dynamodbav:"catalog_id"`
	// The stringset tag needs omitempty: an empty set must marshal as an
	// absent attribute, not NULL, so a later ADD can create the set.
	UserIDs      []string  `json:"-" dynamodbav:"user_ids,stringset,omitempty,omitemptyelem"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// ShelfEntry associates an account with a canonical book, together with the
// user's personal reading metadata. Keyed (user_id, book_id): one entry per
// account per book.
type ShelfEntry struct {
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	BookID     string    `json:"book_id" dynamodbav:"book_id"`
	Status     string    `json:"status" dynamodbav:"status"`
	TotalPages int       `json:"total_pages" dynamodbav:"total_pages"`
	Notes      string    `json:"notes" dynamodbav:"notes"`
	CoverKey   string    `json:"-" dynamodbav:"cover_key,omitempty"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}

type AddBookRequest struct {
	CatalogID    string   `json:"catalog_id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Authors      []string `json:"authors"`
	ThumbnailURL string   `json:"thumbnail_url"`
	TotalPages   int      `json:"total_pages" validate:"gte=0"`
}

// UpdateBookRequest is a sparse patch: nil fields are left untouched.
type UpdateBookRequest struct {
	Status     *string `json:"status"`
	TotalPages *int    `json:"total_pages" validate:"omitempty,gte=0"`
	Notes      *string `json:"notes"`
}

// BookView is a shelf entry joined with its canonical book, as returned by
// library listings.
type BookView struct {
	BookID       string   `json:"book_id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Status       string   `json:"status"`
}

// BookDetail is the combined single-book view: canonical fields, the account's
// personal metadata, and every daily entry for the pair, newest first.
type BookDetail struct {
	BookID       string      `json:"book_id"`
	Title        string      `json:"title"`
	Authors      []string    `json:"authors"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Status       string      `json:"status"`
	TotalPages   int         `json:"total_pages"`
	Notes        string      `json:"notes"`
	Dailies      []DailyView `json:"dailies"`
}
