package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time component, stored as YYYY-MM-DD.
// All arithmetic is done in UTC so a daily never drifts across midnight
// when clients sit in other timezones.
type Date string

// ParseDate validates and normalizes a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date must be in YYYY-MM-DD format: %w", ErrBadRequest)
	}
	return Date(t.UTC().Format(dateLayout)), nil
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return Date(time.Now().UTC().Format(dateLayout))
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t.UTC()
}

// AddDays returns the date shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date(d.Time().AddDate(0, 0, n).Format(dateLayout))
}

func (d Date) String() string { return string(d) }

// Daily is one page-progress entry. EntryKey is "<date>#<book_id>", the sort
// key under the user's partition: a keyed put on it is the whole
// one-entry-per-(user, book, date) invariant, and date-window reads are key
// range queries.
type Daily struct {
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	EntryKey    string    `json:"-" dynamodbav:"entry_key"`
	BookID      string    `json:"book_id" dynamodbav:"book_id"`
	Date        Date      `json:"date" dynamodbav:"date"`
	CurrentPage int       `json:"current_page" dynamodbav:"current_page"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// DailyKey builds the sort key for a (date, book) pair.
func DailyKey(date Date, bookID string) string {
	return string(date) + "#" + bookID
}

type UpsertDailyRequest struct {
	BookID      string `json:"book_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
	CurrentPage int    `json:"current_page" validate:"gte=0"`
}

type DeleteDailyRequest struct {
	BookID string `json:"book_id" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

// DailyView is a daily inflated with its book's summary fields.
type DailyView struct {
	BookID       string   `json:"book_id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Date         Date     `json:"date"`
	CurrentPage  int      `json:"current_page"`
}
