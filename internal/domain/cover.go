package domain

import "time"

// Cover is the stored metadata for a user-uploaded cover image. The image
// bytes live in object storage under Object; one cover per (user, book).
type Cover struct {
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	BookID      string    `json:"book_id" dynamodbav:"book_id"`
	Object      string    `json:"-" dynamodbav:"object"`
	Size        int64     `json:"size" dynamodbav:"size"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	Hash        string    `json:"hash" dynamodbav:"hash"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}
