package domain

import "time"

type User struct {
	UserID       string `json:"id" dynamodbav:"user_id"`
	Email        string `json:"email" dynamodbav:"email"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool   `json:"is_verified" dynamodbav:"is_verified"`
	// VerifyToken is set at registration and removed once the email is
	// confirmed. ResetToken/ResetTokenExpires are set by a password reset
	// request and removed when the reset completes. All three carry omitempty
	// so cleared tokens drop out of their GSIs instead of indexing "".
	VerifyToken       string    `json:"-" dynamodbav:"verify_token,omitempty"`
	ResetToken        string    `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetTokenExpires int64     `json:"-" dynamodbav:"reset_token_expires,omitempty"` // Unix seconds
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Identity is the authenticated principal carried by a bearer credential.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}
