package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookbuddy/server/internal/domain"
	"github.com/bookbuddy/server/internal/pkg/id"
	pkgtoken "github.com/bookbuddy/server/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldIsVerified        = "is_verified"
	fieldVerifyToken       = "verify_token"
	fieldResetToken        = "reset_token"
	fieldResetTokenExpires = "reset_token_expires"
	fieldPasswordHash      = "password_hash"
)

// LoginResult carries the issued bearer credential and the identity it proves.
type LoginResult struct {
	Bearer   string          `json:"token"`
	Identity domain.Identity `json:"user"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	RefreshFromCredential(ctx context.Context, userID string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, req domain.ResetPasswordRequest) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerifyToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, set map[string]interface{}, remove ...string) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type signer interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	users         userStore
	mailer        mailer
	signer        signer
	clientURL     string
	resetTokenTTL time.Duration
}

type ServiceDeps struct {
	Users         userStore
	Mailer        mailer
	Signer        signer
	ClientURL     string
	ResetTokenTTL time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:         deps.Users,
		mailer:        deps.Mailer,
		signer:        deps.Signer,
		clientURL:     deps.ClientURL,
		resetTokenTTL: deps.ResetTokenTTL,
	}
}

// Register creates an unverified account and emails a verification link.
// The response never carries the token; it only travels by email.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) error {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	verifyToken, err := pkgtoken.New()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		IsVerified:   false,
		VerifyToken:  verifyToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}

	s.sendEmail(u.Email, "Confirm your new BookBuddy account",
		"Welcome to BookBuddy!\n\nPlease confirm your new account:\n\n"+
			s.clientURL+"/auth/verify-email/"+verifyToken+"\n")
	return nil
}

// VerifyEmail consumes a verification token: the account becomes verified and
// the token is removed, so a replay finds no match and fails.
func (s *service) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.users.GetByVerifyToken(ctx, token)
	if err != nil {
		return fmt.Errorf("verification token not found: %w", domain.ErrNotFound)
	}
	return s.users.Update(ctx, u.UserID,
		map[string]interface{}{fieldIsVerified: true},
		fieldVerifyToken,
	)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("no user with that email: %w", domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("wrong password: %w", domain.ErrUnauthorized)
	}
	if !u.IsVerified {
		return nil, fmt.Errorf("confirm your email address first: %w", domain.ErrUnverified)
	}
	return s.issue(u)
}

// RefreshFromCredential re-issues a bearer for an identity that already
// proved itself with a valid credential.
func (s *service) RefreshFromCredential(ctx context.Context, userID string) (*LoginResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issue(u)
}

// RequestPasswordReset stores a fresh time-boxed reset token and emails the
// reset link. A repeated request overwrites the previous token, so only the
// most recent one is ever honored.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account with that email: %w", domain.ErrNotFound)
	}
	resetToken, err := pkgtoken.New()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.resetTokenTTL).Unix()
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		fieldResetToken:        resetToken,
		fieldResetTokenExpires: expires,
	}); err != nil {
		return err
	}

	s.sendEmail(u.Email, "Reset Password",
		"You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n"+
			"Please click on the following link, or paste this into your browser to complete the process:\n"+
			s.clientURL+"/auth/reset-password/"+resetToken+"\n\n"+
			"If you did not request this, please ignore this email and your password will remain unchanged.\n")
	return nil
}

// ResetPassword consumes a reset token. The confirm-password check runs before
// the token is touched: a mismatch must not burn a still-valid token.
func (s *service) ResetPassword(ctx context.Context, token string, req domain.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match: %w", domain.ErrBadRequest)
	}
	u, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("reset token expired or invalid: %w", domain.ErrUnauthorized)
	}
	if u.ResetTokenExpires < time.Now().Unix() {
		return fmt.Errorf("reset token expired or invalid: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, u.UserID,
		map[string]interface{}{fieldPasswordHash: string(hash)},
		fieldResetToken, fieldResetTokenExpires,
	); err != nil {
		return err
	}

	s.sendEmail(u.Email, "Password Changed",
		"You are receiving this email because you changed your password.\n\n"+
			"If you did not request this change, please contact us immediately.\n")
	return nil
}

func (s *service) issue(u *domain.User) (*LoginResult, error) {
	bearer, err := s.signer.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Bearer:   bearer,
		Identity: domain.Identity{UserID: u.UserID, Email: u.Email},
	}, nil
}

// sendEmail is fire-and-forget: delivery failures are logged, never surfaced
// as a request failure.
func (s *service) sendEmail(to, subject, body string) {
	if err := s.mailer.SendEmail(to, subject, body); err != nil {
		slog.Error("failed to send email", "to", to, "subject", subject, "err", err)
	}
}
