package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookbuddy/server/internal/application/auth"
	"github.com/bookbuddy/server/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Register(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthSvc) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
func (m *mockAuthSvc) Login(ctx context.Context, req domain.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if res, _ := args.Get(0).(*auth.LoginResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) RefreshFromCredential(ctx context.Context, userID string) (*auth.LoginResult, error) {
	args := m.Called(ctx, userID)
	if res, _ := args.Get(0).(*auth.LoginResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAuthSvc) ResetPassword(ctx context.Context, token string, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, token, req).Error(0)
}

// --- helpers ---

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// --- Register tests ---

func TestRegister_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.AnythingOfType("domain.RegisterRequest")).Return(nil)

	rr := doJSON(t, NewAuthHandler(svc).Register, http.MethodPost, "/v1/auth/register",
		map[string]string{"email": "alice@example.com", "password": "secret123"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "check your inbox")
}

func TestRegister_InvalidBody(t *testing.T) {
	svc := &mockAuthSvc{}
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_ValidationFailure(t *testing.T) {
	svc := &mockAuthSvc{}

	rr := doJSON(t, NewAuthHandler(svc).Register, http.MethodPost, "/v1/auth/register",
		map[string]string{"email": "not-an-email", "password": "secret123"})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	rr := doJSON(t, NewAuthHandler(svc).Register, http.MethodPost, "/v1/auth/register",
		map[string]string{"email": "alice@example.com", "password": "secret123"})

	assert.Equal(t, http.StatusConflict, rr.Code)
}

// --- Login tests ---

func TestLogin_OK(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).Return(&auth.LoginResult{
		Bearer:   "bearer",
		Identity: domain.Identity{UserID: "u1", Email: "alice@example.com"},
	}, nil)

	rr := doJSON(t, NewAuthHandler(svc).Login, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": "alice@example.com", "password": "secret123"})

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Token string `json:"token"`
		User  struct {
			UserID string `json:"user_id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body.Token)
	assert.Equal(t, "u1", body.User.UserID)
}

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown email", domain.ErrNotFound, http.StatusNotFound},
		{"wrong password", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"unverified", domain.ErrUnverified, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAuthSvc{}
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tc.err)

			rr := doJSON(t, NewAuthHandler(svc).Login, http.MethodPost, "/v1/auth/login",
				map[string]string{"email": "alice@example.com", "password": "secret123"})

			assert.Equal(t, tc.code, rr.Code)
		})
	}
}

// --- VerifyEmail tests ---

func TestVerifyEmail_TokenFromPath(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyEmail", mock.Anything, "tok-123").Return(nil)

	r := chi.NewRouter()
	r.Post("/v1/auth/verify-email/{token}", NewAuthHandler(svc).VerifyEmail)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-email/tok-123", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertCalled(t, "VerifyEmail", mock.Anything, "tok-123")
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyEmail", mock.Anything, mock.Anything).Return(domain.ErrNotFound)

	r := chi.NewRouter()
	r.Post("/v1/auth/verify-email/{token}", NewAuthHandler(svc).VerifyEmail)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-email/gone", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- ResetPassword tests ---

func TestResetPassword_BadRequestMapsTo422(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("ResetPassword", mock.Anything, "tok", mock.Anything).Return(domain.ErrBadRequest)

	r := chi.NewRouter()
	r.Post("/v1/auth/reset-password/{token}", NewAuthHandler(svc).ResetPassword)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{
		"password": "newpass12", "confirm_password": "different",
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/reset-password/tok", &buf)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
