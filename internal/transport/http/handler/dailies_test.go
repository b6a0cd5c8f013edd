package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookbuddy/server/internal/application/daily"
	"github.com/bookbuddy/server/internal/domain"
	jwtinfra "github.com/bookbuddy/server/internal/infrastructure/jwt"
	"github.com/bookbuddy/server/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockDailySvc struct{ mock.Mock }

func (m *mockDailySvc) UpsertDaily(ctx context.Context, userID string, req domain.UpsertDailyRequest) (*domain.DailyView, error) {
	args := m.Called(ctx, userID, req)
	if v, _ := args.Get(0).(*domain.DailyView); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDailySvc) DeleteDaily(ctx context.Context, userID string, req domain.DeleteDailyRequest) (bool, error) {
	args := m.Called(ctx, userID, req)
	return args.Bool(0), args.Error(1)
}
func (m *mockDailySvc) QueryByDate(ctx context.Context, userID string, target domain.Date, windowDays int) (*daily.DayView, error) {
	args := m.Called(ctx, userID, target, windowDays)
	if v, _ := args.Get(0).(*daily.DayView); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDailySvc) QueryRange(ctx context.Context, userID string, f daily.RangeFilters) ([]domain.DailyView, error) {
	args := m.Called(ctx, userID, f)
	if vs, _ := args.Get(0).([]domain.DailyView); vs != nil {
		return vs, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	claims := &jwtinfra.Claims{UserID: "user-1", Email: "alice@example.com"}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
}

// --- Delete tests ---

func TestDeleteDaily_Removed(t *testing.T) {
	svc := &mockDailySvc{}
	svc.On("DeleteDaily", mock.Anything, "user-1",
		domain.DeleteDailyRequest{BookID: "book-1", Date: "2024-03-15"}).Return(true, nil)

	req := authedRequest(t, http.MethodDelete, "/v1/dailies",
		map[string]string{"book_id": "book-1", "date": "2024-03-15"})
	rr := httptest.NewRecorder()
	NewDailyHandler(svc).Delete(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "daily removed")
}

func TestDeleteDaily_AbsentEntryStillOK(t *testing.T) {
	svc := &mockDailySvc{}
	svc.On("DeleteDaily", mock.Anything, "user-1", mock.Anything).Return(false, nil)

	req := authedRequest(t, http.MethodDelete, "/v1/dailies",
		map[string]string{"book_id": "book-1", "date": "2024-03-15"})
	rr := httptest.NewRecorder()
	NewDailyHandler(svc).Delete(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Nothing to delete")
}

func TestDeleteDaily_BadDateMapsTo422(t *testing.T) {
	svc := &mockDailySvc{}
	svc.On("DeleteDaily", mock.Anything, "user-1", mock.Anything).Return(false, domain.ErrBadRequest)

	req := authedRequest(t, http.MethodDelete, "/v1/dailies",
		map[string]string{"book_id": "book-1", "date": "15/03/2024"})
	rr := httptest.NewRecorder()
	NewDailyHandler(svc).Delete(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
