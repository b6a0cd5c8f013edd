package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bookbuddy/server/internal/application/daily"
	"github.com/bookbuddy/server/internal/domain"
	"github.com/bookbuddy/server/internal/pkg/validate"
	"github.com/bookbuddy/server/internal/transport/http/middleware"
)

// DailyHandler handles the reading-progress endpoints.
type DailyHandler struct {
	svc daily.Service
}

func NewDailyHandler(svc daily.Service) *DailyHandler { return &DailyHandler{svc: svc} }

func (h *DailyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpsertDailyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	view, err := h.svc.UpsertDaily(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Query serves two shapes depending on the query string. With ?date= it
// returns the day view (entries on the day, entries in the lookback window,
// current books). Otherwise it returns a flat list filtered by ?date_min=
// and ?book_id=.
func (h *DailyHandler) Query(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	q := r.URL.Query()

	if raw := q.Get("date"); raw != "" {
		target, err := domain.ParseDate(raw)
		if err != nil {
			httpError(w, err)
			return
		}
		windowDays := 0
		if rawWindow := q.Get("window_days"); rawWindow != "" {
			if windowDays, err = strconv.Atoi(rawWindow); err != nil || windowDays < 0 {
				writeError(w, http.StatusUnprocessableEntity, "window_days must be a non-negative integer")
				return
			}
		}
		view, err := h.svc.QueryByDate(r.Context(), claims.UserID, target, windowDays)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	filters := daily.RangeFilters{BookID: q.Get("book_id")}
	if raw := q.Get("date_min"); raw != "" {
		min, err := domain.ParseDate(raw)
		if err != nil {
			httpError(w, err)
			return
		}
		filters.DateMin = min
	}
	views, err := h.svc.QueryRange(r.Context(), claims.UserID, filters)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *DailyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.DeleteDailyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	existed, err := h.svc.DeleteDaily(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	if !existed {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Nothing to delete"})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "daily removed"})
}
