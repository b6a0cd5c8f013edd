package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bookbuddy/server/internal/application/cover"
	"github.com/bookbuddy/server/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

const maxCoverBytes = 5 << 20

// CoverHandler handles cover image upload and download.
type CoverHandler struct {
	svc cover.Service
}

func NewCoverHandler(svc cover.Service) *CoverHandler { return &CoverHandler{svc: svc} }

func (h *CoverHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	file, header, err := r.FormFile("cover")
	if err != nil {
		writeError(w, http.StatusBadRequest, "cover file is required")
		return
	}
	defer file.Close()

	if header.Size > maxCoverBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "cover exceeds 5MB limit")
		return
	}
	c, err := h.svc.Upload(r.Context(), cover.UploadInput{
		UserID:      claims.UserID,
		BookID:      chi.URLParam(r, "id"),
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CoverHandler) Download(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	body, c, err := h.svc.Download(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", c.ContentType)
	if c.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(c.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
