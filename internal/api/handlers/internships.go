package handlers

import (
	"context"
	"net/http"

	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/internships"
)

type InternshipsService interface {
	List(ctx context.Context) ([]internships.Internship, error)
	Get(ctx context.Context, id int64) (*internships.Internship, error)
	Post(ctx context.Context, caller auth.Identity, params internships.PostParams) (*internships.Internship, error)
}

type InternshipsHandler struct {
	service InternshipsService
	env     string
}

func NewInternshipsHandler(service InternshipsService, env string) *InternshipsHandler {
	return &InternshipsHandler{service: service, env: env}
}

// List handles GET /api/internships, newest first.
func (h *InternshipsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/internships/{id}
func (h *InternshipsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, internships.ErrNotFound, h.env)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Post handles POST /api/internships (industry and admin)
func (h *InternshipsHandler) Post(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	var req internships.PostParams
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.env)
		return
	}

	item, err := h.service.Post(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
