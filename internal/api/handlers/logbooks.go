package handlers

import (
	"context"
	"net/http"

	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/logbooks"
)

type LogbooksService interface {
	Create(ctx context.Context, caller auth.Identity, params logbooks.CreateParams) (*logbooks.Entry, error)
	ListForInternship(ctx context.Context, caller auth.Identity, internshipID int64) ([]logbooks.Entry, error)
	Approve(ctx context.Context, caller auth.Identity, entryID int64) error
}

type LogbooksHandler struct {
	service LogbooksService
	env     string
}

func NewLogbooksHandler(service LogbooksService, env string) *LogbooksHandler {
	return &LogbooksHandler{service: service, env: env}
}

type approveResponse struct {
	OK bool `json:"ok"`
}

// Create handles POST /api/logbook
func (h *LogbooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	var req logbooks.CreateParams
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.env)
		return
	}

	entry, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// List handles GET /api/logbooks/{internshipId}
func (h *LogbooksHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	internshipID, ok := pathID(r, "internshipId")
	if !ok {
		writeError(w, r, logbooks.ErrInternshipNotFound, h.env)
		return
	}

	entries, err := h.service.ListForInternship(r.Context(), caller, internshipID)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Approve handles POST /api/logbooks/{id}/approve. Approving twice succeeds both times.
func (h *LogbooksHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	entryID, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, logbooks.ErrEntryNotFound, h.env)
		return
	}

	if err := h.service.Approve(r.Context(), caller, entryID); err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{OK: true})
}
