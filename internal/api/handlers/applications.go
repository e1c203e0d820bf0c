package handlers

import (
	"context"
	"net/http"

	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/applications"
)

type ApplicationsService interface {
	Apply(ctx context.Context, caller auth.Identity, params applications.ApplyParams) (*applications.Application, error)
	ListMine(ctx context.Context, caller auth.Identity) ([]applications.StudentApplication, error)
}

type ApplicationsHandler struct {
	service ApplicationsService
	env     string
}

func NewApplicationsHandler(service ApplicationsService, env string) *ApplicationsHandler {
	return &ApplicationsHandler{service: service, env: env}
}

// Apply handles POST /api/apply
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	var req applications.ApplyParams
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.env)
		return
	}

	app, err := h.service.Apply(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ListMine handles GET /api/my-applications
func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	items, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
