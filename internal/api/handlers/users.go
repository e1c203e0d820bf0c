package handlers

import (
	"context"
	"net/http"

	"github.com/internlog/server/internal/auth"
	"github.com/internlog/server/internal/domain/users"
)

// UsersService is the subset of users.Service the HTTP layer needs.
type UsersService interface {
	Register(ctx context.Context, params users.RegisterParams) (*users.AuthResult, error)
	Login(ctx context.Context, email, password string) (*users.AuthResult, error)
	List(ctx context.Context, caller auth.Identity) ([]users.User, error)
}

type UsersHandler struct {
	service UsersService
	env     string
}

func NewUsersHandler(service UsersService, env string) *UsersHandler {
	return &UsersHandler{service: service, env: env}
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterParams
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.env)
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Login handles POST /api/login
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.env)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// List handles GET /api/users (admin only)
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r, h.env)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeError(w, r, err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
