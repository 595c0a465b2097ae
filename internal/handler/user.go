package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/service"
)

// UserService is the subset of *service.UserService the handler needs.
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserHandler serves the /api/users routes.
type UserHandler struct {
	svc    UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// HandleRegister creates an account.
//
// HTTP: POST /api/users/register
// REQUEST BODY: {"name": "Alice", "email": "alice@example.com", "password": "..."}
// RESPONSE:     {"token": "<jwt>", "user": {...}}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	res, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /api/users/login
// REQUEST BODY: {"email": "alice@example.com", "password": "..."}
// RESPONSE:     {"token": "<jwt>", "user": {...}}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeJSON(w, r, h.logger, &in) {
		return
	}

	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleMe returns the authenticated caller's account.
//
// HTTP: GET /api/users/me (behind auth.RequireAuth)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthenticated("No token, authorization denied"))
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
