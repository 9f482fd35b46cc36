package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/identity"
	"github.com/ashureev/profnet/internal/session"
	"github.com/go-chi/chi/v5"
)

// SessionHandler serves login, registration, logout and profile edits.
type SessionHandler struct {
	*Handler
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(base *Handler) *SessionHandler {
	return &SessionHandler{Handler: base}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)
	})
	r.Patch("/api/profile", h.UpdateProfile)
}

type sessionResponse struct {
	State    session.State    `json:"state"`
	Loading  bool             `json:"loading"`
	Identity *domain.Identity `json:"identity"`
}

func (h *SessionHandler) snapshot() sessionResponse {
	resp := sessionResponse{State: h.sessions.State(), Loading: h.sessions.Loading()}
	if id, ok := h.sessions.Current(); ok {
		resp.Identity = &id
	}
	return resp
}

// GetSession returns the session state and the active identity, if any.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.snapshot())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs in an existing account.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		h.writeAuthError(w, r, err, http.StatusUnauthorized)
		return
	}
	JSON(w, http.StatusOK, h.snapshot())
}

// Register creates an account and signs it in.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.Registration
	if err := decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.sessions.Register(r.Context(), req); err != nil {
		h.writeAuthError(w, r, err, http.StatusConflict)
		return
	}
	JSON(w, http.StatusCreated, h.snapshot())
}

// Logout clears the active identity.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		slog.Error("Logout failed", "error", err)
		Error(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	JSON(w, http.StatusOK, h.snapshot())
}

// UpdateProfile merges the supplied fields into the active identity.
// A body with no fields is rejected. Without an active identity it does
// nothing and returns 204.
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if upd.IsEmpty() {
		Error(w, http.StatusBadRequest, "no profile fields supplied")
		return
	}

	updated, applied, err := h.sessions.UpdateProfile(r.Context(), upd)
	if err != nil {
		slog.Error("Profile update failed", "error", err, "user_id", identity.UserIDFromContext(r.Context()))
		Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	if !applied {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	JSON(w, http.StatusOK, updated)
}

func (h *SessionHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error, status int) {
	var ae *session.AuthenticationError
	if errors.As(err, &ae) {
		slog.Info("Authentication rejected", "reason", ae.Err.Error(), "ip", identity.IPFromRequest(r))
		Error(w, status, ae.Err.Error())
		return
	}
	slog.Error("Session operation failed", "error", err)
	Error(w, http.StatusInternalServerError, "session storage unavailable")
}
