// Package api provides HTTP handlers for the profnet API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/session"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// SessionService is the session store as seen by the HTTP layer.
type SessionService interface {
	Current() (domain.Identity, bool)
	Loading() bool
	State() session.State
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Identity, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (domain.Identity, bool, error)
	Directory(ctx context.Context) ([]domain.Identity, error)
}

// ContentStore is the content store as seen by the HTTP layer.
type ContentStore interface {
	AddPost(p domain.NewPost) domain.Post
	LikePost(id string) (domain.Post, bool)
	AddConnection(c domain.NewConnection) domain.Connection
	UpdateConnectionStatus(id string, status domain.ConnectionStatus) (domain.Connection, bool)
	SendMessage(m domain.NewMessage) domain.Message
	Posts() []domain.Post
	Post(id string) (domain.Post, bool)
	Connections() []domain.Connection
	Messages() []domain.Message
	Conversations(userID string) []domain.Conversation
	Suggestions(userID string) []domain.Suggestion
}

// Handler provides common handler dependencies.
type Handler struct {
	sessions SessionService
	content  ContentStore
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(sessions SessionService, content ContentStore) *Handler {
	return &Handler{
		sessions: sessions,
		content:  content,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a single JSON value into v and validates any struct tags
// on it. Anything after the value is rejected.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON: unexpected data after body")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Non-struct payloads have nothing to validate.
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
