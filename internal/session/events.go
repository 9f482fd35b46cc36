package session

import "github.com/ashureev/profnet/internal/domain"

// EventKind names a session state change.
type EventKind string

const (
	EventBootstrapped   EventKind = "bootstrapped"
	EventLoading        EventKind = "loading"
	EventLoggedIn       EventKind = "logged_in"
	EventRegistered     EventKind = "registered"
	EventLoggedOut      EventKind = "logged_out"
	EventProfileUpdated EventKind = "profile_updated"
)

// Event is published to subscribers after every state change. Identity is
// a snapshot of the active identity at publish time, nil when anonymous.
type Event struct {
	Kind     EventKind        `json:"kind"`
	State    State            `json:"state"`
	Loading  bool             `json:"loading"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// State is the session lifecycle state.
type State string

const (
	StateLoading       State = "loading"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)
