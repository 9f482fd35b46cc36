// Package session owns the active identity and the durable user directory.
//
// A Service is the single source of truth for who is logged in. It is
// created once per process, bootstrapped at startup, and handed to every
// consumer that needs to read or change the session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/profnet/internal/domain"
	"github.com/ashureev/profnet/internal/metrics"
	"github.com/ashureev/profnet/internal/notify"
	"github.com/ashureev/profnet/internal/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of session spans.
const TracerName = "github.com/ashureev/profnet/internal/session"

// Service is the session store.
type Service struct {
	kv      store.KV
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	// opMu serializes operations so each read-modify-write of the durable
	// records completes before the next begins.
	opMu sync.Mutex

	stateMu      sync.RWMutex
	current      *domain.Identity
	loading      bool
	bootstrapped bool

	events *notify.Broadcaster[Event]
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records operation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides identifier generation for new identities.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// New creates a Service over kv. The service starts in the loading state
// until Bootstrap runs.
func New(kv store.KV, opts ...Option) *Service {
	s := &Service{
		kv:      kv,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(TracerName)
	}
	s.events = notify.New[Event](s.metrics.DroppedEvent("session"))
	return s
}

// Bootstrap restores the durable session. If there is no active identity it
// seeds the demo account into the directory without signing it in. Only
// the first call does any work. The loading flag is cleared even on error.
func (s *Service) Bootstrap(ctx context.Context) (err error) {
	ctx, span := s.tracer.Start(ctx, "session.Bootstrap")
	defer func() { s.finish(span, "bootstrap", err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.stateMu.RLock()
	done := s.bootstrapped
	s.stateMu.RUnlock()
	if done {
		return nil
	}

	defer func() {
		s.stateMu.Lock()
		s.loading = false
		s.bootstrapped = true
		s.stateMu.Unlock()
		s.publish(EventBootstrapped)
	}()

	active, err := loadActive(ctx, s.kv)
	if err != nil {
		return err
	}
	if active != nil {
		s.setCurrent(active)
		s.logger.Info("Session restored", "user_id", active.ID)
		return nil
	}

	users, err := loadDirectory(ctx, s.kv)
	if err != nil {
		return err
	}
	if _, exists := findByEmail(users, DemoEmail); exists {
		return nil
	}

	users = append(users, demoIdentity(s.now()))
	if err := saveDirectory(ctx, s.kv, users); err != nil {
		return err
	}
	s.logger.Info("Seeded demo account", "email", DemoEmail)
	return nil
}

// Login signs in the directory record for email. The password is accepted
// and never compared against anything.
func (s *Service) Login(ctx context.Context, email, password string) (_ domain.Identity, err error) {
	ctx, span := s.tracer.Start(ctx, "session.Login")
	defer func() { s.finish(span, "login", err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	users, err := loadDirectory(ctx, s.kv)
	if err != nil {
		return domain.Identity{}, err
	}
	user, ok := findByEmail(users, email)
	if !ok {
		s.metrics.AuthFailure("user_not_found")
		return domain.Identity{}, &AuthenticationError{Email: email, Err: ErrUserNotFound}
	}

	if err := saveActive(ctx, s.kv, user); err != nil {
		return domain.Identity{}, err
	}
	s.setCurrent(&user)
	s.logger.Info("User logged in", "user_id", user.ID)
	s.publish(EventLoggedIn)
	return user, nil
}

// Register creates a new account and signs it in.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (_ domain.Identity, err error) {
	ctx, span := s.tracer.Start(ctx, "session.Register")
	defer func() { s.finish(span, "register", err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	users, err := loadDirectory(ctx, s.kv)
	if err != nil {
		return domain.Identity{}, err
	}
	if _, exists := findByEmail(users, reg.Email); exists {
		s.metrics.AuthFailure("user_exists")
		return domain.Identity{}, &AuthenticationError{Email: reg.Email, Err: ErrUserExists}
	}

	now := s.now()
	user := domain.Identity{
		ID:           s.newID(),
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Headline:     reg.Headline,
		Location:     reg.Location,
		Bio:          welcomeBio(reg),
		ProfileImage: defaultProfileImage,
		CoverImage:   defaultCoverImage,
		Connections:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := saveDirectory(ctx, s.kv, append(users, user)); err != nil {
		return domain.Identity{}, err
	}
	if err := saveActive(ctx, s.kv, user); err != nil {
		return domain.Identity{}, err
	}
	s.setCurrent(&user)
	s.logger.Info("User registered", "user_id", user.ID)
	s.publish(EventRegistered)
	return user, nil
}

// Logout clears the active identity. The directory is untouched.
func (s *Service) Logout(ctx context.Context) (err error) {
	ctx, span := s.tracer.Start(ctx, "session.Logout")
	defer func() { s.finish(span, "logout", err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.kv.Delete(ctx, KeyActiveIdentity); err != nil {
		return err
	}
	prev, _ := s.Current()
	s.setCurrent(nil)
	if prev.ID != "" {
		s.logger.Info("User logged out", "user_id", prev.ID)
	}
	s.publish(EventLoggedOut)
	return nil
}

// UpdateProfile merges upd into the active identity and rewrites both the
// directory record with the same ID and the durable active identity.
// It returns applied=false without error when nobody is logged in.
func (s *Service) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (_ domain.Identity, applied bool, err error) {
	ctx, span := s.tracer.Start(ctx, "session.UpdateProfile")
	defer func() { s.finish(span, "update_profile", err) }()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	current, ok := s.Current()
	if !ok {
		return domain.Identity{}, false, nil
	}

	updated := current
	upd.Apply(&updated)
	updated.UpdatedAt = s.now()
	if !updated.UpdatedAt.After(current.UpdatedAt) {
		updated.UpdatedAt = current.UpdatedAt.Add(time.Nanosecond)
	}

	users, err := loadDirectory(ctx, s.kv)
	if err != nil {
		return domain.Identity{}, false, err
	}
	for i := range users {
		if users[i].ID == updated.ID {
			users[i] = updated
		}
	}
	if err := saveDirectory(ctx, s.kv, users); err != nil {
		return domain.Identity{}, false, err
	}
	if err := saveActive(ctx, s.kv, updated); err != nil {
		return domain.Identity{}, false, err
	}

	s.setCurrent(&updated)
	s.logger.Info("Profile updated", "user_id", updated.ID)
	s.publish(EventProfileUpdated)
	return updated, true, nil
}

// Current returns a copy of the active identity.
func (s *Service) Current() (domain.Identity, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Loading reports whether bootstrap or a login/register call is in flight.
func (s *Service) Loading() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.loading
}

// State returns the lifecycle state.
func (s *Service) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.stateLocked()
}

func (s *Service) stateLocked() State {
	switch {
	case !s.bootstrapped:
		return StateLoading
	case s.current != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Directory returns a copy of the durable user directory.
func (s *Service) Directory(ctx context.Context) ([]domain.Identity, error) {
	return loadDirectory(ctx, s.kv)
}

// Subscribe returns a channel of state change events and a cancel func.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	return s.events.Subscribe(buffer)
}

// Close releases subscribers.
func (s *Service) Close() {
	s.events.Close()
}

func (s *Service) setCurrent(id *domain.Identity) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if id == nil {
		s.current = nil
		return
	}
	cp := *id
	s.current = &cp
}

func (s *Service) setLoading(v bool) {
	s.stateMu.Lock()
	s.loading = v
	s.stateMu.Unlock()
	s.publish(EventLoading)
}

func (s *Service) publish(kind EventKind) {
	s.stateMu.RLock()
	ev := Event{Kind: kind, State: s.stateLocked(), Loading: s.loading}
	if s.current != nil {
		cp := *s.current
		ev.Identity = &cp
	}
	s.stateMu.RUnlock()
	s.events.Publish(ev)
}

func (s *Service) finish(span trace.Span, op string, err error) {
	s.metrics.SessionOp(op, err)
	span.SetAttributes(attribute.String("session.state", string(s.State())))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !IsAuthenticationError(err) {
			s.logger.Error("Session operation failed", "op", op, "error", err)
		}
	}
	span.End()
}
