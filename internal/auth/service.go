// Package auth implements the session lifecycle of the front-end: logging in,
// registering and logging out against the car-rental backend, and keeping the
// persisted session in step with the outcome.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"carrental/internal/backend"
	"carrental/internal/events"
	"carrental/internal/session"
)

const (
	// MsgLoginRejected is shown when the backend refuses credentials without a message
	MsgLoginRejected = "Invalid email or password"
	// MsgLoginFailed is shown when the backend answers but does not log the user in
	MsgLoginFailed = "Login failed"
	// MsgRegistrationFailed is shown when registration fails without a message
	MsgRegistrationFailed = "Registration failed"
	// MsgSessionUnavailable is shown when the session cannot be stored
	MsgSessionUnavailable = "Your session could not be saved. Please try again."
)

// Backend is the part of the gateway the auth flows need
type Backend interface {
	Login(ctx context.Context, creds backend.Credentials) (*backend.AuthData, error)
	Register(ctx context.Context, reg backend.Registration) (*backend.AuthData, error)
}

// Result is the outcome of a login or registration. Failures carry a message
// fit for display on the form; they are never returned as errors.
type Result struct {
	Success bool
	Message string
	Session *session.Session
}

// Service defines the session lifecycle operations
type Service interface {
	Login(ctx context.Context, sessionID string, creds backend.Credentials) Result
	Register(ctx context.Context, sessionID string, reg backend.Registration) Result
	Logout(ctx context.Context, sessionID string, sess *session.Session)
	Expire(ctx context.Context, sessionID string, sess *session.Session) error
	RefreshProfile(ctx context.Context, sessionID string, sess *session.Session, profile backend.User) (*session.Session, error)
}

// service implements the Service interface
type service struct {
	backend    Backend
	sessionMgr session.Manager
	events     events.Publisher
}

// Option configures the auth service
type Option func(*service)

// WithPublisher reports session lifecycle events to p
func WithPublisher(p events.Publisher) Option {
	return func(s *service) {
		s.events = p
	}
}

// NewService creates a new auth service
func NewService(b Backend, sessionMgr session.Manager, opts ...Option) Service {
	s := &service{
		backend:    b,
		sessionMgr: sessionMgr,
		events:     events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login sends credentials to the backend and persists the returned session
func (s *service) Login(ctx context.Context, sessionID string, creds backend.Credentials) Result {
	data, err := s.backend.Login(anonymous(ctx, sessionID), creds)
	if err != nil {
		slog.Warn("Login rejected", "email", creds.Email, "error", err)
		return Result{Message: loginMessage(err)}
	}

	return s.adopt(ctx, sessionID, data, MsgLoginFailed, events.ReasonLogin)
}

// Register creates the account and persists the returned session
func (s *service) Register(ctx context.Context, sessionID string, reg backend.Registration) Result {
	data, err := s.backend.Register(anonymous(ctx, sessionID), reg)
	if err != nil {
		slog.Warn("Registration rejected", "email", reg.Email, "error", err)
		return Result{Message: backend.MessageOf(err, MsgRegistrationFailed)}
	}

	return s.adopt(ctx, sessionID, data, MsgRegistrationFailed, events.ReasonRegister)
}

// Logout clears the persisted session. It has no network effect and never fails.
func (s *service) Logout(ctx context.Context, sessionID string, sess *session.Session) {
	if err := s.sessionMgr.Clear(ctx, sessionID); err != nil {
		slog.Error("Failed to clear session on logout", "error", err)
	}
	if sess.IsAuthenticated() {
		s.publish(ctx, events.NewSessionEvent(events.SessionEnded, sess, events.ReasonLogout))
	}
}

// Expire clears a session the backend no longer accepts
func (s *service) Expire(ctx context.Context, sessionID string, sess *session.Session) error {
	if err := s.sessionMgr.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, events.NewSessionEvent(events.SessionExpired, sess, events.ReasonUnauthorized))
	return nil
}

// RefreshProfile replaces the cached profile after a profile edit
func (s *service) RefreshProfile(ctx context.Context, sessionID string, sess *session.Session, profile backend.User) (*session.Session, error) {
	if !sess.IsAuthenticated() {
		return sess, session.ErrInvalidSession
	}

	updated := sess.WithUser(profile)
	if err := s.sessionMgr.Persist(ctx, sessionID, updated); err != nil {
		return sess, err
	}
	return updated, nil
}

func (s *service) adopt(ctx context.Context, sessionID string, data *backend.AuthData, fallback, reason string) Result {
	if data == nil {
		return Result{Message: fallback}
	}

	sess, err := session.New(data.Token, data.User)
	if err != nil {
		return Result{Message: fallback}
	}

	if err := s.sessionMgr.Persist(ctx, sessionID, sess); err != nil {
		slog.Error("Failed to persist session", "error", err)
		if errors.Is(err, session.ErrSessionExpired) {
			return Result{Message: fallback}
		}
		return Result{Message: MsgSessionUnavailable}
	}

	s.publish(ctx, events.NewSessionEvent(events.SessionStarted, sess, reason))
	return Result{Success: true, Session: sess}
}

// publish never fails the flow that triggered it
func (s *service) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish session event", "type", e.Type, "error", err)
	}
}

// anonymous strips any stale token: auth calls must never carry one
func anonymous(ctx context.Context, sessionID string) context.Context {
	return session.NewContext(ctx, sessionID, session.Anonymous())
}

func loginMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusOK && apiErr.Status < http.StatusMultipleChoices {
		return backend.MessageOf(err, MsgLoginFailed)
	}
	return backend.MessageOf(err, MsgLoginRejected)
}
