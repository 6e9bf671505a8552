// Package events publishes the session lifecycle of the front-end so other
// services can audit sign-ins, sign-outs and expired tokens.
package events

import (
	"context"
	"strconv"
	"time"

	"carrental/internal/session"

	"github.com/google/uuid"
)

// Type names a session lifecycle event
type Type string

const (
	SessionStarted Type = "session.started"
	SessionEnded   Type = "session.ended"
	SessionExpired Type = "session.expired"
)

// Reasons attached to lifecycle events
const (
	ReasonLogin        = "login"
	ReasonRegister     = "register"
	ReasonLogout       = "logout"
	ReasonUnauthorized = "backend_unauthorized"
)

// Event is one entry of the session event stream. It never carries the
// session id or the token.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key partitions the stream by user so one user's events stay ordered
func (e Event) Key() string {
	if e.UserID == 0 {
		return e.ID
	}
	return strconv.FormatInt(e.UserID, 10)
}

// NewSessionEvent describes what happened to sess
func NewSessionEvent(t Type, sess *session.Session, reason string) Event {
	e := Event{
		ID:         uuid.NewString(),
		Type:       t,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if sess.IsAuthenticated() {
		e.UserID = sess.User.ID
		e.Email = sess.User.Email
		e.Role = string(sess.User.Role)
	}
	return e
}

// Publisher sends events to the stream
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
