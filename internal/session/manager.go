// Package session holds the browser session of the car-rental front-end: the
// backend token and the cached user profile, persisted together under one key
// with TTL-based expiration.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionExpired is returned when a session or its token has expired
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

const (
	sessionKeyPrefix = "session:"
	flashKeyPrefix   = "flash:"
	flashTTL         = 5 * time.Minute
)

// Manager defines the lifecycle of a persisted session
type Manager interface {
	// NewID returns a fresh opaque session id for a browser
	NewID() string
	// Hydrate loads the session for id. It always returns a usable session:
	// the anonymous one when nothing valid is persisted.
	Hydrate(ctx context.Context, id string) (*Session, error)
	// Persist stores the token and profile of sess together
	Persist(ctx context.Context, id string, sess *Session) error
	// Clear removes the persisted session. Missing sessions are not an error.
	Clear(ctx context.Context, id string) error
	SetFlash(ctx context.Context, id string, flash Flash) error
	PopFlash(ctx context.Context, id string) (*Flash, error)
}

// record is the persisted form of a session
type record struct {
	Token     string       `json:"token"`
	User      *UserProfile `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// manager implements Manager interface
type manager struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time
}

// NewManager creates a new session manager. maxAge bounds sessions whose
// token carries no expiry.
func NewManager(store Store, maxAge time.Duration) Manager {
	return &manager{
		store:  store,
		maxAge: maxAge,
		now:    time.Now,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, id)
}

func flashKey(id string) string {
	return fmt.Sprintf("%s%s", flashKeyPrefix, id)
}

func (m *manager) NewID() string {
	return uuid.New().String()
}

// Hydrate retrieves a session by ID
func (m *manager) Hydrate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return Anonymous(), nil
	}

	key := sessionKey(id)
	data, err := m.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return Anonymous(), nil
	}
	if err != nil {
		return Anonymous(), fmt.Errorf("failed to load session: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		m.discard(ctx, key)
		return Anonymous(), ErrInvalidSession
	}

	sess, err := New(rec.Token, rec.User)
	if err != nil {
		m.discard(ctx, key)
		return Anonymous(), ErrInvalidSession
	}

	if !rec.ExpiresAt.IsZero() && m.now().After(rec.ExpiresAt) {
		m.discard(ctx, key)
		return Anonymous(), ErrSessionExpired
	}

	return sess, nil
}

// discard removes a record Hydrate rejected. A failure only leaves the
// record to its TTL.
func (m *manager) discard(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		slog.Debug("Failed to discard session record", "key", key, "error", err)
	}
}

// Persist stores the session with a TTL bounded by the token expiry
func (m *manager) Persist(ctx context.Context, id string, sess *Session) error {
	if id == "" || !sess.IsAuthenticated() {
		return ErrInvalidSession
	}

	now := m.now()

	var expiresAt time.Time
	if m.maxAge > 0 {
		expiresAt = now.Add(m.maxAge)
	}
	if exp, ok := TokenExpiry(sess.Token); ok {
		if !exp.After(now) {
			return ErrSessionExpired
		}
		if expiresAt.IsZero() || exp.Before(expiresAt) {
			expiresAt = exp
		}
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(now)
	}

	data, err := json.Marshal(record{
		Token:     sess.Token,
		User:      sess.User,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.store.Set(ctx, sessionKey(id), string(data), ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Clear removes a session and any pending flash
func (m *manager) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := m.store.Delete(ctx, flashKey(id)); err != nil {
		return fmt.Errorf("failed to delete flash: %w", err)
	}
	return nil
}

func (m *manager) SetFlash(ctx context.Context, id string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("failed to marshal flash: %w", err)
	}
	return m.store.Set(ctx, flashKey(id), string(data), flashTTL)
}

type getDeleter interface {
	GetDel(ctx context.Context, key string) (string, error)
}

// PopFlash returns and removes the pending flash, or nil when there is none
func (m *manager) PopFlash(ctx context.Context, id string) (*Flash, error) {
	if id == "" {
		return nil, nil
	}

	key := flashKey(id)

	var (
		data string
		err  error
	)
	if gd, ok := m.store.(getDeleter); ok {
		data, err = gd.GetDel(ctx, key)
	} else {
		data, err = m.store.Get(ctx, key)
		if err == nil {
			err = m.store.Delete(ctx, key)
		}
	}
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load flash: %w", err)
	}

	var flash Flash
	if err := json.Unmarshal([]byte(data), &flash); err != nil {
		return nil, nil
	}
	return &flash, nil
}
