package session

import "strings"

// Role is the canonical user role used across the front-end.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// NormalizeRole maps the role spellings the backend emits ("ADMIN", "ROLE_ADMIN",
// "admin", ...) to a canonical Role. Anything unrecognised is treated as a plain user.
func NormalizeRole(raw string) Role {
	r := strings.ToUpper(strings.TrimSpace(raw))
	r = strings.TrimPrefix(r, "ROLE_")

	switch Role(r) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// UserProfile is the cached profile of the logged-in user. CreatedAt is kept
// verbatim as the backend formats it.
type UserProfile struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DriverLicense string `json:"driverLicense,omitempty"`
	Role          Role   `json:"role"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Session is the client-held proof of authentication plus the cached profile.
// Token and User are always set or cleared together.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// New builds a session from a token and profile, normalizing the role.
// A half pair is rejected.
func New(token string, user *UserProfile) (*Session, error) {
	if token == "" || user == nil {
		return nil, ErrInvalidSession
	}

	profile := *user
	profile.Role = NormalizeRole(string(user.Role))

	return &Session{Token: token, User: &profile}, nil
}

// IsAuthenticated reports whether both token and user are present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// IsAdmin reports whether the session is authenticated with the ADMIN role.
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == RoleAdmin
}

// WithUser returns a copy of the session holding the given profile.
// The role is kept from the current profile: it only changes on a fresh login.
func (s *Session) WithUser(user UserProfile) *Session {
	if !s.IsAuthenticated() {
		return s
	}

	user.Role = s.User.Role
	return &Session{Token: s.Token, User: &user}
}

// Anonymous returns the empty session.
func Anonymous() *Session {
	return &Session{}
}
