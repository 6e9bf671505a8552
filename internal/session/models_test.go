package session

import (
	"errors"
	"testing"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"ROLE_ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" role_admin ", RoleAdmin},
		{"USER", RoleUser},
		{"ROLE_USER", RoleUser},
		{"", RoleUser},
		{"SUPERUSER", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeRole(tt.raw); got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNew_RejectsHalfPair(t *testing.T) {
	if _, err := New("", &UserProfile{ID: 1}); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession for missing token, got %v", err)
	}
	if _, err := New("token", nil); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession for missing user, got %v", err)
	}
}

func TestNew_NormalizesRoleWithoutTouchingInput(t *testing.T) {
	user := &UserProfile{ID: 7, Name: "Ayse", Role: "ROLE_ADMIN"}

	sess, err := New("token", user)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if sess.User.Role != RoleAdmin {
		t.Errorf("Expected role ADMIN, got %q", sess.User.Role)
	}
	if user.Role != "ROLE_ADMIN" {
		t.Errorf("Expected caller's profile to be left alone, got %q", user.Role)
	}
	if !sess.IsAdmin() {
		t.Error("Expected IsAdmin() to be true")
	}
}

func TestSessionPredicates(t *testing.T) {
	var nilSession *Session

	tests := []struct {
		name          string
		sess          *Session
		authenticated bool
		admin         bool
	}{
		{"nil", nilSession, false, false},
		{"anonymous", Anonymous(), false, false},
		{"token only", &Session{Token: "t"}, false, false},
		{"user only", &Session{User: &UserProfile{Role: RoleAdmin}}, false, false},
		{"user", &Session{Token: "t", User: &UserProfile{Role: RoleUser}}, true, false},
		{"admin", &Session{Token: "t", User: &UserProfile{Role: RoleAdmin}}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.IsAuthenticated(); got != tt.authenticated {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.authenticated)
			}
			if got := tt.sess.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.admin)
			}
		})
	}
}

func TestWithUser_KeepsTokenAndRole(t *testing.T) {
	sess := &Session{Token: "t", User: &UserProfile{ID: 1, Name: "Old", Role: RoleAdmin}}

	updated := sess.WithUser(UserProfile{ID: 1, Name: "New", Role: RoleUser})

	if updated.Token != "t" {
		t.Errorf("Expected token to be kept, got %q", updated.Token)
	}
	if updated.User.Name != "New" {
		t.Errorf("Expected name New, got %q", updated.User.Name)
	}
	if updated.User.Role != RoleAdmin {
		t.Errorf("Expected role to stay ADMIN, got %q", updated.User.Role)
	}
	if sess.User.Name != "Old" {
		t.Error("Expected original session to be unchanged")
	}
}

func TestWithUser_Anonymous(t *testing.T) {
	sess := Anonymous()
	if got := sess.WithUser(UserProfile{ID: 1}); got.IsAuthenticated() {
		t.Error("Expected anonymous session to stay anonymous")
	}
}
