package web

import (
	"log/slog"
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const (
	msgProfileUnavailable = "Your profile could not be loaded"
	msgProfileUpdated     = "Your profile has been updated"
	msgProfileFailed      = "Your profile could not be updated"
	msgProfileForm        = "Please check the highlighted fields"
)

// Profile shows the signed-in user's profile, refreshed from the backend
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.backend.CurrentUser(ctx)
	if err != nil {
		h.loadError(c, "profile", "Profile", err, msgProfileUnavailable)
		return
	}

	if user != nil {
		updated, err := h.auth.RefreshProfile(ctx, currentSessionID(c), currentSession(c), *user)
		if err != nil {
			slog.Warn("Failed to refresh cached profile", "error", err)
		}
		bindSession(c, currentSessionID(c), updated)
	}

	h.render(c, http.StatusOK, "profile", gin.H{
		"Title":   "Profile",
		"Profile": currentSession(c).User,
	})
}

// UpdateProfile saves the profile form. An empty password keeps the current one.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in backend.UserInput
	if err := c.ShouldBind(&in); err != nil {
		msg := msgProfileForm
		if p := c.PostForm("password"); p != "" && len(p) < minPasswordLength {
			msg = msgShortPassword
		}
		h.flash(c, flashError, msg)
		c.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	ctx := c.Request.Context()

	user, err := h.backend.UpdateCurrentUser(ctx, in)
	if err != nil {
		h.fail(c, err, msgProfileFailed, "/profile")
		return
	}

	if user != nil {
		if _, err := h.auth.RefreshProfile(ctx, currentSessionID(c), currentSession(c), *user); err != nil {
			slog.Warn("Failed to refresh cached profile", "error", err)
		}
	}

	h.done(c, msgProfileUpdated, "/profile")
}
