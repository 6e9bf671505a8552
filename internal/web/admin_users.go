package web

import (
	"net/http"

	"carrental/internal/backend"
	"carrental/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	msgUsersUnavailable = "Users could not be loaded"
	msgUserDeleted      = "The user has been deleted"
	msgUserDeleteFailed = "The user could not be deleted"
	msgCannotDeleteSelf = "You cannot delete your own account"
)

// UserStats are the counters of the users screen
type UserStats struct {
	Total  int
	Admins int
	Users  int
}

// AdminUsers lists users with a name or email search
func (h *Handler) AdminUsers(c *gin.Context) {
	search := c.Query("q")

	users, err := h.backend.ListUsers(c.Request.Context())
	if err != nil {
		h.loadError(c, "admin_users", "Manage users", err, msgUsersUnavailable)
		return
	}

	stats := UserStats{Total: len(users)}
	filtered := make([]backend.User, 0, len(users))
	for _, u := range users {
		if session.NormalizeRole(string(u.Role)) == session.RoleAdmin {
			stats.Admins++
		} else {
			stats.Users++
		}
		if search == "" || containsFold(u.Name, search) || containsFold(u.Email, search) {
			filtered = append(filtered, u)
		}
	}

	h.render(c, http.StatusOK, "admin_users", gin.H{
		"Title":  "Manage users",
		"Users":  filtered,
		"Stats":  stats,
		"Search": search,
		"SelfID": currentSession(c).User.ID,
	})
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/users")
		return
	}

	if id == currentSession(c).User.ID {
		h.flash(c, flashError, msgCannotDeleteSelf)
		c.Redirect(http.StatusSeeOther, "/admin/users")
		return
	}

	if err := h.backend.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgUserDeleteFailed, "/admin/users")
		return
	}

	h.done(c, msgUserDeleted, "/admin/users")
}
