package web

import (
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const featuredCars = 6

// Home shows a few available cars and links to the catalog
func (h *Handler) Home(c *gin.Context) {
	cars, err := h.backend.ListCarsByStatus(c.Request.Context(), backend.CarAvailable)
	if err != nil {
		if h.unauthorized(c, err) {
			return
		}
		// the home page still renders without featured cars
		_ = c.Error(err)
		cars = nil
	}
	if len(cars) > featuredCars {
		cars = cars[:featuredCars]
	}

	h.render(c, http.StatusOK, "home", gin.H{
		"Title": "Car Rental",
		"Cars":  cars,
	})
}

// Forbidden renders the neutral page shown to users without access
func (h *Handler) Forbidden(c *gin.Context) {
	h.render(c, http.StatusForbidden, "forbidden", gin.H{"Title": "Access denied"})
}

// Health is the front-end health check handler
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "carrental-web",
	})
}

// SessionInfo exposes the session predicates to scripts. The token is never
// included.
func (h *Handler) SessionInfo(c *gin.Context) {
	sess := currentSession(c)

	body := gin.H{
		"authenticated": sess.IsAuthenticated(),
		"admin":         sess.IsAdmin(),
		"user":          nil,
	}
	if sess.IsAuthenticated() {
		body["user"] = sess.User
	}

	c.JSON(http.StatusOK, body)
}

// NotFound sends unknown paths home
func (h *Handler) NotFound(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
