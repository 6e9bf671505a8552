package web

import (
	"net/http"
	"strings"

	"carrental/internal/auth"
	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const (
	minPasswordLength = 6

	msgMissingCredentials = "Please enter your email and password"
	msgShortPassword      = "Password must be at least 6 characters"
	msgRegistrationForm   = "Please fill in all required fields"
)

// LoginPage renders the login form. Signed-in users go straight to their landing page.
func (h *Handler) LoginPage(c *gin.Context) {
	sess := currentSession(c)
	if sess.IsAuthenticated() {
		c.Redirect(http.StatusFound, landingFor(sess, c.Query("next")))
		return
	}

	h.render(c, http.StatusOK, "login", gin.H{
		"Title": "Login",
		"Next":  c.Query("next"),
		"Email": "",
	})
}

// Login authenticates against the backend and starts a new session
func (h *Handler) Login(c *gin.Context) {
	next := c.PostForm("next")

	var creds backend.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.render(c, http.StatusBadRequest, "login", gin.H{
			"Title": "Login",
			"Next":  next,
			"Email": creds.Email,
			"Error": msgMissingCredentials,
		})
		return
	}

	result := h.startSession(c, func(sessionID string) auth.Result {
		return h.auth.Login(c.Request.Context(), sessionID, creds)
	})
	if !result.Success {
		h.render(c, http.StatusUnauthorized, "login", gin.H{
			"Title": "Login",
			"Next":  next,
			"Email": creds.Email,
			"Error": result.Message,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, landingFor(result.Session, next))
}

// RegisterPage renders the registration form
func (h *Handler) RegisterPage(c *gin.Context) {
	if currentSession(c).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.render(c, http.StatusOK, "register", gin.H{
		"Title":         "Register",
		"Name":          "",
		"Email":         "",
		"Phone":         "",
		"Address":       "",
		"DriverLicense": "",
	})
}

// Register creates the account and signs the new user in
func (h *Handler) Register(c *gin.Context) {
	var reg backend.Registration
	bindErr := c.ShouldBind(&reg)

	form := gin.H{
		"Title":         "Register",
		"Name":          reg.Name,
		"Email":         reg.Email,
		"Phone":         reg.Phone,
		"Address":       reg.Address,
		"DriverLicense": reg.DriverLicense,
	}

	if len(c.PostForm("password")) < minPasswordLength {
		form["Error"] = msgShortPassword
		h.render(c, http.StatusBadRequest, "register", form)
		return
	}
	if bindErr != nil {
		form["Error"] = msgRegistrationForm
		h.render(c, http.StatusBadRequest, "register", form)
		return
	}

	reg.Email = strings.TrimSpace(reg.Email)

	result := h.startSession(c, func(sessionID string) auth.Result {
		return h.auth.Register(c.Request.Context(), sessionID, reg)
	})
	if !result.Success {
		form["Error"] = result.Message
		h.render(c, http.StatusUnprocessableEntity, "register", form)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout drops the session and returns to the login page
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), currentSessionID(c), currentSession(c))
	bindSession(c, currentSessionID(c), nil)

	c.Redirect(http.StatusSeeOther, "/login")
}

// startSession runs a login or registration under a fresh session id. On
// success the browser moves to the new id and the old session is dropped.
func (h *Handler) startSession(c *gin.Context, start func(sessionID string) auth.Result) auth.Result {
	previousID, previous := currentSessionID(c), currentSession(c)
	sessionID := h.sessionMgr.NewID()

	result := start(sessionID)
	if !result.Success {
		return result
	}

	h.auth.Logout(c.Request.Context(), previousID, previous)
	setSessionCookie(c, sessionID, h.cookie)
	bindSession(c, sessionID, result.Session)

	return result
}
