package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"carrental/internal/auth"
	"carrental/internal/backend"
	"carrental/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Backend is the part of the backend gateway the screens use
type Backend interface {
	ListCars(ctx context.Context) ([]backend.Car, error)
	GetCar(ctx context.Context, id int64) (*backend.Car, error)
	ListCarsByStatus(ctx context.Context, status string) ([]backend.Car, error)
	ListAvailableCars(ctx context.Context, startDate, endDate string) ([]backend.Car, error)
	CreateCar(ctx context.Context, in backend.CarInput) (*backend.Car, error)
	UpdateCar(ctx context.Context, id int64, in backend.CarInput) (*backend.Car, error)
	DeleteCar(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]backend.Category, error)
	CreateCategory(ctx context.Context, in backend.CategoryInput) (*backend.Category, error)
	UpdateCategory(ctx context.Context, id int64, in backend.CategoryInput) (*backend.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateReservation(ctx context.Context, in backend.ReservationInput) (*backend.Reservation, error)
	MyReservations(ctx context.Context) ([]backend.Reservation, error)
	ListReservations(ctx context.Context) ([]backend.Reservation, error)
	ConfirmReservation(ctx context.Context, id int64) (*backend.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*backend.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error

	CreateRental(ctx context.Context, in backend.RentalInput) (*backend.Rental, error)
	ListRentals(ctx context.Context) ([]backend.Rental, error)
	ReturnCar(ctx context.Context, id int64, in backend.ReturnInput) (*backend.Rental, error)

	ListUsers(ctx context.Context) ([]backend.User, error)
	CurrentUser(ctx context.Context) (*backend.User, error)
	UpdateCurrentUser(ctx context.Context, in backend.UserInput) (*backend.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ExchangeRate(ctx context.Context, from, to string) (float64, error)
}

// Handler serves the front-end screens
type Handler struct {
	backend    Backend
	auth       auth.Service
	sessionMgr session.Manager
	cookie     CookieOptions
}

// NewHandler creates the screen handlers
func NewHandler(b Backend, authSvc auth.Service, sessionMgr session.Manager, cookie CookieOptions) *Handler {
	return &Handler{
		backend:    b,
		auth:       authSvc,
		sessionMgr: sessionMgr,
		cookie:     cookie,
	}
}

// render writes an HTML page, adding the session and any pending flash
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = currentSession(c)

	flash, err := h.sessionMgr.PopFlash(c.Request.Context(), currentSessionID(c))
	if err != nil {
		slog.Warn("Failed to load flash", "error", err, "request_id", c.GetString(ctxRequestID))
	}
	if flash != nil {
		data["Flash"] = flash
	}

	c.HTML(status, name, data)
}

// flash stores a message for the next rendered page
func (h *Handler) flash(c *gin.Context, kind, text string) {
	err := h.sessionMgr.SetFlash(c.Request.Context(), currentSessionID(c), session.Flash{Kind: kind, Text: text})
	if err != nil {
		slog.Warn("Failed to store flash", "error", err, "request_id", c.GetString(ctxRequestID))
	}
}

// done acknowledges a successful mutation and redirects back
func (h *Handler) done(c *gin.Context, text, back string) {
	h.flash(c, flashSuccess, text)
	c.Redirect(http.StatusSeeOther, back)
}

// fail handles a failed backend mutation. A lost session goes to login;
// anything else is flashed and the browser returns to back.
func (h *Handler) fail(c *gin.Context, err error, fallback, back string) {
	if h.unauthorized(c, err) {
		return
	}

	slog.Warn("Backend operation failed",
		"error", err,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(ctxRequestID),
	)
	_ = c.Error(err)

	h.flash(c, flashError, backend.MessageOf(err, fallback))
	c.Redirect(http.StatusSeeOther, back)
}

// unauthorized redirects to login when err means the session is gone
func (h *Handler) unauthorized(c *gin.Context, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) && !invalidated(c) {
		return false
	}
	redirectToLogin(c)
	return true
}

// loadError answers a page whose data could not be fetched
func (h *Handler) loadError(c *gin.Context, page, title string, err error, fallback string) {
	if h.unauthorized(c, err) {
		return
	}

	slog.Error("Failed to load page data",
		"page", page,
		"error", err,
		"request_id", c.GetString(ctxRequestID),
	)
	_ = c.Error(err)

	h.render(c, http.StatusBadGateway, "unavailable", gin.H{
		"Title": title,
		"Error": backend.MessageOf(err, fallback),
	})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext accepts only same-site relative paths as a post-login target.
// Browsers drop tabs and newlines and treat a backslash as a slash, so any
// of those could turn a path into a host.
func safeNext(next string) (string, bool) {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "", false
	}
	if strings.ContainsRune(next, '\\') || strings.IndexFunc(next, notPrintable) >= 0 {
		return "", false
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "", false
	}

	unescaped, err := url.PathUnescape(u.EscapedPath())
	if err != nil || strings.IndexFunc(unescaped, notPrintable) >= 0 || strings.ContainsRune(unescaped, '\\') {
		return "", false
	}
	if strings.HasPrefix(unescaped, "//") {
		return "", false
	}
	return next, true
}

func notPrintable(r rune) bool {
	return unicode.IsControl(r) || unicode.IsSpace(r)
}

// landingFor picks the page a fresh login lands on
func landingFor(sess *session.Session, next string) string {
	if target, ok := safeNext(next); ok {
		return target
	}
	if sess.IsAdmin() {
		return "/admin"
	}
	return "/cars"
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
