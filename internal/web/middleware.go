package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"carrental/internal/auth"
	"carrental/internal/backend"
	"carrental/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "session_id"

	ctxRequestID    = "request_id"
	ctxSessionID    = "session_id"
	ctxSession      = "session"
	ctxInvalidation = "invalidation"
	ctxRedirected   = "redirected"
)

// MsgSessionExpired is flashed on the login page after the backend rejected the token
const MsgSessionExpired = "Your session has expired. Please log in again."

// CookieOptions controls the session cookie
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// HydrateSession loads the browser's session once per request. Browsers
// without a session cookie get a fresh id; the hydrated session is stored in
// the gin context and in the request context for the backend gateway.
func HydrateSession(sessionMgr session.Manager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = sessionMgr.NewID()
			setSessionCookie(c, sessionID, opts)
		}

		sess, err := sessionMgr.Hydrate(c.Request.Context(), sessionID)
		if err != nil {
			level := slog.LevelWarn
			if errors.Is(err, session.ErrSessionExpired) {
				level = slog.LevelInfo
			}
			slog.Log(c.Request.Context(), level, "Session discarded",
				"error", err.Error(),
				"request_id", c.GetString(ctxRequestID),
			)
		}

		bindSession(c, sessionID, sess)

		if sess.IsAuthenticated() {
			c.Set("user_id", sess.User.ID)
		}

		c.Next()
	}
}

func bindSession(c *gin.Context, sessionID string, sess *session.Session) {
	c.Set(ctxSessionID, sessionID)
	c.Set(ctxSession, sess)
	c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sessionID, sess))
}

// setSessionCookie issues the session cookie, replacing one already set on
// this response so the browser only ever sees the latest id.
func setSessionCookie(c *gin.Context, sessionID string, opts CookieOptions) {
	header := c.Writer.Header()
	if cookies := header.Values("Set-Cookie"); len(cookies) > 0 {
		header.Del("Set-Cookie")
		for _, cookie := range cookies {
			if !strings.HasPrefix(cookie, sessionCookie+"=") {
				header.Add("Set-Cookie", cookie)
			}
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
}

// currentSession returns the session hydrated for this request
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(*session.Session); ok && sess != nil {
			return sess
		}
	}
	return session.Anonymous()
}

func currentSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// requestInvalidation is the per-request invalidation sink. The first report
// clears the persisted session; later reports of the same request are no-ops.
type requestInvalidation struct {
	auth       auth.Service
	sessionMgr session.Manager
	session    *session.Session
	once       sync.Once
	fired      atomic.Bool
}

func (r *requestInvalidation) SessionInvalidated(ctx context.Context, inv backend.Invalidation) {
	r.once.Do(func() {
		r.fired.Store(true)

		slog.Info("Session invalidated by backend",
			"method", inv.Method,
			"path", inv.Path,
		)

		// the request may already be cancelled; the store cleanup must still run
		ctx = context.WithoutCancel(ctx)
		if err := r.auth.Expire(ctx, inv.SessionID, r.session); err != nil {
			slog.Error("Failed to clear invalidated session", "error", err)
			return
		}
		if err := r.sessionMgr.SetFlash(ctx, inv.SessionID, session.Flash{Kind: flashError, Text: MsgSessionExpired}); err != nil {
			slog.Warn("Failed to set session expired flash", "error", err)
		}
	})
}

// InvalidationObserver installs a sink for this request's backend calls. A
// 401 on an authenticated call clears the session exactly once and, unless
// the handler already answered, sends the browser to login.
func InvalidationObserver(authSvc auth.Service, sessionMgr session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		obs := &requestInvalidation{
			auth:       authSvc,
			sessionMgr: sessionMgr,
			session:    currentSession(c),
		}
		c.Set(ctxInvalidation, obs)
		c.Request = c.Request.WithContext(backend.WithSink(c.Request.Context(), obs))

		c.Next()

		if obs.fired.Load() && !c.Writer.Written() {
			redirectToLogin(c)
		}
	}
}

// invalidated reports whether a backend call of this request lost the session
func invalidated(c *gin.Context) bool {
	if v, ok := c.Get(ctxInvalidation); ok {
		if obs, ok := v.(*requestInvalidation); ok {
			return obs.fired.Load()
		}
	}
	return false
}

// redirectToLogin sends the browser to the login page, remembering where it
// was headed. Only the first call of a request has an effect.
func redirectToLogin(c *gin.Context) {
	if c.GetBool(ctxRedirected) || c.Writer.Written() {
		c.Abort()
		return
	}
	c.Set(ctxRedirected, true)

	target := "/login"
	if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/login" {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// RequireAuth lets authenticated sessions through and sends everyone else to login
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).IsAuthenticated() {
			guardRejectionsTotal.WithLabelValues("auth", "anonymous").Inc()
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin lets admin sessions through. Anonymous visitors go to login;
// authenticated non-admins get the forbidden page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.IsAuthenticated() {
			guardRejectionsTotal.WithLabelValues("admin", "anonymous").Inc()
			redirectToLogin(c)
			return
		}
		if !sess.IsAdmin() {
			guardRejectionsTotal.WithLabelValues("admin", "forbidden").Inc()
			slog.Warn("Admin route refused",
				"user_id", sess.User.ID,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(ctxRequestID),
			)
			c.HTML(http.StatusForbidden, "forbidden", gin.H{"Title": "Access denied", "Session": sess})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows the configured browser origins with credentials
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequestIDMiddleware tags every request with an id, reusing the caller's when present
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggingMiddleware logs every request with structured fields and records
// the HTTP metrics
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rw := newResponseWriter(c.Writer)
		c.Writer = rw

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

		attrs := []any{
			"request_id", c.GetString(ctxRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"latency_ms", float64(latency.Milliseconds()),
			"client_ip", c.ClientIP(),
			"response_size", rw.Size(),
		}

		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if userID, exists := c.Get("user_id"); exists {
			attrs = append(attrs, "user_id", userID)
		}
		if location := rw.Header().Get("Location"); location != "" {
			attrs = append(attrs, "location", location)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
