package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"carrental/internal/auth"
	"carrental/internal/backend"
	"carrental/internal/session"

	"github.com/gin-gonic/gin"
)

func TestHydrateSession_IssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := session.NewManager(session.NewMemoryStore(), time.Hour)
	r := gin.New()
	r.Use(HydrateSession(mgr, CookieOptions{Secure: true, MaxAge: time.Hour}))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": currentSession(c).IsAuthenticated(),
			"session_id":    currentSessionID(c),
			"context_id":    session.IDFromContext(c.Request.Context()),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	cookie := sessionCookieFrom(w)
	if cookie == nil {
		t.Fatal("Expected a session cookie to be issued")
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Errorf("Expected HttpOnly and Secure cookie, got %+v", cookie)
	}
	if !strings.Contains(w.Body.String(), cookie.Value) {
		t.Error("Expected the issued id to be bound to the request")
	}
	if strings.Contains(w.Body.String(), `"authenticated":true`) {
		t.Error("Expected a new browser to be anonymous")
	}
}

func TestHydrateSession_LoadsPersistedSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := session.NewManager(session.NewMemoryStore(), time.Hour)
	sess, _ := session.New("tok", &session.UserProfile{ID: 3, Role: "ADMIN"})
	mgr.Persist(context.Background(), "known", sess)

	r := gin.New()
	r.Use(HydrateSession(mgr, CookieOptions{MaxAge: time.Hour}))
	r.GET("/test", func(c *gin.Context) {
		fromCtx := session.FromContext(c.Request.Context())
		if !currentSession(c).IsAdmin() || !fromCtx.IsAdmin() {
			t.Error("Expected admin session in gin and request context")
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "known"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if sessionCookieFrom(w) != nil {
		t.Error("Expected no new cookie for a known browser")
	}
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(t, &stubBackend{
		myReservationsFunc: func(ctx context.Context) ([]backend.Reservation, error) {
			return nil, nil
		},
	}, &stubBackend{})

	w := app.do(t, http.MethodGet, "/my-reservations", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?next=%2Fmy-reservations" {
		t.Errorf("Unexpected redirect %q", loc)
	}

	id := app.signIn(t, session.RoleUser)
	w = app.do(t, http.MethodGet, "/my-reservations", id, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for a signed-in user, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	b := &stubBackend{
		listCarsFunc:         func(ctx context.Context) ([]backend.Car, error) { return nil, nil },
		listUsersFunc:        func(ctx context.Context) ([]backend.User, error) { return nil, nil },
		listReservationsFunc: func(ctx context.Context) ([]backend.Reservation, error) { return nil, nil },
		listCategoriesFunc:   func(ctx context.Context) ([]backend.Category, error) { return nil, nil },
	}
	app := newTestApp(t, b, &stubBackend{})

	t.Run("anonymous", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/admin/users", "", nil)
		if w.Code != http.StatusFound {
			t.Fatalf("Expected status 302, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login?next=%2Fadmin%2Fusers" {
			t.Errorf("Unexpected redirect %q", loc)
		}
	})

	t.Run("user", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/admin", app.signIn(t, session.RoleUser), nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected status 403, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Access denied") {
			t.Error("Expected the forbidden page")
		}
		if strings.Contains(w.Body.String(), "Admin dashboard") {
			t.Error("Admin view must never render for a non-admin")
		}
	})

	t.Run("admin", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/admin", app.signIn(t, session.RoleAdmin), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Admin dashboard") {
			t.Error("Expected the dashboard")
		}
	})
}

func TestInvalidationObserver_ClearsOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mgr := &countingManager{Manager: session.NewManager(session.NewMemoryStore(), time.Hour)}
	sess, _ := session.New("tok", &session.UserProfile{ID: 1, Role: "USER"})
	mgr.Persist(context.Background(), "sid", sess)

	r := gin.New()
	r.Use(HydrateSession(mgr, CookieOptions{MaxAge: time.Hour}))
	r.Use(InvalidationObserver(auth.NewService(&stubBackend{}, mgr), mgr))
	r.GET("/test", func(c *gin.Context) {
		ctx := c.Request.Context()
		sink := sinkOf(t, c)

		// three backend calls rejected at the same time
		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				inv := backend.Invalidation{SessionID: session.IDFromContext(ctx), Method: http.MethodGet, Path: "/api/cars"}
				sink.SessionInvalidated(ctx, inv)
			}()
		}
		wg.Wait()
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "sid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := mgr.clears.Load(); got != 1 {
		t.Errorf("Expected exactly one clear, got %d", got)
	}
	if w.Code != http.StatusFound || !strings.HasPrefix(w.Header().Get("Location"), "/login") {
		t.Errorf("Expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	after, _ := mgr.Hydrate(context.Background(), "sid")
	if after.IsAuthenticated() {
		t.Error("Expected session to be cleared")
	}
	flash, _ := mgr.PopFlash(context.Background(), "sid")
	if flash == nil || flash.Text != MsgSessionExpired {
		t.Errorf("Expected session expired flash, got %+v", flash)
	}
}

func sinkOf(t *testing.T, c *gin.Context) *requestInvalidation {
	t.Helper()

	v, ok := c.Get(ctxInvalidation)
	if !ok {
		t.Fatal("Expected an invalidation sink on the request")
	}
	return v.(*requestInvalidation)
}

func TestRedirectToLogin_Idempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin/cars", func(c *gin.Context) {
		redirectToLogin(c)
		redirectToLogin(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/cars?q=fiat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	if got := w.Header().Values("Location"); len(got) != 1 || got[0] != "/login?next=%2Fadmin%2Fcars%3Fq%3Dfiat" {
		t.Errorf("Unexpected Location %v", got)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected CORS Allow-Origin header")
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected CORS Allow-Credentials header")
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ctxRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if id := w.Header().Get("X-Request-ID"); id == "" || id != w.Body.String() {
		t.Errorf("Expected generated request id, got header %q body %q", id, w.Body.String())
	}

	const incoming = "2f1c7a44-0c8e-4a38-9d0c-2a9b8c1f3e55"
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != incoming {
		t.Errorf("Expected incoming request id to be kept, got %q", w.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "<script>" {
		t.Error("Expected a malformed request id to be replaced")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK || w.Body.String() != "hello" {
		t.Errorf("Expected the request to pass through, got %d %q", w.Code, w.Body.String())
	}
}
