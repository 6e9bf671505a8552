package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"carrental/internal/auth"
	"carrental/internal/backend"
	"carrental/internal/session"

	"github.com/gin-gonic/gin"
)

var errNotStubbed = errors.New("not stubbed")

// stubBackend implements Backend and auth.Backend for testing. Methods
// without a stub fall through to the nil embedded interface.
type stubBackend struct {
	Backend

	loginFunc             func(ctx context.Context, creds backend.Credentials) (*backend.AuthData, error)
	registerFunc          func(ctx context.Context, reg backend.Registration) (*backend.AuthData, error)
	listCarsFunc          func(ctx context.Context) ([]backend.Car, error)
	listCarsByStatusFunc  func(ctx context.Context, status string) ([]backend.Car, error)
	listAvailableCarsFunc func(ctx context.Context, startDate, endDate string) ([]backend.Car, error)
	getCarFunc            func(ctx context.Context, id int64) (*backend.Car, error)
	listCategoriesFunc    func(ctx context.Context) ([]backend.Category, error)
	createReservationFunc func(ctx context.Context, in backend.ReservationInput) (*backend.Reservation, error)
	myReservationsFunc    func(ctx context.Context) ([]backend.Reservation, error)
	listReservationsFunc  func(ctx context.Context) ([]backend.Reservation, error)
	cancelReservationFunc func(ctx context.Context, id int64) (*backend.Reservation, error)
	listRentalsFunc       func(ctx context.Context) ([]backend.Rental, error)
	listUsersFunc         func(ctx context.Context) ([]backend.User, error)
	deleteUserFunc        func(ctx context.Context, id int64) error
	currentUserFunc       func(ctx context.Context) (*backend.User, error)
	exchangeRateFunc      func(ctx context.Context, from, to string) (float64, error)
}

func (s *stubBackend) Login(ctx context.Context, creds backend.Credentials) (*backend.AuthData, error) {
	if s.loginFunc == nil {
		return nil, errNotStubbed
	}
	return s.loginFunc(ctx, creds)
}

func (s *stubBackend) Register(ctx context.Context, reg backend.Registration) (*backend.AuthData, error) {
	if s.registerFunc == nil {
		return nil, errNotStubbed
	}
	return s.registerFunc(ctx, reg)
}

func (s *stubBackend) ListCars(ctx context.Context) ([]backend.Car, error) {
	if s.listCarsFunc == nil {
		return nil, errNotStubbed
	}
	return s.listCarsFunc(ctx)
}

func (s *stubBackend) ListCarsByStatus(ctx context.Context, status string) ([]backend.Car, error) {
	if s.listCarsByStatusFunc == nil {
		return nil, errNotStubbed
	}
	return s.listCarsByStatusFunc(ctx, status)
}

func (s *stubBackend) ListAvailableCars(ctx context.Context, startDate, endDate string) ([]backend.Car, error) {
	if s.listAvailableCarsFunc == nil {
		return nil, errNotStubbed
	}
	return s.listAvailableCarsFunc(ctx, startDate, endDate)
}

func (s *stubBackend) GetCar(ctx context.Context, id int64) (*backend.Car, error) {
	if s.getCarFunc == nil {
		return nil, errNotStubbed
	}
	return s.getCarFunc(ctx, id)
}

func (s *stubBackend) ListCategories(ctx context.Context) ([]backend.Category, error) {
	if s.listCategoriesFunc == nil {
		return nil, errNotStubbed
	}
	return s.listCategoriesFunc(ctx)
}

func (s *stubBackend) CreateReservation(ctx context.Context, in backend.ReservationInput) (*backend.Reservation, error) {
	if s.createReservationFunc == nil {
		return nil, errNotStubbed
	}
	return s.createReservationFunc(ctx, in)
}

func (s *stubBackend) MyReservations(ctx context.Context) ([]backend.Reservation, error) {
	if s.myReservationsFunc == nil {
		return nil, errNotStubbed
	}
	return s.myReservationsFunc(ctx)
}

func (s *stubBackend) ListReservations(ctx context.Context) ([]backend.Reservation, error) {
	if s.listReservationsFunc == nil {
		return nil, errNotStubbed
	}
	return s.listReservationsFunc(ctx)
}

func (s *stubBackend) CancelReservation(ctx context.Context, id int64) (*backend.Reservation, error) {
	if s.cancelReservationFunc == nil {
		return nil, errNotStubbed
	}
	return s.cancelReservationFunc(ctx, id)
}

func (s *stubBackend) ListRentals(ctx context.Context) ([]backend.Rental, error) {
	if s.listRentalsFunc == nil {
		return nil, errNotStubbed
	}
	return s.listRentalsFunc(ctx)
}

func (s *stubBackend) ListUsers(ctx context.Context) ([]backend.User, error) {
	if s.listUsersFunc == nil {
		return nil, errNotStubbed
	}
	return s.listUsersFunc(ctx)
}

func (s *stubBackend) DeleteUser(ctx context.Context, id int64) error {
	if s.deleteUserFunc == nil {
		return errNotStubbed
	}
	return s.deleteUserFunc(ctx, id)
}

func (s *stubBackend) CurrentUser(ctx context.Context) (*backend.User, error) {
	if s.currentUserFunc == nil {
		return nil, errNotStubbed
	}
	return s.currentUserFunc(ctx)
}

func (s *stubBackend) ExchangeRate(ctx context.Context, from, to string) (float64, error) {
	if s.exchangeRateFunc == nil {
		return 0, errNotStubbed
	}
	return s.exchangeRateFunc(ctx, from, to)
}

// countingManager counts how often sessions are cleared
type countingManager struct {
	session.Manager
	clears atomic.Int32
}

func (m *countingManager) Clear(ctx context.Context, id string) error {
	m.clears.Add(1)
	return m.Manager.Clear(ctx, id)
}

type testApp struct {
	router  *gin.Engine
	manager *countingManager
}

// newTestApp wires the real router, auth service and an in-memory session store
func newTestApp(t *testing.T, b Backend, authBackend auth.Backend) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mgr := &countingManager{Manager: session.NewManager(session.NewMemoryStore(), time.Hour)}
	authSvc := auth.NewService(authBackend, mgr)
	h := NewHandler(b, authSvc, mgr, CookieOptions{MaxAge: time.Hour})

	return &testApp{
		router:  SetupRouter(h, []string{"http://localhost:5173"}),
		manager: mgr,
	}
}

// signIn persists a session and returns its id
func (a *testApp) signIn(t *testing.T, role session.Role) string {
	t.Helper()

	sess, err := session.New("tok-"+string(role), &session.UserProfile{
		ID:    7,
		Name:  "Test " + string(role),
		Email: strings.ToLower(string(role)) + "@example.com",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	id := a.manager.NewID()
	if err := a.manager.Persist(context.Background(), id, sess); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	return id
}

func (a *testApp) do(t *testing.T, method, target, sessionID string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) sessionFor(t *testing.T, id string) *session.Session {
	t.Helper()

	sess, err := a.manager.Hydrate(context.Background(), id)
	if err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	return sess
}

func (a *testApp) popFlash(t *testing.T, id string) *session.Flash {
	t.Helper()

	flash, err := a.manager.PopFlash(context.Background(), id)
	if err != nil {
		t.Fatalf("PopFlash() error = %v", err)
	}
	return flash
}

func sessionCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}
