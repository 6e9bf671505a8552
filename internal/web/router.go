// Package web serves the car-rental front-end: the screens, the route guards
// and the observer that turns a backend authorization failure into a logout.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"money":       func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"lower":       strings.ToLower,
	"cancellable": cancellable,
	"dict":        dict,
}

// dict builds a map from key and value pairs for passing to nested templates
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
}

// SetupRouter configures and returns the front-end router
func SetupRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(loadTemplates())

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware(allowedOrigins))

	// Machine endpoints carry no session
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("/")
	app.Use(HydrateSession(h.sessionMgr, h.cookie))
	app.Use(InvalidationObserver(h.auth, h.sessionMgr))
	{
		app.GET("/", h.Home)
		app.GET("/cars", h.Cars)
		app.GET("/login", h.LoginPage)
		app.POST("/login", h.Login)
		app.GET("/register", h.RegisterPage)
		app.POST("/register", h.Register)
		app.POST("/logout", h.Logout)
		app.GET("/forbidden", h.Forbidden)
		app.GET("/api/session", h.SessionInfo)
	}

	// Signed-in users
	user := app.Group("/")
	user.Use(RequireAuth())
	{
		user.POST("/cars/:id/reserve", h.Reserve)
		user.GET("/my-reservations", h.MyReservations)
		user.POST("/my-reservations/:id/cancel", h.CancelMyReservation)
		user.GET("/profile", h.Profile)
		user.POST("/profile", h.UpdateProfile)
	}

	// Administrators
	admin := app.Group("/admin")
	admin.Use(RequireAdmin())
	{
		admin.GET("", h.Dashboard)

		admin.GET("/cars", h.AdminCars)
		admin.POST("/cars", h.CreateCar)
		admin.POST("/cars/:id", h.UpdateCar)
		admin.POST("/cars/:id/delete", h.DeleteCar)

		admin.GET("/categories", h.AdminCategories)
		admin.POST("/categories", h.CreateCategory)
		admin.POST("/categories/:id", h.UpdateCategory)
		admin.POST("/categories/:id/delete", h.DeleteCategory)

		admin.GET("/reservations", h.AdminReservations)
		admin.POST("/reservations/:id/confirm", h.ConfirmReservation)
		admin.POST("/reservations/:id/cancel", h.CancelReservation)
		admin.POST("/reservations/:id/delete", h.DeleteReservation)

		admin.GET("/rentals", h.AdminRentals)
		admin.POST("/rentals", h.CreateRental)
		admin.POST("/rentals/:id/return", h.ReturnCar)

		admin.GET("/users", h.AdminUsers)
		admin.POST("/users/:id/delete", h.DeleteUser)
	}

	r.NoRoute(h.NotFound)

	return r
}
