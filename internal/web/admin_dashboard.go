package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// DashboardStats are the counters of the admin dashboard. A source that fails
// to load contributes zero.
type DashboardStats struct {
	TotalCars           int
	AvailableCars       int
	TotalUsers          int
	TotalReservations   int
	PendingReservations int
	TotalCategories     int
}

// loadDashboard fetches every source concurrently and independently. Only a
// lost session aborts the whole dashboard.
func loadDashboard(ctx context.Context, b Backend) (DashboardStats, error) {
	var (
		cars         []backend.Car
		users        []backend.User
		reservations []backend.Reservation
		categories   []backend.Category
	)

	var g errgroup.Group
	g.Go(source("cars", func() (err error) {
		cars, err = b.ListCars(ctx)
		return err
	}))
	g.Go(source("users", func() (err error) {
		users, err = b.ListUsers(ctx)
		return err
	}))
	g.Go(source("reservations", func() (err error) {
		reservations, err = b.ListReservations(ctx)
		return err
	}))
	g.Go(source("categories", func() (err error) {
		categories, err = b.ListCategories(ctx)
		return err
	}))
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalCars:         len(cars),
		TotalUsers:        len(users),
		TotalReservations: len(reservations),
		TotalCategories:   len(categories),
	}
	for _, car := range cars {
		if car.Status == backend.CarAvailable {
			stats.AvailableCars++
		}
	}
	for _, r := range reservations {
		if r.Status == backend.ReservationPending {
			stats.PendingReservations++
		}
	}
	return stats, nil
}

// source wraps one dashboard fetch so that its failure is logged and dropped
func source(name string, fetch func() error) func() error {
	return func() error {
		err := fetch()
		if err == nil {
			return nil
		}
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}
		slog.Warn("Dashboard source unavailable", "source", name, "error", err)
		return nil
	}
}

// Dashboard renders the admin overview
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := loadDashboard(c.Request.Context(), h.backend)
	if err != nil {
		h.unauthorized(c, err)
		return
	}

	h.render(c, http.StatusOK, "admin_dashboard", gin.H{
		"Title": "Admin dashboard",
		"Stats": stats,
	})
}
