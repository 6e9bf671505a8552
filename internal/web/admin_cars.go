package web

import (
	"errors"
	"log/slog"
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	msgCarSaved      = "The car has been saved"
	msgCarSaveFailed = "The car could not be saved"
	msgCarDeleted    = "The car has been deleted"
	msgCarDelFailed  = "The car could not be deleted"
	msgCarForm       = "Please fill in brand, model, year, plate, daily price, status and category"
)

// AdminCars lists the fleet with a brand, model or plate search
func (h *Handler) AdminCars(c *gin.Context) {
	ctx := c.Request.Context()
	search := c.Query("q")

	var (
		cars       []backend.Car
		categories []backend.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cars, err = h.backend.ListCars(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = h.backend.ListCategories(gctx)
		if err != nil && !errors.Is(err, backend.ErrUnauthorized) {
			slog.Warn("Failed to load categories", "error", err)
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		h.loadError(c, "admin_cars", "Manage cars", err, msgCarsUnavailable)
		return
	}

	filtered := make([]backend.Car, 0, len(cars))
	for _, car := range cars {
		if search == "" || containsFold(car.Brand, search) || containsFold(car.Model, search) || containsFold(car.Plate, search) {
			filtered = append(filtered, car)
		}
	}

	h.render(c, http.StatusOK, "admin_cars", gin.H{
		"Title":      "Manage cars",
		"Cars":       filtered,
		"Categories": categories,
		"Search":     search,
		"Statuses":   []string{backend.CarAvailable, backend.CarRented, backend.CarMaintenance},
	})
}

// CreateCar adds a car to the fleet
func (h *Handler) CreateCar(c *gin.Context) {
	var in backend.CarInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgCarForm)
		c.Redirect(http.StatusSeeOther, "/admin/cars")
		return
	}

	if _, err := h.backend.CreateCar(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgCarSaveFailed, "/admin/cars")
		return
	}

	h.done(c, msgCarSaved, "/admin/cars")
}

// UpdateCar saves changes to a car
func (h *Handler) UpdateCar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/cars")
		return
	}

	var in backend.CarInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgCarForm)
		c.Redirect(http.StatusSeeOther, "/admin/cars")
		return
	}

	if _, err := h.backend.UpdateCar(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, msgCarSaveFailed, "/admin/cars")
		return
	}

	h.done(c, msgCarSaved, "/admin/cars")
}

// DeleteCar removes a car from the fleet
func (h *Handler) DeleteCar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/cars")
		return
	}

	if err := h.backend.DeleteCar(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgCarDelFailed, "/admin/cars")
		return
	}

	h.done(c, msgCarDeleted, "/admin/cars")
}
