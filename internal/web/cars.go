package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// FallbackUSDTRY is used when the exchange rate service is unavailable
const FallbackUSDTRY = 32.0

const dateLayout = "2006-01-02"

const (
	msgCarsUnavailable   = "Cars could not be loaded"
	msgCarNotAvailable   = "This car is not available right now"
	msgCarBooked         = "This car is already booked for those dates"
	msgReservationDates  = "Please choose a start and an end date"
	msgReservationOrder  = "The end date must be after the start date"
	msgReservationFailed = "The reservation could not be created"
	msgReservationMade   = "Your reservation has been created"
)

// CarFilter narrows the catalog
type CarFilter struct {
	CategoryID int64
	Status     string
	Search     string
}

// Match reports whether car passes the filter
func (f CarFilter) Match(car backend.Car) bool {
	if f.CategoryID != 0 && car.CategoryID != f.CategoryID {
		return false
	}
	if f.Status != "" && car.Status != f.Status {
		return false
	}
	if f.Search != "" && !containsFold(car.Brand, f.Search) && !containsFold(car.Model, f.Search) {
		return false
	}
	return true
}

type carView struct {
	backend.Car
	PriceTRY  float64
	Available bool
}

func carFilterFromQuery(c *gin.Context) CarFilter {
	filter := CarFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
	}
	if id, err := strconv.ParseInt(c.Query("category"), 10, 64); err == nil {
		filter.CategoryID = id
	}
	return filter
}

// Cars renders the catalog with prices in USD and TRY
func (h *Handler) Cars(c *gin.Context) {
	ctx := c.Request.Context()
	filter := carFilterFromQuery(c)

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
			// the filter simply has no categories
			slog.Warn("Failed to load categories", "error", err)
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		h.loadError(c, "cars", "Cars", err, msgCarsUnavailable)
		return
	}

	rate := h.exchangeRate(c)

	views := make([]carView, 0, len(cars))
	for _, car := range cars {
		if !filter.Match(car) {
			continue
		}
		views = append(views, carView{
			Car:       car,
			PriceTRY:  car.DailyPrice * rate,
			Available: car.Status == backend.CarAvailable,
		})
	}

	h.render(c, http.StatusOK, "cars", gin.H{
		"Title":        "Cars",
		"Cars":         views,
		"Categories":   categories,
		"Filter":       filter,
		"ExchangeRate": rate,
		"Today":        time.Now().Format(dateLayout),
	})
}

// exchangeRate returns the USD to TRY rate or the fallback
func (h *Handler) exchangeRate(c *gin.Context) float64 {
	rate, err := h.backend.ExchangeRate(c.Request.Context(), "USD", "TRY")
	if err != nil {
		slog.Warn("Using fallback exchange rate", "error", err, "fallback", FallbackUSDTRY)
		return FallbackUSDTRY
	}
	return rate
}

// Reserve books a car for the signed-in user
func (h *Handler) Reserve(c *gin.Context) {
	carID, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}

	var in backend.ReservationInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgReservationDates)
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}
	in.CarID = carID

	start, errStart := time.Parse(dateLayout, in.StartDate)
	end, errEnd := time.Parse(dateLayout, in.EndDate)
	if errStart != nil || errEnd != nil {
		h.flash(c, flashError, msgReservationDates)
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}
	if !end.After(start) {
		h.flash(c, flashError, msgReservationOrder)
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}

	ctx := c.Request.Context()

	car, err := h.backend.GetCar(ctx, carID)
	if err != nil {
		h.fail(c, err, msgReservationFailed, "/cars")
		return
	}
	if car.Status != backend.CarAvailable {
		h.flash(c, flashError, msgCarNotAvailable)
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}

	free, err := h.backend.ListAvailableCars(ctx, in.StartDate, in.EndDate)
	if err != nil {
		h.fail(c, err, msgReservationFailed, "/cars")
		return
	}
	if !containsCar(free, carID) {
		h.flash(c, flashError, msgCarBooked)
		c.Redirect(http.StatusSeeOther, "/cars")
		return
	}

	if _, err := h.backend.CreateReservation(ctx, in); err != nil {
		h.fail(c, err, msgReservationFailed, "/cars")
		return
	}

	h.done(c, msgReservationMade, "/my-reservations")
}

func containsCar(cars []backend.Car, id int64) bool {
	for _, car := range cars {
		if car.ID == id {
			return true
		}
	}
	return false
}
