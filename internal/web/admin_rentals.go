package web

import (
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	msgRentalsUnavailable = "Rentals could not be loaded"
	msgRentalCreated      = "The car has been handed over"
	msgRentalCreateFailed = "The rental could not be created"
	msgRentalForm         = "Please choose a reservation and enter the initial mileage"
	msgCarReturned        = "The car has been returned"
	msgCarReturnFailed    = "The return could not be recorded"
	msgReturnForm         = "Please enter the final mileage and any additional charges"
)

var rentalStatuses = []string{
	backend.RentalPickedUp,
	backend.RentalReturned,
	backend.RentalOverdue,
}

// RentalStats are the counters of the rentals screen
type RentalStats struct {
	Total          int
	PickedUp       int
	Returned       int
	Overdue        int
	AwaitingPickup int
}

// awaitingPickup returns the confirmed reservations that have no rental yet
func awaitingPickup(reservations []backend.Reservation, rentals []backend.Rental) []backend.Reservation {
	rented := make(map[int64]struct{}, len(rentals))
	for _, r := range rentals {
		rented[r.ReservationID] = struct{}{}
	}

	waiting := make([]backend.Reservation, 0)
	for _, r := range reservations {
		if r.Status != backend.ReservationConfirmed {
			continue
		}
		if _, ok := rented[r.ID]; ok {
			continue
		}
		waiting = append(waiting, r)
	}
	return waiting
}

func rentalStats(rentals []backend.Rental, waiting int) RentalStats {
	stats := RentalStats{Total: len(rentals), AwaitingPickup: waiting}
	for _, r := range rentals {
		switch r.Status {
		case backend.RentalPickedUp:
			stats.PickedUp++
		case backend.RentalReturned:
			stats.Returned++
		case backend.RentalOverdue:
			stats.Overdue++
		}
	}
	return stats
}

// AdminRentals lists rentals and the confirmed reservations ready for pickup
func (h *Handler) AdminRentals(c *gin.Context) {
	ctx := c.Request.Context()
	status := statusFilter(c, rentalStatuses)

	var (
		rentals      []backend.Rental
		reservations []backend.Reservation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rentals, err = h.backend.ListRentals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = h.backend.ListReservations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.loadError(c, "admin_rentals", "Manage rentals", err, msgRentalsUnavailable)
		return
	}

	waiting := awaitingPickup(reservations, rentals)

	filtered := make([]backend.Rental, 0, len(rentals))
	for _, r := range rentals {
		if status == "" || r.Status == status {
			filtered = append(filtered, r)
		}
	}

	h.render(c, http.StatusOK, "admin_rentals", gin.H{
		"Title":    "Manage rentals",
		"Rentals":  filtered,
		"Waiting":  waiting,
		"Stats":    rentalStats(rentals, len(waiting)),
		"Status":   status,
		"Statuses": rentalStatuses,
	})
}

// CreateRental hands the car of a confirmed reservation over
func (h *Handler) CreateRental(c *gin.Context) {
	back := backTo("/admin/rentals", c)

	var in backend.RentalInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgRentalForm)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := h.backend.CreateRental(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgRentalCreateFailed, back)
		return
	}

	h.done(c, msgRentalCreated, back)
}

// ReturnCar records the return of a rented car
func (h *Handler) ReturnCar(c *gin.Context) {
	back := backTo("/admin/rentals", c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	var in backend.ReturnInput
	if err := c.ShouldBind(&in); err != nil {
		h.flash(c, flashError, msgReturnForm)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if _, err := h.backend.ReturnCar(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, msgCarReturnFailed, back)
		return
	}

	h.done(c, msgCarReturned, back)
}
