package web

import (
	"net/http"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const (
	msgReservationsUnavailable = "Reservations could not be loaded"
	msgReservationCancelled    = "The reservation has been cancelled"
	msgReservationCancelFailed = "The reservation could not be cancelled"
)

// MyReservations lists the signed-in user's reservations
func (h *Handler) MyReservations(c *gin.Context) {
	reservations, err := h.backend.MyReservations(c.Request.Context())
	if err != nil {
		h.loadError(c, "my_reservations", "My reservations", err, msgReservationsUnavailable)
		return
	}

	h.render(c, http.StatusOK, "my_reservations", gin.H{
		"Title":        "My reservations",
		"Reservations": reservations,
	})
}

// CancelMyReservation cancels one of the user's pending reservations
func (h *Handler) CancelMyReservation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/my-reservations")
		return
	}

	if _, err := h.backend.CancelReservation(c.Request.Context(), id); err != nil {
		h.fail(c, err, msgReservationCancelFailed, "/my-reservations")
		return
	}

	h.done(c, msgReservationCancelled, "/my-reservations")
}

// cancellable reports whether a reservation may still be cancelled by its owner
func cancellable(r backend.Reservation) bool {
	return r.Status == backend.ReservationPending || r.Status == backend.ReservationConfirmed
}
