package web

import (
	"context"
	"net/http"
	"net/url"

	"carrental/internal/backend"

	"github.com/gin-gonic/gin"
)

const (
	msgReservationConfirmed     = "The reservation has been confirmed"
	msgReservationConfirmFailed = "The reservation could not be confirmed"
	msgReservationDeleted       = "The reservation has been deleted"
	msgReservationDeleteFailed  = "The reservation could not be deleted"
)

var reservationStatuses = []string{
	backend.ReservationPending,
	backend.ReservationConfirmed,
	backend.ReservationCancelled,
	backend.ReservationCompleted,
}

// statusFilter returns the status query value, or "" for all statuses
func statusFilter(c *gin.Context, allowed []string) string {
	status := c.Query("status")
	for _, s := range allowed {
		if s == status {
			return status
		}
	}
	return ""
}

// backTo returns to the list page keeping its status filter
func backTo(list string, c *gin.Context) string {
	if status := c.PostForm("status"); status != "" {
		return list + "?status=" + url.QueryEscape(status)
	}
	return list
}

// AdminReservations lists every reservation with an optional status filter
func (h *Handler) AdminReservations(c *gin.Context) {
	status := statusFilter(c, reservationStatuses)

	reservations, err := h.backend.ListReservations(c.Request.Context())
	if err != nil {
		h.loadError(c, "admin_reservations", "Manage reservations", err, msgReservationsUnavailable)
		return
	}

	counts := make(map[string]int, len(reservationStatuses))
	filtered := make([]backend.Reservation, 0, len(reservations))
	for _, r := range reservations {
		counts[r.Status]++
		if status == "" || r.Status == status {
			filtered = append(filtered, r)
		}
	}

	h.render(c, http.StatusOK, "admin_reservations", gin.H{
		"Title":        "Manage reservations",
		"Reservations": filtered,
		"Total":        len(reservations),
		"Counts":       counts,
		"Status":       status,
		"Statuses":     reservationStatuses,
	})
}

func (h *Handler) ConfirmReservation(c *gin.Context) {
	h.reservationAction(c, func(ctx context.Context, id int64) error {
		_, err := h.backend.ConfirmReservation(ctx, id)
		return err
	}, msgReservationConfirmed, msgReservationConfirmFailed)
}

func (h *Handler) CancelReservation(c *gin.Context) {
	h.reservationAction(c, func(ctx context.Context, id int64) error {
		_, err := h.backend.CancelReservation(ctx, id)
		return err
	}, msgReservationCancelled, msgReservationCancelFailed)
}

func (h *Handler) DeleteReservation(c *gin.Context) {
	h.reservationAction(c, h.backend.DeleteReservation, msgReservationDeleted, msgReservationDeleteFailed)
}

func (h *Handler) reservationAction(c *gin.Context, action func(ctx context.Context, id int64) error, success, failure string) {
	back := backTo("/admin/reservations", c)

	id, ok := paramID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		h.fail(c, err, failure, back)
		return
	}

	h.done(c, success, back)
}
