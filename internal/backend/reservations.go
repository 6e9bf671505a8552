package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) (*Reservation, error) {
	return call[*Reservation](ctx, c, http.MethodPost, "/reservations", nil, in)
}

func (c *Client) GetReservation(ctx context.Context, id int64) (*Reservation, error) {
	return call[*Reservation](ctx, c, http.MethodGet, fmt.Sprintf("/reservations/%d", id), nil, nil)
}

// MyReservations lists the reservations of the session's user
func (c *Client) MyReservations(ctx context.Context) ([]Reservation, error) {
	return call[[]Reservation](ctx, c, http.MethodGet, "/reservations/my", nil, nil)
}

func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	return call[[]Reservation](ctx, c, http.MethodGet, "/reservations", nil, nil)
}

func (c *Client) ListReservationsByUser(ctx context.Context, userID int64) ([]Reservation, error) {
	return call[[]Reservation](ctx, c, http.MethodGet, fmt.Sprintf("/reservations/user/%d", userID), nil, nil)
}

func (c *Client) ListReservationsByCar(ctx context.Context, carID int64) ([]Reservation, error) {
	return call[[]Reservation](ctx, c, http.MethodGet, fmt.Sprintf("/reservations/car/%d", carID), nil, nil)
}

func (c *Client) ConfirmReservation(ctx context.Context, id int64) (*Reservation, error) {
	return call[*Reservation](ctx, c, http.MethodPut, fmt.Sprintf("/reservations/%d/confirm", id), nil, nil)
}

func (c *Client) CancelReservation(ctx context.Context, id int64) (*Reservation, error) {
	return call[*Reservation](ctx, c, http.MethodPut, fmt.Sprintf("/reservations/%d/cancel", id), nil, nil)
}

func (c *Client) DeleteReservation(ctx context.Context, id int64) error {
	_, err := call[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/reservations/%d", id), nil, nil)
	return err
}
