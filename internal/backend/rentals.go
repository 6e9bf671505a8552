package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateRental hands over the car of a confirmed reservation
func (c *Client) CreateRental(ctx context.Context, in RentalInput) (*Rental, error) {
	return call[*Rental](ctx, c, http.MethodPost, "/rentals", nil, in)
}

func (c *Client) GetRental(ctx context.Context, id int64) (*Rental, error) {
	return call[*Rental](ctx, c, http.MethodGet, fmt.Sprintf("/rentals/%d", id), nil, nil)
}

func (c *Client) GetRentalByReservation(ctx context.Context, reservationID int64) (*Rental, error) {
	return call[*Rental](ctx, c, http.MethodGet, fmt.Sprintf("/rentals/reservation/%d", reservationID), nil, nil)
}

func (c *Client) ListRentals(ctx context.Context) ([]Rental, error) {
	return call[[]Rental](ctx, c, http.MethodGet, "/rentals", nil, nil)
}

func (c *Client) ListRentalsByUser(ctx context.Context, userID int64) ([]Rental, error) {
	return call[[]Rental](ctx, c, http.MethodGet, fmt.Sprintf("/rentals/user/%d", userID), nil, nil)
}

func (c *Client) ListRentalsByStatus(ctx context.Context, status string) ([]Rental, error) {
	return call[[]Rental](ctx, c, http.MethodGet, "/rentals/status/"+url.PathEscape(status), nil, nil)
}

func (c *Client) ListOverdueRentals(ctx context.Context) ([]Rental, error) {
	return call[[]Rental](ctx, c, http.MethodGet, "/rentals/overdue", nil, nil)
}

// ReturnCar closes a rental with the final mileage and extra charges
func (c *Client) ReturnCar(ctx context.Context, id int64, in ReturnInput) (*Rental, error) {
	return call[*Rental](ctx, c, http.MethodPut, fmt.Sprintf("/rentals/%d/return", id), nil, in)
}

func (c *Client) DeleteRental(ctx context.Context, id int64) error {
	_, err := call[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/rentals/%d", id), nil, nil)
	return err
}
