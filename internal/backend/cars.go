package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) ListCars(ctx context.Context) ([]Car, error) {
	return call[[]Car](ctx, c, http.MethodGet, "/cars", nil, nil)
}

func (c *Client) GetCar(ctx context.Context, id int64) (*Car, error) {
	return call[*Car](ctx, c, http.MethodGet, fmt.Sprintf("/cars/%d", id), nil, nil)
}

func (c *Client) ListCarsByCategory(ctx context.Context, categoryID int64) ([]Car, error) {
	return call[[]Car](ctx, c, http.MethodGet, fmt.Sprintf("/cars/category/%d", categoryID), nil, nil)
}

func (c *Client) ListCarsByStatus(ctx context.Context, status string) ([]Car, error) {
	return call[[]Car](ctx, c, http.MethodGet, "/cars/status/"+url.PathEscape(status), nil, nil)
}

// ListAvailableCars returns the cars free for the whole period. Dates are YYYY-MM-DD.
func (c *Client) ListAvailableCars(ctx context.Context, startDate, endDate string) ([]Car, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)
	return call[[]Car](ctx, c, http.MethodGet, "/cars/available", query, nil)
}

func (c *Client) CreateCar(ctx context.Context, in CarInput) (*Car, error) {
	return call[*Car](ctx, c, http.MethodPost, "/cars", nil, in)
}

func (c *Client) UpdateCar(ctx context.Context, id int64, in CarInput) (*Car, error) {
	return call[*Car](ctx, c, http.MethodPut, fmt.Sprintf("/cars/%d", id), nil, in)
}

func (c *Client) DeleteCar(ctx context.Context, id int64) error {
	_, err := call[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/cars/%d", id), nil, nil)
	return err
}
