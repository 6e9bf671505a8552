package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return call[[]Category](ctx, c, http.MethodGet, "/categories", nil, nil)
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return call[*Category](ctx, c, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	return call[*Category](ctx, c, http.MethodPost, "/categories", nil, in)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	return call[*Category](ctx, c, http.MethodPut, fmt.Sprintf("/categories/%d", id), nil, in)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := call[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
	return err
}
