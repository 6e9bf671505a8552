package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return call[[]User](ctx, c, http.MethodGet, "/users", nil, nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	return call[*User](ctx, c, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	return call[*User](ctx, c, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in)
}

// UpdateCurrentUser edits the profile of the session's user
func (c *Client) UpdateCurrentUser(ctx context.Context, in UserInput) (*User, error) {
	return call[*User](ctx, c, http.MethodPut, "/users/me", nil, in)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := call[Empty](ctx, c, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
	return err
}
