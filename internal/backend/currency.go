package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ExchangeRate returns how many units of to one unit of from buys
func (c *Client) ExchangeRate(ctx context.Context, from, to string) (float64, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)

	rate, err := call[*ExchangeRate](ctx, c, http.MethodGet, "/currency/rate", query, nil)
	if err != nil {
		return 0, err
	}
	if rate == nil || rate.Rate <= 0 {
		return 0, &APIError{Status: http.StatusOK, Message: "no exchange rate"}
	}
	return rate.Rate, nil
}

func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (*Conversion, error) {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	query.Set("from", from)
	query.Set("to", to)
	return call[*Conversion](ctx, c, http.MethodGet, "/currency/convert", query, nil)
}

// ExchangeRates lists the rates against base, USD when empty
func (c *Client) ExchangeRates(ctx context.Context, base string) (*ExchangeRates, error) {
	if base == "" {
		base = "USD"
	}
	query := url.Values{}
	query.Set("base", base)
	return call[*ExchangeRates](ctx, c, http.MethodGet, "/currency/rates", query, nil)
}
