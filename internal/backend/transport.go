package backend

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"carrental/internal/session"
)

// bearerTransport attaches the session token of the request context
type bearerTransport struct {
	next http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := session.FromContext(req.Context())
	if sess.Token == "" {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+sess.Token)
	return t.next.RoundTrip(authed)
}

// unauthorizedTransport reports 401 answers to authenticated calls as
// session invalidations
type unauthorizedTransport struct {
	next   http.RoundTripper
	client *Client
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized && session.FromContext(req.Context()).Token != "" {
		t.client.invalidate(req)
	}
	return resp, nil
}

// metricsTransport records the outcome and latency of every backend call
type metricsTransport struct {
	next http.RoundTripper
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	route := routeLabel(req.URL.Path)

	resp, err := t.next.RoundTrip(req)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(req.Method, route, status).Inc()
	requestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())

	return resp, err
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeLabel collapses numeric path segments so metric cardinality stays bounded
func routeLabel(path string) string {
	// applied twice: adjacent ids share a slash and the first pass skips the second
	label := numericSegment.ReplaceAllString(path, "/:id$1")
	return numericSegment.ReplaceAllString(label, "/:id$1")
}
