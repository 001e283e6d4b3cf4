// Package overpass queries the public Overpass API for OSM points of interest.
package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nearby-places/internal/logger"
	"nearby-places/internal/models"

	"github.com/rs/zerolog"
)

// DefaultURL is the main public interpreter.
const DefaultURL = "https://overpass-api.de/api/interpreter"

// The client timeout must outlive the server side [timeout:25].
const (
	defaultUserAgent    = "nearby-places/1.0"
	defaultTimeout      = 35 * time.Second
	defaultQueryTimeout = 25
	defaultLimit        = 300
	maxErrorBodyBytes   = 512
)

// StatusError is a non-200 answer from the interpreter.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass returned status %d", e.StatusCode)
}

// RateLimited reports a 429 or the 504 Overpass sends when its slots are full.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusGatewayTimeout
}

// IsRateLimited reports whether err carries a rate limit answer.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.RateLimited()
}

// Options configures the Client.
type Options struct {
	URL          string
	UserAgent    string
	Timeout      time.Duration
	QueryTimeout int
	HTTPClient   *http.Client
}

// Client posts Overpass QL to an interpreter endpoint.
type Client struct {
	http *http.Client
	opts Options
	log  zerolog.Logger
}

// response keeps Elements as a pointer so that a body without the key is
// told apart from an empty result.
type response struct {
	Remark   string              `json:"remark"`
	Elements *[]models.RawRecord `json:"elements"`
}

// serverFailure reports the remark Overpass attaches to a 200 answer when the
// query was aborted (timeout, memory exhaustion).
func (r response) serverFailure() bool {
	remark := strings.TrimSpace(r.Remark)
	return strings.HasPrefix(remark, "runtime error") || strings.HasPrefix(remark, "runtime remark")
}

// NewClient creates a Client, filling unset options with defaults.
func NewClient(o Options) *Client {
	if o.URL == "" {
		o.URL = DefaultURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = defaultQueryTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{http: hc, opts: o, log: logger.Named("overpass")}
}

// Fetch runs the query for q and returns the raw elements. Any transport,
// status or decoding failure wraps models.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context, q models.Query) ([]models.RawRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query := BuildQuery(q.Box, q.Category, QueryOptions{TimeoutSeconds: c.opts.QueryTimeout, Limit: limit})

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("overpass: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass: request failed: %w: %w", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		se := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		return nil, fmt.Errorf("overpass: %w: %w", models.ErrSourceUnavailable, se)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("overpass: failed to decode response: %w: %w", models.ErrSourceUnavailable, err)
	}
	if out.serverFailure() {
		return nil, fmt.Errorf("overpass: %w: %s", models.ErrSourceUnavailable, out.Remark)
	}
	if out.Elements == nil {
		return nil, fmt.Errorf("overpass: %w: response has no elements", models.ErrSourceUnavailable)
	}
	elements := *out.Elements

	c.log.Debug().
		Str("category", q.Category.Key).
		Int("elements", len(elements)).
		Dur("took", time.Since(start)).
		Msg("overpass query done")

	return elements, nil
}
