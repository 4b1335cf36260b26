package cloudbeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ignite/guest-marketing/internal/config"
	"github.com/ignite/guest-marketing/internal/domain"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
)

const userAgent = "guest-marketing/1.0"

// reservationPaths are tried in order; endpoint naming varies by API
// version and account.
var reservationPaths = []string{"/getReservations", "/reservations"}

// HTTPDoer is the interface for executing HTTP requests. *http.Client
// satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client pulls reservations from the Cloudbeds API.
type Client struct {
	baseURL    string
	apiKey     string
	propertyID string
	httpClient HTTPDoer
}

// NewClient creates a Cloudbeds client from config. If httpClient is nil, an
// *http.Client with the configured timeout is used.
func NewClient(cfg config.CloudbedsConfig, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		propertyID: cfg.PropertyID,
		httpClient: httpClient,
	}
}

// PropertyID returns the property the client pulls for.
func (c *Client) PropertyID() string { return c.propertyID }

// GetReservations pulls reservations in [start, end]. Each known endpoint is
// tried once, in order; the first that answers 2xx with JSON wins. When all
// fail the error wraps ErrUpstreamUnavailable and describes the last failure.
func (c *Client) GetReservations(ctx context.Context, start, end domain.Date) ([]domain.Payload, error) {
	if c.apiKey == "" || c.propertyID == "" {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("propertyID", c.propertyID)
	params.Set("start_date", start.String())
	params.Set("end_date", end.String())
	params.Set("apiKey", c.apiKey)

	var lastErr error
	for _, path := range reservationPaths {
		data, err := c.get(ctx, path, params)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
			}
			logger.Warn("cloudbeds endpoint failed, trying next", "path", path, "error", err)
			lastErr = err
			continue
		}
		return CoerceReservations(data), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (any, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the api key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return data, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
