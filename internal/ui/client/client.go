// the client package is used by the ui handlers to call the wiki API.
// Every call goes through one request routine that classifies the outcome: the decoded body on success,
// otherwise a *ClientError carrying a user-friendly message for the page and a detailed message for logging (see client/errors.go)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	wiki "github.com/micro-hygiene/wiki"
)

// Client handles communication with the wiki API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http client (10s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout applied to each call to the API.
// The timeout is set on a copy of the http client, a client passed to WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API at baseURL (e.g http://localhost:8000/api).
// Endpoints are appended to the base URL as-is.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: wiki.DefaultAPITimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the API address the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request against the API and decodes the JSON response into T.
//
// There is no validation of the response shape: the API is trusted to return data matching T.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return request[T](ctx, c, http.MethodGet, endpoint, nil, nil)
}

// Post issues a POST request with payload encoded as the JSON body.
// Content-Type is set to application/json; headers supplied by the caller are merged in and take precedence.
func Post[T any](ctx context.Context, c *Client, endpoint string, payload any, headers ...http.Header) (T, error) {
	var zero T

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return zero, NewClientInternalError(err, "marshaling request body for "+endpoint)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for key, values := range h {
			header[http.CanonicalHeaderKey(key)] = values
		}
	}

	return request[T](ctx, c, http.MethodPost, endpoint, bytes.NewReader(jsonData), header)
}

// request is the shared routine behind Get and Post
func request[T any](ctx context.Context, c *Client, method, endpoint string, body io.Reader, header http.Header) (T, error) {
	var result T

	url := c.baseURL + endpoint

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return result, NewClientInternalError(err, "creating "+method+" "+endpoint+" request")
	}

	httpReq.Header.Set("Accept", "application/json")
	for key, values := range header {
		httpReq.Header[key] = values
	}

	start := time.Now()

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("wiki api call failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return result, NewClientConnectionError(err)
	}
	defer res.Body.Close()

	c.logger.Debug("wiki api call",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return result, NewClientApiError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return result, NewClientDecodeError(err, endpoint)
	}

	return result, nil
}
