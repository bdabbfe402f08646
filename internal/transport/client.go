// Package transport provides the HTTP client shared by the directory
// lookup and backend upload clients. Requests carry a bounded timeout so
// a hung external call fails the current record instead of the run.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/uisautomation/assetmigrate/pkg/errors"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http  *http.Client
	auth  Authenticator
	token string
}

// New creates a new transport client with the specified authenticator and
// token. A zero timeout falls back to DefaultTimeout.
func New(auth Authenticator, token string, timeout time.Duration) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		auth:  auth,
		token: token,
	}
}

// Do performs an HTTP request with authentication and common headers
// applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+url, err)
	}
	return c.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapIO("create", "POST "+url, err)
	}
	return c.Do(req)
}

// ReadBody drains and closes a response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return body, nil
}
