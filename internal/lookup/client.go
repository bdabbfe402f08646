// Package lookup resolves free-form organizational-unit strings against
// the institutional directory service.
package lookup

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/uisautomation/assetmigrate/internal/transport"
	"github.com/uisautomation/assetmigrate/pkg/errors"
)

// Institution is one candidate returned by the directory service.
type Institution struct {
	InstID string `json:"instid"`
	Name   string `json:"name"`
}

// searchResponse is the directory service's search envelope.
type searchResponse struct {
	Institutions []Institution `json:"institutions"`
}

// Client queries the directory service over HTTP.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// NewClient creates a directory service client rooted at baseURL.
func NewClient(baseURL string, t *transport.Client) *Client {
	return &Client{baseURL: baseURL, transport: t}
}

// Search returns the institutions matching name, including approximate
// matches. Zero results is not an error.
func (c *Client) Search(ctx context.Context, name string) ([]Institution, error) {
	u := c.baseURL + "/institutions?query=" + url.QueryEscape(name) + "&approx=true"

	resp, err := c.transport.Get(ctx, u)
	if err != nil {
		return nil, &errors.APIError{
			Service:  "lookup",
			Endpoint: u,
			Message:  "request failed",
			Err:      err,
		}
	}

	body, err := transport.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		return nil, &errors.APIError{
			Service:    "lookup",
			StatusCode: resp.StatusCode,
			Endpoint:   u,
			Message:    string(body),
		}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, errors.WrapParse("json", "lookup response", err)
	}
	return sr.Institutions, nil
}
