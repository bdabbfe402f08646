// Package upload submits normalized asset records to the backend and
// records the per-record outcome.
package upload

import (
	"context"
	"encoding/json"

	"github.com/uisautomation/assetmigrate/internal/transport"
	"github.com/uisautomation/assetmigrate/pkg/documents"
)

// Client sends one asset record per call to the backend endpoint. It
// never retries: repeated runs of the upload driver are the retry
// mechanism.
type Client struct {
	endpoint  string
	transport *transport.Client
}

// NewClient creates an upload client for the given endpoint.
func NewClient(endpoint string, t *transport.Client) *Client {
	return &Client{endpoint: endpoint, transport: t}
}

// createdResponse is the backend's success envelope.
type createdResponse struct {
	ID string `json:"id"`
}

// Upload submits one asset and classifies the response. Failures are
// captured in the result rather than returned: a transport failure yields
// status code 0, and a non-success status carries the backend's response
// body verbatim as the error payload.
func (c *Client) Upload(ctx context.Context, asset documents.Asset) documents.UploadResult {
	result := documents.UploadResult{
		Type:     documents.TypeUpload,
		SourceID: asset.ID,
	}

	body, err := json.Marshal(asset)
	if err != nil {
		result.Error = map[string]any{"message": "encoding asset: " + err.Error()}
		return result
	}

	resp, err := c.transport.Post(ctx, c.endpoint, body)
	if err != nil {
		// No response at all. Distinct from an HTTP error status: the
		// status code stays 0.
		result.Error = map[string]any{"message": err.Error()}
		return result
	}

	result.StatusCode = resp.StatusCode

	respBody, err := transport.ReadBody(resp)
	if err != nil {
		result.Error = map[string]any{"message": err.Error()}
		return result
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Error = errorPayload(respBody)
		return result
	}

	var created createdResponse
	if err := json.Unmarshal(respBody, &created); err != nil || created.ID == "" {
		result.Error = map[string]any{"message": "backend response missing id: " + string(respBody)}
		return result
	}

	result.DestID = &created.ID
	return result
}

// errorPayload decodes a failure body as JSON where possible so the
// backend's diagnostics survive into the result document unreinterpreted;
// non-JSON bodies are wrapped as a plain message.
func errorPayload(body []byte) map[string]any {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil && payload != nil {
		return payload
	}
	return map[string]any{"message": string(body)}
}
