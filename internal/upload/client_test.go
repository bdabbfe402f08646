package upload_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/assetmigrate/internal/transport"
	"github.com/uisautomation/assetmigrate/internal/upload"
	"github.com/uisautomation/assetmigrate/pkg/documents"
)

func testAsset() documents.Asset {
	return documents.Asset{
		ID:         "abc123",
		Department: "BIOCH",
		Name:       "Microscope",
		Purpose:    "Research",
		RiskType:   []string{"chemical"},
	}
}

func newClient(serverURL, token string) *upload.Client {
	auth := transport.Authenticator(&transport.NoAuth{})
	if token != "" {
		auth = &transport.BearerAuth{}
	}
	return upload.NewClient(serverURL, transport.New(auth, token, 0))
}

func TestUploadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))

		var asset documents.Asset
		require.NoError(t, json.NewDecoder(r.Body).Decode(&asset))
		assert.Equal(t, "abc123", asset.ID)
		assert.Equal(t, "BIOCH", asset.Department)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "xyz789"}`))
	}))
	defer server.Close()

	result := newClient(server.URL, "sekrit").Upload(context.Background(), testAsset())

	assert.Equal(t, documents.TypeUpload, result.Type)
	assert.Equal(t, http.StatusCreated, result.StatusCode)
	assert.Equal(t, "abc123", result.SourceID)
	require.NotNil(t, result.DestID)
	assert.Equal(t, "xyz789", *result.DestID)
	assert.Nil(t, result.Error)
	assert.True(t, result.Succeeded())
}

func TestUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"department": ["this field is required"]}`))
	}))
	defer server.Close()

	result := newClient(server.URL, "").Upload(context.Background(), testAsset())

	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
	assert.Nil(t, result.DestID)
	require.NotNil(t, result.Error)
	// The backend body is captured verbatim, not reinterpreted.
	assert.Equal(t, []any{"this field is required"}, result.Error["department"])
	assert.False(t, result.Succeeded())
}

func TestUploadNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer server.Close()

	result := newClient(server.URL, "").Upload(context.Background(), testAsset())

	assert.Equal(t, http.StatusBadGateway, result.StatusCode)
	require.NotNil(t, result.Error)
	assert.Contains(t, result.Error["message"], "gateway timeout")
}

func TestUploadTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // connection refused from here on

	result := newClient(server.URL, "").Upload(context.Background(), testAsset())

	// No response at all: status code stays 0, distinct from any HTTP
	// error status.
	assert.Zero(t, result.StatusCode)
	assert.Nil(t, result.DestID)
	require.NotNil(t, result.Error)
	assert.NotEmpty(t, result.Error["message"])
}

func TestUploadSuccessWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	result := newClient(server.URL, "").Upload(context.Background(), testAsset())

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Nil(t, result.DestID)
	require.NotNil(t, result.Error)
	assert.False(t, result.Succeeded())
}
