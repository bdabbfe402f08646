package lookup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/assetmigrate/internal/lookup"
	"github.com/uisautomation/assetmigrate/internal/transport"
	pkgerrors "github.com/uisautomation/assetmigrate/pkg/errors"
)

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/institutions", r.URL.Path)
		assert.Equal(t, "Department of Physics", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("approx"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"institutions": [
			{"instid": "PHY", "name": "Department of Physics"}
		]}`))
	}))
	defer server.Close()

	client := lookup.NewClient(server.URL, transport.New(&transport.NoAuth{}, "", 0))

	matches, err := client.Search(context.Background(), "Department of Physics")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "PHY", matches[0].InstID)
	assert.Equal(t, "Department of Physics", matches[0].Name)
}

func TestClientSearchEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"institutions": []}`))
	}))
	defer server.Close()

	client := lookup.NewClient(server.URL, transport.New(&transport.NoAuth{}, "", 0))

	matches, err := client.Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestClientSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := lookup.NewClient(server.URL, transport.New(&transport.NoAuth{}, "", 0))

	_, err := client.Search(context.Background(), "Biochemistry")
	require.Error(t, err)

	var apiErr *pkgerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, pkgerrors.IsServiceUnavailable(err))
}

func TestClientSearchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // immediately, so the address refuses connections

	client := lookup.NewClient(server.URL, transport.New(&transport.NoAuth{}, "", 0))

	_, err := client.Search(context.Background(), "Biochemistry")
	require.Error(t, err)

	var apiErr *pkgerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}
