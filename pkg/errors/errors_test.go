package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/uisautomation/assetmigrate/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Service:    "lookup",
			StatusCode: 404,
			Message:    "no such institution",
		}
		assert.Equal(t, "API error from lookup (status 404): no such institution", err.Error())
	})

	t.Run("without status code", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Service: "backend",
			Message: "connection refused",
		}
		assert.Equal(t, "API error from backend: connection refused", err.Error())
	})

	t.Run("server errors are service unavailable", func(t *testing.T) {
		err := &pkgerrors.APIError{Service: "lookup", StatusCode: 503, Message: "down"}
		assert.True(t, pkgerrors.IsServiceUnavailable(err))

		client := &pkgerrors.APIError{Service: "lookup", StatusCode: 422, Message: "bad"}
		assert.False(t, pkgerrors.IsServiceUnavailable(client))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("dial tcp: refused")
		err := pkgerrors.WrapAPI("backend", 0, base)
		assert.True(t, errors.Is(err, base))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("with component", func(t *testing.T) {
		err := &pkgerrors.ConfigError{Component: "upload", Message: "endpoint not set"}
		assert.Equal(t, "configuration error in upload: endpoint not set", err.Error())
	})

	t.Run("without component", func(t *testing.T) {
		err := &pkgerrors.ConfigError{Message: "bad config"}
		assert.Equal(t, "configuration error: bad config", err.Error())
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "assets.yaml", base)
	assert.Equal(t, "IO error during write of assets.yaml: permission denied", err.Error())
	assert.True(t, errors.Is(err, base))
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected token")
	err := pkgerrors.WrapParse("yaml", "fixups.yaml", base)
	assert.Equal(t, "parse error in yaml file fixups.yaml: unexpected token", err.Error())
	assert.True(t, errors.Is(err, base))
}

func TestValidationError(t *testing.T) {
	err := &pkgerrors.ValidationError{Field: "endpoint", Message: "cannot be empty"}
	assert.Equal(t, "validation failed for field endpoint: cannot be empty", err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapParse("csv", "x", nil))
	assert.Nil(t, pkgerrors.WrapAPI("lookup", 500, nil))
}
