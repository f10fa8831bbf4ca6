package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"classifier-api/internal/ctx"
	"classifier-api/internal/shared"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid", "secret", nil},
		{"missing", "", shared.ErrUnauthorized},
		{"wrong", "secreT", shared.ErrUnauthorized},
		{"longer", "secret ", shared.ErrUnauthorized},
	}
	e := echo.New()
	h := RequireAPIKey("secret")(ok)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/predict", nil)
			if tt.key != "" {
				req.Header.Set(shared.APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			err := h(e.NewContext(req, rec))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTrackMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.String(http.StatusTeapot, err.Error())
	}

	var seen *ctx.Context
	h := NewTrackMiddleware(zap.New(core).Sugar())(func(c echo.Context) error {
		seen = ctx.From(c)
		return errors.New("brewing")
	})

	req := httptest.NewRequest(http.MethodGet, "/tea", nil)
	req.Header.Set(shared.RequestIDHeader, "trace-1")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	require.NotNil(t, seen)
	assert.Equal(t, "trace-1", seen.Reqid)
	assert.Equal(t, "trace-1", rec.Header().Get(shared.RequestIDHeader))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.FilterMessage("end_of_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()["request"].(map[string]any)
	assert.Equal(t, http.StatusTeapot, fields["status_code"])
	assert.Equal(t, "brewing", fields["error"])
	assert.Equal(t, "trace-1", entries[0].ContextMap()["request_id"])
}

func TestRecoverMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	var handled error
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		handled = err
		_ = c.NoContent(http.StatusInternalServerError)
	}

	h := NewRecoverMiddleware(zap.New(core).Sugar())(func(c echo.Context) error {
		panic("kaboom")
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := h(c); err != nil {
		c.Error(err)
	}

	require.Error(t, handled)
	assert.Contains(t, handled.Error(), "kaboom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("Api Panic").Len())
}
