package ctx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAddError(t *testing.T) {
	lv := &ContextLogValues{}
	lv.AddError(nil)
	assert.NoError(t, lv.Error)

	first := errors.New("first")
	second := errors.New("second")
	lv.AddError(first)
	lv.AddError(second)

	assert.ErrorIs(t, lv.Error, first)
	assert.ErrorIs(t, lv.Error, second)
	assert.Equal(t, "second: first", lv.Error.Error())
}

func TestMarshalLogObject(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core).Sugar()

	lv := &ContextLogValues{
		RequestID:       "req_1",
		Method:          http.MethodPost,
		Path:            "/predict",
		ClientIP:        "10.0.0.1",
		StartTime:       time.Unix(0, 0),
		StatusCode:      200,
		RequestDuration: time.Millisecond,
		ContentType:     "application/json",
	}
	log.Infow("end_of_request", "request", lv)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()["request"].(map[string]any)
	assert.Equal(t, "req_1", fields["request_id"])
	assert.Equal(t, "/predict", fields["path"])
	assert.Equal(t, 200, fields["status_code"])
	assert.Equal(t, "10.0.0.1", fields["client_ip"])
	assert.NotContains(t, fields, "error")
	assert.NotContains(t, fields, "batch_size")
}

func TestFrom(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	fallback := From(c)
	require.NotNil(t, fallback.Log)
	require.NotNil(t, fallback.LogValues)

	cc := &Context{Context: c, Log: zap.NewNop().Sugar(), LogValues: &ContextLogValues{}}
	assert.Same(t, cc, From(cc))
}
