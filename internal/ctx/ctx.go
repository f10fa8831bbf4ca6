// Package ctx
package ctx

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogValues should only be accessed for logging, and not for
// actual business logic, or any other logic
type ContextLogValues struct {
	// Added in track middleware
	RequestID       string
	Method          string
	Path            string
	ClientIP        string
	StartTime       time.Time
	StatusCode      int
	RequestDuration time.Duration
	ContentType     string

	// Added by handlers
	BatchSize int

	// Added dynamically
	Error error
}

// AddError adds errors to the error chain. Always add errors, even if only warnings.
// Log level is determined by the status code of the request
func (c *ContextLogValues) AddError(err error) {
	if err == nil {
		return
	}
	if c.Error == nil {
		c.Error = err
		return
	}
	c.Error = fmt.Errorf("%w: %w", err, c.Error)
}

func (c *ContextLogValues) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("request_id", c.RequestID)
	enc.AddString("method", c.Method)
	enc.AddString("path", c.Path)
	enc.AddInt("status_code", c.StatusCode)
	enc.AddTime("start_time", c.StartTime)
	enc.AddDuration("request_duration", c.RequestDuration)
	enc.AddString("client_ip", c.ClientIP)
	enc.AddString("content_type", c.ContentType)
	if c.BatchSize > 0 {
		enc.AddInt("batch_size", c.BatchSize)
	}
	if c.Error != nil {
		enc.AddString("error", c.Error.Error())
	}
	return nil
}

type Context struct {
	echo.Context
	Log       *zap.SugaredLogger
	Reqid     string
	LogValues *ContextLogValues
}

// From returns the request context installed by the track middleware. Routes
// registered without it get a context with a no-op logger.
func From(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		return cc
	}
	return &Context{Context: c, Log: zap.NewNop().Sugar(), LogValues: &ContextLogValues{}}
}
