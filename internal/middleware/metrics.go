package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"classifier-api/internal/ctx"
	"classifier-api/internal/metrics"
	"classifier-api/internal/shared"

	"github.com/aidarkhanov/nanoid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func NewTrackMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(shared.RequestIDHeader)
			if !shared.ValidRequestID(reqID) {
				id, err := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 28)
				if err != nil {
					id = strconv.FormatInt(time.Now().UnixNano(), 36)
				}
				reqID = shared.RequestIDPrefix + id
			}
			c.Response().Header().Set(shared.RequestIDHeader, reqID)

			logValues := &ctx.ContextLogValues{
				RequestID: reqID,
				Method:    c.Request().Method,
				Path:      c.Request().URL.Path,
				ClientIP:  c.RealIP(),
				StartTime: time.Now(),
			}
			cc := &ctx.Context{
				Context:   c,
				Log:       log.With("request_id", reqID),
				Reqid:     reqID,
				LogValues: logValues,
			}

			err := next(cc)
			if err != nil {
				logValues.AddError(err)
				// Hand the error to the boundary now so the logged status is the
				// one the client receives
				cc.Error(err)
			}

			logValues.RequestDuration = time.Since(logValues.StartTime)
			logValues.StatusCode = cc.Response().Status
			logValues.ContentType = cc.Response().Header().Get(echo.HeaderContentType)
			logEndOfRequest(cc.Log, logValues)

			route := cc.Path()
			if route == "" || logValues.StatusCode == http.StatusNotFound {
				route = "unmatched"
			}
			metrics.ResponseCodes.WithLabelValues(route, strconv.Itoa(logValues.StatusCode)).Inc()
			metrics.RequestDuration.WithLabelValues(logValues.Method, route).Observe(logValues.RequestDuration.Seconds())
			return nil
		}
	}
}

// logEndOfRequest never lets a logging failure escape into the response path
func logEndOfRequest(log *zap.SugaredLogger, lv *ctx.ContextLogValues) {
	defer func() {
		_ = recover()
	}()
	switch {
	case lv.StatusCode >= 500:
		log.Errorw("end_of_request", "request", lv)
	case lv.StatusCode >= 400:
		log.Warnw("end_of_request", "request", lv)
	default:
		log.Infow("end_of_request", "request", lv)
	}
}

func NewRecoverMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return emw.RecoverWithConfig(emw.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			defer func() {
				_ = log.Sync()
			}()
			metrics.PanicRecoveries.Inc()
			cc := ctx.From(c)
			cc.LogValues.AddError(err)
			log.Errorw("Api Panic", "error", err.Error(), "request_id", cc.Reqid, "stack", string(stack))
			return fmt.Errorf("recovered panic: %w", err)
		},
	})
}
