// Package routers wires handlers, middleware and the error boundary into echo
package routers

import (
	"errors"
	"net/http"

	"classifier-api/internal/config"
	"classifier-api/internal/handlers/prediction"
	"classifier-api/internal/metrics"
	"classifier-api/internal/middleware"
	"classifier-api/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// New builds the echo server with every route registered. Middleware order,
// outermost first: track, recover, CORS, body limit, rate limit.
func New(ph *prediction.PredictionHandler, log *zap.SugaredLogger) (*echo.Echo, error) {
	if ph == nil {
		return nil, errors.New("prediction handler is required")
	}
	settings := ph.Settings

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(middleware.NewTrackMiddleware(log))
	e.Use(middleware.NewRecoverMiddleware(log))
	e.Use(emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins:  settings.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAccept, shared.APIKeyHeader, shared.RequestIDHeader},
		ExposeHeaders: []string{shared.RequestIDHeader},
	}))
	e.Use(emw.BodyLimit(settings.BodyLimit))
	if settings.RateLimit > 0 {
		e.Use(newRateLimiter(settings))
	}

	RegisterPredictionRoutes(e, ph)
	registerMetricsRoute(e, settings)
	return e, nil
}

func RegisterPredictionRoutes(e *echo.Echo, ph *prediction.PredictionHandler) {
	pr := &PredictionRouter{ph: ph}

	e.GET("/health", pr.Health)

	// Route level middleware keeps unknown paths a 404 instead of a 401
	requireKey := middleware.RequireAPIKey(ph.Settings.APIKey)
	e.POST("/predict", pr.Predict, requireKey)
	e.POST("/batch_predict", pr.BatchPredict, requireKey)
	e.GET("/model", pr.ModelInfo, requireKey)
}

// registerMetricsRoute only exposes metrics when a dedicated key is configured
func registerMetricsRoute(e *echo.Echo, settings *config.Settings) {
	if settings.MetricsAPIKey == "" {
		return
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.RequireAPIKey(settings.MetricsAPIKey))
}

func newRateLimiter(settings *config.Settings) echo.MiddlewareFunc {
	return emw.RateLimiterWithConfig(emw.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: emw.NewRateLimiterMemoryStoreWithConfig(emw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(settings.RateLimit),
			Burst:     settings.RateLimitBurst,
			ExpiresIn: shared.RateLimitStoreExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitRejects.Inc()
			c.Response().Header().Set("Retry-After", "1")
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
