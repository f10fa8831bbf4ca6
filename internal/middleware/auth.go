// Package middleware defines the echo middleware shared by every route
package middleware

import (
	"crypto/subtle"

	"classifier-api/internal/ctx"
	"classifier-api/internal/shared"

	"github.com/labstack/echo/v4"
)

// RequireAPIKey rejects requests whose api key header does not match
// expected. Comparison runs in constant time.
func RequireAPIKey(expected string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(cc echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(cc)
			if err != nil {
				return err
			}
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
				ctx.From(cc).Log.Warnw("Rejected request with invalid API key", "path", cc.Path())
				return shared.ErrUnauthorized
			}
			return next(cc)
		}
	}
}
