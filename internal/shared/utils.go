// Package shared
package shared

import (
	"math"
	"mime"
	"strings"

	"github.com/labstack/echo/v4"
)

// ExtractAPIKey reads the api key header. Surrounding whitespace is not
// trimmed, the key has to match byte for byte.
func ExtractAPIKey(c echo.Context) (string, error) {
	apiKey := c.Request().Header.Get(APIKeyHeader)
	if apiKey == "" {
		return "", ErrUnauthorized
	}
	return apiKey, nil
}

// IsJSONContentType accepts application/json and application/*+json, with
// any parameters
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == echo.MIMEApplicationJSON ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// ValidRequestID reports if a client supplied correlation id is safe to log
// and echo back
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLen {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '_' || r == '.' || r == ':':
			return false
		}
		return true
	}) == -1
}

// RoundProbability rounds p to ProbabilityPrecision decimals
func RoundProbability(p float64) float64 {
	scale := math.Pow10(ProbabilityPrecision)
	return math.Round(p*scale) / scale
}

func StringPtr(s string) *string {
	return &s
}
