package routers

import (
	"errors"
	"net/http"

	"classifier-api/internal/metrics"
	"classifier-api/internal/shared"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler is the only place errors become responses. Handlers
// and middleware return errors, this maps each one to the uniform error
// body. Unknown errors never leak their message.
func NewHTTPErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			log.Warnw("Error after response was committed", "error", err, "path", c.Request().URL.Path)
			return
		}

		resp := toErrorResponse(err)
		if resp.Code >= 500 {
			log.Errorw("Unhandled error", "error", err, "path", c.Request().URL.Path)
		}
		metrics.ErrorCount.WithLabelValues(routeLabel(c), resp.Error).Inc()

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(resp.Code)
		} else {
			werr = c.JSON(resp.Code, resp)
		}
		if werr != nil {
			log.Errorw("Failed writing error response", "error", werr)
		}
	}
}

func toErrorResponse(err error) shared.ErrorResponse {
	var (
		verr *shared.ValidationError
		rerr *shared.RequestError
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return shared.ErrorResponse{
			Error:   "Invalid input",
			Code:    http.StatusBadRequest,
			Details: verr.Details(),
		}
	case errors.As(err, &rerr):
		return httpErrorResponse(rerr.StatusCode, rerr.Err.Error())
	case errors.As(err, &herr):
		details := ""
		if herr.Message != nil {
			if msg, ok := herr.Message.(string); ok {
				details = msg
			}
		}
		return httpErrorResponse(herr.Code, details)
	default:
		return httpErrorResponse(http.StatusInternalServerError, shared.ErrInternalServerError.Err.Error())
	}
}

func httpErrorResponse(code int, details string) shared.ErrorResponse {
	name := http.StatusText(code)
	if name == "" {
		name = "HTTP Error"
	}
	if code >= 500 {
		details = shared.ErrInternalServerError.Err.Error()
	}
	return shared.ErrorResponse{
		Error:   name,
		Code:    code,
		Details: details,
	}
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" && c.Response().Status != http.StatusNotFound {
		return p
	}
	return "unmatched"
}
