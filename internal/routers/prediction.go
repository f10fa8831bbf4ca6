package routers

import (
	"errors"
	"io"
	"net/http"

	"classifier-api/internal/ctx"
	"classifier-api/internal/handlers/prediction"
	"classifier-api/internal/shared"

	"github.com/labstack/echo/v4"
)

type PredictionRouter struct {
	ph *prediction.PredictionHandler
}

func (pr *PredictionRouter) Health(cc echo.Context) error {
	return cc.JSON(http.StatusOK, shared.HealthResponse{
		Status:       "ok",
		Model:        pr.ph.Settings.ModelName,
		ModelVersion: pr.ph.ModelVersion(),
	})
}

func (pr *PredictionRouter) ModelInfo(cc echo.Context) error {
	return cc.JSON(http.StatusOK, shared.ModelInfoResponse{
		Name:         pr.ph.Settings.ModelName,
		ModelVersion: pr.ph.ModelVersion(),
		FeatureNames: pr.ph.Model.FeatureNames(),
		ClassLabels:  pr.ph.Model.ClassLabels(),
	})
}

func (pr *PredictionRouter) Predict(cc echo.Context) error {
	c := ctx.From(cc)
	body, err := readRequestBody(c)
	if err != nil {
		return err
	}
	req, err := pr.ph.Validator.ParsePredict(body)
	if err != nil {
		return err
	}
	resp, err := pr.ph.Predict(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (pr *PredictionRouter) BatchPredict(cc echo.Context) error {
	c := ctx.From(cc)
	body, err := readRequestBody(c)
	if err != nil {
		return err
	}
	req, err := pr.ph.Validator.ParseBatch(body)
	if err != nil {
		return err
	}
	c.LogValues.BatchSize = len(req.Items)
	resp, err := pr.ph.BatchPredict(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func readRequestBody(c *ctx.Context) ([]byte, error) {
	if !shared.IsJSONContentType(c.Request().Header.Get(echo.HeaderContentType)) {
		return nil, shared.ErrMalformedBody
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// Body limit middleware reports oversized bodies through the reader
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			return nil, herr
		}
		c.Log.Warnw("Failed to read request body", "error", err.Error())
		return nil, errors.Join(shared.ErrReadingBody, err)
	}
	return body, nil
}
