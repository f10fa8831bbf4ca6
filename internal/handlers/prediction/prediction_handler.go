// Package prediction runs validated requests through the loaded classifier
package prediction

import (
	"errors"
	"fmt"
	"slices"

	"classifier-api/internal/cache"
	"classifier-api/internal/config"
	"classifier-api/internal/model"
	"classifier-api/internal/schemas"

	"go.uber.org/zap"
)

// Classifier is the inference contract of a loaded model
type Classifier interface {
	PredictOne(features []float64) (model.Prediction, error)
	PredictMany(batch [][]float64) ([]model.Prediction, error)
	Version() string
	FeatureCount() int
	FeatureNames() []string
	ClassLabels() []string
}

// PredictionHandler is the server context shared by every request. All of its
// fields are read only once constructed.
type PredictionHandler struct {
	Settings  *config.Settings
	Model     Classifier
	Validator schemas.Validator
	Log       *zap.SugaredLogger
	cache     cache.Cache
}

// NewPredictionHandler checks the model matches the settings it will be
// served with. c may be nil to disable caching.
func NewPredictionHandler(settings *config.Settings, m Classifier, c cache.Cache, log *zap.SugaredLogger) (*PredictionHandler, error) {
	if settings == nil || m == nil {
		return nil, errors.New("settings and model are required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if m.FeatureCount() != settings.FeatureCount {
		return nil, fmt.Errorf("model expects %d features but feature_count is %d", m.FeatureCount(), settings.FeatureCount)
	}
	if !slices.Equal(m.ClassLabels(), settings.ClassLabels) {
		log.Warnw("Model class labels differ from configured class_labels",
			"model_labels", m.ClassLabels(),
			"configured_labels", settings.ClassLabels,
		)
	}
	return &PredictionHandler{
		Settings:  settings,
		Model:     m,
		Validator: schemas.Validator{FeatureCount: settings.FeatureCount},
		Log:       log,
		cache:     c,
	}, nil
}

// ModelVersion prefers the version baked into the artifact
func (ph *PredictionHandler) ModelVersion() string {
	if v := ph.Model.Version(); v != "" {
		return v
	}
	return ph.Settings.ModelVersion
}
