package prediction

import (
	"context"
	"fmt"
	"time"

	"classifier-api/internal/cache"
	"classifier-api/internal/metrics"
	"classifier-api/internal/model"
	"classifier-api/internal/shared"
)

const (
	endpointPredict = "predict"
	endpointBatch   = "batch_predict"
)

// Predict classifies a single validated request
func (ph *PredictionHandler) Predict(ctx context.Context, req *shared.PredictRequest) (*shared.PredictResponse, error) {
	version := ph.ModelVersion()
	key := cache.Key(version, req.Features)
	if p, ok := ph.lookup(ctx, key); ok {
		return ph.response(endpointPredict, req.ID, p), nil
	}

	start := time.Now()
	p, err := ph.Model.PredictOne(req.Features)
	metrics.InferenceDuration.WithLabelValues(endpointPredict).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("predict one: %w", err)
	}
	ph.store(ctx, key, p)
	return ph.response(endpointPredict, req.ID, p), nil
}

// BatchPredict classifies every item, results keep the order of the items.
// Cache misses go to the model in a single PredictMany call.
func (ph *PredictionHandler) BatchPredict(ctx context.Context, req *shared.BatchRequest) (*shared.BatchResponse, error) {
	metrics.BatchSize.Observe(float64(len(req.Items)))

	version := ph.ModelVersion()
	predictions := make([]model.Prediction, len(req.Items))
	keys := make([]string, len(req.Items))
	var missIdx []int
	var missBatch [][]float64
	for i, item := range req.Items {
		keys[i] = cache.Key(version, item.Features)
		if p, ok := ph.lookup(ctx, keys[i]); ok {
			predictions[i] = p
			continue
		}
		missIdx = append(missIdx, i)
		missBatch = append(missBatch, item.Features)
	}

	if len(missBatch) > 0 {
		start := time.Now()
		computed, err := ph.Model.PredictMany(missBatch)
		metrics.InferenceDuration.WithLabelValues(endpointBatch).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("predict many: %w", err)
		}
		if len(computed) != len(missBatch) {
			return nil, fmt.Errorf("predict many returned %d results for %d rows", len(computed), len(missBatch))
		}
		for j, i := range missIdx {
			predictions[i] = computed[j]
			ph.store(ctx, keys[i], computed[j])
		}
	}

	out := &shared.BatchResponse{Results: make([]shared.PredictResponse, len(req.Items))}
	for i, item := range req.Items {
		out.Results[i] = *ph.response(endpointBatch, shared.StringPtr(item.ID), predictions[i])
	}
	return out, nil
}

func (ph *PredictionHandler) response(endpoint string, id *string, p model.Prediction) *shared.PredictResponse {
	metrics.Predictions.WithLabelValues(endpoint, p.Label).Inc()
	return &shared.PredictResponse{
		ID:           id,
		Label:        p.Label,
		Probability:  shared.RoundProbability(p.Probability),
		ModelVersion: ph.ModelVersion(),
	}
}

func (ph *PredictionHandler) lookup(ctx context.Context, key string) (model.Prediction, bool) {
	if ph.cache == nil {
		return model.Prediction{}, false
	}
	return ph.cache.Get(ctx, key)
}

func (ph *PredictionHandler) store(ctx context.Context, key string, p model.Prediction) {
	if ph.cache == nil {
		return
	}
	ph.cache.Set(ctx, key, p)
}
