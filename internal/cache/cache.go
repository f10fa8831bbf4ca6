// Package cache stores predictions keyed by model version and feature vector.
// Inference is deterministic for a loaded model, so cached entries never go
// stale while the version stays the same.
package cache

import (
	"context"
	"strconv"
	"strings"

	"classifier-api/internal/metrics"
	"classifier-api/internal/model"
)

type Cache interface {
	Get(ctx context.Context, key string) (model.Prediction, bool)
	Set(ctx context.Context, key string, p model.Prediction)
}

// Key builds the cache key for a feature vector. Floats are formatted with
// the shortest representation that round trips, so equal vectors share a key.
func Key(modelVersion string, features []float64) string {
	var b strings.Builder
	b.WriteString("v1:prediction:")
	b.WriteString(modelVersion)
	b.WriteByte(':')
	for i, f := range features {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return b.String()
}

type tiered struct {
	l1 Cache
	l2 Cache
}

// NewTiered reads through l1 then l2, backfilling l1 on an l2 hit. Either
// tier may be nil.
func NewTiered(l1, l2 Cache) Cache {
	switch {
	case l1 == nil:
		return l2
	case l2 == nil:
		return l1
	}
	return &tiered{l1: l1, l2: l2}
}

func (t *tiered) Get(ctx context.Context, key string) (model.Prediction, bool) {
	if p, ok := t.l1.Get(ctx, key); ok {
		return p, true
	}
	p, ok := t.l2.Get(ctx, key)
	if ok {
		t.l1.Set(ctx, key, p)
	}
	return p, ok
}

func (t *tiered) Set(ctx context.Context, key string, p model.Prediction) {
	t.l1.Set(ctx, key, p)
	t.l2.Set(ctx, key, p)
}

func record(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(tier, result).Inc()
}
