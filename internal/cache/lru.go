package cache

import (
	"context"
	"fmt"

	"classifier-api/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memory struct {
	entries *lru.Cache[string, model.Prediction]
}

// NewLRU keeps the size most recently used predictions in process
func NewLRU(size int) (Cache, error) {
	entries, err := lru.New[string, model.Prediction](size)
	if err != nil {
		return nil, fmt.Errorf("failed creating lru cache: %w", err)
	}
	return &memory{entries: entries}, nil
}

func (m *memory) Get(_ context.Context, key string) (model.Prediction, bool) {
	p, ok := m.entries.Get(key)
	record("memory", ok)
	return p, ok
}

func (m *memory) Set(_ context.Context, key string, p model.Prediction) {
	m.entries.Add(key, p)
}
