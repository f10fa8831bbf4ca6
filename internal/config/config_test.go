package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/settings.yaml")
	require.NoError(t, err)

	assert.Equal(t, "models/iris_logreg.json", s.ModelPath)
	assert.Equal(t, "iris-logreg", s.ModelName)
	assert.Equal(t, "1.0", s.ModelVersion)
	assert.Equal(t, "change-me", s.APIKey)
	assert.Equal(t, []string{"http://localhost:3000"}, s.CORSOrigins)
	assert.Equal(t, 4, s.FeatureCount)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, s.ClassLabels)
	assert.Equal(t, "metrics-secret", s.MetricsAPIKey)
	assert.Equal(t, 50.0, s.RateLimit)
	assert.Equal(t, 50, s.RateLimitBurst)
	assert.Equal(t, 1024, s.CacheSize)
	assert.Equal(t, 5*time.Minute, s.CacheTTL)
	assert.Equal(t, "1M", s.BodyLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "testdata/does-not-exist.yaml", cerr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`
model_path: m.json
model_name: iris
model_version: "2"
api_key: K
feature_count: 4
class_labels: [a, b]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, s.CORSOrigins)
	assert.Equal(t, "1M", s.BodyLimit)
	assert.Equal(t, 10*time.Minute, s.CacheTTL)
	assert.Zero(t, s.RateLimit)
	assert.Zero(t, s.CacheSize)
	assert.Empty(t, s.MetricsAPIKey)
}

func TestParseRateLimitBurst(t *testing.T) {
	base := "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: 4\nclass_labels: [a]\n"
	tests := []struct {
		name  string
		extra string
		burst int
	}{
		{"fractional rate", "rate_limit: 0.5\n", 1},
		{"rounds up", "rate_limit: 2.5\n", 3},
		{"explicit burst", "rate_limit: 0.5\nrate_limit_burst: 4\n", 4},
		{"disabled", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(base + tt.extra))
			require.NoError(t, err)
			assert.Equal(t, tt.burst, s.RateLimitBurst)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			doc:     "model_path: [unterminated",
			wantErr: "malformed settings",
		},
		{
			name:    "missing keys",
			doc:     "model_path: m.json\nmodel_name: iris\n",
			wantErr: `missing required key "api_key"`,
		},
		{
			name:    "non numeric feature count",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: four\nclass_labels: [a]\n",
			wantErr: "malformed settings",
		},
		{
			name:    "zero feature count",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: 0\nclass_labels: [a]\n",
			wantErr: "feature_count must be positive",
		},
		{
			name:    "empty class labels",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: 4\nclass_labels: []\n",
			wantErr: "class_labels must not be empty",
		},
		{
			name:    "empty api key",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: \"\"\nfeature_count: 4\nclass_labels: [a]\n",
			wantErr: "api_key must not be empty",
		},
		{
			name:    "bad body limit",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: 4\nclass_labels: [a]\nbody_limit: lots\n",
			wantErr: "invalid body_limit",
		},
		{
			name:    "negative burst",
			doc:     "model_path: m\nmodel_name: n\nmodel_version: v\napi_key: k\nfeature_count: 4\nclass_labels: [a]\nrate_limit: 5\nrate_limit_burst: -1\n",
			wantErr: "rate_limit_burst must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
