// Package config loads the service settings file
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"classifier-api/internal/shared"

	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// Error is returned for any problem reading the settings file. It is fatal
// at startup.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Settings is built once at startup and must be treated as read only.
type Settings struct {
	ModelPath    string
	ModelName    string
	ModelVersion string
	APIKey       string
	CORSOrigins  []string
	FeatureCount int
	ClassLabels  []string

	MetricsAPIKey  string
	RateLimit      float64
	RateLimitBurst int
	CacheSize      int
	CacheTTL       time.Duration
	BodyLimit      string
}

// file mirrors the yaml document. Required keys are pointers so a missing
// key can be told apart from a zero value.
type file struct {
	ModelPath    *string  `yaml:"model_path"`
	ModelName    *string  `yaml:"model_name"`
	ModelVersion *string  `yaml:"model_version"`
	APIKey       *string  `yaml:"api_key"`
	CORSOrigins  []string `yaml:"cors_origins"`
	FeatureCount *int     `yaml:"feature_count"`
	ClassLabels  []string `yaml:"class_labels"`

	MetricsAPIKey  string        `yaml:"metrics_api_key"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	CacheSize      int           `yaml:"cache_size"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	BodyLimit      string        `yaml:"body_limit"`
}

// Load reads and validates the settings file at path
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return s, nil
}

// Parse builds Settings from a yaml document
func Parse(raw []byte) (*Settings, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("malformed settings: %w", err)
	}

	var missing []error
	required := func(key string, present bool) {
		if !present {
			missing = append(missing, fmt.Errorf("missing required key %q", key))
		}
	}
	required("model_path", f.ModelPath != nil)
	required("model_name", f.ModelName != nil)
	required("model_version", f.ModelVersion != nil)
	required("api_key", f.APIKey != nil)
	required("feature_count", f.FeatureCount != nil)
	required("class_labels", f.ClassLabels != nil)
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	s := &Settings{
		ModelPath:      *f.ModelPath,
		ModelName:      *f.ModelName,
		ModelVersion:   *f.ModelVersion,
		APIKey:         *f.APIKey,
		CORSOrigins:    f.CORSOrigins,
		FeatureCount:   *f.FeatureCount,
		ClassLabels:    f.ClassLabels,
		MetricsAPIKey:  f.MetricsAPIKey,
		RateLimit:      f.RateLimit,
		RateLimitBurst: f.RateLimitBurst,
		CacheSize:      f.CacheSize,
		CacheTTL:       f.CacheTTL,
		BodyLimit:      f.BodyLimit,
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{"*"}
	}
	if s.BodyLimit == "" {
		s.BodyLimit = shared.DefaultBodyLimit
	}
	if s.CacheTTL == 0 {
		s.CacheTTL = shared.DefaultCacheTTL
	}
	// A zero burst would deny every request
	if s.RateLimit > 0 && s.RateLimitBurst == 0 {
		s.RateLimitBurst = max(1, int(math.Ceil(s.RateLimit)))
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch {
	case s.ModelPath == "":
		return errors.New("model_path must not be empty")
	case s.APIKey == "":
		return errors.New("api_key must not be empty")
	case s.FeatureCount <= 0:
		return fmt.Errorf("feature_count must be positive, got %d", s.FeatureCount)
	case len(s.ClassLabels) == 0:
		return errors.New("class_labels must not be empty")
	case s.RateLimit < 0:
		return fmt.Errorf("rate_limit must not be negative, got %v", s.RateLimit)
	case s.RateLimitBurst < 0:
		return fmt.Errorf("rate_limit_burst must not be negative, got %d", s.RateLimitBurst)
	case s.CacheSize < 0:
		return fmt.Errorf("cache_size must not be negative, got %d", s.CacheSize)
	}
	if _, err := bytes.Parse(s.BodyLimit); err != nil {
		return fmt.Errorf("invalid body_limit %q: %w", s.BodyLimit, err)
	}
	return nil
}
