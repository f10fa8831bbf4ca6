// Package model loads a trained classifier artifact and runs inference on it
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	TypeLogisticRegression = "logistic_regression"

	MultiClassMultinomial = "multinomial"
	MultiClassOVR         = "ovr"

	defaultVersion = "1.0"
)

// LoadError is returned when an artifact is missing or corrupt. It is fatal
// at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Artifact is the serialized form of a trained classifier plus its metadata
type Artifact struct {
	ModelType    string      `json:"model_type"`
	MultiClass   string      `json:"multi_class,omitempty"`
	ModelVersion string      `json:"model_version,omitempty"`
	FeatureNames []string    `json:"feature_names"`
	ClassLabels  []string    `json:"class_labels"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Model is immutable after construction and safe for concurrent use
type Model struct {
	multiClass   string
	version      string
	featureNames []string
	classLabels  []string
	coef         [][]float64
	intercepts   []float64
}

// Load reads a JSON artifact from path
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("corrupt artifact: %w", err)}
	}
	m, err := New(a)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// New validates an artifact and builds a Model from it
func New(a Artifact) (*Model, error) {
	if a.ModelType != TypeLogisticRegression {
		return nil, fmt.Errorf("unsupported model type %q", a.ModelType)
	}
	multiClass := a.MultiClass
	if multiClass == "" {
		multiClass = MultiClassMultinomial
	}
	if multiClass != MultiClassMultinomial && multiClass != MultiClassOVR {
		return nil, fmt.Errorf("unsupported multi_class %q", a.MultiClass)
	}

	nClasses := len(a.ClassLabels)
	nFeatures := len(a.FeatureNames)
	switch {
	case nClasses < 2:
		return nil, fmt.Errorf("need at least 2 class labels, got %d", nClasses)
	case nFeatures == 0:
		return nil, errors.New("feature_names must not be empty")
	case len(a.Coefficients) != nClasses:
		return nil, fmt.Errorf("coefficients has %d rows, want one per class (%d)", len(a.Coefficients), nClasses)
	case len(a.Intercepts) != nClasses:
		return nil, fmt.Errorf("intercepts has %d values, want one per class (%d)", len(a.Intercepts), nClasses)
	}
	coef := make([][]float64, nClasses)
	for i, row := range a.Coefficients {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("coefficients[%d] has %d values, want %d", i, len(row), nFeatures)
		}
		if !allFinite(row) {
			return nil, fmt.Errorf("coefficients[%d] contains non finite values", i)
		}
		coef[i] = append([]float64(nil), row...)
	}
	if !allFinite(a.Intercepts) {
		return nil, errors.New("intercepts contain non finite values")
	}

	version := a.ModelVersion
	if version == "" {
		version = defaultVersion
	}
	return &Model{
		multiClass:   multiClass,
		version:      version,
		featureNames: append([]string(nil), a.FeatureNames...),
		classLabels:  append([]string(nil), a.ClassLabels...),
		coef:         coef,
		intercepts:   append([]float64(nil), a.Intercepts...),
	}, nil
}

func (m *Model) Version() string { return m.version }

func (m *Model) FeatureCount() int { return len(m.featureNames) }

func (m *Model) FeatureNames() []string { return append([]string(nil), m.featureNames...) }

func (m *Model) ClassLabels() []string { return append([]string(nil), m.classLabels...) }

// PredictOne returns the most probable class for features and its probability
func (m *Model) PredictOne(features []float64) (Prediction, error) {
	if len(features) != len(m.featureNames) {
		return Prediction{}, fmt.Errorf("got %d features, model expects %d", len(features), len(m.featureNames))
	}
	probs := m.predictProba(features)
	idx := argmax(probs)
	return Prediction{Label: m.classLabels[idx], Probability: probs[idx]}, nil
}

// PredictMany runs PredictOne over every row. Results keep the input order.
func (m *Model) PredictMany(batch [][]float64) ([]Prediction, error) {
	out := make([]Prediction, len(batch))
	for i, features := range batch {
		p, err := m.PredictOne(features)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// predictProba scores every class on features scaled down by a power of two,
// so a finite input never overflows the dot product. exp undoes the scaling.
func (m *Model) predictProba(features []float64) []float64 {
	exp := scaleExponent(features)
	scores := make([]float64, len(m.coef))
	for k, row := range m.coef {
		z := math.Ldexp(m.intercepts[k], -exp)
		for j, w := range row {
			z += w * math.Ldexp(features[j], -exp)
		}
		scores[k] = z
	}
	if m.multiClass == MultiClassOVR {
		return normalizedSigmoid(scores, exp)
	}
	return softmax(scores, exp)
}

// scaleExponent never scales up. Power of two scaling is exact, so ordinary
// inputs score the same as an unscaled dot product.
func scaleExponent(features []float64) int {
	var largest float64
	for _, f := range features {
		largest = max(largest, math.Abs(f))
	}
	_, exp := math.Frexp(largest)
	return max(exp, 0)
}

// softmax over scores scaled by 2^-exp. Differences to the max are taken
// before unscaling, which can only push them to -Inf, never to NaN.
func softmax(scores []float64, exp int) []float64 {
	highest := scores[argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(math.Ldexp(s-highest, exp))
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func normalizedSigmoid(scores []float64, exp int) []float64 {
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		// Ldexp saturates to +-Inf, where the sigmoid is exactly 0 or 1
		out[i] = 1 / (1 + math.Exp(-math.Ldexp(s, exp)))
		sum += out[i]
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// argmax picks the lowest index on ties
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func allFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
