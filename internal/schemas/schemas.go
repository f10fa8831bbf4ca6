// Package schemas turns raw request bodies into validated requests
package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"classifier-api/internal/shared"
)

// Validator checks request bodies against the feature count the model was
// trained on
type Validator struct {
	FeatureCount int
}

// ParsePredict validates a /predict body. Bodies that are not JSON return
// shared.ErrMalformedBody, schema violations return *shared.ValidationError.
func (v Validator) ParsePredict(body []byte) (*shared.PredictRequest, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	verr := &shared.ValidationError{}
	req := &shared.PredictRequest{}
	req.Features = v.features(fields["features"], "features", verr)

	if raw, ok := fields["id"]; ok && !isNull(raw) {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			verr.Add("id must be a string")
		} else {
			req.ID = &id
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}

// ParseBatch validates a /batch_predict body
func (v Validator) ParseBatch(body []byte) (*shared.BatchRequest, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	verr := &shared.ValidationError{}
	raw, ok := fields["items"]
	if !ok || isNull(raw) {
		verr.Add("items: field required")
		return nil, verr
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		verr.Add("items must be a list")
		return nil, verr
	}
	if len(items) == 0 {
		verr.Add("items must contain at least 1 item")
		return nil, verr
	}

	req := &shared.BatchRequest{Items: make([]shared.BatchItem, len(items))}
	for i, rawItem := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		var item map[string]json.RawMessage
		if err := json.Unmarshal(rawItem, &item); err != nil || item == nil {
			verr.Add("%s must be an object", prefix)
			continue
		}

		rawID, ok := item["id"]
		if !ok || isNull(rawID) {
			verr.Add("%s.id: field required", prefix)
		} else if err := json.Unmarshal(rawID, &req.Items[i].ID); err != nil {
			verr.Add("%s.id must be a string", prefix)
		}
		req.Items[i].Features = v.features(item["features"], prefix+".features", verr)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}

// features validates raw as a list of exactly FeatureCount finite numbers.
// A nil raw means the key was absent.
func (v Validator) features(raw json.RawMessage, key string, verr *shared.ValidationError) []float64 {
	if raw == nil || isNull(raw) {
		verr.Add("%s: field required", key)
		return nil
	}
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		verr.Add("%s must be a list of numbers", key)
		return nil
	}

	startCount := len(verr.Violations)
	if len(values) != v.FeatureCount {
		verr.Add("%s must contain exactly %d numbers", key, v.FeatureCount)
	}
	out := make([]float64, len(values))
	for i, value := range values {
		f, ok := finiteNumber(value)
		if !ok {
			verr.Add("%s[%d] must be a finite number", key, i)
			continue
		}
		out[i] = f
	}
	if len(verr.Violations) > startCount {
		return nil
	}
	return out
}

// finiteNumber accepts only JSON number literals that fit in a float64
func finiteNumber(raw json.RawMessage) (float64, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, false
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || isNull(body) || !json.Valid(body) {
		return nil, shared.ErrMalformedBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		verr := &shared.ValidationError{}
		verr.Add("body must be a JSON object")
		return nil, verr
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
