package shared

type PredictRequest struct {
	Features []float64 `json:"features"`
	ID       *string   `json:"id,omitempty"`
}

type BatchItem struct {
	ID       string    `json:"id"`
	Features []float64 `json:"features"`
}

type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

type PredictResponse struct {
	ID           *string `json:"id"`
	Label        string  `json:"label"`
	Probability  float64 `json:"probability"`
	ModelVersion string  `json:"model_version"`
}

type BatchResponse struct {
	Results []PredictResponse `json:"results"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Model        string `json:"model"`
	ModelVersion string `json:"model_version"`
}

type ModelInfoResponse struct {
	Name         string   `json:"name"`
	ModelVersion string   `json:"model_version"`
	FeatureNames []string `json:"feature_names"`
	ClassLabels  []string `json:"class_labels"`
}

// ErrorResponse is the uniform body of every error sent to clients
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}
