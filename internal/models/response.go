package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Version      string `json:"version"`
	ActivePasses int    `json:"active_passes"`
}

// PeakResponse is the finalized peak of a batch or pass.
// Angle and Peak are null when the peak is undefined.
type PeakResponse struct {
	PassID  string   `json:"pass_id,omitempty"`
	Kind    string   `json:"kind"`
	Count   int64    `json:"count"`
	Angle   *float64 `json:"angle"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Peak    *string  `json:"peak"`
	Defined bool     `json:"defined"`
}

// PassResponse represents an aggregation pass
type PassResponse struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Count     int64         `json:"count"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
	Peak      *PeakResponse `json:"peak,omitempty"`
}

// PassListResponse represents list passes response
type PassListResponse struct {
	Passes []PassResponse `json:"passes"`
}

// ObserveResponse represents the outcome of adding observations to a pass
type ObserveResponse struct {
	PassID   string `json:"pass_id"`
	Accepted int    `json:"accepted"`
	Skipped  int    `json:"skipped"`
	Count    int64  `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
