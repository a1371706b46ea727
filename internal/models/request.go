package models

// PeakRequest carries raw observations for a one-shot peak.
// Empty strings are nulls and are skipped.
type PeakRequest struct {
	Values []string `json:"values"`
}

// CreatePassRequest represents create pass request
type CreatePassRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// ObserveRequest carries raw observations for an open pass
type ObserveRequest struct {
	Values []string `json:"values"`
}
