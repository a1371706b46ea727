package models

import (
	"encoding/json"
	"fmt"

	"github.com/soltixdb/cyclepeak/internal/compression"
)

// ObservationBatch is the queue message feeding a pass
type ObservationBatch struct {
	PassID string   `json:"pass_id"`
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
	SentAt string   `json:"sent_at,omitempty"`
}

// Validate checks the fields every consumer relies on
func (b *ObservationBatch) Validate() error {
	if b.PassID == "" {
		return fmt.Errorf("observation batch: pass_id is required")
	}
	if b.Kind == "" {
		return fmt.Errorf("observation batch: kind is required")
	}
	return nil
}

// EncodeObservationBatch serializes a batch as snappy-framed JSON
func EncodeObservationBatch(b *ObservationBatch) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal observation batch: %w", err)
	}

	return compression.Frame(compression.Snappy, raw)
}

// DecodeObservationBatch reverses EncodeObservationBatch
func DecodeObservationBatch(data []byte) (*ObservationBatch, error) {
	raw, err := compression.Unframe(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress observation batch: %w", err)
	}

	var b ObservationBatch
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observation batch: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
