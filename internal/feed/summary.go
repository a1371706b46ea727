package feed

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/soltixdb/cyclepeak/internal/models"
)

// Source describes the file and column a feed run read
type Source struct {
	File      string `yaml:"file"`
	Column    string `yaml:"column"`
	Delimiter string `yaml:"delimiter"`
	Rows      int    `yaml:"rows"`
	Kind      string `yaml:"kind"`
}

func newSource(file, column, kind string, t *Table) Source {
	return Source{
		File:      file,
		Column:    column,
		Delimiter: DelimiterName(t.Delimiter),
		Rows:      len(t.Rows),
		Kind:      kind,
	}
}

// PeakSummary reports a locally computed peak
type PeakSummary struct {
	Source  `yaml:",inline"`
	Count   int64    `yaml:"count"`
	Defined bool     `yaml:"defined"`
	Peak    *string  `yaml:"peak"`
	Angle   *float64 `yaml:"angle"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
}

// PublishSummary reports batches handed to the queue
type PublishSummary struct {
	Source  `yaml:",inline"`
	PassID  string `yaml:"pass_id"`
	Subject string `yaml:"subject"`
	Batches int    `yaml:"batches"`
}

// NewPeakSummary builds a summary of a locally computed peak
func NewPeakSummary(file, column string, t *Table, peak *models.PeakResponse) *PeakSummary {
	return &PeakSummary{
		Source:  newSource(file, column, peak.Kind, t),
		Count:   peak.Count,
		Defined: peak.Defined,
		Peak:    peak.Peak,
		Angle:   peak.Angle,
		X:       peak.X,
		Y:       peak.Y,
	}
}

// NewPublishSummary builds a summary of a publish run
func NewPublishSummary(file, column, kind string, t *Table, passID, subject string, batches int) *PublishSummary {
	return &PublishSummary{
		Source:  newSource(file, column, kind, t),
		PassID:  passID,
		Subject: subject,
		Batches: batches,
	}
}

// Render encodes the summary as YAML
func (s *PeakSummary) Render() ([]byte, error) {
	return render(s)
}

// Render encodes the summary as YAML
func (s *PublishSummary) Render() ([]byte, error) {
	return render(s)
}

func render(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
