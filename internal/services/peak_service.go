package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/circular"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
)

// PeakServiceConfig contains the knobs of PeakService
type PeakServiceConfig struct {
	// Location is used for timestamps without a zone
	Location *time.Location

	// MaxObservations caps a single request or batch; <= 0 means unlimited
	MaxObservations int
}

// PeakService computes peaks for one-shot requests and manages passes
type PeakService struct {
	logger   *logging.Logger
	reducer  *aggregation.Reducer
	registry *aggregation.PassRegistry
	config   PeakServiceConfig
}

// NewPeakService creates a new PeakService
func NewPeakService(
	logger *logging.Logger,
	reducer *aggregation.Reducer,
	registry *aggregation.PassRegistry,
	config PeakServiceConfig,
) *PeakService {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &PeakService{
		logger:   logger,
		reducer:  reducer,
		registry: registry,
		config:   config,
	}
}

// Registry returns the pass registry backing the service
func (s *PeakService) Registry() *aggregation.PassRegistry {
	return s.registry
}

func parseKind(kind string) (aggregation.Kind, error) {
	k, err := aggregation.ParseKind(kind)
	if err != nil {
		return "", NewServiceErrorWithDetails(CodeInvalidKind, err.Error(), map[string]interface{}{
			"supported": aggregation.Kinds,
		})
	}
	return k, nil
}

func (s *PeakService) checkSize(n int) error {
	if s.config.MaxObservations > 0 && n > s.config.MaxObservations {
		return NewServiceErrorWithDetails(CodeTooManyObservations,
			fmt.Sprintf("too many observations: %d", n),
			map[string]interface{}{"max": s.config.MaxObservations})
	}
	return nil
}

// reduce parses raw values and folds them into a partial state
func (s *PeakService) reduce(ctx context.Context, kind aggregation.Kind, raw []string) (circular.State, int, int, error) {
	if err := s.checkSize(len(raw)); err != nil {
		return circular.State{}, 0, 0, err
	}

	angles, skipped, err := parseObservations(kind, raw, s.config.Location)
	if err != nil {
		return circular.State{}, 0, 0, err
	}

	state, err := s.reducer.Reduce(ctx, angles)
	if err != nil {
		return circular.State{}, 0, 0, NewServiceError(CodeRequestCancelled, err.Error())
	}
	return state, len(angles), skipped, nil
}

// Compute returns the peak of a batch of raw observations
func (s *PeakService) Compute(ctx context.Context, kind string, raw []string) (*models.PeakResponse, error) {
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	state, accepted, skipped, err := s.reduce(ctx, k, raw)
	if err != nil {
		return nil, err
	}

	resp := peakResponse(k, int64(accepted), state)
	s.logger.WithContext(ctx).Debug("Peak computed",
		"kind", k,
		"accepted", accepted,
		"skipped", skipped,
		"defined", resp.Defined,
		"latency_ms", time.Since(startTime).Milliseconds())
	return resp, nil
}

// CreatePass opens a pass. An empty id gets a generated one.
func (s *PeakService) CreatePass(kind, id string) (*models.PassResponse, error) {
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}

	var pass *aggregation.Pass
	if id == "" {
		pass, err = s.registry.Create(k)
	} else {
		pass, err = s.registry.CreateWithID(id, k)
	}
	if err != nil {
		return nil, registryError(err, id)
	}

	s.logger.Info("Pass created", "pass_id", pass.ID(), "kind", k)
	resp := passResponse(pass.Snapshot(), false)
	return &resp, nil
}

// Observe adds raw observations to an existing pass
func (s *PeakService) Observe(ctx context.Context, passID string, raw []string) (*models.ObserveResponse, error) {
	pass, err := s.registry.Get(passID)
	if err != nil {
		return nil, registryError(err, passID)
	}
	return s.observe(ctx, pass, raw)
}

// ObserveBatch feeds a queued batch, opening its pass on first sight
func (s *PeakService) ObserveBatch(ctx context.Context, batch *models.ObservationBatch) (*models.ObserveResponse, error) {
	k, err := parseKind(batch.Kind)
	if err != nil {
		return nil, err
	}

	pass, err := s.registry.GetOrCreate(batch.PassID, k)
	if err != nil {
		return nil, registryError(err, batch.PassID)
	}
	return s.observe(ctx, pass, batch.Values)
}

func (s *PeakService) observe(ctx context.Context, pass *aggregation.Pass, raw []string) (*models.ObserveResponse, error) {
	state, accepted, skipped, err := s.reduce(ctx, pass.Kind(), raw)
	if err != nil {
		return nil, err
	}

	pass.Merge(s.registry.Now(), state, accepted)
	snap := pass.Snapshot()

	s.logger.WithContext(logging.WithPassID(ctx, pass.ID())).Debug("Observations added",
		"accepted", accepted,
		"skipped", skipped,
		"count", snap.Count)

	return &models.ObserveResponse{
		PassID:   pass.ID(),
		Accepted: accepted,
		Skipped:  skipped,
		Count:    snap.Count,
	}, nil
}

// GetPass returns a pass with its current peak
func (s *PeakService) GetPass(passID string) (*models.PassResponse, error) {
	pass, err := s.registry.Get(passID)
	if err != nil {
		return nil, registryError(err, passID)
	}
	resp := passResponse(pass.Snapshot(), true)
	return &resp, nil
}

// PassPeak returns the current peak of a pass
func (s *PeakService) PassPeak(passID string) (*models.PeakResponse, error) {
	pass, err := s.registry.Get(passID)
	if err != nil {
		return nil, registryError(err, passID)
	}
	snap := pass.Snapshot()
	resp := peakResponse(snap.Kind, snap.Count, snap.State)
	resp.PassID = snap.ID
	return resp, nil
}

// DeletePass closes a pass and returns its final state
func (s *PeakService) DeletePass(passID string) (*models.PassResponse, error) {
	snap, err := s.registry.Delete(passID)
	if err != nil {
		return nil, registryError(err, passID)
	}
	s.logger.Info("Pass deleted", "pass_id", passID, "count", snap.Count)
	resp := passResponse(snap, true)
	return &resp, nil
}

// ListPasses returns every active pass with its current peak
func (s *PeakService) ListPasses() *models.PassListResponse {
	snaps := s.registry.List()
	out := &models.PassListResponse{Passes: make([]models.PassResponse, 0, len(snaps))}
	for _, snap := range snaps {
		out.Passes = append(out.Passes, passResponse(snap, true))
	}
	return out
}

// EvictIdle closes passes idle for longer than idleTimeout
func (s *PeakService) EvictIdle(idleTimeout time.Duration) []models.PassResponse {
	snaps := s.registry.EvictIdle(s.registry.Now(), idleTimeout)
	out := make([]models.PassResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, passResponse(snap, true))
	}
	return out
}

func registryError(err error, passID string) error {
	switch {
	case errors.Is(err, aggregation.ErrPassNotFound):
		return NewServiceError(CodePassNotFound, fmt.Sprintf("pass not found: %s", passID))
	case errors.Is(err, aggregation.ErrTooManyPasses):
		return NewServiceError(CodeTooManyPasses, err.Error())
	case errors.Is(err, aggregation.ErrKindMismatch):
		return NewServiceError(CodeKindMismatch, err.Error())
	case errors.Is(err, aggregation.ErrPassExists):
		return NewServiceError(CodePassExists, fmt.Sprintf("pass already exists: %s", passID))
	case errors.Is(err, aggregation.ErrPassIDRequired):
		return NewServiceError(CodeInvalidPassID, err.Error())
	case errors.Is(err, aggregation.ErrInvalidKind):
		return NewServiceError(CodeInvalidKind, err.Error())
	default:
		return NewServiceError(CodeInternal, err.Error())
	}
}

func peakResponse(kind aggregation.Kind, count int64, state circular.State) *models.PeakResponse {
	resp := &models.PeakResponse{
		Kind:  kind.String(),
		Count: count,
		X:     state.X,
		Y:     state.Y,
	}

	peak := kind.Finalize(state)
	if peak.Defined {
		angle := float64(peak.Angle)
		label := peak.Label
		resp.Angle = &angle
		resp.Peak = &label
		resp.Defined = true
	}
	return resp
}

func passResponse(snap aggregation.PassSnapshot, withPeak bool) models.PassResponse {
	resp := models.PassResponse{
		ID:        snap.ID,
		Kind:      snap.Kind.String(),
		Count:     snap.Count,
		CreatedAt: snap.CreatedAt.Format(time.RFC3339),
		UpdatedAt: snap.UpdatedAt.Format(time.RFC3339),
	}
	if withPeak {
		resp.Peak = peakResponse(snap.Kind, snap.Count, snap.State)
	}
	return resp
}
