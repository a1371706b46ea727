package aggregation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soltixdb/cyclepeak/internal/circular"
)

var (
	// ErrPassNotFound is returned when a pass ID is unknown to the registry
	ErrPassNotFound = errors.New("pass not found")

	// ErrTooManyPasses is returned when the registry is at MaxActive
	ErrTooManyPasses = errors.New("too many active passes")

	// ErrKindMismatch is returned when a pass is reopened with another kind
	ErrKindMismatch = errors.New("pass kind mismatch")

	// ErrPassExists is returned when creating a pass whose ID is taken
	ErrPassExists = errors.New("pass already exists")

	// ErrPassIDRequired is returned when an explicit pass ID is empty
	ErrPassIDRequired = errors.New("pass id is required")

	// ErrInvalidKind is returned for a kind outside Kinds
	ErrInvalidKind = errors.New("unknown peak kind")
)

// Pass is one running aggregation. Observations may arrive concurrently
// from HTTP handlers and queue consumers.
type Pass struct {
	id        string
	kind      Kind
	createdAt time.Time

	mu        sync.Mutex
	state     circular.State
	count     int64
	updatedAt time.Time
}

// PassSnapshot is a consistent copy of a pass
type PassSnapshot struct {
	ID        string
	Kind      Kind
	Count     int64
	State     circular.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newPass(id string, kind Kind, now time.Time) *Pass {
	return &Pass{
		id:        id,
		kind:      kind,
		createdAt: now,
		updatedAt: now,
		state:     circular.Init(),
	}
}

// ID returns the pass identifier
func (p *Pass) ID() string {
	return p.id
}

// Kind returns the domain the pass aggregates over
func (p *Pass) Kind() Kind {
	return p.kind
}

// Observe adds angles to the pass
func (p *Pass) Observe(now time.Time, angles ...circular.Angle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range angles {
		p.state = p.state.Add(a)
	}
	p.count += int64(len(angles))
	p.updatedAt = now
}

// Merge folds a precomputed partial state into the pass
func (p *Pass) Merge(now time.Time, s circular.State, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = p.state.Merge(s)
	p.count += int64(count)
	p.updatedAt = now
}

// Snapshot returns a copy of the pass state
func (p *Pass) Snapshot() PassSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PassSnapshot{
		ID:        p.id,
		Kind:      p.kind,
		Count:     p.count,
		State:     p.state,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

// Peak finalizes the current pass state
func (p *Pass) Peak() Peak {
	return p.kind.Finalize(p.Snapshot().State)
}

func (p *Pass) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updatedAt
}

// PassRegistry holds the active passes of a process. Passes are not
// persisted.
type PassRegistry struct {
	maxActive int
	now       func() time.Time

	mu     sync.RWMutex
	passes map[string]*Pass
}

// NewPassRegistry creates a registry; maxActive <= 0 means unlimited
func NewPassRegistry(maxActive int) *PassRegistry {
	return &PassRegistry{
		maxActive: maxActive,
		now:       time.Now,
		passes:    make(map[string]*Pass),
	}
}

// Now returns the registry clock
func (r *PassRegistry) Now() time.Time {
	return r.now()
}

// Create opens a new pass with a generated ID
func (r *PassRegistry) Create(kind Kind) (*Pass, error) {
	return r.open(uuid.New().String(), kind, false)
}

// CreateWithID opens a new pass with the given ID. It fails with
// ErrPassExists when the ID is already open.
func (r *PassRegistry) CreateWithID(id string, kind Kind) (*Pass, error) {
	if id == "" {
		return nil, ErrPassIDRequired
	}
	return r.open(id, kind, false)
}

// GetOrCreate returns the pass with the given ID, opening it if absent
func (r *PassRegistry) GetOrCreate(id string, kind Kind) (*Pass, error) {
	if id == "" {
		return nil, ErrPassIDRequired
	}
	return r.open(id, kind, true)
}

func (r *PassRegistry) open(id string, kind Kind, reuse bool) (*Pass, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.passes[id]; ok {
		if !reuse {
			return nil, fmt.Errorf("%w: %s", ErrPassExists, id)
		}
		if p.kind != kind {
			return nil, fmt.Errorf("%w: pass %s is %s, got %s", ErrKindMismatch, id, p.kind, kind)
		}
		return p, nil
	}

	if r.maxActive > 0 && len(r.passes) >= r.maxActive {
		return nil, ErrTooManyPasses
	}

	p := newPass(id, kind, r.now())
	r.passes[id] = p
	return p, nil
}

// Get returns a pass by ID
func (r *PassRegistry) Get(id string) (*Pass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.passes[id]
	if !ok {
		return nil, ErrPassNotFound
	}
	return p, nil
}

// Delete removes a pass and returns its final snapshot
func (r *PassRegistry) Delete(id string) (PassSnapshot, error) {
	r.mu.Lock()
	p, ok := r.passes[id]
	if ok {
		delete(r.passes, id)
	}
	r.mu.Unlock()

	if !ok {
		return PassSnapshot{}, ErrPassNotFound
	}
	return p.Snapshot(), nil
}

// List returns snapshots of all passes ordered by creation time
func (r *PassRegistry) List() []PassSnapshot {
	r.mu.RLock()
	passes := make([]*Pass, 0, len(r.passes))
	for _, p := range r.passes {
		passes = append(passes, p)
	}
	r.mu.RUnlock()

	out := make([]PassSnapshot, 0, len(passes))
	for _, p := range passes {
		out = append(out, p.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of active passes
func (r *PassRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.passes)
}

// EvictIdle removes passes not updated within idleTimeout of now and
// returns their final snapshots.
func (r *PassRegistry) EvictIdle(now time.Time, idleTimeout time.Duration) []PassSnapshot {
	if idleTimeout <= 0 {
		return nil
	}
	cutoff := now.Add(-idleTimeout)

	r.mu.Lock()
	var evicted []*Pass
	for id, p := range r.passes {
		if p.idleSince().Before(cutoff) {
			evicted = append(evicted, p)
			delete(r.passes, id)
		}
	}
	r.mu.Unlock()

	out := make([]PassSnapshot, 0, len(evicted))
	for _, p := range evicted {
		out = append(out, p.Snapshot())
	}
	return out
}
