package aggregation

import (
	"context"
	"sync"

	"github.com/soltixdb/cyclepeak/internal/circular"
	"github.com/soltixdb/cyclepeak/internal/logging"
)

// ReducerConfig contains configuration for the parallel reducer
type ReducerConfig struct {
	// Workers limits the number of shards folded concurrently
	Workers int

	// ShardSize is the number of angles folded by one worker per shard
	ShardSize int
}

// DefaultReducerConfig returns default configuration
func DefaultReducerConfig() ReducerConfig {
	return ReducerConfig{
		Workers:   4,
		ShardSize: 4096,
	}
}

// Reducer folds large angle slices into a circular.State by splitting them
// into shards, accumulating each shard on a bounded set of goroutines and
// merging the partial states.
type Reducer struct {
	config ReducerConfig
	logger *logging.Logger

	// Semaphore to limit active shard workers
	semaphore chan struct{}

	// Stats
	totalReductions   int64
	totalObservations int64
	statsMu           sync.RWMutex
}

// NewReducer creates a new reducer
func NewReducer(config ReducerConfig, logger *logging.Logger) *Reducer {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.ShardSize <= 0 {
		config.ShardSize = DefaultReducerConfig().ShardSize
	}
	if logger == nil {
		logger = logging.Global()
	}

	return &Reducer{
		config:    config,
		logger:    logger,
		semaphore: make(chan struct{}, config.Workers),
	}
}

// Reduce accumulates angles into a single state. The result equals the
// sequential fold up to floating-point rounding. Cancellation is checked
// between shards.
func (r *Reducer) Reduce(ctx context.Context, angles []circular.Angle) (circular.State, error) {
	if len(angles) <= r.config.ShardSize {
		if err := ctx.Err(); err != nil {
			return circular.Init(), err
		}
		s := foldShard(angles)
		r.record(len(angles))
		return s, nil
	}

	shards := (len(angles) + r.config.ShardSize - 1) / r.config.ShardSize
	partials := make([]circular.State, shards)

	var wg sync.WaitGroup
	var dispatchErr error

dispatch:
	for i := 0; i < shards; i++ {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		select {
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		case r.semaphore <- struct{}{}:
		}

		start := i * r.config.ShardSize
		end := min(start+r.config.ShardSize, len(angles))

		wg.Add(1)
		go func(idx int, shard []circular.Angle) {
			defer wg.Done()
			defer func() { <-r.semaphore }()
			partials[idx] = foldShard(shard)
		}(i, angles[start:end])
	}

	wg.Wait()

	if dispatchErr != nil {
		r.logger.Debug("Reduction cancelled", "shards", shards, "error", dispatchErr)
		return circular.Init(), dispatchErr
	}

	r.record(len(angles))
	return mergePairwise(partials), nil
}

func foldShard(angles []circular.Angle) circular.State {
	s := circular.Init()
	for _, a := range angles {
		s = s.Add(a)
	}
	return s
}

// mergePairwise combines partial states as a balanced tree so the rounding
// error grows with log(shards) rather than shards.
func mergePairwise(partials []circular.State) circular.State {
	if len(partials) == 0 {
		return circular.Init()
	}
	for len(partials) > 1 {
		next := partials[:0]
		for i := 0; i < len(partials); i += 2 {
			if i+1 < len(partials) {
				next = append(next, partials[i].Merge(partials[i+1]))
			} else {
				next = append(next, partials[i])
			}
		}
		partials = next
	}
	return partials[0]
}

func (r *Reducer) record(observations int) {
	r.statsMu.Lock()
	r.totalReductions++
	r.totalObservations += int64(observations)
	r.statsMu.Unlock()
}

// Stats returns reducer statistics
func (r *Reducer) Stats() map[string]interface{} {
	r.statsMu.RLock()
	defer r.statsMu.RUnlock()

	return map[string]interface{}{
		"workers":            r.config.Workers,
		"shard_size":         r.config.ShardSize,
		"total_reductions":   r.totalReductions,
		"total_observations": r.totalObservations,
	}
}
