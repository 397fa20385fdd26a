// SPDX-License-Identifier: MIT

package transport

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Defaults for Options.
const (
	DefaultBatchSize       = 1000
	DefaultWeightCutoff    = 0.2
	DefaultKillProbability = 0.2
)

// Options tunes the simulator. Workers affects wall time only.
type Options struct {
	// Workers bounds concurrent batches; <= 0 means GOMAXPROCS.
	Workers int
	// BatchSize is the number of histories per generator stream.
	BatchSize int
	// WeightCutoff triggers Russian roulette for |w| below it.
	WeightCutoff float64
	// KillProbability is the roulette kill probability, in [0, 1).
	KillProbability float64
	// Logger receives batch-level Debug lines; nil means zap.NewNop().
	Logger *zap.Logger
}

// DefaultOptions returns the baseline simulator configuration.
func DefaultOptions() Options {
	return Options{
		Workers:         runtime.GOMAXPROCS(0),
		BatchSize:       DefaultBatchSize,
		WeightCutoff:    DefaultWeightCutoff,
		KillProbability: DefaultKillProbability,
	}
}

// Validate checks batch size, cutoff and kill probability.
func (o Options) Validate() error {
	switch {
	case o.BatchSize <= 0:
		return fmt.Errorf("%w: BatchSize must be > 0, got %d", ErrBadOptions, o.BatchSize)
	case o.WeightCutoff < 0:
		return fmt.Errorf("%w: WeightCutoff must be >= 0, got %g", ErrBadOptions, o.WeightCutoff)
	case o.KillProbability < 0 || o.KillProbability >= 1:
		return fmt.Errorf("%w: KillProbability must be in [0,1), got %g", ErrBadOptions, o.KillProbability)
	}

	return nil
}
