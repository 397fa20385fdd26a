// SPDX-License-Identifier: MIT

package stochastic

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
)

const (
	methodApply = "Apply"
	logApply    = "Operator applied"
)

// Transport is the Monte Carlo collaborator: it tracks histories particles
// born from the signed source distribution and returns the per-bin tally.
// Implementations must be deterministic in (source, histories, seed).
type Transport interface {
	Simulate(ctx context.Context, source []float64, histories int, seed int64) ([]float64, error)
}

// Operator is the stochastic linear operator seen by the real solver.
// It is safe for concurrent use, though the solver calls it sequentially.
type Operator struct {
	t        Transport
	baseSeed int64
	opts     operatorOptions

	mu          sync.Mutex
	invocations uint64
	histories   int64
}

// NewOperator wraps t. Seeds of successive transport calls derive from
// baseSeed, the run ID (WithRunID) and the invocation counter.
func NewOperator(t Transport, baseSeed int64, opts ...Option) (*Operator, error) {
	if t == nil {
		return nil, ErrNilTransport
	}

	return &Operator{t: t, baseSeed: baseSeed, opts: gatherOptions(opts)}, nil
}

// Seed returns the transport seed of the given invocation. It is a pure
// function of (base seed, run ID, invocation).
func (o *Operator) Seed(invocation uint64) int64 {
	return deriveSeed(deriveSeed(o.baseSeed, o.opts.runID), invocation)
}

// Invocations is the number of transport simulations run so far.
func (o *Operator) Invocations() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.invocations
}

// HistoriesTracked is the total number of histories handed to the transport.
func (o *Operator) HistoriesTracked() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.histories
}

// Apply returns the Monte Carlo estimate of A·v from budget histories.
//
// Errors: ErrNegativeBudget; ErrTransport (wrapping the transport error);
// ErrTallyLength. A failed simulation still consumes its invocation number,
// so later seeds never repeat.
func (o *Operator) Apply(v []float64, budget int) ([]float64, error) {
	if budget < 0 {
		return nil, operatorErrorf(methodApply, fmt.Errorf("%w: %d", ErrNegativeBudget, budget))
	}
	out := make([]float64, len(v))
	src, magnitude := SignedSource(v)
	if budget == 0 || magnitude == 0 {
		return out, nil
	}

	o.mu.Lock()
	invocation := o.invocations
	o.invocations++
	o.mu.Unlock()

	seed := o.Seed(invocation)
	tally, err := o.t.Simulate(o.opts.ctx, src, budget, seed)
	if err != nil {
		return nil, operatorErrorf(methodApply, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	if len(tally) != len(v) {
		return nil, operatorErrorf(methodApply,
			fmt.Errorf("%w: got %d, want %d", ErrTallyLength, len(tally), len(v)))
	}

	scale := magnitude / float64(budget)
	for i, s := range tally {
		out[i] = s * scale
	}

	o.mu.Lock()
	o.histories += int64(budget)
	o.mu.Unlock()

	o.opts.log.Debug(logApply,
		zap.Uint64("invocation", invocation),
		zap.Int64("seed", seed),
		zap.Int("budget", budget),
		zap.Float64("magnitude", magnitude))

	return out, nil
}

var _ arnoldi.Operator[float64] = (*Operator)(nil)
