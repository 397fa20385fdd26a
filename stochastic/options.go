// SPDX-License-Identifier: MIT

package stochastic

import (
	"context"

	"go.uber.org/zap"
)

const (
	panicNilContext = "stochastic: WithContext: ctx must be non-nil"
)

// Option configures an Operator. Constructors panic only on nonsensical values.
type Option func(*operatorOptions)

type operatorOptions struct {
	log   *zap.Logger
	runID uint64
	ctx   context.Context
}

func defaultOperatorOptions() operatorOptions {
	return operatorOptions{log: zap.NewNop(), ctx: context.Background()}
}

// WithLogger sets the logger for per-apply Debug lines; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *operatorOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRunID distinguishes the random streams of operators sharing a base seed.
// Runs that must be independent need distinct run IDs.
func WithRunID(id uint64) Option {
	return func(o *operatorOptions) { o.runID = id }
}

// WithContext sets the context handed to every transport simulation.
// Cancelling it makes the next Apply fail with ErrTransport.
func WithContext(ctx context.Context) Option {
	if ctx == nil {
		panic(panicNilContext)
	}

	return func(o *operatorOptions) { o.ctx = ctx }
}

func gatherOptions(opts []Option) operatorOptions {
	o := defaultOperatorOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
