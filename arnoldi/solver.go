// SPDX-License-Identifier: MIT

package arnoldi

import (
	"context"

	"github.com/katalvlaran/mcarnoldi/eigen"
)

// RealSolver runs restarted Arnoldi in real arithmetic. Ritz pairs are still
// complex because H is not symmetric.
type RealSolver struct {
	eng *engine[float64]
}

// NewReal builds a real solver around op with the given dense capabilities.
// Options are validated by Run, before the operator is applied.
func NewReal(op Operator[float64], dec eigen.Decomposer, fac eigen.Factorizer, opts Options) (*RealSolver, error) {
	if op == nil || dec == nil || fac == nil {
		return nil, ErrNilOperator
	}

	return &RealSolver{eng: newEngine[float64](op, realArithmetic{dec: dec, fac: fac}, opts)}, nil
}

// Run executes the restarted Arnoldi method from start.
func (s *RealSolver) Run(ctx context.Context, start []float64) error { return s.eng.run(ctx, start) }

// State returns the queryable run state.
func (s *RealSolver) State() *RunState { return s.eng.state }

// ComplexSolver runs restarted Arnoldi in complex arithmetic with single
// complex shifts.
type ComplexSolver struct {
	eng *engine[complex128]
}

// NewComplex builds a complex solver around op with the given dense capabilities.
func NewComplex(op Operator[complex128], dec eigen.ComplexDecomposer, fac eigen.ComplexFactorizer, opts Options) (*ComplexSolver, error) {
	if op == nil || dec == nil || fac == nil {
		return nil, ErrNilOperator
	}

	return &ComplexSolver{eng: newEngine[complex128](op, complexArithmetic{dec: dec, fac: fac}, opts)}, nil
}

// Run executes the restarted Arnoldi method from start.
func (s *ComplexSolver) Run(ctx context.Context, start []complex128) error {
	return s.eng.run(ctx, start)
}

// State returns the queryable run state.
func (s *ComplexSolver) State() *RunState { return s.eng.state }

// Compile-time conformance.
var (
	_ Eigensolver[float64]    = (*RealSolver)(nil)
	_ Eigensolver[complex128] = (*ComplexSolver)(nil)
)

// RunRestartedArnoldi runs s from start and returns its state. The state is
// returned even on error so partial histories remain available.
func RunRestartedArnoldi[T Scalar](ctx context.Context, s Eigensolver[T], start []T) (*RunState, error) {
	err := s.Run(ctx, start)

	return s.State(), err
}
