// SPDX-License-Identifier: MIT

package arnoldi

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports invalid Options (e.g. IterationsPerRestart <= NumWanted).
	// It is returned before the operator is applied even once.
	ErrConfiguration = errors.New("arnoldi: invalid configuration")

	// ErrDegenerateStartVector reports a start vector whose norm is at or below InvarianceTolerance.
	ErrDegenerateStartVector = errors.New("arnoldi: degenerate start vector")

	// ErrExternalSolver wraps a failed dense eigendecomposition or QR factorization.
	ErrExternalSolver = errors.New("arnoldi: external dense solver failed")

	// ErrStochasticOperator wraps a failed operator application. Applications are never retried.
	ErrStochasticOperator = errors.New("arnoldi: operator application failed")

	// ErrNilOperator reports a solver constructed without an operator or dense capabilities.
	ErrNilOperator = errors.New("arnoldi: nil operator or capability")
)

// arnoldiErrorf tags err with an operation name.
func arnoldiErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// wrapCause keeps both the package sentinel and the underlying cause matchable with errors.Is.
func wrapCause(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
