// SPDX-License-Identifier: MIT

package stochastic

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTransport is returned by NewOperator without a transport.
	ErrNilTransport = errors.New("stochastic: nil transport")

	// ErrNegativeBudget reports a negative sample budget passed to Apply.
	ErrNegativeBudget = errors.New("stochastic: negative sample budget")

	// ErrTransport wraps a failed transport simulation. It is never retried.
	ErrTransport = errors.New("stochastic: transport simulation failed")

	// ErrTallyLength reports a tally whose length differs from the source.
	ErrTallyLength = errors.New("stochastic: tally length mismatch")

	// ErrInvalidRelaxation reports a relaxation policy with a non-positive
	// base budget, a negative or non-finite tolerance, or an unknown rule.
	ErrInvalidRelaxation = errors.New("stochastic: invalid relaxation policy")
)

// operatorErrorf tags err with the Operator method name.
func operatorErrorf(method string, err error) error {
	return fmt.Errorf("Operator.%s: %w", method, err)
}
