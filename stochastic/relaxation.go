// SPDX-License-Identifier: MIT

package stochastic

import (
	"fmt"
	"math"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
)

// Rule selects how the budget shrinks below the relaxation tolerance.
type Rule int

const (
	// Quadratic scales the budget with (r/tol)².
	Quadratic Rule = iota
	// Linear scales the budget with r/tol.
	Linear
)

// String implements fmt.Stringer.
func (r Rule) String() string {
	switch r {
	case Quadratic:
		return "quadratic"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseRule maps "quadratic" / "linear" to a Rule.
func ParseRule(s string) (Rule, error) {
	switch s {
	case "quadratic", "":
		return Quadratic, nil
	case "linear":
		return Linear, nil
	default:
		return 0, fmt.Errorf("%w: unknown rule %q", ErrInvalidRelaxation, s)
	}
}

// Relaxation is the adaptive sample-budget policy. The zero Rule is Quadratic.
type Relaxation struct {
	BaseHistories int
	Tolerance     float64
	Rule          Rule
}

// NewRelaxation validates and returns a policy.
func NewRelaxation(base int, tol float64, rule Rule) (Relaxation, error) {
	r := Relaxation{BaseHistories: base, Tolerance: tol, Rule: rule}
	if err := r.Validate(); err != nil {
		return Relaxation{}, err
	}

	return r, nil
}

// Validate checks the policy parameters.
func (r Relaxation) Validate() error {
	switch {
	case r.BaseHistories <= 0:
		return fmt.Errorf("%w: base histories must be > 0, got %d", ErrInvalidRelaxation, r.BaseHistories)
	case r.Tolerance < 0 || math.IsNaN(r.Tolerance) || math.IsInf(r.Tolerance, 0):
		return fmt.Errorf("%w: tolerance must be finite and >= 0, got %g", ErrInvalidRelaxation, r.Tolerance)
	case r.Rule != Quadratic && r.Rule != Linear:
		return fmt.Errorf("%w: unknown rule %d", ErrInvalidRelaxation, int(r.Rule))
	}

	return nil
}

// Budget converts the current residual estimate into a sample budget in [0, base].
// Residuals at or above the tolerance, and NaN residuals, get the full budget.
func (r Relaxation) Budget(residual float64) int {
	if r.Tolerance <= 0 || math.IsNaN(residual) || residual >= r.Tolerance {
		return r.BaseHistories
	}
	ratio := math.Max(residual, 0) / r.Tolerance
	if r.Rule == Linear {
		return int(float64(r.BaseHistories) * ratio)
	}

	return int(float64(r.BaseHistories) * ratio * ratio)
}

// Base returns the full per-application budget.
func (r Relaxation) Base() int { return r.BaseHistories }

var _ arnoldi.BudgetPolicy = Relaxation{}
