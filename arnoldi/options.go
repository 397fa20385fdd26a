// SPDX-License-Identifier: MIT

package arnoldi

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Defaults for Options.
const (
	DefaultNumWanted            = 1
	DefaultIterationsPerRestart = 10
	DefaultActiveRestarts       = 10
	DefaultBaseHistories        = 1000
	DefaultInvarianceTolerance  = 1e-14
	DefaultResidualTolerance    = 1e-12
	DefaultShiftImagTolerance   = 1e-10
)

// Options configures a restarted Arnoldi run.
type Options struct {
	// NumWanted is n, the number of eigenpairs kept across restarts.
	NumWanted int
	// IterationsPerRestart is m, the Krylov dimension built per restart (m > n).
	IterationsPerRestart int
	// ActiveRestarts and InactiveRestarts split the restart budget; inactive ones run first.
	ActiveRestarts   int
	InactiveRestarts int
	// BaseHistories is the full per-application sample budget.
	BaseHistories int
	// Method selects implicit or explicit restarts.
	Method Method
	// Relaxation, when non-nil, shrinks the budget of active applications from the residual.
	Relaxation BudgetPolicy
	// InvarianceTolerance bounds ‖f‖ below which the Krylov space is invariant.
	InvarianceTolerance float64
	// ResidualTolerance ends the run with StatusConverged once the residual drops below it.
	ResidualTolerance float64
	// Reorthogonalize runs a second classical Gram-Schmidt pass per step.
	Reorthogonalize bool
	// ExplicitWeighting combines Ritz vectors for explicit restarts.
	ExplicitWeighting Weighting
	// ShiftImagTolerance is the relative |Im μ| above which a real solver uses a double shift.
	ShiftImagTolerance float64
	// Observers receive restart (and optionally iteration) reports.
	Observers []Observer
	// Logger receives progress lines; nil means zap.NewNop().
	Logger *zap.Logger
	// Clock is the time source for elapsed-time bookkeeping; nil means time.Now.
	Clock func() time.Time
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		NumWanted:            DefaultNumWanted,
		IterationsPerRestart: DefaultIterationsPerRestart,
		ActiveRestarts:       DefaultActiveRestarts,
		BaseHistories:        DefaultBaseHistories,
		Method:               Implicit,
		InvarianceTolerance:  DefaultInvarianceTolerance,
		ResidualTolerance:    DefaultResidualTolerance,
		Reorthogonalize:      true,
		ExplicitWeighting:    Unweighted,
		ShiftImagTolerance:   DefaultShiftImagTolerance,
	}
}

// Validate checks the configuration; every failure wraps ErrConfiguration.
func (o Options) Validate() error {
	switch {
	case o.NumWanted <= 0:
		return fmt.Errorf("%w: NumWanted must be > 0, got %d", ErrConfiguration, o.NumWanted)
	case o.IterationsPerRestart <= o.NumWanted:
		return fmt.Errorf("%w: IterationsPerRestart (%d) must exceed NumWanted (%d)",
			ErrConfiguration, o.IterationsPerRestart, o.NumWanted)
	case o.ActiveRestarts <= 0:
		return fmt.Errorf("%w: ActiveRestarts must be > 0, got %d", ErrConfiguration, o.ActiveRestarts)
	case o.InactiveRestarts < 0:
		return fmt.Errorf("%w: InactiveRestarts must be >= 0, got %d", ErrConfiguration, o.InactiveRestarts)
	case o.BaseHistories <= 0:
		return fmt.Errorf("%w: BaseHistories must be > 0, got %d", ErrConfiguration, o.BaseHistories)
	case o.Method != Implicit && o.Method != Explicit:
		return fmt.Errorf("%w: unknown restart method %d", ErrConfiguration, int(o.Method))
	case o.InvarianceTolerance < 0 || o.ResidualTolerance < 0 || o.ShiftImagTolerance < 0:
		return fmt.Errorf("%w: tolerances must be >= 0", ErrConfiguration)
	}

	return nil
}

// withFallbacks fills nil collaborators.
func (o Options) withFallbacks() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}

	return o
}

// totalRestarts is the number of restarts across both phases.
func (o Options) totalRestarts() int { return o.InactiveRestarts + o.ActiveRestarts }
