// SPDX-License-Identifier: MIT

package arnoldi

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/mcarnoldi/matrix"
	"go.uber.org/zap"
)

const (
	opRun       = "Run"
	opStart     = "Start"
	opIterate   = "Iterate"
	opEigen     = "Eigenpairs"
	opImplicit  = "ImplicitRestart"
	opExplicit  = "ExplicitRestart"
	minBudget   = 1
	logRestart  = "Restart completed"
	logStep     = "Arnoldi step"
	logInvarSub = "Invariant Krylov subspace found"
)

// engine runs restarted Arnoldi in the working arithmetic T.
// It is the single writer of the factorization and of the RunState.
type engine[T Scalar] struct {
	op    Operator[T]
	ar    arithmetic[T]
	opts  Options
	log   *zap.Logger
	state *RunState

	fz *factorization[T]

	started          time.Time
	restart          int
	active           bool
	budget           int
	restartHistories int64
	phaseHistories   int64

	restartObs []Observer
	iterObs    []IterationObserver

	// inspect, when set, runs after every completed Arnoldi step.
	inspect func()
}

func newEngine[T Scalar](op Operator[T], ar arithmetic[T], opts Options) *engine[T] {
	opts = opts.withFallbacks()
	e := &engine[T]{
		op:    op,
		ar:    ar,
		opts:  opts,
		log:   opts.Logger,
		state: newRunState(),
	}
	for _, o := range opts.Observers {
		if o == nil {
			continue
		}
		e.restartObs = append(e.restartObs, o)
		if io, ok := o.(IterationObserver); ok {
			e.iterObs = append(e.iterObs, io)
		}
	}

	return e
}

// run is the restarted Arnoldi state machine:
//
//	{Building → Computing → Restarting}* → Converged | MaxRestarts
//
// Configuration and start-vector checks happen before the operator is touched.
func (e *engine[T]) run(ctx context.Context, start []T) error {
	if err := e.opts.Validate(); err != nil {
		return arnoldiErrorf(opRun, err)
	}
	if len(start) == 0 {
		return arnoldiErrorf(opRun, ErrDegenerateStartVector)
	}
	if nv := e.ar.norm(start); nv <= e.opts.InvarianceTolerance {
		return arnoldiErrorf(opRun, fmt.Errorf("%w: norm %g", ErrDegenerateStartVector, nv))
	}

	e.state.reset()
	e.fz = newFactorization(e.ar, len(start), e.opts.IterationsPerRestart, e.opts.Reorthogonalize, e.opts.InvarianceTolerance)
	e.started = e.opts.Clock()

	n := e.opts.NumWanted
	total := e.opts.totalRestarts()
	next := append([]T(nil), start...)

	for r := 0; r < total; r++ {
		if err := ctx.Err(); err != nil {
			return e.abort(opRun, err)
		}
		e.beginRestart(r)

		if r == 0 || e.opts.Method == Explicit {
			if err := e.fz.start(next, e.apply); err != nil {
				return e.abort(opStart, err)
			}
			if err := e.afterStep(0); err != nil {
				return e.abort(opStart, err)
			}
		}

		invariant, err := e.iterate()
		if err != nil {
			return e.abort(opIterate, err)
		}

		e.state.setStatus(StatusComputing)
		eig, err := computeEigenpairs(e.fz)
		if err != nil {
			return e.abort(opEigen, wrapCause(ErrExternalSolver, err))
		}
		rep := e.report(eig, invariant)

		if invariant || eig.residual < e.opts.ResidualTolerance {
			e.state.setStatus(StatusConverged)
			return nil
		}
		if r == total-1 {
			e.state.setStatus(StatusMaxRestarts)
			return nil
		}

		e.state.setStatus(StatusRestarting)
		switch e.opts.Method {
		case Implicit:
			if err = e.implicitRestart(eig, n); err != nil {
				return e.abort(opImplicit, wrapCause(ErrExternalSolver, err))
			}
		case Explicit:
			next = e.explicitStart(eig, n)
			e.log.Debug("Explicit restart vector formed", zap.Int("restart", rep.Restart))
		}
	}

	e.state.setStatus(StatusMaxRestarts)
	return nil
}

// beginRestart resets per-restart bookkeeping; the first application of every
// restart spends the full budget.
func (e *engine[T]) beginRestart(r int) {
	e.restart = r
	e.active = r >= e.opts.InactiveRestarts
	e.budget = e.fullBudget()
	e.restartHistories = 0
	e.state.setPosition(r, e.fz.k)
	e.state.setStatus(StatusBuilding)
}

func (e *engine[T]) fullBudget() int {
	if e.opts.Relaxation != nil {
		return e.opts.Relaxation.Base()
	}

	return e.opts.BaseHistories
}

// apply spends the current budget on one operator application.
func (e *engine[T]) apply(v []T) ([]T, error) {
	budget := e.budget
	w, err := e.op.Apply(v, budget)
	if err != nil {
		return nil, wrapCause(ErrStochasticOperator, err)
	}
	if len(w) != len(v) {
		return nil, wrapCause(ErrStochasticOperator,
			fmt.Errorf("result length %d, want %d: %w", len(w), len(v), matrix.ErrDimensionMismatch))
	}
	e.restartHistories += int64(budget)
	e.phaseHistories = e.state.recordIteration(e.active, budget)

	return append([]T(nil), w...), nil
}

// iterate extends the factorization to IterationsPerRestart columns or until
// the Krylov space becomes invariant.
func (e *engine[T]) iterate() (bool, error) {
	for !e.fz.full() {
		beta, invariant, err := e.fz.step(e.apply)
		if err != nil {
			return false, err
		}
		if invariant {
			e.log.Warn(logInvarSub,
				zap.Int("restart", e.restart),
				zap.Int("iteration", e.fz.k),
				zap.Float64("norm", beta))
			return true, nil
		}
		if err = e.afterStep(beta); err != nil {
			return false, err
		}
	}
	if nf := e.fz.residualNorm(); nf < e.opts.InvarianceTolerance {
		e.log.Warn(logInvarSub,
			zap.Int("restart", e.restart),
			zap.Int("iteration", e.fz.k),
			zap.Float64("norm", nf))
		return true, nil
	}

	return false, nil
}

// afterStep does the per-step bookkeeping: relaxes the next budget from the
// partial residual (active phase only) and feeds iteration observers.
func (e *engine[T]) afterStep(beta float64) error {
	e.state.setPosition(e.restart, e.fz.k)
	if e.inspect != nil {
		e.inspect()
	}
	spent := e.budget
	relax := e.opts.Relaxation != nil && e.active
	if !relax && len(e.iterObs) == 0 {
		e.log.Debug(logStep,
			zap.Int("restart", e.restart),
			zap.Int("iteration", e.fz.k),
			zap.Float64("beta", beta),
			zap.Int("budget", spent))
		return nil
	}

	eig, err := computeEigenpairs(e.fz)
	if err != nil {
		return wrapCause(ErrExternalSolver, err)
	}
	if relax {
		e.budget = max(e.opts.Relaxation.Budget(eig.residual), minBudget)
	}
	e.log.Debug(logStep,
		zap.Int("restart", e.restart),
		zap.Int("iteration", e.fz.k),
		zap.Float64("beta", beta),
		zap.Int("budget", spent),
		zap.Float64("residual", eig.residual),
		zap.Int("next_budget", e.budget))

	if len(e.iterObs) > 0 {
		dom := eig.dominant()
		rep := IterationReport{
			Restart:        e.restart,
			Iteration:      e.fz.k,
			Active:         e.active,
			Beta:           beta,
			Budget:         spent,
			Relaxed:        e.opts.Relaxation != nil,
			TotalHistories: e.phaseHistories,
			Residual:       eig.residual,
			Dominant:       eig.ritzValues[dom],
			DominantVector: append([]complex128(nil), eig.ritzVectors[dom]...),
			Elapsed:        e.opts.Clock().Sub(e.started),
		}
		for _, o := range e.iterObs {
			o.ObserveIteration(rep)
		}
	}

	return nil
}

// report records the completed restart and notifies observers.
func (e *engine[T]) report(eig *eigenpairs, invariant bool) RestartReport {
	rep := RestartReport{
		Restart:           e.restart,
		Active:            e.active,
		Iterations:        e.fz.columns(),
		RitzValues:        append([]complex128(nil), eig.ritzValues...),
		RitzVectors:       copyVectors(eig.ritzVectors),
		Residual:          eig.residual,
		Histories:         e.restartHistories,
		Elapsed:           e.opts.Clock().Sub(e.started),
		InvariantSubspace: invariant,
	}
	rep = e.state.recordRestart(rep, eig)

	dom, _ := rep.Dominant()
	e.log.Info(logRestart,
		zap.Int("restart", rep.Restart),
		zap.Bool("active", rep.Active),
		zap.Float64("dominant_re", real(dom)),
		zap.Float64("dominant_im", imag(dom)),
		zap.Float64("residual", rep.Residual),
		zap.Int64("histories", rep.TotalHistories),
		zap.Duration("elapsed", rep.Elapsed))

	for _, o := range e.restartObs {
		o.ObserveRestart(rep.clone())
	}

	return rep
}

// abort marks the run aborted and returns the tagged error.
func (e *engine[T]) abort(tag string, err error) error {
	err = arnoldiErrorf(tag, err)
	e.state.fail(StatusAborted, err)
	e.log.Error("Arnoldi run aborted", zap.Int("restart", e.restart), zap.Error(err))

	return err
}
