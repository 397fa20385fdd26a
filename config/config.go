// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mcarnoldi/arnoldi"
	"github.com/katalvlaran/mcarnoldi/stochastic"
	"github.com/katalvlaran/mcarnoldi/transport"
)

// ErrInvalid wraps every validation failure of a run file.
var ErrInvalid = errors.New("config: invalid run")

// Decomposer names.
const (
	DecomposerGonum = "gonum"
	DecomposerSchur = "schur"
)

// Run is a complete run description.
type Run struct {
	Solver   Solver   `yaml:"solver"`
	Sampling Sampling `yaml:"sampling"`
	Geometry Geometry `yaml:"geometry"`
	Seed     int64    `yaml:"seed"`
	RunID    uint64   `yaml:"run_id"`
	Log      Log      `yaml:"log"`
}

// Solver mirrors arnoldi.Options.
type Solver struct {
	NumWanted            int     `yaml:"num_wanted"`
	IterationsPerRestart int     `yaml:"iterations_per_restart"`
	ActiveRestarts       int     `yaml:"active_restarts"`
	InactiveRestarts     int     `yaml:"inactive_restarts"`
	Method               string  `yaml:"method"`
	ExplicitWeighting    string  `yaml:"explicit_weighting"`
	ResidualTolerance    float64 `yaml:"residual_tolerance"`
	InvarianceTolerance  float64 `yaml:"invariance_tolerance"`
	Reorthogonalize      bool    `yaml:"reorthogonalize"`
	Decomposer           string  `yaml:"decomposer"`
}

// Sampling configures budgets and the transport simulator.
type Sampling struct {
	Histories           int     `yaml:"histories"`
	RelaxationTolerance float64 `yaml:"relaxation_tolerance"` // 0 disables relaxation
	RelaxationRule      string  `yaml:"relaxation_rule"`
	Workers             int     `yaml:"workers"`
	BatchSize           int     `yaml:"batch_size"`
	WeightCutoff        float64 `yaml:"weight_cutoff"`
	KillProbability     float64 `yaml:"kill_probability"`
}

// Geometry is the slab: regions laid out left to right from x = 0.
type Geometry struct {
	Bins    int      `yaml:"bins"`
	Regions []Region `yaml:"regions"`
}

// Region is one slab layer.
type Region struct {
	Width    float64  `yaml:"width"`
	Material Material `yaml:"material"`
}

// Material holds one-group cross sections.
type Material struct {
	Name     string  `yaml:"name"`
	SigmaT   float64 `yaml:"sigma_t"`
	SigmaS   float64 `yaml:"sigma_s"`
	NuSigmaF float64 `yaml:"nu_sigma_f"`
}

// Log configures the zap logger of the runner.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a 20 mean-free-path multiplying slab on 40 bins, solved
// for its dominant mode with implicit restarts.
func Default() *Run {
	return &Run{
		Solver: Solver{
			NumWanted:            1,
			IterationsPerRestart: 10,
			ActiveRestarts:       20,
			InactiveRestarts:     5,
			Method:               arnoldi.Implicit.String(),
			ExplicitWeighting:    "unweighted",
			ResidualTolerance:    arnoldi.DefaultResidualTolerance,
			InvarianceTolerance:  arnoldi.DefaultInvarianceTolerance,
			Reorthogonalize:      true,
			Decomposer:           DecomposerGonum,
		},
		Sampling: Sampling{
			Histories:       10000,
			RelaxationRule:  stochastic.Quadratic.String(),
			BatchSize:       transport.DefaultBatchSize,
			WeightCutoff:    transport.DefaultWeightCutoff,
			KillProbability: transport.DefaultKillProbability,
		},
		Geometry: Geometry{
			Bins: 40,
			Regions: []Region{{
				Width:    20,
				Material: Material{Name: "fuel", SigmaT: 1, SigmaS: 0.5, NuSigmaF: 0.6},
			}},
		},
		Seed: 1,
		Log:  Log{Level: "info"},
	}
}

// Load reads and validates the run file at path.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes data over Default() and validates the result.
// An empty document yields the defaults.
func Parse(data []byte) (*Run, error) {
	r := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks every section by converting it.
func (r *Run) Validate() error {
	opts, err := r.SolverOptions()
	if err != nil {
		return err
	}
	if err = opts.Validate(); err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalid, err)
	}
	if r.Solver.Decomposer != DecomposerGonum && r.Solver.Decomposer != DecomposerSchur {
		return fmt.Errorf("%w: solver: unknown decomposer %q", ErrInvalid, r.Solver.Decomposer)
	}
	if _, err = r.Relaxation(); err != nil {
		return err
	}
	if err = r.Slab().Validate(); err != nil {
		return fmt.Errorf("%w: geometry: %w", ErrInvalid, err)
	}
	if err = r.TransportOptions().Validate(); err != nil {
		return fmt.Errorf("%w: sampling: %w", ErrInvalid, err)
	}
	if _, err = r.LogLevel(); err != nil {
		return err
	}

	return nil
}

// SolverOptions converts the solver and sampling sections. Observers, logger
// and relaxation are left for the caller to attach.
func (r *Run) SolverOptions() (arnoldi.Options, error) {
	o := arnoldi.DefaultOptions()
	s := r.Solver
	o.NumWanted = s.NumWanted
	o.IterationsPerRestart = s.IterationsPerRestart
	o.ActiveRestarts = s.ActiveRestarts
	o.InactiveRestarts = s.InactiveRestarts
	o.BaseHistories = r.Sampling.Histories
	o.ResidualTolerance = s.ResidualTolerance
	o.InvarianceTolerance = s.InvarianceTolerance
	o.Reorthogonalize = s.Reorthogonalize

	switch s.Method {
	case arnoldi.Implicit.String():
		o.Method = arnoldi.Implicit
	case arnoldi.Explicit.String():
		o.Method = arnoldi.Explicit
	default:
		return o, fmt.Errorf("%w: solver: unknown method %q", ErrInvalid, s.Method)
	}
	switch s.ExplicitWeighting {
	case "unweighted", "":
		o.ExplicitWeighting = arnoldi.Unweighted
	case "magnitude":
		o.ExplicitWeighting = arnoldi.MagnitudeWeighted
	default:
		return o, fmt.Errorf("%w: solver: unknown explicit weighting %q", ErrInvalid, s.ExplicitWeighting)
	}

	return o, nil
}

// Relaxation returns the sampling policy, or nil when relaxation is disabled.
func (r *Run) Relaxation() (arnoldi.BudgetPolicy, error) {
	s := r.Sampling
	if s.RelaxationTolerance == 0 {
		return nil, nil
	}
	rule, err := stochastic.ParseRule(s.RelaxationRule)
	if err != nil {
		return nil, fmt.Errorf("%w: sampling: %w", ErrInvalid, err)
	}
	p, err := stochastic.NewRelaxation(s.Histories, s.RelaxationTolerance, rule)
	if err != nil {
		return nil, fmt.Errorf("%w: sampling: %w", ErrInvalid, err)
	}

	return p, nil
}

// Slab lays the regions out from x = 0.
func (r *Run) Slab() transport.Slab {
	slab := transport.Slab{Bins: r.Geometry.Bins}
	left := 0.0
	for _, reg := range r.Geometry.Regions {
		m := reg.Material
		slab.Regions = append(slab.Regions, transport.Region{
			Left:  left,
			Right: left + reg.Width,
			Material: transport.Material{
				Name: m.Name, SigmaT: m.SigmaT, SigmaS: m.SigmaS, NuSigmaF: m.NuSigmaF,
			},
		})
		left += reg.Width
	}

	return slab
}

// TransportOptions converts the sampling section; the logger is left to the caller.
func (r *Run) TransportOptions() transport.Options {
	o := transport.DefaultOptions()
	s := r.Sampling
	if s.Workers > 0 {
		o.Workers = s.Workers
	}
	o.BatchSize = s.BatchSize
	o.WeightCutoff = s.WeightCutoff
	o.KillProbability = s.KillProbability

	return o
}

// LogLevel parses the log level.
func (r *Run) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(r.Log.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: log: %w", ErrInvalid, err)
	}

	return lvl, nil
}
