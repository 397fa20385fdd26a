// SPDX-License-Identifier: MIT

package transport

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ctxCheckEvery is the number of histories between context checks inside a batch.
const ctxCheckEvery = 256

// Simulator runs batches of histories through a validated slab.
// It holds no per-call state and is safe for concurrent Simulate calls.
type Simulator struct {
	slab  Slab
	opts  Options
	log   *zap.Logger
	left  float64
	width float64 // bin width
}

// NewSimulator validates slab and opts.
func NewSimulator(slab Slab, opts Options) (*Simulator, error) {
	if err := slab.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	regions := append([]Region(nil), slab.Regions...)
	slab.Regions = regions

	return &Simulator{
		slab:  slab,
		opts:  opts,
		log:   log,
		left:  slab.Left(),
		width: slab.Width() / float64(slab.Bins),
	}, nil
}

// Bins is the length of every source and tally.
func (s *Simulator) Bins() int { return s.slab.Bins }

// Simulate tracks histories particles born from source and returns the
// collision-estimated fission production per bin, summed over histories.
//
// Errors: ErrSourceLength, ErrEmptySource, ErrNegativeHistories, or the
// context error when ctx is cancelled mid-run.
func (s *Simulator) Simulate(ctx context.Context, source []float64, histories int, seed int64) ([]float64, error) {
	bins := s.slab.Bins
	if len(source) != bins {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSourceLength, len(source), bins)
	}
	if histories < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeHistories, histories)
	}
	if histories == 0 {
		return make([]float64, bins), nil
	}
	cdf := make([]float64, bins)
	var total float64
	for i, v := range source {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite entry at %d", ErrEmptySource, i)
		}
		total += math.Abs(v)
		cdf[i] = total
	}
	if total == 0 {
		return nil, ErrEmptySource
	}

	size := s.opts.BatchSize
	batches := (histories + size - 1) / size
	tallies := make([][]float64, batches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for b := 0; b < batches; b++ {
		count := min(size, histories-b*size)
		g.Go(func() error {
			tally, leaked, err := s.runBatch(gctx, source, cdf, count, batchRNG(seed, b))
			if err != nil {
				return err
			}
			tallies[b] = tally
			s.log.Debug("Transport batch done",
				zap.Int("batch", b),
				zap.Int("histories", count),
				zap.Int("leaked", leaked))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]float64, bins)
	for _, t := range tallies {
		for i, v := range t {
			out[i] += v
		}
	}

	return out, nil
}

// runBatch tracks count histories with rng into a private tally.
func (s *Simulator) runBatch(ctx context.Context, source, cdf []float64, count int, rng *rand.Rand) ([]float64, int, error) {
	tally := make([]float64, s.slab.Bins)
	leaked := 0
	for h := 0; h < count; h++ {
		if h%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		if s.track(source, cdf, rng, tally) {
			leaked++
		}
	}

	return tally, leaked, nil
}

// track follows one history to death or leakage and reports leakage.
func (s *Simulator) track(source, cdf []float64, rng *rand.Rand, tally []float64) bool {
	bin := sampleCDF(rng, cdf)
	x := s.left + (float64(bin)+rng.Float64())*s.width
	w := 1.0
	if source[bin] < 0 {
		w = -1
	}
	mu := isotropic(rng)
	region := s.slab.regionAt(x)
	regions := s.slab.Regions

	for {
		r := regions[region]
		m := r.Material
		d := exponential(rng, m.SigmaT)

		var toEdge float64
		switch {
		case mu > 0:
			toEdge = (r.Right - x) / mu
		case mu < 0:
			toEdge = (r.Left - x) / mu
		default:
			toEdge = math.Inf(1)
		}

		if d >= toEdge {
			if mu > 0 {
				x = r.Right
				region++
			} else {
				x = r.Left
				region--
			}
			if region < 0 || region >= len(regions) {
				return true
			}
			continue
		}

		x += d * mu
		tally[s.binOf(x)] += w * m.NuSigmaF / m.SigmaT
		w *= m.SigmaS / m.SigmaT
		if w == 0 {
			return false
		}
		if math.Abs(w) < s.opts.WeightCutoff {
			if rng.Float64() < s.opts.KillProbability {
				return false
			}
			w /= 1 - s.opts.KillProbability
		}
		mu = isotropic(rng)
	}
}

// binOf maps a position to its mesh bin, clamping rounding at the edges.
func (s *Simulator) binOf(x float64) int {
	b := int((x - s.left) / s.width)
	if b < 0 {
		return 0
	}
	if b >= s.slab.Bins {
		return s.slab.Bins - 1
	}

	return b
}
