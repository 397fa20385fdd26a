// SPDX-License-Identifier: MIT

package transport

import (
	"fmt"
	"math"
)

// Material holds macroscopic one-group cross sections (1/cm).
type Material struct {
	Name     string
	SigmaT   float64 // total
	SigmaS   float64 // scattering
	NuSigmaF float64 // fission production
}

// Validate checks 0 < Σt, 0 <= Σs <= Σt and νΣf >= 0, all finite.
func (m Material) Validate() error {
	for _, v := range []float64{m.SigmaT, m.SigmaS, m.NuSigmaF} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %q", ErrBadMaterial, m.Name)
		}
	}
	if m.SigmaT <= 0 || m.SigmaS > m.SigmaT {
		return fmt.Errorf("%w: %q needs 0 < SigmaS <= SigmaT", ErrBadMaterial, m.Name)
	}

	return nil
}

// Region is the interval [Left, Right) filled with Material.
type Region struct {
	Left, Right float64
	Material    Material
}

// Slab is a contiguous sequence of regions, left to right, scored on a uniform
// mesh of Bins bins spanning [Regions[0].Left, Regions[last].Right).
type Slab struct {
	Regions []Region
	Bins    int
}

// Validate checks the mesh, region ordering and contiguity, and materials.
func (s Slab) Validate() error {
	if len(s.Regions) == 0 {
		return ErrNoRegions
	}
	if s.Bins <= 0 {
		return fmt.Errorf("%w: bins = %d", ErrBadMesh, s.Bins)
	}
	for i, r := range s.Regions {
		if math.IsNaN(r.Left) || math.IsInf(r.Left, 0) || math.IsInf(r.Right, 0) || !(r.Right > r.Left) {
			return slabErrorf(i, ErrBadRegion)
		}
		if i > 0 && r.Left != s.Regions[i-1].Right {
			return slabErrorf(i, fmt.Errorf("%w: gap or overlap at %g", ErrBadRegion, r.Left))
		}
		if err := r.Material.Validate(); err != nil {
			return slabErrorf(i, err)
		}
	}

	return nil
}

// Left is the left edge of the slab.
func (s Slab) Left() float64 { return s.Regions[0].Left }

// Right is the right edge of the slab.
func (s Slab) Right() float64 { return s.Regions[len(s.Regions)-1].Right }

// Width is Right − Left.
func (s Slab) Width() float64 { return s.Right() - s.Left() }

// Uniform returns a single-region slab of the given width and bin count.
func Uniform(width float64, bins int, m Material) Slab {
	return Slab{Regions: []Region{{Left: 0, Right: width, Material: m}}, Bins: bins}
}

// regionAt returns the index of the region containing x, clamping to the
// outer regions.
func (s Slab) regionAt(x float64) int {
	lo, hi := 0, len(s.Regions)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if x < s.Regions[mid].Right {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo
}
