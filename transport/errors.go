// SPDX-License-Identifier: MIT

package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRegions reports a slab without regions.
	ErrNoRegions = errors.New("transport: slab has no regions")

	// ErrBadRegion reports an empty, inverted or non-contiguous region.
	ErrBadRegion = errors.New("transport: invalid region bounds")

	// ErrBadMaterial reports cross sections that are negative, non-finite,
	// or with Σs > Σt or Σt <= 0.
	ErrBadMaterial = errors.New("transport: invalid material cross sections")

	// ErrBadMesh reports a non-positive bin count.
	ErrBadMesh = errors.New("transport: invalid scoring mesh")

	// ErrBadOptions reports invalid simulator options.
	ErrBadOptions = errors.New("transport: invalid options")

	// ErrSourceLength reports a source whose length differs from the bin count.
	ErrSourceLength = errors.New("transport: source length mismatch")

	// ErrEmptySource reports a source with no non-zero, finite entry.
	ErrEmptySource = errors.New("transport: empty source")

	// ErrNegativeHistories reports a negative history count.
	ErrNegativeHistories = errors.New("transport: negative history count")
)

// slabErrorf tags a geometry error with the offending region index.
func slabErrorf(region int, err error) error {
	return fmt.Errorf("Slab.region[%d]: %w", region, err)
}
