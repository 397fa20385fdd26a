// SPDX-License-Identifier: MIT

package eigen

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConvergence indicates the iterative eigenvalue algorithm ran out of sweeps.
	ErrNoConvergence = errors.New("eigen: QR iteration did not converge")

	// ErrDecomposition indicates the input could not be decomposed (nil, non-square, non-finite).
	ErrDecomposition = errors.New("eigen: decomposition failed")
)

// eigenErrorf tags err with an operation name, keeping errors.Is matching.
func eigenErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
