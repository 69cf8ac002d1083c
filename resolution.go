// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"fmt"
	"math"
)

// Resolution is the scale at which content was rendered, relative to
// layer space. Resolution{1, 1} is unscaled; Resolution{2, 2} renders
// every layer pixel as a 2x2 block.
type Resolution struct {
	X, Y float64
}

// Uniform returns a resolution with the same scale on both axes.
func Uniform(scale float64) Resolution {
	return Resolution{X: scale, Y: scale}
}

// Valid reports whether both components are finite and positive.
func (r Resolution) Valid() bool {
	return isPositiveFinite(r.X) && isPositiveFinite(r.Y)
}

// Ratio returns r / base per axis: the factor that maps base-space
// coordinates into r-space.
func (r Resolution) Ratio(base Resolution) Resolution {
	return Resolution{X: r.X / base.X, Y: r.Y / base.Y}
}

// Inverse returns 1/r per axis.
func (r Resolution) Inverse() Resolution {
	return Resolution{X: 1 / r.X, Y: 1 / r.Y}
}

// String returns "XxY", e.g. "2x2".
func (r Resolution) String() string {
	return fmt.Sprintf("%gx%g", r.X, r.Y)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// checkResolution fails fast on a malformed resolution.
func checkResolution(name string, r Resolution) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %s is %v", ErrInvalidResolution, name, r)
	}
	return nil
}
