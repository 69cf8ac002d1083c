// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"image"
	"math"

	"github.com/gogpu/tilereuse/region"
)

// MaxTiles returns the capacity bound for a viewport: the number of
// tileSize cells needed to cover visible, times sizeLimit, floored.
// It returns 0 for an empty region, a non-positive tile size or a
// non-positive limit.
func MaxTiles(visible region.Region, tileSize int, sizeLimit float64) int {
	if tileSize <= 0 || !(sizeLimit > 0) || visible.IsEmpty() {
		return 0
	}
	limit := math.Floor(float64(CoveringTiles(visible, tileSize)) * sizeLimit)
	if limit > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(limit)
}

// CoveringTiles returns the minimum number of tile-aligned cells of the
// given size that cover r. Cells are carved out of the remaining area one
// at a time, starting from its top-left rectangle, until nothing is left.
func CoveringTiles(r region.Region, tileSize int) int {
	if tileSize <= 0 {
		return 0
	}
	n := 0
	for remaining := r; !remaining.IsEmpty(); n++ {
		first := remaining.Rects()[0]
		x := RoundDown(first.Min.X, tileSize)
		y := RoundDown(first.Min.Y, tileSize)
		remaining = remaining.SubtractRect(image.Rect(x, y, x+tileSize, y+tileSize))
	}
	return n
}
