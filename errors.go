// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import "errors"

var (
	// ErrInvalidResolution is returned when a resolution component is zero,
	// negative, NaN or infinite. Nothing is mutated when it is returned.
	ErrInvalidResolution = errors.New("tilereuse: resolution must be finite and positive")

	// ErrInvalidTileSize is returned when a tiled store reports a
	// non-positive tile length.
	ErrInvalidTileSize = errors.New("tilereuse: tile size must be positive")

	// ErrClosed is returned by Harvest after the cache has been closed.
	ErrClosed = errors.New("tilereuse: cache is closed")
)
