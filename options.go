// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"log/slog"
	"math"
)

// DefaultTileSize is the tile edge assumed before the first harvest tells
// the cache the live grid's real tile length.
const DefaultTileSize = 256

// DefaultSizeLimit keeps at most one cached tile per tile needed to cover
// the visible region.
const DefaultSizeLimit = 1.0

// Option configures a Cache during creation.
//
// Example:
//
//	cache := tilereuse.New(
//	    tilereuse.WithSizeLimit(2),
//	    tilereuse.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Cache creation.
type options struct {
	sizeLimit float64
	tileSize  int
	logger    *slog.Logger
}

// defaultOptions returns the default cache options.
func defaultOptions() options {
	return options{
		sizeLimit: DefaultSizeLimit,
		tileSize:  DefaultTileSize,
		logger:    nil, // falls back to the package logger
	}
}

// WithSizeLimit sets the capacity factor. The cache holds at most
// floor(limit * n) tiles, where n is the number of grid cells needed to
// cover the visible region. Fractions are allowed. Negative and NaN
// values are treated as 0, which disables reuse entirely.
func WithSizeLimit(limit float64) Option {
	return func(o *options) {
		if math.IsNaN(limit) || limit < 0 {
			limit = 0
		}
		o.sizeLimit = limit
	}
}

// WithTileSize sets the tile edge used for the capacity bound until the
// first Harvest reports the live grid's tile length. Non-positive values
// are ignored.
func WithTileSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.tileSize = size
		}
	}
}

// WithLogger gives the cache its own logger instead of the package logger
// configured with [SetLogger].
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
