// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"log/slog"
	"slices"
)

// Cache holds harvested tiles in usefulness order.
//
// Index 0 is the next eviction candidate: the tile that was harvested or
// last drew something longest ago. At most one tile is cached per
// (bucket, resolution) pair.
//
// Thread safety: Cache is NOT thread-safe. It is meant to be driven from a
// single compositor loop.
type Cache struct {
	tiles []*ReusableTile

	sizeLimit float64
	tileSize  int
	maxTiles  int

	logger *slog.Logger
	stats  Stats
	closed bool
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		sizeLimit: o.sizeLimit,
		tileSize:  o.tileSize,
		logger:    o.logger,
	}
}

// log returns the cache's logger, falling back to the package logger.
func (c *Cache) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// Len returns the number of cached tiles.
func (c *Cache) Len() int {
	return len(c.tiles)
}

// SizeLimit returns the capacity factor.
func (c *Cache) SizeLimit() float64 {
	return c.sizeLimit
}

// TileSize returns the tile edge used for the capacity bound.
func (c *Cache) TileSize() int {
	return c.tileSize
}

// MaxTiles returns the capacity bound computed by the last Invalidate.
func (c *Cache) MaxTiles() int {
	return c.maxTiles
}

// Tiles returns a snapshot of the cached tiles in eviction order,
// index 0 first.
func (c *Cache) Tiles() []TileInfo {
	out := make([]TileInfo, len(c.tiles))
	for i, t := range c.tiles {
		out[i] = t.info()
	}
	return out
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Len = len(c.tiles)
	s.MaxTiles = c.maxTiles
	return s
}

// Clear destroys every cached texture and empties the cache.
func (c *Cache) Clear() {
	for _, t := range c.tiles {
		t.release()
	}
	clear(c.tiles)
	c.tiles = c.tiles[:0]
}

// Close clears the cache and rejects further harvests.
// Close is idempotent.
func (c *Cache) Close() {
	c.Clear()
	c.tiles = nil
	c.closed = true
}

// removeAt destroys and removes the tile at index i.
func (c *Cache) removeAt(i int) {
	c.tiles[i].release()
	c.tiles = slices.Delete(c.tiles, i, i+1)
}
