// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tilereuse keeps retired GPU tiles of a tiled, progressively
// rendered layer around long enough to paper over visual gaps.
//
// # Overview
//
// A tiled layer renders its content into a grid of square textures. When
// the layer's valid region shrinks, or the viewport is scrolled or zoomed,
// tiles are retired from the live grid and their content would normally be
// thrown away. Until the renderer repaints the newly exposed area, the
// compositor has nothing to show there.
//
// A [Cache] harvests those retiring tiles instead. On every composite it
// draws them underneath the gap between the valid region and what should
// be on screen. Tiles are evicted when they stop being useful or exceed a
// capacity bound proportional to the viewport size.
//
// # Frame pipeline
//
//	cache := tilereuse.New(tilereuse.WithSizeLimit(2))
//
//	// The layer is about to drop part of its valid region.
//	_ = cache.Harvest(grid, tilereuse.HarvestParams{...})
//
//	// The valid region grew after a paint.
//	_ = cache.Invalidate(tilereuse.Viewport{...})
//
//	// Once per composite.
//	_ = cache.DrawGaps(compositor, tilereuse.DrawParams{...})
//
// # Ownership
//
// Textures move with a single owner: the live store hands a texture to the
// cache in [TiledStore.RemoveTile], the cache lends it to a [Compositor]
// for the duration of one RenderTile call, and destroys it on eviction.
//
// # Thread safety
//
// Cache is NOT thread-safe. It is driven from the compositor loop that owns
// the GPU context and the live tile grid.
//
// # Coordinate system
//
// Regions are in layer pixels at a given [Resolution]. A tile harvested at
// resolution r keeps its region in r-space; the cache rescales on the fly
// when the layer is drawn at another resolution.
package tilereuse
