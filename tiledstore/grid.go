// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tiledstore provides Grid, a live tiled backing store that
// satisfies tilereuse.TiledStore.
//
// A Grid divides an unbounded layer into square tiles of a fixed edge
// length and keeps one texture per populated tile, keyed by the tile's
// top-left corner. Textures come from an [Allocator]; when the grid is
// attached to a host GPU device with [WithDevice], tiles are allocated
// in the device's surface format.
//
// Frame loop:
//
//	cache.Harvest(grid, params)   // retiring tiles move into the cache
//	grid.Retain(newValid)         // whatever was not harvested is freed
//	fresh, _ := grid.EnsureTiles(newValid)
//	// paint the fresh tiles, then DrawGaps
package tiledstore

import (
	"errors"
	"fmt"
	"image"
	"maps"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilereuse"
	"github.com/gogpu/tilereuse/region"
)

// DefaultTileLength is the tile edge used when none is configured.
const DefaultTileLength = tilereuse.DefaultTileSize

var (
	// ErrNilAllocator is returned when New is given a nil Allocator.
	ErrNilAllocator = errors.New("tiledstore: nil Allocator")

	// ErrClosed is returned by EnsureTiles after Close.
	ErrClosed = errors.New("tiledstore: grid is closed")
)

// Allocator creates tile textures.
type Allocator interface {
	NewTexture(width, height int, format gputypes.TextureFormat) (tilereuse.Texture, error)
}

// DeviceHandle provides GPU device access from the host application.
// The grid only reads the surface format from it; it never creates a
// device of its own.
type DeviceHandle = gpucontext.DeviceProvider

// Grid is a live tile grid.
//
// Thread safety: Grid is NOT thread-safe. Drive it from the same loop as
// the tilereuse.Cache that harvests from it.
type Grid struct {
	tileLength int
	format     gputypes.TextureFormat
	alloc      Allocator
	device     DeviceHandle

	// tiles maps tile-aligned origins to their textures.
	tiles  map[image.Point]tilereuse.Texture
	closed bool
}

var _ tilereuse.TiledStore = (*Grid)(nil)

// New creates an empty grid that allocates tiles from alloc.
func New(alloc Allocator, opts ...Option) (*Grid, error) {
	if alloc == nil {
		return nil, ErrNilAllocator
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	format := o.format
	if o.device != nil {
		if f := o.device.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			format = f
		}
	}
	return &Grid{
		tileLength: o.tileLength,
		format:     format,
		alloc:      alloc,
		device:     o.device,
		tiles:      make(map[image.Point]tilereuse.Texture),
	}, nil
}

// TileLength returns the tile edge length in pixels.
func (g *Grid) TileLength() int {
	return g.tileLength
}

// TileStartOffset returns how far coord lies past the start of its tile.
func (g *Grid) TileStartOffset(coord int) int {
	return tilereuse.Mod(coord, g.tileLength)
}

// RoundDownToTileEdge returns the start of the tile containing coord.
func (g *Grid) RoundDownToTileEdge(coord int) int {
	return tilereuse.RoundDown(coord, g.tileLength)
}

// Format returns the texture format tiles are allocated in.
func (g *Grid) Format() gputypes.TextureFormat {
	return g.format
}

// Device returns the device handle given with WithDevice, or nil.
func (g *Grid) Device() DeviceHandle {
	return g.device
}

// TileCount returns the number of populated tiles.
func (g *Grid) TileCount() int {
	return len(g.tiles)
}

// Origins returns the origins of all populated tiles, sorted
// top-to-bottom, left-to-right.
func (g *Grid) Origins() []image.Point {
	out := slices.Collect(maps.Keys(g.tiles))
	slices.SortFunc(out, func(a, b image.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// Tile returns the texture of the tile containing p.
func (g *Grid) Tile(p image.Point) (tilereuse.Texture, bool) {
	tex, ok := g.tiles[g.key(p)]
	return tex, ok
}

// RemoveTile detaches the tile containing origin and hands its texture to
// the caller.
func (g *Grid) RemoveTile(origin image.Point) (tilereuse.Texture, bool) {
	key := g.key(origin)
	tex, ok := g.tiles[key]
	if !ok {
		return nil, false
	}
	delete(g.tiles, key)
	return tex, true
}

// EnsureTiles allocates a texture for every tile intersecting r that is
// not yet populated, and returns the origins of the new tiles in
// allocation order. On an allocation failure the tiles allocated so far
// stay in the grid.
func (g *Grid) EnsureTiles(r region.Region) ([]image.Point, error) {
	if g.closed {
		return nil, ErrClosed
	}
	var fresh []image.Point
	for _, origin := range g.covering(r) {
		if _, ok := g.tiles[origin]; ok {
			continue
		}
		tex, err := g.alloc.NewTexture(g.tileLength, g.tileLength, g.format)
		if err != nil {
			return fresh, fmt.Errorf("tiledstore: allocate tile at %v: %w", origin, err)
		}
		g.tiles[origin] = tex
		fresh = append(fresh, origin)
	}
	if len(fresh) > 0 {
		tilereuse.Logger().Debug("tiledstore: allocated tiles",
			"count", len(fresh),
			"total", len(g.tiles),
			"format", g.format)
	}
	return fresh, nil
}

// Retain destroys every tile that does not intersect r and returns how
// many were destroyed.
func (g *Grid) Retain(r region.Region) int {
	n := 0
	for origin, tex := range g.tiles {
		if r.IntersectsRect(g.cell(origin)) {
			continue
		}
		tex.Destroy()
		delete(g.tiles, origin)
		n++
	}
	return n
}

// Close destroys every tile. Close is idempotent.
func (g *Grid) Close() {
	for origin, tex := range g.tiles {
		tex.Destroy()
		delete(g.tiles, origin)
	}
	g.closed = true
}

func (g *Grid) key(p image.Point) image.Point {
	return image.Pt(g.RoundDownToTileEdge(p.X), g.RoundDownToTileEdge(p.Y))
}

func (g *Grid) cell(origin image.Point) image.Rectangle {
	return image.Rect(origin.X, origin.Y, origin.X+g.tileLength, origin.Y+g.tileLength)
}

// covering returns the origins of the tiles intersecting r, row by row.
func (g *Grid) covering(r region.Region) []image.Point {
	b := r.Bounds()
	if b.Empty() {
		return nil
	}
	var out []image.Point
	for y := g.RoundDownToTileEdge(b.Min.Y); y < b.Max.Y; y += g.tileLength {
		for x := g.RoundDownToTileEdge(b.Min.X); x < b.Max.X; x += g.tileLength {
			origin := image.Pt(x, y)
			if r.IntersectsRect(g.cell(origin)) {
				out = append(out, origin)
			}
		}
	}
	return out
}
