// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import "image"

// TiledStore is the live tile grid a layer is currently rendering into.
//
// The cache harvests from it: RemoveTile transfers ownership of a tile's
// texture to the caller, after which the store must no longer reference it.
type TiledStore interface {
	// TileLength returns the edge length of the square tiles, in pixels.
	TileLength() int

	// TileStartOffset returns how far coord lies past the start of its
	// tile, in [0, TileLength()).
	TileStartOffset(coord int) int

	// RoundDownToTileEdge returns the start of the tile containing coord.
	RoundDownToTileEdge(coord int) int

	// RemoveTile detaches the tile containing origin and returns its
	// texture. ok is false when no tile is populated there.
	RemoveTile(origin image.Point) (tex Texture, ok bool)
}

// RoundDown returns the largest multiple of size that is <= coord.
// It rounds toward negative infinity, so RoundDown(-1, 256) is -256.
func RoundDown(coord, size int) int {
	return coord - Mod(coord, size)
}

// Mod returns coord modulo size wrapped into [0, size).
func Mod(coord, size int) int {
	m := coord % size
	if m < 0 {
		m += size
	}
	return m
}

// cellExtent returns the length of the grid cell starting at coord,
// clipped to limit. An out-of-contract offset from the store is replaced
// with the arithmetic one so the walk always advances.
func cellExtent(store TiledStore, tileLength, coord, limit int) int {
	off := store.TileStartOffset(coord)
	if off < 0 || off >= tileLength {
		off = Mod(coord, tileLength)
	}
	return min(tileLength-off, limit-coord)
}
