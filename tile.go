// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"image"

	"github.com/gogpu/tilereuse/region"
)

// ReusableTile is a tile harvested from a live store.
//
// The texture is owned by the cache; it is only reachable through the
// TileDraw lent to a Compositor.
type ReusableTile struct {
	texture Texture

	// Origin is the top-left of the harvested cell in layer pixels at
	// Resolution. It need not be tile aligned: the first cell of a valid
	// region can start mid-tile.
	Origin image.Point

	// Region is the part of the cell that held valid content at harvest.
	Region region.Region

	// TileSize is the edge length of the grid the tile came from.
	TileSize int

	// Resolution is the resolution the tile was rendered at.
	Resolution Resolution
}

// Bucket returns the tile-grid cell the tile belongs to: its origin
// rounded down to a multiple of TileSize.
func (t *ReusableTile) Bucket() image.Point {
	return image.Pt(RoundDown(t.Origin.X, t.TileSize), RoundDown(t.Origin.Y, t.TileSize))
}

// TextureOffset returns where Origin falls inside its tile, wrapped into
// [0, TileSize) so negative coordinates behave like positive ones.
func (t *ReusableTile) TextureOffset() image.Point {
	return image.Pt(Mod(t.Origin.X, t.TileSize), Mod(t.Origin.Y, t.TileSize))
}

// regionAt returns Region re-expressed at res, rounded outward.
func (t *ReusableTile) regionAt(res Resolution) region.Region {
	if res == t.Resolution {
		return t.Region
	}
	s := res.Ratio(t.Resolution)
	return t.Region.Scale(s.X, s.Y)
}

// supersedes reports whether t and other occupy the same
// (bucket, resolution) slot.
func (t *ReusableTile) supersedes(other *ReusableTile) bool {
	return t.Resolution == other.Resolution && t.Bucket() == other.Bucket()
}

// release destroys the texture. It is safe to call more than once.
func (t *ReusableTile) release() {
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}

func (t *ReusableTile) info() TileInfo {
	return TileInfo{
		Origin:     t.Origin,
		Bucket:     t.Bucket(),
		Region:     t.Region,
		TileSize:   t.TileSize,
		Resolution: t.Resolution,
	}
}

// TileInfo is a read-only snapshot of a cached tile, without its texture.
type TileInfo struct {
	Origin     image.Point
	Bucket     image.Point
	Region     region.Region
	TileSize   int
	Resolution Resolution
}
