// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"image"

	"github.com/gogpu/tilereuse/region"
)

// Compositor renders cached tiles into the frame being composited.
type Compositor interface {
	// RenderTile draws d.Texture clipped to d.Region.
	// The texture is only lent for the duration of the call and must not
	// be retained or destroyed by the compositor.
	RenderTile(d TileDraw) error
}

// Filter selects how texels are sampled when a tile is drawn at a
// resolution other than its own.
type Filter uint8

const (
	// FilterLinear samples bilinearly. It is the default.
	FilterLinear Filter = iota

	// FilterNearest samples the nearest texel.
	FilterNearest
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterLinear:
		return "Linear"
	case FilterNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// DrawState carries the layer's effect state through to the compositor.
// Use [Opaque] for a layer drawn at full strength.
type DrawState struct {
	// Opacity in [0, 1]. A layer at zero opacity draws nothing.
	Opacity float64

	// Filter is the sampling filter.
	Filter Filter

	// Mask is an optional alpha mask texture, in destination space.
	Mask Texture
}

// Opaque returns the state of a fully opaque, unmasked layer sampled
// with [FilterLinear].
func Opaque() DrawState {
	return DrawState{Opacity: 1}
}

// EffectiveOpacity returns Opacity clamped to [0, 1]. NaN counts as 0.
func (s DrawState) EffectiveOpacity() float64 {
	switch {
	case s.Opacity > 1:
		return 1
	case s.Opacity > 0:
		return s.Opacity
	default:
		return 0
	}
}

// TileDraw describes one tile draw issued by [Cache.DrawGaps].
type TileDraw struct {
	// Texture is the tile's texture. Pixel (0, 0) of the texture sits at
	// TileOrigin in tile space.
	Texture Texture

	// State is the layer's effect state.
	State DrawState

	// Transform maps tile space (layer pixels at the tile's resolution)
	// into destination space. It already includes the resolution
	// correction when the tile was harvested at another resolution.
	Transform Matrix

	// RenderOffset is added after Transform.
	RenderOffset image.Point

	// Clip is the destination clip rectangle, or nil when unclipped.
	Clip *image.Rectangle

	// Region is the part of the tile to draw, in tile space.
	Region region.Region

	// TileOrigin is the tile's origin rounded down to its grid.
	TileOrigin image.Point

	// TextureOffset is the harvested origin's offset inside the tile,
	// in [0, TileSize) on both axes.
	TextureOffset image.Point

	// TileSize is the tile edge length in texels.
	TileSize int
}
