// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"image"

	"github.com/gogpu/tilereuse/region"
)

// DrawParams describes one composite of the layer that owns the cache.
type DrawParams struct {
	// Valid is the layer's valid region at Resolution.
	Valid region.Region

	// Resolution is the resolution the layer is composited at.
	Resolution Resolution

	// Transform maps layer pixels at Resolution into destination space.
	Transform Matrix

	// RenderOffset is added after Transform.
	RenderOffset image.Point

	// State is the layer's effect state, passed through to the compositor.
	State DrawState

	// Clip is an optional destination clip rectangle, in the space
	// Transform maps into (before RenderOffset).
	Clip *image.Rectangle

	// CompositionBounds, when non-empty, limits drawing to this
	// destination rectangle, in the same space as Clip.
	CompositionBounds image.Rectangle
}

// DrawGaps draws cached tiles into the part of the layer that is not yet
// covered by valid content, then reorders the cache by usefulness.
//
// Tiles are drawn in cache order, so later tiles paint over earlier ones.
// Tiles that drew nothing move to the front of the cache, tiles that drew
// move to the back, each group keeping its relative order. Capacity
// eviction therefore always hits the least useful tile first.
//
// A compositor error is logged and the tile counts as having drawn
// nothing. DrawGaps only fails on an invalid resolution.
func (c *Cache) DrawGaps(comp Compositor, p DrawParams) error {
	if err := checkResolution("resolution", p.Resolution); err != nil {
		return err
	}
	if len(c.tiles) == 0 {
		return nil
	}

	idle := make([]*ReusableTile, 0, len(c.tiles))
	active := make([]*ReusableTile, 0, len(c.tiles))
	for _, t := range c.tiles {
		if c.drawTile(comp, t, p) {
			active = append(active, t)
		} else {
			idle = append(idle, t)
		}
	}
	c.tiles = append(idle, active...)
	return nil
}

// drawTile renders the uncovered part of t and reports whether anything
// was drawn.
func (c *Cache) drawTile(comp Compositor, t *ReusableTile, p DrawParams) bool {
	transform := p.Transform
	valid := p.Valid
	if t.Resolution != p.Resolution {
		s := p.Resolution.Ratio(t.Resolution)
		transform = transform.Multiply(Scale(s.X, s.Y))
		// Texels only partly covered by valid content stay in the gap.
		inv := s.Inverse()
		valid = valid.ScaleIn(inv.X, inv.Y)
	}

	gap := t.Region.Subtract(valid)
	if gap.IsEmpty() {
		return false
	}

	if p.Clip != nil || !p.CompositionBounds.Empty() {
		inv, ok := transform.Invert()
		if !ok {
			return false
		}
		if p.Clip != nil {
			gap = gap.IntersectRect(inv.TransformRect(*p.Clip))
		}
		if !p.CompositionBounds.Empty() {
			gap = gap.IntersectRect(inv.TransformRect(p.CompositionBounds))
		}
		if gap.IsEmpty() {
			return false
		}
	}

	err := comp.RenderTile(TileDraw{
		Texture:       t.texture,
		State:         p.State,
		Transform:     transform,
		RenderOffset:  p.RenderOffset,
		Clip:          p.Clip,
		Region:        gap,
		TileOrigin:    t.Bucket(),
		TextureOffset: t.TextureOffset(),
		TileSize:      t.TileSize,
	})
	if err != nil {
		c.stats.DrawErrors++
		c.log().Warn("tilereuse: render tile failed",
			"bucket", t.Bucket(),
			"resolution", t.Resolution,
			"err", err)
		return false
	}
	c.stats.Draws++
	return true
}
