// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"slices"

	"github.com/gogpu/tilereuse/region"
)

// Viewport is the layer state a cache is pruned against. It is passed per
// call and never stored.
type Viewport struct {
	// Visible is the region on screen.
	Visible region.Region

	// DisplayPort is the area being actively rendered, usually larger than
	// Visible. Empty means the same as Visible.
	DisplayPort region.Region

	// Valid is the area holding up-to-date content.
	Valid region.Region

	// Resolution is the resolution all three regions are expressed at.
	Resolution Resolution
}

func (v Viewport) displayPort() region.Region {
	if v.DisplayPort.IsEmpty() {
		return v.Visible
	}
	return v.DisplayPort
}

// Invalidate drops tiles that no longer help and enforces the capacity
// bound. Call it whenever the valid region grows.
//
// A tile is dropped when its area is entirely valid again, or when it is
// neither fully visible nor touching the display port. Fully visible
// tiles that are not yet valid are always kept. Afterwards the oldest
// tiles are evicted until at most MaxTiles remain.
func (c *Cache) Invalidate(v Viewport) error {
	if err := checkResolution("resolution", v.Resolution); err != nil {
		return err
	}

	kept := c.tiles[:0]
	for _, t := range c.tiles {
		d := Decide(t.regionAt(v.Resolution), v)
		if !d.Evicts() {
			kept = append(kept, t)
			continue
		}
		c.log().Debug("tilereuse: evicted tile",
			"bucket", t.Bucket(),
			"resolution", t.Resolution,
			"decision", d)
		t.release()
		if d == DecisionEvictRefreshed {
			c.stats.EvictedRefreshed++
		} else {
			c.stats.EvictedOffscreen++
		}
	}
	clear(c.tiles[len(kept):])
	c.tiles = kept

	c.maxTiles = MaxTiles(v.Visible, c.tileSize, c.sizeLimit)
	c.enforceCapacity()
	return nil
}

// enforceCapacity evicts from the front until the cache fits maxTiles.
func (c *Cache) enforceCapacity() {
	excess := len(c.tiles) - c.maxTiles
	if excess <= 0 {
		return
	}
	for _, t := range c.tiles[:excess] {
		t.release()
	}
	c.tiles = slices.Delete(c.tiles, 0, excess)
	c.stats.EvictedCapacity += uint64(excess)
	c.log().Debug("tilereuse: capacity eviction",
		"evicted", excess,
		"max_tiles", c.maxTiles)
}
