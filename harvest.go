// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"fmt"
	"image"

	"github.com/gogpu/tilereuse/region"
)

// HarvestParams describes a valid-region change of a tiled layer.
type HarvestParams struct {
	// OldValid is the valid region before the change, at OldResolution.
	OldValid region.Region

	// NewValid is the valid region after the change, at NewResolution.
	NewValid region.Region

	OldResolution Resolution
	NewResolution Resolution

	// Visible is the layer's visible region at NewResolution.
	Visible region.Region

	// DisplayPort is the area being actively rendered, at NewResolution.
	// Empty means the same as Visible.
	DisplayPort region.Region
}

// Harvest moves tiles that are about to be retired from store into the
// cache, then runs Invalidate against the new state.
//
// The bounding box of OldValid is walked in grid cells. A cell is
// harvested when, without a resolution change, it lies entirely outside
// Visible, or, with a resolution change, its rescaled area is not fully
// inside Visible. Cells with no populated tile are skipped. Each harvested
// tile supersedes an older cached tile of the same bucket and resolution.
//
// Harvest returns ErrInvalidResolution or ErrInvalidTileSize before
// touching the cache or the store when a precondition fails.
func (c *Cache) Harvest(store TiledStore, p HarvestParams) error {
	if c.closed {
		return ErrClosed
	}
	if err := checkResolution("old resolution", p.OldResolution); err != nil {
		return err
	}
	if err := checkResolution("new resolution", p.NewResolution); err != nil {
		return err
	}
	tileLength := store.TileLength()
	if tileLength <= 0 {
		return fmt.Errorf("%w: store reports %d", ErrInvalidTileSize, tileLength)
	}
	c.tileSize = tileLength

	bounds := p.OldValid.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; {
		w := cellExtent(store, tileLength, x, bounds.Max.X)
		for y := bounds.Min.Y; y < bounds.Max.Y; {
			h := cellExtent(store, tileLength, y, bounds.Max.Y)
			c.harvestCell(store, image.Rect(x, y, x+w, y+h), tileLength, p)
			y += h
		}
		x += w
	}

	return c.Invalidate(Viewport{
		Visible:     p.Visible,
		DisplayPort: p.DisplayPort,
		Valid:       p.NewValid,
		Resolution:  p.NewResolution,
	})
}

func (c *Cache) harvestCell(store TiledStore, cell image.Rectangle, tileLength int, p HarvestParams) {
	tileRegion := p.OldValid.IntersectRect(cell)
	if tileRegion.IsEmpty() {
		return
	}
	if !shouldHarvest(tileRegion, p.Visible, p.OldResolution, p.NewResolution) {
		return
	}
	tex, ok := store.RemoveTile(cell.Min)
	if !ok || tex == nil {
		return
	}

	tile := &ReusableTile{
		texture:    tex,
		Origin:     cell.Min,
		Region:     tileRegion,
		TileSize:   tileLength,
		Resolution: p.OldResolution,
	}
	c.tiles = append(c.tiles, tile)
	c.stats.Harvested++
	c.log().Debug("tilereuse: harvested tile",
		"origin", tile.Origin,
		"region", tile.Region,
		"resolution", tile.Resolution)

	c.supersede(len(c.tiles) - 1)
}

// supersede removes the first other tile occupying the same slot as the
// tile at index newest. At most one such tile can exist.
func (c *Cache) supersede(newest int) {
	tile := c.tiles[newest]
	for i, other := range c.tiles {
		if i == newest || !tile.supersedes(other) {
			continue
		}
		c.log().Debug("tilereuse: superseded tile",
			"bucket", other.Bucket(),
			"resolution", other.Resolution)
		c.removeAt(i)
		c.stats.Superseded++
		return
	}
}
