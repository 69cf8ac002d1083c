// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilereuse/region"
)

// fakeTexture implements Texture for testing.
type fakeTexture struct {
	name      string
	size      int
	destroyed int
}

func (f *fakeTexture) Width() int                     { return f.size }
func (f *fakeTexture) Height() int                    { return f.size }
func (f *fakeTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (f *fakeTexture) Destroy()                       { f.destroyed++ }

// fakeStore implements TiledStore for testing. Tiles are keyed by their
// tile-aligned origin.
type fakeStore struct {
	tileLength int
	tiles      map[image.Point]*fakeTexture
	removed    []image.Point
}

func newFakeStore(tileLength int) *fakeStore {
	return &fakeStore{
		tileLength: tileLength,
		tiles:      make(map[image.Point]*fakeTexture),
	}
}

func (s *fakeStore) put(name string, x, y int) *fakeTexture {
	tex := &fakeTexture{name: name, size: s.tileLength}
	s.tiles[s.key(image.Pt(x, y))] = tex
	return tex
}

func (s *fakeStore) key(p image.Point) image.Point {
	if s.tileLength <= 0 {
		return p
	}
	return image.Pt(s.RoundDownToTileEdge(p.X), s.RoundDownToTileEdge(p.Y))
}

func (s *fakeStore) TileLength() int                   { return s.tileLength }
func (s *fakeStore) TileStartOffset(coord int) int     { return Mod(coord, s.tileLength) }
func (s *fakeStore) RoundDownToTileEdge(coord int) int { return RoundDown(coord, s.tileLength) }

func (s *fakeStore) RemoveTile(origin image.Point) (Texture, bool) {
	key := s.key(origin)
	tex, ok := s.tiles[key]
	if !ok {
		return nil, false
	}
	delete(s.tiles, key)
	s.removed = append(s.removed, origin)
	return tex, true
}

// fakeCompositor records every draw.
type fakeCompositor struct {
	draws   []TileDraw
	failFor Texture
}

var errRenderFailed = errors.New("render failed")

func (f *fakeCompositor) RenderTile(d TileDraw) error {
	if f.failFor != nil && d.Texture == f.failFor {
		return errRenderFailed
	}
	f.draws = append(f.draws, d)
	return nil
}

func rect(x0, y0, x1, y1 int) region.Region {
	return region.FromRect(image.Rect(x0, y0, x1, y1))
}

// seed places a tile directly into the cache, bypassing Harvest.
func (c *Cache) seed(name string, origin image.Point, r region.Region, size int, res Resolution) *fakeTexture {
	tex := &fakeTexture{name: name, size: size}
	c.tiles = append(c.tiles, &ReusableTile{
		texture:    tex,
		Origin:     origin,
		Region:     r,
		TileSize:   size,
		Resolution: res,
	})
	return tex
}

func tileNames(c *Cache) []string {
	names := make([]string, len(c.tiles))
	for i, t := range c.tiles {
		if tex, ok := t.texture.(*fakeTexture); ok {
			names[i] = tex.name
		}
	}
	return names
}
