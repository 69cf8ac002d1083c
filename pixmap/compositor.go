// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixmap

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/tilereuse"
)

// Compositor draws tiles into a destination image.
//
// Thread safety: Compositor is NOT thread-safe. Each RenderTile call
// writes to the shared destination.
type Compositor struct {
	dst *image.RGBA
}

var _ tilereuse.Compositor = (*Compositor)(nil)

// NewCompositor creates a compositor drawing into dst.
func NewCompositor(dst *image.RGBA) *Compositor {
	return &Compositor{dst: dst}
}

// Target returns the destination image.
func (c *Compositor) Target() *image.RGBA {
	return c.dst
}

// RenderTile draws the part of d.Texture selected by d.Region, mapped
// through RenderOffset * Transform and composited with source-over.
// Only textures from this package are accepted. A transparent state
// draws nothing.
func (c *Compositor) RenderTile(d tilereuse.TileDraw) error {
	tex, ok := d.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedTexture, d.Texture)
	}
	src := tex.Image()
	if src == nil {
		return ErrDestroyed
	}
	opts, err := drawOptions(d.State)
	if err != nil {
		return err
	}
	if d.State.EffectiveOpacity() == 0 {
		return nil
	}

	bounds := c.dst.Bounds()
	if d.Clip != nil {
		bounds = bounds.Intersect(d.Clip.Add(d.RenderOffset))
	}
	if bounds.Empty() {
		return nil
	}
	dst, ok := c.dst.SubImage(bounds).(*image.RGBA)
	if !ok {
		return nil
	}

	// Texel (0, 0) sits at TileOrigin in tile space.
	m := tilereuse.Translate(float64(d.RenderOffset.X), float64(d.RenderOffset.Y)).
		Multiply(d.Transform).
		Multiply(tilereuse.Translate(float64(d.TileOrigin.X), float64(d.TileOrigin.Y)))
	s2d := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}

	interp := interpolator(d.State.Filter)
	texels := src.Bounds()
	for _, r := range d.Region.Rects() {
		sr := r.Sub(d.TileOrigin).Intersect(texels)
		if sr.Empty() {
			continue
		}
		interp.Transform(dst, s2d, src, sr, xdraw.Over, opts)
	}
	return nil
}

func interpolator(f tilereuse.Filter) xdraw.Interpolator {
	if f == tilereuse.FilterNearest {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}

// drawOptions translates the effect state into x/image/draw masks.
// It returns nil options when neither opacity nor a mask applies.
func drawOptions(s tilereuse.DrawState) (*xdraw.Options, error) {
	var opts *xdraw.Options
	if op := s.EffectiveOpacity(); op < 1 {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(op * 0xffff)}),
		}
	}
	if s.Mask != nil {
		mask, ok := s.Mask.(*Texture)
		if !ok {
			return nil, fmt.Errorf("%w: mask %T", ErrUnsupportedTexture, s.Mask)
		}
		if mask.Image() == nil {
			return nil, fmt.Errorf("mask: %w", ErrDestroyed)
		}
		if opts == nil {
			opts = &xdraw.Options{}
		}
		opts.DstMask = mask.Image()
	}
	return opts, nil
}
