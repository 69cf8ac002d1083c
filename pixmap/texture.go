// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pixmap provides CPU tile textures and a CPU compositor for
// tilereuse.
//
// Textures are backed by *image.RGBA buffers drawn from a per-size
// sync.Pool, so the steady churn of tiles that are allocated, harvested
// and destroyed while scrolling does not turn into garbage. The
// [Compositor] draws tiles into a destination *image.RGBA with
// golang.org/x/image/draw, which makes it usable in tests, headless
// tools and as a software fallback.
package pixmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilereuse"
)

var (
	// ErrInvalidSize is returned when a texture dimension is not positive.
	ErrInvalidSize = errors.New("pixmap: texture size must be positive")

	// ErrUnsupportedFormat is returned for formats other than RGBA8Unorm.
	ErrUnsupportedFormat = errors.New("pixmap: unsupported texture format")

	// ErrUnsupportedTexture is returned when the compositor is handed a
	// texture that was not allocated by this package.
	ErrUnsupportedTexture = errors.New("pixmap: texture is not a *pixmap.Texture")

	// ErrDestroyed is returned when drawing a texture after Destroy.
	ErrDestroyed = errors.New("pixmap: texture destroyed")
)

// Texture is an RGBA8 texture in system memory.
type Texture struct {
	img           *image.RGBA
	width, height int
	alloc         *Allocator
	once          sync.Once
}

var _ tilereuse.Texture = (*Texture)(nil)

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format always returns gputypes.TextureFormatRGBA8Unorm.
func (t *Texture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the backing image, or nil after Destroy.
// Pixel (0, 0) is the texture's top-left texel.
func (t *Texture) Image() *image.RGBA {
	return t.img
}

// Fill sets every texel to c.
func (t *Texture) Fill(c color.RGBA) {
	if t.img == nil {
		return
	}
	pix := t.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Destroy returns the buffer to its allocator's pool.
// It is safe to call more than once.
func (t *Texture) Destroy() {
	t.once.Do(func() {
		if t.alloc != nil {
			t.alloc.put(t.img)
		}
		t.img = nil
	})
}

// Allocator hands out pooled textures.
//
// Thread safety: Allocator is safe for concurrent use.
type Allocator struct {
	// pools holds one sync.Pool per texture size, keyed by poolKey.
	pools sync.Map

	live atomic.Int64
}

// NewAllocator creates an allocator with empty pools.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewTexture returns a cleared texture of the given size.
// Only gputypes.TextureFormatRGBA8Unorm is supported.
func (a *Allocator) NewTexture(width, height int, format gputypes.TextureFormat) (tilereuse.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	var img *image.RGBA
	if p := a.pool(width, height); p != nil {
		img = p.Get().(*image.RGBA)
	} else {
		img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	a.live.Add(1)
	return &Texture{img: img, width: width, height: height, alloc: a}, nil
}

// Live returns the number of textures allocated and not yet destroyed.
func (a *Allocator) Live() int {
	return int(a.live.Load())
}

func (a *Allocator) put(img *image.RGBA) {
	if img == nil {
		return
	}
	a.live.Add(-1)
	if p := a.pool(img.Rect.Dx(), img.Rect.Dy()); p != nil {
		clear(img.Pix)
		p.Put(img)
	}
}

// pool returns the pool for a texture size, or nil when the size is too
// large to pool.
func (a *Allocator) pool(width, height int) *sync.Pool {
	if width > maxPooledSize || height > maxPooledSize {
		return nil
	}
	key := poolKey(width, height)
	if p, ok := a.pools.Load(key); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rect(0, 0, width, height))
		},
	}
	actual, _ := a.pools.LoadOrStore(key, p)
	return actual.(*sync.Pool)
}

const maxPooledSize = 0xFFFF

// poolKey packs a texture size into one key.
func poolKey(width, height int) uint32 {
	return uint32(width)<<16 | uint32(height) //nolint:gosec // sizes are at most maxPooledSize
}
