// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import "github.com/gogpu/gputypes"

// Texture is an opaque handle to one GPU-backed tile texture.
//
// The cache never allocates textures. It receives them from a
// [TiledStore], lends them to a [Compositor] while drawing, and calls
// Destroy exactly once when the tile is evicted.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Destroy releases the resources backing the texture.
	Destroy()
}
