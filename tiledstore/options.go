// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tiledstore

import "github.com/gogpu/gputypes"

// Option configures a Grid during creation.
type Option func(*options)

type options struct {
	tileLength int
	format     gputypes.TextureFormat
	device     DeviceHandle
}

func defaultOptions() options {
	return options{
		tileLength: DefaultTileLength,
		format:     gputypes.TextureFormatRGBA8Unorm,
	}
}

// WithTileLength sets the tile edge length. Non-positive values are
// ignored.
func WithTileLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tileLength = n
		}
	}
}

// WithFormat sets the tile texture format used when no device is
// attached, or when the device reports no surface format.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithDevice attaches the grid to a host GPU device. Tiles are then
// allocated in the device's surface format so they can be composited
// without conversion.
func WithDevice(d DeviceHandle) Option {
	return func(o *options) {
		o.device = d
	}
}
