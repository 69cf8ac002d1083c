// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"math"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.SizeLimit() != DefaultSizeLimit {
		t.Errorf("SizeLimit() = %v, want %v", c.SizeLimit(), DefaultSizeLimit)
	}
	if c.TileSize() != DefaultTileSize {
		t.Errorf("TileSize() = %d, want %d", c.TileSize(), DefaultTileSize)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name          string
		opts          []Option
		wantSizeLimit float64
		wantTileSize  int
	}{
		{"size limit", []Option{WithSizeLimit(2.5)}, 2.5, DefaultTileSize},
		{"fractional size limit", []Option{WithSizeLimit(0.25)}, 0.25, DefaultTileSize},
		{"negative size limit clamps to zero", []Option{WithSizeLimit(-1)}, 0, DefaultTileSize},
		{"NaN size limit clamps to zero", []Option{WithSizeLimit(math.NaN())}, 0, DefaultTileSize},
		{"tile size", []Option{WithTileSize(512)}, DefaultSizeLimit, 512},
		{"non-positive tile size ignored", []Option{WithTileSize(0)}, DefaultSizeLimit, DefaultTileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.opts...)
			if c.SizeLimit() != tt.wantSizeLimit {
				t.Errorf("SizeLimit() = %v, want %v", c.SizeLimit(), tt.wantSizeLimit)
			}
			if c.TileSize() != tt.wantTileSize {
				t.Errorf("TileSize() = %d, want %d", c.TileSize(), tt.wantTileSize)
			}
		})
	}
}
