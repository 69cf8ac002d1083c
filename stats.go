// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of cached tiles.
	Len int
	// MaxTiles is the capacity bound computed by the last Invalidate.
	MaxTiles int
	// Harvested counts tiles taken from a live store.
	Harvested uint64
	// Superseded counts tiles replaced by a newer harvest of the same
	// bucket and resolution.
	Superseded uint64
	// EvictedRefreshed counts tiles dropped because their area became
	// valid again.
	EvictedRefreshed uint64
	// EvictedOffscreen counts tiles dropped for being off-screen and
	// outside the display port.
	EvictedOffscreen uint64
	// EvictedCapacity counts tiles dropped by the capacity bound.
	EvictedCapacity uint64
	// Draws counts RenderTile calls that succeeded.
	Draws uint64
	// DrawErrors counts RenderTile calls that failed.
	DrawErrors uint64
}

// Evicted returns the total number of evictions for any reason other than
// Clear or Close.
func (s Stats) Evicted() uint64 {
	return s.Superseded + s.EvictedRefreshed + s.EvictedOffscreen + s.EvictedCapacity
}
