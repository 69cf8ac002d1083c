// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import "github.com/gogpu/tilereuse/region"

// Decision is the outcome of the relevance check for one cached tile.
//
// Each cached tile moves through harvested -> {kept, evicted, superseded}.
// The relevance part of that is a pure function of geometry, kept apart
// from the cache so it can be tested on its own.
type Decision uint8

const (
	// DecisionKeep keeps a tile that is partly off-screen but still
	// overlaps the display port.
	DecisionKeep Decision = iota

	// DecisionForceKeep keeps a tile that is fully visible but not yet
	// covered by valid content: it is filling a gap right now.
	DecisionForceKeep

	// DecisionEvictRefreshed drops a tile whose area is entirely valid
	// again.
	DecisionEvictRefreshed

	// DecisionEvictOffscreen drops a tile that is neither inside the
	// visible region nor touching the display port.
	DecisionEvictOffscreen
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionKeep:
		return "Keep"
	case DecisionForceKeep:
		return "ForceKeep"
	case DecisionEvictRefreshed:
		return "EvictRefreshed"
	case DecisionEvictOffscreen:
		return "EvictOffscreen"
	default:
		return "Unknown"
	}
}

// Evicts reports whether the decision drops the tile.
func (d Decision) Evicts() bool {
	return d == DecisionEvictRefreshed || d == DecisionEvictOffscreen
}

// Decide classifies a cached tile whose region, already expressed at the
// viewport's resolution, is tileRegion.
func Decide(tileRegion region.Region, v Viewport) Decision {
	switch {
	case v.Valid.Contains(tileRegion):
		return DecisionEvictRefreshed
	case v.Visible.Contains(tileRegion):
		return DecisionForceKeep
	case !v.displayPort().Intersects(tileRegion):
		return DecisionEvictOffscreen
	default:
		return DecisionKeep
	}
}

// shouldHarvest decides whether a retiring cell is worth keeping.
//
// Without a scale change only purely off-screen cells qualify: on-screen
// tiles are repainted normally. A scale change invalidates content
// broadly, so any cell not entirely inside the visible region after
// rescaling qualifies.
func shouldHarvest(tileRegion, visible region.Region, oldRes, newRes Resolution) bool {
	if newRes != oldRes {
		s := newRes.Ratio(oldRes)
		return !visible.Contains(tileRegion.Scale(s.X, s.Y))
	}
	return !tileRegion.Intersects(visible)
}
