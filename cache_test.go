// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilereuse

import (
	"errors"
	"image"
	"math"
	"slices"
	"testing"

	"github.com/gogpu/tilereuse/region"
)

// offscreenHarvest harvests the single 256px tile at x from store while
// the viewport stays on the first tile.
func offscreenHarvest(t *testing.T, c *Cache, store *fakeStore, x int) {
	t.Helper()
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(x, 0, x+256, 256),
		NewValid:      rect(0, 0, 256, 256),
		OldResolution: Uniform(1),
		NewResolution: Uniform(1),
		Visible:       rect(0, 0, 256, 256),
		DisplayPort:   rect(0, 0, 1024, 256),
	})
	if err != nil {
		t.Fatalf("Harvest(x=%d) error = %v", x, err)
	}
}

func TestHarvestCapacityScenario(t *testing.T) {
	store := newFakeStore(256)
	a := store.put("a", 256, 0)
	b := store.put("b", 512, 0)
	c3 := store.put("c", 768, 0)

	c := New(WithSizeLimit(2))
	offscreenHarvest(t, c, store, 256)
	offscreenHarvest(t, c, store, 512)
	offscreenHarvest(t, c, store, 768)

	if c.MaxTiles() != 2 {
		t.Fatalf("MaxTiles() = %d, want 2", c.MaxTiles())
	}
	if got, want := tileNames(c), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	if a.destroyed != 1 {
		t.Errorf("oldest texture destroyed %d times, want 1", a.destroyed)
	}
	if b.destroyed != 0 || c3.destroyed != 0 {
		t.Error("retained textures must not be destroyed")
	}
	if s := c.Stats(); s.Harvested != 3 || s.EvictedCapacity != 1 {
		t.Errorf("Stats() = %+v, want Harvested=3 EvictedCapacity=1", s)
	}
}

func TestHarvestSupersedesSameBucket(t *testing.T) {
	store := newFakeStore(256)
	old := store.put("old", 256, 0)

	c := New(WithSizeLimit(4))
	offscreenHarvest(t, c, store, 256)

	// A second harvest of the same grid cell, from a valid region that
	// starts mid-tile.
	fresh := store.put("fresh", 256, 0)
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(300, 0, 512, 256),
		NewValid:      rect(0, 0, 256, 256),
		OldResolution: Uniform(1),
		NewResolution: Uniform(1),
		Visible:       rect(0, 0, 256, 256),
		DisplayPort:   rect(0, 0, 1024, 256),
	})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if old.destroyed != 1 {
		t.Errorf("superseded texture destroyed %d times, want 1", old.destroyed)
	}
	if fresh.destroyed != 0 {
		t.Error("fresh texture must not be destroyed")
	}
	info := c.Tiles()[0]
	if info.Origin != image.Pt(300, 0) {
		t.Errorf("Origin = %v, want (300,0)", info.Origin)
	}
	if info.Bucket != image.Pt(256, 0) {
		t.Errorf("Bucket = %v, want (256,0)", info.Bucket)
	}
	if !info.Region.Equal(rect(300, 0, 512, 256)) {
		t.Errorf("Region = %v, want (300,0)-(512,256)", info.Region)
	}
	if c.Stats().Superseded != 1 {
		t.Errorf("Superseded = %d, want 1", c.Stats().Superseded)
	}
}

func TestHarvestDifferentResolutionDoesNotSupersede(t *testing.T) {
	store := newFakeStore(256)
	c := New(WithSizeLimit(8))

	harvest := func(name string, oldRes Resolution) {
		t.Helper()
		store.put(name, 1024, 0)
		err := c.Harvest(store, HarvestParams{
			OldValid:      rect(1024, 0, 1280, 256),
			NewValid:      rect(0, 0, 256, 256),
			OldResolution: oldRes,
			NewResolution: Uniform(1),
			Visible:       rect(0, 0, 256, 256),
			DisplayPort:   rect(0, 0, 2048, 512),
		})
		if err != nil {
			t.Fatalf("Harvest(%s) error = %v", name, err)
		}
	}
	harvest("r1", Uniform(1))
	harvest("r2", Uniform(2))

	// Both tiles share bucket (1024,0) but not resolution.
	if got, want := tileNames(c), []string{"r1", "r2"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	if c.Stats().Superseded != 0 {
		t.Errorf("Superseded = %d, want 0", c.Stats().Superseded)
	}
}

func TestHarvestUniqueness(t *testing.T) {
	store := newFakeStore(64)
	c := New(WithSizeLimit(100), WithTileSize(64))

	// Harvest every cell of a strip several times with shifting origins.
	for round := range 4 {
		for cell := 1; cell <= 4; cell++ {
			x := cell * 64
			store.put("t", x, 0)
			err := c.Harvest(store, HarvestParams{
				OldValid:      rect(x+round*8, 0, x+64, 64),
				NewValid:      rect(0, 0, 64, 64),
				OldResolution: Uniform(1),
				NewResolution: Uniform(1),
				Visible:       rect(0, 0, 64, 64),
				DisplayPort:   rect(0, 0, 1024, 64),
			})
			if err != nil {
				t.Fatalf("Harvest() error = %v", err)
			}
		}
	}

	seen := make(map[image.Point]bool)
	for _, info := range c.Tiles() {
		if seen[info.Bucket] {
			t.Errorf("bucket %v cached twice", info.Bucket)
		}
		seen[info.Bucket] = true
	}
	if len(seen) != 4 {
		t.Errorf("got %d buckets, want 4", len(seen))
	}
}

func TestHarvestSkipsOnscreenTilesWithoutRescale(t *testing.T) {
	store := newFakeStore(256)
	store.put("visible", 0, 0)
	store.put("partial", 256, 0)
	store.put("offscreen", 512, 0)

	c := New(WithSizeLimit(8))
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(0, 0, 768, 256),
		NewValid:      rect(0, 0, 300, 256),
		OldResolution: Uniform(1),
		NewResolution: Uniform(1),
		Visible:       rect(0, 0, 300, 256),
		DisplayPort:   rect(0, 0, 1024, 256),
	})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}

	if got, want := tileNames(c), []string{"offscreen"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	if len(store.tiles) != 2 {
		t.Errorf("store kept %d tiles, want 2", len(store.tiles))
	}
}

func TestHarvestRescaleTakesPartiallyVisibleTiles(t *testing.T) {
	store := newFakeStore(256)
	store.put("inside", 0, 0)
	store.put("outside", 256, 0)

	c := New()
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(0, 0, 512, 256),
		NewValid:      region.Region{},
		OldResolution: Uniform(1),
		NewResolution: Uniform(2),
		Visible:       rect(0, 0, 512, 512),
		DisplayPort:   rect(0, 0, 1024, 512),
	})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}

	// The first cell scales to (0,0)-(512,512), fully visible; the second
	// scales to (512,0)-(1024,512), which is not.
	if got, want := tileNames(c), []string{"outside"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	info := c.Tiles()[0]
	if info.Resolution != Uniform(1) {
		t.Errorf("Resolution = %v, want 1x1", info.Resolution)
	}
	if !info.Region.Equal(rect(256, 0, 512, 256)) {
		t.Errorf("Region = %v, want the unscaled cell", info.Region)
	}
}

func TestHarvestSkipsMissingTiles(t *testing.T) {
	store := newFakeStore(256)
	store.put("present", 512, 0)

	c := New(WithSizeLimit(8))
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(256, 0, 1024, 256),
		NewValid:      rect(0, 0, 256, 256),
		OldResolution: Uniform(1),
		NewResolution: Uniform(1),
		Visible:       rect(0, 0, 256, 256),
		DisplayPort:   rect(0, 0, 1024, 256),
	})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}
	if got, want := tileNames(c), []string{"present"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
}

func TestHarvestWalksEdgeCells(t *testing.T) {
	store := newFakeStore(256)
	for _, x := range []int{256, 512, 768} {
		store.put("t", x, 0)
	}

	c := New(WithSizeLimit(8))
	err := c.Harvest(store, HarvestParams{
		OldValid:      rect(300, 10, 800, 200),
		NewValid:      rect(0, 0, 256, 256),
		OldResolution: Uniform(1),
		NewResolution: Uniform(1),
		Visible:       rect(0, 0, 256, 256),
		DisplayPort:   rect(0, 0, 1024, 256),
	})
	if err != nil {
		t.Fatalf("Harvest() error = %v", err)
	}

	want := []image.Point{image.Pt(300, 10), image.Pt(512, 10), image.Pt(768, 10)}
	if !slices.Equal(store.removed, want) {
		t.Errorf("removed origins = %v, want %v", store.removed, want)
	}
	regions := []region.Region{rect(300, 10, 512, 200), rect(512, 10, 768, 200), rect(768, 10, 800, 200)}
	for i, info := range c.Tiles() {
		if !info.Region.Equal(regions[i]) {
			t.Errorf("tile %d region = %v, want %v", i, info.Region, regions[i])
		}
	}
}

func TestHarvestPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		old     Resolution
		new     Resolution
		wantErr error
	}{
		{"zero old resolution", newFakeStore(256), Resolution{X: 0, Y: 1}, Uniform(1), ErrInvalidResolution},
		{"negative new resolution", newFakeStore(256), Uniform(1), Uniform(-2), ErrInvalidResolution},
		{"NaN resolution", newFakeStore(256), Uniform(math.NaN()), Uniform(1), ErrInvalidResolution},
		{"infinite resolution", newFakeStore(256), Uniform(1), Uniform(math.Inf(1)), ErrInvalidResolution},
		{"zero tile length", newFakeStore(0), Uniform(1), Uniform(1), ErrInvalidTileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := tt.store.put("t", 256, 0)
			c := New()
			err := c.Harvest(tt.store, HarvestParams{
				OldValid:      rect(256, 0, 512, 256),
				OldResolution: tt.old,
				NewResolution: tt.new,
				Visible:       rect(0, 0, 256, 256),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Harvest() error = %v, want %v", err, tt.wantErr)
			}
			if c.Len() != 0 {
				t.Errorf("Len() = %d, want 0", c.Len())
			}
			if len(tt.store.removed) != 0 || tex.destroyed != 0 {
				t.Error("failed Harvest must not touch the store")
			}
		})
	}
}

func TestInvalidateRelevance(t *testing.T) {
	c := New(WithSizeLimit(100))
	refreshed := c.seed("refreshed", image.Pt(0, 0), rect(0, 0, 256, 256), 256, Uniform(1))
	gap := c.seed("gap", image.Pt(256, 0), rect(256, 0, 512, 256), 256, Uniform(1))
	nearby := c.seed("nearby", image.Pt(768, 0), rect(768, 0, 1024, 256), 256, Uniform(1))
	faraway := c.seed("faraway", image.Pt(4096, 0), rect(4096, 0, 4352, 256), 256, Uniform(1))

	err := c.Invalidate(Viewport{
		Visible:     rect(0, 0, 768, 256),
		DisplayPort: rect(0, 0, 1024, 256),
		Valid:       rect(0, 0, 256, 256),
		Resolution:  Uniform(1),
	})
	if err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	if got, want := tileNames(c), []string{"gap", "nearby"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
	if refreshed.destroyed != 1 || faraway.destroyed != 1 {
		t.Error("evicted textures must be destroyed once")
	}
	if gap.destroyed != 0 || nearby.destroyed != 0 {
		t.Error("kept textures must not be destroyed")
	}
	s := c.Stats()
	if s.EvictedRefreshed != 1 || s.EvictedOffscreen != 1 {
		t.Errorf("Stats() = %+v, want one refreshed and one offscreen eviction", s)
	}
}

func TestInvalidateRescalesTileRegions(t *testing.T) {
	c := New(WithSizeLimit(100))
	c.seed("half", image.Pt(0, 0), rect(0, 0, 256, 256), 256, Uniform(0.5))

	// At resolution 1 the tile covers (0,0)-(512,512), which the valid
	// region contains.
	err := c.Invalidate(Viewport{
		Visible:    rect(0, 0, 512, 512),
		Valid:      rect(0, 0, 512, 512),
		Resolution: Uniform(1),
	})
	if err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestInvalidateFractionalScale(t *testing.T) {
	// At ratio 1.5 the tile's exact area is (0,0)-(4.5,4.5).
	tests := []struct {
		name    string
		valid   region.Region
		wantLen int
	}{
		{"valid covers the exact area", rect(0, 0, 5, 5), 0},
		{"valid stops inside the last pixel", rect(0, 0, 4, 4), 1},
		{"valid covers only whole scaled pixels", rect(0, 0, 4, 5), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithSizeLimit(100))
			c.seed("t", image.Pt(0, 0), rect(0, 0, 3, 3), 256, Uniform(1))
			err := c.Invalidate(Viewport{
				Visible:    rect(0, 0, 1024, 1024),
				Valid:      tt.valid,
				Resolution: Uniform(1.5),
			})
			if err != nil {
				t.Fatalf("Invalidate() error = %v", err)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}
}

func TestInvalidateNeverKeepsValidTiles(t *testing.T) {
	c := New(WithSizeLimit(100))
	for i := range 16 {
		x := (i % 4) * 128
		y := (i / 4) * 128
		c.seed("t", image.Pt(x, y), rect(x, y, x+128, y+128), 128, Uniform(1))
	}
	v := Viewport{
		Visible:    rect(0, 0, 512, 512),
		Valid:      region.New(image.Rect(0, 0, 256, 256), image.Rect(256, 256, 512, 384)),
		Resolution: Uniform(1),
	}
	if err := c.Invalidate(v); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	for _, info := range c.Tiles() {
		if v.Valid.Contains(info.Region) {
			t.Errorf("tile %v is fully valid but was kept", info.Region)
		}
	}
	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
}

func TestInvalidateRespectsCapacity(t *testing.T) {
	limits := []float64{0, 0.5, 1, 1.5, 3}
	sizes := []int{64, 100, 256}
	for _, limit := range limits {
		for _, visibleSize := range sizes {
			c := New(WithSizeLimit(limit), WithTileSize(64))
			for i := range 40 {
				x := (i % 8) * 64
				y := (i / 8) * 64
				c.seed("t", image.Pt(x, y), rect(x, y, x+64, y+64), 64, Uniform(1))
			}
			v := Viewport{
				Visible:     rect(0, 0, visibleSize, visibleSize),
				DisplayPort: rect(0, 0, 1024, 1024),
				Resolution:  Uniform(1),
			}
			if err := c.Invalidate(v); err != nil {
				t.Fatalf("Invalidate() error = %v", err)
			}
			maxTiles := MaxTiles(v.Visible, 64, limit)
			if c.Len() > maxTiles {
				t.Errorf("limit=%v visible=%d: Len() = %d, want <= %d", limit, visibleSize, c.Len(), maxTiles)
			}
		}
	}
}

func TestEvictionOrderFollowsUsefulness(t *testing.T) {
	store := newFakeStore(256)
	store.put("a", 256, 0)
	store.put("b", 512, 0)
	store.put("c", 768, 0)

	c := New(WithSizeLimit(2))
	offscreenHarvest(t, c, store, 256)
	offscreenHarvest(t, c, store, 512)

	// "a" still fills a gap, "b" is covered by valid content: drawing
	// moves "b" to the front.
	comp := &fakeCompositor{}
	err := c.DrawGaps(comp, DrawParams{
		Valid:      region.New(image.Rect(0, 0, 256, 256), image.Rect(512, 0, 768, 256)),
		Resolution: Uniform(1),
		Transform:  Identity(),
	})
	if err != nil {
		t.Fatalf("DrawGaps() error = %v", err)
	}
	if got, want := tileNames(c), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Fatalf("tiles after draw = %v, want %v", got, want)
	}

	offscreenHarvest(t, c, store, 768)
	if got, want := tileNames(c), []string{"a", "c"}; !slices.Equal(got, want) {
		t.Errorf("tiles = %v, want %v", got, want)
	}
}

func TestClearAndClose(t *testing.T) {
	c := New()
	a := c.seed("a", image.Pt(0, 0), rect(0, 0, 256, 256), 256, Uniform(1))
	b := c.seed("b", image.Pt(256, 0), rect(256, 0, 512, 256), 256, Uniform(1))

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if a.destroyed != 1 || b.destroyed != 1 {
		t.Error("Clear must destroy every texture once")
	}

	c.Close()
	c.Close()
	if a.destroyed != 1 {
		t.Error("Close must not destroy textures twice")
	}
	store := newFakeStore(256)
	if err := c.Harvest(store, HarvestParams{OldResolution: Uniform(1), NewResolution: Uniform(1)}); !errors.Is(err, ErrClosed) {
		t.Errorf("Harvest after Close error = %v, want ErrClosed", err)
	}
}
