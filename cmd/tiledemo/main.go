// Command tiledemo simulates a scrolling, zooming tiled layer and shows
// how cached tiles fill the gaps while the layer repaints.
//
// Each frame the viewport moves, retiring tiles are harvested into a
// tilereuse.Cache, and only a few tiles are repainted. Whatever is not
// repainted yet is drawn from the cache. The last frame is saved as PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/tilereuse"
	"github.com/gogpu/tilereuse/pixmap"
	"github.com/gogpu/tilereuse/region"
	"github.com/gogpu/tilereuse/tiledstore"
)

func main() {
	var (
		width     = flag.Int("width", 800, "viewport width")
		height    = flag.Int("height", 600, "viewport height")
		tileSize  = flag.Int("tile", 128, "tile edge length")
		frames    = flag.Int("frames", 24, "number of frames to simulate")
		scroll    = flag.Int("scroll", 48, "horizontal scroll per frame, in layer pixels")
		zoomAt    = flag.Int("zoom-at", 12, "frame at which the resolution doubles (negative disables)")
		budget    = flag.Int("budget", 4, "tiles repainted per frame")
		sizeLimit = flag.Float64("size-limit", 1.5, "cache capacity factor")
		output    = flag.String("output", "tiledemo.png", "output file")
		verbose   = flag.Bool("v", false, "log cache decisions")
	)
	flag.Parse()

	if *verbose {
		tilereuse.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	alloc := pixmap.NewAllocator()
	grid, err := tiledstore.New(alloc, tiledstore.WithTileLength(*tileSize))
	if err != nil {
		log.Fatalf("Failed to create grid: %v", err)
	}
	defer grid.Close()

	cache := tilereuse.New(tilereuse.WithSizeLimit(*sizeLimit), tilereuse.WithTileSize(*tileSize))
	defer cache.Close()

	sim := &simulation{
		width:    *width,
		height:   *height,
		tileSize: *tileSize,
		budget:   *budget,
		grid:     grid,
		cache:    cache,
		res:      tilereuse.Uniform(1),
		frame:    image.NewRGBA(image.Rect(0, 0, *width, *height)),
	}

	for i := range *frames {
		res := sim.res
		if i == *zoomAt {
			res = tilereuse.Uniform(2 * res.X)
		}
		if err := sim.step(i*(*scroll), res); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
	}

	if err := savePNG(*output, sim.frame); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	s := cache.Stats()
	log.Printf("Demo saved to %s (%dx%d, %d frames)\n", *output, *width, *height, *frames)
	log.Printf("cache: len=%d max=%d harvested=%d evicted=%d draws=%d\n",
		s.Len, s.MaxTiles, s.Harvested, s.Evicted(), s.Draws)
}

type simulation struct {
	width, height int
	tileSize      int
	budget        int

	grid  *tiledstore.Grid
	cache *tilereuse.Cache

	scrollX int
	res     tilereuse.Resolution
	valid   region.Region
	frame   *image.RGBA
}

// viewport returns the visible area and display port at the current
// resolution.
func (s *simulation) viewport() (visible, displayPort image.Rectangle) {
	x := int(float64(s.scrollX) * s.res.X)
	visible = image.Rect(x, 0, x+s.width, s.height)
	return visible, visible.Inset(-s.tileSize)
}

func (s *simulation) step(scrollX int, res tilereuse.Resolution) error {
	oldValid, oldRes := s.valid, s.res
	s.scrollX, s.res = scrollX, res
	visible, displayPort := s.viewport()

	newValid := region.Region{}
	if res == oldRes {
		newValid = oldValid.IntersectRect(displayPort)
	}
	err := s.cache.Harvest(s.grid, tilereuse.HarvestParams{
		OldValid:      oldValid,
		NewValid:      newValid,
		OldResolution: oldRes,
		NewResolution: res,
		Visible:       region.FromRect(visible),
		DisplayPort:   region.FromRect(displayPort),
	})
	if err != nil {
		return err
	}
	s.grid.Retain(newValid)
	s.valid = newValid

	if err := s.repaint(visible); err != nil {
		return err
	}
	if err := s.cache.Invalidate(tilereuse.Viewport{
		Visible:     region.FromRect(visible),
		DisplayPort: region.FromRect(displayPort),
		Valid:       s.valid,
		Resolution:  s.res,
	}); err != nil {
		return err
	}
	return s.composite(visible)
}

// repaint paints up to budget tiles of the visible area that are not yet
// valid.
func (s *simulation) repaint(visible image.Rectangle) error {
	missing := region.FromRect(visible).Subtract(s.valid)
	for range s.budget {
		if missing.IsEmpty() {
			break
		}
		first := missing.Rects()[0]
		x := tilereuse.RoundDown(first.Min.X, s.tileSize)
		y := tilereuse.RoundDown(first.Min.Y, s.tileSize)
		cell := image.Rect(x, y, x+s.tileSize, y+s.tileSize)

		if _, err := s.grid.EnsureTiles(region.FromRect(cell)); err != nil {
			return err
		}
		if tex, ok := s.grid.Tile(cell.Min); ok {
			if pt, ok := tex.(*pixmap.Texture); ok {
				pt.Fill(tileColor(cell.Min, s.tileSize, s.res))
			}
		}
		s.valid = s.valid.UnionRect(cell)
		missing = missing.SubtractRect(cell)
	}
	return nil
}

func (s *simulation) composite(visible image.Rectangle) error {
	clear(s.frame.Pix)
	comp := pixmap.NewCompositor(s.frame)
	transform := tilereuse.Translate(float64(-visible.Min.X), float64(-visible.Min.Y))

	if err := s.cache.DrawGaps(comp, tilereuse.DrawParams{
		Valid:             s.valid,
		Resolution:        s.res,
		Transform:         transform,
		State:             tilereuse.Opaque(),
		CompositionBounds: s.frame.Bounds(),
	}); err != nil {
		return err
	}

	for _, origin := range s.grid.Origins() {
		tex, _ := s.grid.Tile(origin)
		cell := image.Rect(origin.X, origin.Y, origin.X+s.tileSize, origin.Y+s.tileSize)
		if err := comp.RenderTile(tilereuse.TileDraw{
			Texture:    tex,
			State:      tilereuse.Opaque(),
			Transform:  transform,
			Region:     s.valid.IntersectRect(cell.Intersect(visible)),
			TileOrigin: origin,
			TileSize:   s.tileSize,
		}); err != nil {
			return err
		}
	}
	return nil
}

// tileColor gives each tile a distinct color; higher resolutions are
// drawn lighter.
func tileColor(origin image.Point, tileSize int, res tilereuse.Resolution) color.RGBA {
	tx := tilereuse.RoundDown(origin.X, tileSize) / tileSize
	ty := tilereuse.RoundDown(origin.Y, tileSize) / tileSize
	shade := uint8(min(255, 60*res.X))
	return color.RGBA{
		R: uint8(tx*53) | shade, //nolint:gosec // wraps intentionally
		G: uint8(ty*97) | shade, //nolint:gosec // wraps intentionally
		B: uint8((tx+ty)*31) | 0x40,
		A: 255,
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}
