// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package region provides exact set algebra over axis-aligned integer
// rectangles.
//
// A Region is a set of pixels stored as a list of pairwise disjoint,
// non-empty image.Rectangle values. All operations are exact: union,
// intersection and subtraction never approximate, and the only rounding
// happens in Scale, which rounds outward so that a scaled region always
// covers the scaled area.
//
// Region values are immutable. Every operation returns a new Region and
// leaves its receiver and arguments untouched, so regions can be shared
// freely between callers.
package region

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"
)

// scaleEpsilon absorbs float error when scaling edges, so that 256*0.5*2
// stays 256 instead of rounding out to 257.
const scaleEpsilon = 1e-9

// Region is a set of pixels made of disjoint rectangles.
// The zero value is the empty region.
type Region struct {
	// rects holds pairwise disjoint, non-empty rectangles.
	rects []image.Rectangle
}

// New returns the union of the given rectangles.
// Empty rectangles are ignored; overlapping rectangles are merged.
func New(rects ...image.Rectangle) Region {
	var out []image.Rectangle
	for _, r := range rects {
		out = unionInto(out, r)
	}
	return Region{rects: out}
}

// FromRect returns a region covering exactly r.
func FromRect(r image.Rectangle) Region {
	r = r.Canon()
	if r.Empty() {
		return Region{}
	}
	return Region{rects: []image.Rectangle{r}}
}

// IsEmpty reports whether the region contains no pixels.
func (r Region) IsEmpty() bool {
	return len(r.rects) == 0
}

// Len returns the number of rectangles in the region's decomposition.
func (r Region) Len() int {
	return len(r.rects)
}

// Rects returns the region's rectangles sorted top-to-bottom,
// left-to-right. The returned slice is a copy.
func (r Region) Rects() []image.Rectangle {
	out := slices.Clone(r.rects)
	slices.SortFunc(out, compareRects)
	return out
}

// Bounds returns the smallest rectangle containing the region.
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	area := 0
	for _, rect := range r.rects {
		area += rect.Dx() * rect.Dy()
	}
	return area
}

// Union returns r ∪ o.
func (r Region) Union(o Region) Region {
	out := slices.Clone(r.rects)
	for _, rect := range o.rects {
		out = unionInto(out, rect)
	}
	return Region{rects: out}
}

// UnionRect returns r ∪ rect.
func (r Region) UnionRect(rect image.Rectangle) Region {
	return Region{rects: unionInto(slices.Clone(r.rects), rect)}
}

// Intersect returns r ∩ o.
func (r Region) Intersect(o Region) Region {
	var out []image.Rectangle
	for _, a := range r.rects {
		for _, b := range o.rects {
			if in := a.Intersect(b); !in.Empty() {
				out = append(out, in)
			}
		}
	}
	return Region{rects: out}
}

// IntersectRect returns r ∩ rect.
func (r Region) IntersectRect(rect image.Rectangle) Region {
	return r.Intersect(FromRect(rect))
}

// Subtract returns r − o.
func (r Region) Subtract(o Region) Region {
	cur := slices.Clone(r.rects)
	for _, b := range o.rects {
		if len(cur) == 0 {
			break
		}
		next := make([]image.Rectangle, 0, len(cur))
		for _, a := range cur {
			next = append(next, subtractRect(a, b)...)
		}
		cur = next
	}
	return Region{rects: cur}
}

// SubtractRect returns r − rect.
func (r Region) SubtractRect(rect image.Rectangle) Region {
	return r.Subtract(FromRect(rect))
}

// Contains reports whether every pixel of o is in r.
// The empty region is contained in every region.
func (r Region) Contains(o Region) bool {
	return o.Subtract(r).IsEmpty()
}

// ContainsRect reports whether every pixel of rect is in r.
func (r Region) ContainsRect(rect image.Rectangle) bool {
	return r.Contains(FromRect(rect))
}

// Intersects reports whether r and o share at least one pixel.
func (r Region) Intersects(o Region) bool {
	for _, a := range r.rects {
		for _, b := range o.rects {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

// IntersectsRect reports whether r and rect share at least one pixel.
func (r Region) IntersectsRect(rect image.Rectangle) bool {
	return r.Intersects(FromRect(rect))
}

// Equal reports whether r and o cover the same pixels, regardless of how
// each is decomposed into rectangles.
func (r Region) Equal(o Region) bool {
	return r.Area() == o.Area() && r.Contains(o)
}

// Translate returns the region moved by p.
func (r Region) Translate(p image.Point) Region {
	out := make([]image.Rectangle, len(r.rects))
	for i, rect := range r.rects {
		out[i] = rect.Add(p)
	}
	return Region{rects: out}
}

// Scale returns the region scaled by (sx, sy) about the origin.
// Each rectangle is rounded outward to integer coordinates, so the result
// covers the exact scaled area. Rectangles that overlap after rounding are
// merged. Scale factors must be positive.
func (r Region) Scale(sx, sy float64) Region {
	if sx == 1 && sy == 1 {
		return Region{rects: slices.Clone(r.rects)}
	}
	var out []image.Rectangle
	for _, rect := range r.rects {
		out = unionInto(out, ScaleRect(rect, sx, sy))
	}
	return Region{rects: out}
}

// ScaleRect scales rect by (sx, sy) about the origin, rounding outward.
func ScaleRect(rect image.Rectangle, sx, sy float64) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(floor(float64(rect.Min.X)*sx), floor(float64(rect.Min.Y)*sy)),
		Max: image.Pt(ceil(float64(rect.Max.X)*sx), ceil(float64(rect.Max.Y)*sy)),
	}.Canon()
}

// ScaleIn returns the region scaled by (sx, sy) about the origin with each
// rectangle rounded inward, so the result only holds pixels fully inside
// the exact scaled area. Rectangles thinner than a pixel after scaling
// are dropped. Scale factors must be positive.
func (r Region) ScaleIn(sx, sy float64) Region {
	if sx == 1 && sy == 1 {
		return Region{rects: slices.Clone(r.rects)}
	}
	var out []image.Rectangle
	for _, rect := range r.rects {
		in := image.Rectangle{
			Min: image.Pt(ceil(float64(rect.Min.X)*sx), ceil(float64(rect.Min.Y)*sy)),
			Max: image.Pt(floor(float64(rect.Max.X)*sx), floor(float64(rect.Max.Y)*sy)),
		}
		if in.Empty() {
			continue
		}
		out = unionInto(out, in)
	}
	return Region{rects: out}
}

// String returns a compact description such as "{(0,0)-(4,4) (4,0)-(8,2)}".
func (r Region) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, rect := range r.Rects() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, rect)
	}
	sb.WriteByte('}')
	return sb.String()
}

// unionInto adds the part of rect not yet covered by rects.
func unionInto(rects []image.Rectangle, rect image.Rectangle) []image.Rectangle {
	rect = rect.Canon()
	if rect.Empty() {
		return rects
	}
	pieces := []image.Rectangle{rect}
	for _, existing := range rects {
		var next []image.Rectangle
		for _, p := range pieces {
			next = append(next, subtractRect(p, existing)...)
		}
		pieces = next
		if len(pieces) == 0 {
			return rects
		}
	}
	return append(rects, pieces...)
}

// subtractRect returns a − b as at most four disjoint bands:
// a full-width band above b, one below, and the left and right remainders
// beside b.
func subtractRect(a, b image.Rectangle) []image.Rectangle {
	in := a.Intersect(b)
	if in.Empty() {
		return []image.Rectangle{a}
	}
	out := make([]image.Rectangle, 0, 4)
	if a.Min.Y < in.Min.Y {
		out = append(out, image.Rect(a.Min.X, a.Min.Y, a.Max.X, in.Min.Y))
	}
	if in.Max.Y < a.Max.Y {
		out = append(out, image.Rect(a.Min.X, in.Max.Y, a.Max.X, a.Max.Y))
	}
	if a.Min.X < in.Min.X {
		out = append(out, image.Rect(a.Min.X, in.Min.Y, in.Min.X, in.Max.Y))
	}
	if in.Max.X < a.Max.X {
		out = append(out, image.Rect(in.Max.X, in.Min.Y, a.Max.X, in.Max.Y))
	}
	return out
}

func compareRects(a, b image.Rectangle) int {
	if a.Min.Y != b.Min.Y {
		return a.Min.Y - b.Min.Y
	}
	if a.Min.X != b.Min.X {
		return a.Min.X - b.Min.X
	}
	if a.Max.Y != b.Max.Y {
		return a.Max.Y - b.Max.Y
	}
	return a.Max.X - b.Max.X
}

func floor(v float64) int {
	return int(math.Floor(v + scaleEpsilon))
}

func ceil(v float64) int {
	return int(math.Ceil(v - scaleEpsilon))
}
