// Package geometry converts between pixel coordinates and the
// resolution-independent unit space annotations are stored in.
package geometry

import "image"

// Point is a position in either pixel space or normalized unit space,
// depending on context.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle with an origin and size in pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectFromImage converts an image.Rectangle into a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// Empty reports whether the rect has no usable area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// BaseDim is the dimension lengths are scaled against. Using the
// smaller side keeps strokes proportionate on non-square targets; the
// floor of 1 keeps division safe.
func (r Rect) BaseDim() float64 {
	d := r.W
	if r.H < d {
		d = r.H
	}
	if d < 1 {
		d = 1
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize maps p from pixel space into the unit square relative to
// ref. Components are clamped to [0,1]. It reports false when ref is
// degenerate, in which case the result must not be used.
func Normalize(p Point, ref Rect) (Point, bool) {
	if ref.Empty() {
		return Point{}, false
	}
	return Point{
		X: clamp01((p.X - ref.X) / ref.W),
		Y: clamp01((p.Y - ref.Y) / ref.H),
	}, true
}

// Denormalize maps a unit-space point onto target. The result is not
// clamped; callers drawing onto a smaller surface may receive
// coordinates outside it.
func Denormalize(p Point, target Rect) Point {
	return Point{
		X: target.X + p.X*target.W,
		Y: target.Y + p.Y*target.H,
	}
}

// NormalizeLength scales a pixel length (stroke width, font size)
// against ref's base dimension. It reports false when ref is
// degenerate.
func NormalizeLength(v float64, ref Rect) (float64, bool) {
	if ref.Empty() {
		return 0, false
	}
	return v / ref.BaseDim(), true
}

// DenormalizeLength converts a normalized length back to pixels
// against target. The result never drops below 1 so strokes stay
// visible at any scale.
func DenormalizeLength(v float64, target Rect) float64 {
	px := v * target.BaseDim()
	if px < 1 {
		return 1
	}
	return px
}
