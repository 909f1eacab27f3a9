// Package geom holds the small amount of 2-D math the renderer needs:
// percentage-or-absolute size normalization, affine rotation, pin-marker
// polygons and leader-line waveforms.
package geom

import "math"

// Full is the fractional value that stands for 100%.
const Full = 0.9999

// Point is a position in device pixels.
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Rect is an axis-aligned rectangle in device pixels.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's center.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Within reports whether r lies fully inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}

// Normalize interprets v as absolute when v >= 1 or v < 0, and otherwise as a
// fraction of ref where Full means all of it.
func Normalize(v, ref float64) float64 {
	if v >= 1 || v < 0 {
		return v
	}
	return v / Full * ref
}

// NormalizeOpt is Normalize for optional values; nil yields def.
func NormalizeOpt(v *float64, ref, def float64) float64 {
	if v == nil {
		return def
	}
	return Normalize(*v, ref)
}

// NormalizeSize is Normalize for widths and heights. A negative size counts
// by its magnitude, so -20 is 20 and -0.5 is half of ref.
func NormalizeSize(v, ref float64) float64 {
	return Normalize(math.Abs(v), ref)
}

// NormalizeSizeOpt is NormalizeSize for optional values; nil yields def.
func NormalizeSizeOpt(v *float64, ref, def float64) float64 {
	if v == nil {
		return def
	}
	return NormalizeSize(*v, ref)
}
