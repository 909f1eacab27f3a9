package geom

import "math"

// Matrix is a 2-D affine transform [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// RotateDegrees returns a rotation about the origin.
func RotateDegrees(deg float64) Matrix {
	rad := deg * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// RotateAbout returns a rotation by deg around c, matching SVG's
// rotate(deg cx cy).
func RotateAbout(deg float64, c Point) Matrix {
	return Translate(c.X, c.Y).Multiply(RotateDegrees(deg)).Multiply(Translate(-c.X, -c.Y))
}

// Multiply returns m * other, which applies other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Point) Point {
	return Point{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// ApplyRect transforms r and returns the axis-aligned bounding box.
func (m Matrix) ApplyRect(r Rect) Rect {
	corners := [4]Point{
		m.Apply(Point{r.X, r.Y}),
		m.Apply(Point{r.X + r.W, r.Y}),
		m.Apply(Point{r.X + r.W, r.Y + r.H}),
		m.Apply(Point{r.X, r.Y + r.H}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX, maxX = min(minX, c.X), max(maxX, c.X)
		minY, maxY = min(minY, c.Y), max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
