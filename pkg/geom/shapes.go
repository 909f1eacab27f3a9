package geom

import "math"

// sineSamplesPerPeriod controls how smooth analog leader lines look.
const sineSamplesPerPeriod = 16

// Triangle returns an equilateral triangle with the given side length,
// centered on c, whose tip points along angle deg (0 is +x).
func Triangle(c Point, side, deg float64) []Point {
	r := side / math.Sqrt(3)
	rot := RotateAbout(deg, c)
	return []Point{
		rot.Apply(Point{c.X + r, c.Y}),
		rot.Apply(Point{c.X - r/2, c.Y - side/2}),
		rot.Apply(Point{c.X - r/2, c.Y + side/2}),
	}
}

// SquareWave returns a single pulse running from start along dir (+1 or -1)
// for length, raised by height over the first half.
func SquareWave(start Point, dir, length, height float64) []Point {
	mid := start.X + dir*length/2
	return []Point{
		start,
		{start.X, start.Y - height},
		{mid, start.Y - height},
		{mid, start.Y},
		{start.X + dir*length, start.Y},
	}
}

// SineWave samples periods full sine periods from start along dir for
// length with the given amplitude.
func SineWave(start Point, dir, length, amplitude float64, periods int) []Point {
	n := max(periods, 1) * sineSamplesPerPeriod
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, Point{
			X: start.X + dir*length*t,
			Y: start.Y - amplitude*math.Sin(2*math.Pi*float64(periods)*t),
		})
	}
	return pts
}
