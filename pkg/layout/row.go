package layout

import "github.com/matzehuels/pinout/pkg/geom"

// Column describes one label column of a pin row.
type Column struct {
	Width  float64
	Height float64
	Empty  bool
}

// Placement is where a column's box goes. Skipped is set for empty columns;
// they draw nothing but may still have consumed space.
type Placement struct {
	Index   int
	Box     geom.Rect
	Skipped bool
}

// LeaderEnd returns the point where the leader line from center ends.
func (r RowConfig) LeaderEnd(center geom.Point) geom.Point {
	return center.Add(r.Side.Dir()*r.LeaderLength, 0)
}

// ShiftY returns how far a box of height h sits below the row's top edge.
func (r RowConfig) ShiftY(h float64) float64 {
	switch r.JustifyY {
	case YTop:
		return 0
	case YBottom:
		return r.LineStep - h
	}
	return (r.LineStep - h) / 2
}

// BoxAt returns the box of size w x h whose near edge sits at signed
// horizontal distance offset from center. LEFT-growing rows pre-subtract the
// width so boxes align on their right edge.
func (r RowConfig) BoxAt(center geom.Point, offset, w, h float64) geom.Rect {
	x := center.X + offset
	if r.Side.Dir() < 0 {
		x -= w
	}
	y := center.Y - r.LineStep/2 + r.ShiftY(h)
	return geom.Rect{X: x, Y: y, W: w, H: h}
}

// Advance moves a signed box offset past one column of width w.
func (r RowConfig) Advance(offset, w float64) float64 {
	return offset + r.Side.Dir()*(r.ColumnGap+w)
}

// Place lays out columns after the leader line. Each box is preceded by the
// column gap. Unpacked rows reserve space for empty columns; packed rows do
// not. The returned offset is where the next box would start.
func (r RowConfig) Place(center geom.Point, cols []Column) ([]Placement, float64) {
	dir := r.Side.Dir()
	offset := dir * r.LeaderLength
	out := make([]Placement, 0, len(cols))
	for i, c := range cols {
		if c.Empty {
			out = append(out, Placement{Index: i, Skipped: true})
			if !r.Packed {
				offset = r.Advance(offset, c.Width)
			}
			continue
		}
		box := r.BoxAt(center, offset+dir*r.ColumnGap, c.Width, c.Height)
		out = append(out, Placement{Index: i, Box: box})
		offset = r.Advance(offset, c.Width)
	}
	return out, offset
}
