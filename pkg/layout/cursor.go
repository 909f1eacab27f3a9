// Package layout tracks where the next pin goes.
//
// A [Cursor] holds an anchor and a running offset. ANCHOR moves the anchor
// and resets the offset; every drawn pin advances the offset by one line
// step. The active [RowConfig] decides on which side of the pin the leader
// line and label boxes grow, and how boxes are spaced and aligned.
package layout

import (
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
)

// RowConfig is the parameter set of a PINSET, consumed by every pin drawn
// until the next PINSET.
type RowConfig struct {
	Side          Side
	Packed        bool
	JustifyX      JustifyX
	JustifyY      JustifyY
	LineStep      float64
	PinDiameter   float64
	GroupDiameter float64
	LeaderLength  float64
	ColumnGap     float64
	LeaderVStep   float64
}

// Cursor is the layout state of a rendering pass.
type Cursor struct {
	anchor geom.Point
	offset geom.Point
	row    *RowConfig
}

// MoveAnchor sets the anchor and resets the running offset.
func (c *Cursor) MoveAnchor(x, y float64) {
	c.anchor = geom.Point{X: x, Y: y}
	c.offset = geom.Point{}
}

// BeginRow replaces the row configuration. The running offset is kept.
func (c *Cursor) BeginRow(cfg RowConfig) {
	c.row = &cfg
}

// Row returns the active row configuration.
func (c *Cursor) Row() (RowConfig, error) {
	if c.row == nil {
		return RowConfig{}, errors.New(errors.ErrCodeRowNotConfigured, "no PINSET before pin")
	}
	return *c.row, nil
}

// Position returns anchor + offset.
func (c *Cursor) Position() geom.Point {
	return c.anchor.Add(c.offset.X, c.offset.Y)
}

// Offset returns the running offset.
func (c *Cursor) Offset() geom.Point { return c.offset }

// PinCenter returns the center of the current pin row line. It requires an
// active row.
func (c *Cursor) PinCenter() (geom.Point, error) {
	row, err := c.Row()
	if err != nil {
		return geom.Point{}, err
	}
	return c.Position().Add(0, row.LineStep/2), nil
}

// NextLine advances the running offset by the row's line step.
func (c *Cursor) NextLine() {
	if c.row != nil {
		c.offset.Y += c.row.LineStep
	}
}
