package render

import (
	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
	"github.com/matzehuels/pinout/pkg/layout"
	"github.com/matzehuels/pinout/pkg/theme"
)

const (
	defaultBoxWidth  = 80.0
	defaultPinFont   = "sans-serif"
	defaultPinSize   = 10.0
	defaultTextColor = "black"
)

func (r *Renderer) drawPin(c *command.Pin) error {
	row, center, err := r.pinHead(c.Wire, c.Pin, c.Group)
	if err != nil {
		return err
	}

	labels := r.store.Labels()
	cols := make([]layout.Column, 0, len(c.Columns))
	for i, v := range c.Columns {
		if i >= len(labels) {
			break
		}
		w, h := r.labelBoxSize(labels[i], row)
		cols = append(cols, layout.Column{Width: w, Height: h, Empty: v == ""})
	}

	placed, _ := row.Place(center, cols)
	for _, p := range placed {
		if p.Skipped {
			continue
		}
		label := labels[p.Index]
		r.textBox(p.Box, theme.Label(label), r.labelBoxKey(label), c.Columns[p.Index], row.JustifyX, row.JustifyY)
	}
	r.cursor.NextLine()
	return nil
}

func (r *Renderer) drawPinText(c *command.PinText) error {
	row, center, err := r.pinHead(c.Wire, c.Pin, c.Group)
	if err != nil {
		return err
	}

	var cols []layout.Column
	labels := r.store.Labels()
	if len(labels) > 0 && c.Label != "" {
		w, h := r.labelBoxSize(labels[0], row)
		cols = append(cols, layout.Column{Width: w, Height: h})
	}
	placed, offset := row.Place(center, cols)
	for _, p := range placed {
		r.textBox(p.Box, theme.Label(labels[0]), r.labelBoxKey(labels[0]), c.Label, row.JustifyX, row.JustifyY)
	}

	if c.Text != "" {
		fk := theme.FontKey(c.Font)
		anchor := "start"
		if row.Side.Dir() < 0 {
			anchor = "end"
		}
		r.doc.Add(&document.Text{
			At:      center.Add(offset+row.Side.Dir()*row.ColumnGap, 0),
			Content: c.Text,
			Font:    r.font(fk, defaultPinFont, defaultPinSize),
			Anchor:  anchor,
			Fill:    r.store.Text(fk, theme.FontColor, defaultTextColor),
			Stroke:  r.store.Text(fk, theme.FontOutline, "none"),
		})
	}
	r.cursor.NextLine()
	return nil
}

// pinHead draws the leader, group indicator and marker of the current pin and
// returns the row it belongs to and its center.
func (r *Renderer) pinHead(wire command.WireKind, pin command.PinKind, group string) (layout.RowConfig, geom.Point, error) {
	row, err := r.cursor.Row()
	if err != nil {
		return row, geom.Point{}, err
	}
	center, _ := r.cursor.PinCenter()
	dir := row.Side.Dir()

	if wire != command.WireNone {
		if err := r.drawLeader(row, center, wire); err != nil {
			return row, center, err
		}
	}

	if group != "" {
		gk := theme.GroupKey(group)
		if !r.store.Has(gk) {
			return row, center, errors.New(errors.ErrCodeUndefinedGroup, "group %q is not defined", group)
		}
		r.doc.Add(&document.Circle{
			Center: center,
			R:      row.GroupDiameter / 2,
			Style: document.Style{
				Fill:          r.store.Text(gk, theme.FillColor, "white"),
				FillOpacity:   r.store.Float(gk, theme.Opacity, 1),
				Stroke:        r.store.Text(theme.Group, theme.BorderColor, ""),
				StrokeOpacity: r.store.Float(theme.Group, theme.BorderOpacity, 1),
				StrokeWidth:   r.store.Float(theme.Group, theme.BorderWidth, 1),
			},
		})
	}

	if pin == command.PinNone {
		return row, center, nil
	}
	pk := theme.PinTypeKey(pin.String())
	style := document.Style{
		Fill:          r.store.Text(pk, theme.FillColor, defaultTextColor),
		FillOpacity:   r.store.Float(pk, theme.Opacity, 1),
		Stroke:        r.store.Text(theme.Type, theme.BorderColor, ""),
		StrokeOpacity: r.store.Float(theme.Type, theme.BorderOpacity, 1),
		StrokeWidth:   r.store.Float(theme.Type, theme.BorderWidth, 1),
	}
	switch pin {
	case command.PinIO:
		r.doc.Add(&document.Circle{Center: center, R: row.PinDiameter / 2, Style: style})
	case command.PinInput, command.PinOutput:
		// Inputs point at the body, outputs away from it. The body lies
		// opposite the growth direction of the row.
		angle := 0.0
		if (pin == command.PinInput) == (dir > 0) {
			angle = 180
		}
		r.doc.Add(&document.Polygon{Points: geom.Triangle(center, row.PinDiameter, angle), Style: style})
	}
	return row, center, nil
}

func (r *Renderer) drawLeader(row layout.RowConfig, center geom.Point, wire command.WireKind) error {
	wk := theme.PinWireKey(wire.String())
	if r.strict && !r.store.Has(wk) {
		return errors.New(errors.ErrCodeUndefinedWire, "wire theme %s is not defined", wk)
	}
	style := document.Style{
		Stroke:        r.store.Text(wk, theme.FillColor, defaultTextColor),
		StrokeOpacity: r.store.Float(wk, theme.Opacity, 1),
		StrokeWidth:   r.store.Float(wk, theme.Thickness, 1),
	}
	dir := row.Side.Dir()
	amp := row.GroupDiameter / 2

	switch wire {
	case command.WirePWM:
		h := row.LeaderVStep
		if h == 0 {
			h = amp
		}
		r.doc.Add(&document.Polyline{Points: geom.SquareWave(center, dir, row.LeaderLength, h), Style: style})
	case command.WireAnalog:
		r.doc.Add(&document.Polyline{Points: geom.SineWave(center, dir, row.LeaderLength, amp, 1), Style: style})
	case command.WireHSAnalog:
		r.doc.Add(&document.Polyline{Points: geom.SineWave(center, dir, row.LeaderLength, amp, 2), Style: style})
	default:
		r.doc.Add(&document.Line{From: center, To: row.LeaderEnd(center), Style: style})
	}
	return nil
}

// labelBoxKey returns the box theme whose geometry boxes of label use.
func (r *Renderer) labelBoxKey(label string) theme.Key {
	return theme.BoxKey(r.store.Text(theme.Label(label), theme.Boxes, ""))
}

func (r *Renderer) labelBoxSize(label string, row layout.RowConfig) (float64, float64) {
	bk := r.labelBoxKey(label)
	return r.store.Float(bk, theme.Width, defaultBoxWidth), r.store.Float(bk, theme.Height, row.LineStep)
}

// font resolves the typography attributes of k.
func (r *Renderer) font(k theme.Key, family string, size float64) document.Font {
	return document.Font{
		Family:  r.store.Text(k, theme.Font, family),
		Size:    r.store.Float(k, theme.FontSize, size),
		Slant:   r.store.Text(k, theme.FontSlant, ""),
		Weight:  r.store.Text(k, theme.FontBold, ""),
		Stretch: r.store.Text(k, theme.FontStretch, ""),
	}
}
