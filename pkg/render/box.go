package render

import (
	"strings"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
	"github.com/matzehuels/pinout/pkg/layout"
	"github.com/matzehuels/pinout/pkg/theme"
)

// lineBreak separates the two lines of a box caption. It is the two
// characters backslash and n, as typed in a description.
const lineBreak = `\n`

func (r *Renderer) drawBox(c *command.DrawBox) error {
	key := theme.BoxKey(c.Theme)
	if r.strict && !r.store.Has(key) {
		return errors.New(errors.ErrCodeUndefinedBox, "box theme %s is not defined", key)
	}
	w := r.store.Float(key, theme.Width, defaultBoxWidth)
	if c.W != nil {
		w = *c.W
	}
	h := r.store.Float(key, theme.Height, defaultBoxWidth/4)
	if c.H != nil {
		h = *c.H
	}
	r.textBox(geom.Rect{X: c.X, Y: c.Y, W: w, H: h}, key, key, c.Text, c.JustifyX, c.JustifyY)
	return nil
}

// textBox draws a rectangle with up to two lines of text. Paint and
// typography come from style, shape parameters from geo.
func (r *Renderer) textBox(box geom.Rect, style, geo theme.Key, content string, jx layout.JustifyX, jy layout.JustifyY) {
	s := r.store
	r.doc.Add(&document.Rect{
		Box:        box,
		RX:         s.Float(geo, theme.CornerRX, 0),
		RY:         s.Float(geo, theme.CornerRY, 0),
		Skew:       s.Float(geo, theme.Skew, 0),
		SkewOffset: s.Float(geo, theme.SkewOffset, 0),
		Style: document.Style{
			Fill:          s.Text(style, theme.FillColor, "white"),
			FillOpacity:   s.Float(style, theme.Opacity, 1),
			Stroke:        s.Text(style, theme.BorderColor, defaultTextColor),
			StrokeOpacity: s.Float(style, theme.BorderOpacity, 1),
			StrokeWidth:   s.Float(style, theme.BorderWidth, 1),
		},
	})
	if content == "" {
		return
	}

	font := r.font(style, defaultPinFont, defaultPinSize)
	fs := font.Size
	c := box.Center()

	x := c.X
	switch jx {
	case layout.XLeft:
		x = box.X
	case layout.XRight:
		x = box.X + box.W
	}
	var y float64
	switch jy {
	case layout.YTop:
		y = c.Y - (box.H/2 - fs)
	case layout.YBottom:
		y = c.Y + (box.H/2 - fs/2)
	default:
		y = c.Y + fs/3
	}

	fill := s.Text(style, theme.FontColor, defaultTextColor)
	var stroke string
	outline := s.Float(style, theme.FontOutlineThickness, 0)
	if outline > 0 {
		stroke = s.Text(style, theme.FontOutline, "none")
	}

	lines := strings.Split(content, lineBreak)
	if len(lines) > 2 {
		r.logger.Warn("box text has more than two lines, extra lines dropped", "text", content)
		lines = lines[:2]
	}
	for i, line := range lines {
		dy := 0.0
		if len(lines) == 2 {
			dy = fs / 2
			if i == 0 {
				dy = -dy
			}
		}
		r.doc.Add(&document.Text{
			At:          geom.Point{X: x, Y: y + dy},
			Content:     line,
			Font:        font,
			Anchor:      jx.Anchor(),
			Fill:        fill,
			Stroke:      stroke,
			StrokeWidth: outline,
		})
	}
}
