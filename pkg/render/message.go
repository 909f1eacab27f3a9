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
	defaultLineStep    = 15.0
	defaultMessageFont = "sans-serif"
	defaultMessageSize = 12.0
)

// messageDefaults carries MESSAGE parameters from one message to the next.
type messageDefaults struct {
	font     string
	fontSize float64
	lineStep float64
}

// message is an open MESSAGE session.
type message struct {
	origin   geom.Point
	offsetY  float64
	lineStep float64
	yShift   float64
	font     theme.Key
	newline  bool
	text     *document.Text
}

// beginMessage closes any open message and opens a new one. Omitted fields
// fall back to the previous message, then to built-in defaults.
func (r *Renderer) beginMessage(c *command.Message) {
	r.endMessage()

	d := &r.msgDef
	if c.LineStep != nil {
		d.lineStep = *c.LineStep
	} else if d.lineStep == 0 {
		d.lineStep = defaultLineStep
	}
	if c.Font != "" {
		d.font = c.Font
	} else if d.font == "" {
		d.font = defaultMessageFont
	}
	fk := theme.FontKey(d.font)
	if c.FontSize != nil {
		d.fontSize = *c.FontSize
	} else if d.fontSize == 0 {
		d.fontSize = r.store.Float(fk, theme.FontSize, defaultMessageSize)
	}

	// A font without a FONT_ theme is taken as a family name.
	font := r.font(fk, d.font, d.fontSize)
	if !r.store.Has(fk) {
		font.Family = d.font
	}
	font.Size = d.fontSize

	pos := r.cursor.Position()
	if c.X != nil {
		pos.X = *c.X
	}
	if c.Y != nil {
		pos.Y = *c.Y
	}
	var shift float64
	switch c.JustifyY {
	case layout.YTop:
		shift = d.fontSize / 2
	case layout.YBottom:
		shift = -d.fontSize / 2
	}

	r.msg = &message{
		origin:   pos,
		lineStep: d.lineStep,
		yShift:   shift,
		font:     fk,
		text: &document.Text{
			At:     pos.Add(0, shift),
			Font:   font,
			Anchor: c.JustifyX.Anchor(),
			Fill:   r.store.Text(fk, theme.FontColor, defaultTextColor),
			Stroke: r.store.Text(fk, theme.FontOutline, "none"),
		},
	}
}

func (r *Renderer) appendSegment(c *command.Text) error {
	m := r.msg
	if m == nil {
		return errors.New(errors.ErrCodeNoOpenMessage, "TEXT outside of MESSAGE")
	}
	span := document.Span{
		Content: c.Content,
		Fill:    c.Color,
		Stroke:  c.EdgeColor,
	}
	if span.Fill == "" {
		span.Fill = r.store.Text(m.font, theme.FontColor, defaultTextColor)
	}
	if span.Stroke == "" {
		span.Stroke = r.store.Text(m.font, theme.FontOutline, "none")
	}
	if m.newline {
		m.newline = false
		m.offsetY += m.lineStep
		at := m.origin.Add(0, m.offsetY+m.yShift)
		span.At = &at
	}
	m.text.Spans = append(m.text.Spans, span)
	if c.NewLine {
		m.newline = true
	}
	return nil
}

// endMessage flushes the open message, if any, into the document.
func (r *Renderer) endMessage() {
	if r.msg == nil {
		return
	}
	r.doc.Add(r.msg.text)
	r.msg = nil
}
