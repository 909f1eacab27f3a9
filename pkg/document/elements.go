package document

import (
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/pinout/pkg/geom"
)

// Kind names an element type.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindLine     Kind = "line"
	KindPolygon  Kind = "polygon"
	KindPolyline Kind = "polyline"
	KindText     Kind = "text"
	KindImage    Kind = "image"
)

// Element is a drawing primitive.
type Element interface {
	Kind() Kind
	// Bounds is the element's axis-aligned extent in device pixels.
	Bounds() geom.Rect
	write(canvas *svg.SVG)
}

// Style is the paint of a shape. An empty Fill renders as "none"; an empty
// Stroke omits the outline.
type Style struct {
	Fill          string
	FillOpacity   float64
	Stroke        string
	StrokeOpacity float64
	StrokeWidth   float64
}

func (s Style) attrs() []string {
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	out := []string{attr("fill", fill), attr("fill-opacity", num(s.FillOpacity))}
	if s.Stroke != "" {
		out = append(out,
			attr("stroke", s.Stroke),
			attr("stroke-opacity", num(s.StrokeOpacity)),
			attr("stroke-width", num(s.StrokeWidth)))
	}
	return out
}

// Font is the typography of a text element.
type Font struct {
	Family  string
	Size    float64
	Slant   string
	Weight  string
	Stretch string
}

func (f Font) attrs() []string {
	out := []string{attr("font-family", f.Family), attr("font-size", num(f.Size))}
	if f.Slant != "" {
		out = append(out, attr("font-style", f.Slant))
	}
	if f.Weight != "" {
		out = append(out, attr("font-weight", f.Weight))
	}
	if f.Stretch != "" {
		out = append(out, attr("font-stretch", f.Stretch))
	}
	return out
}

// Rect is a rounded, optionally skewed rectangle.
type Rect struct {
	Box        geom.Rect
	RX, RY     float64
	Skew       float64 // degrees, skewX about the box's vertical center
	SkewOffset float64
	Style      Style
}

func (r *Rect) Kind() Kind        { return KindRect }
func (r *Rect) Bounds() geom.Rect { return r.Box }

func (r *Rect) write(canvas *svg.SVG) {
	a := r.Style.attrs()
	if r.Skew != 0 || r.SkewOffset != 0 {
		cy := r.Box.Y + r.Box.H/2
		tx := r.SkewOffset - cy*math.Tan(r.Skew*math.Pi/180)
		a = append(a, attr("transform", fmt.Sprintf("translate(%s 0) skewX(%s)", num(tx), num(r.Skew))))
	}
	canvas.Roundrect(px(r.Box.X), px(r.Box.Y), px(r.Box.W), px(r.Box.H), px(r.RX), px(r.RY), a...)
}

// Circle is a filled circle.
type Circle struct {
	Center geom.Point
	R      float64
	Style  Style
}

func (c *Circle) Kind() Kind { return KindCircle }
func (c *Circle) Bounds() geom.Rect {
	return geom.Rect{X: c.Center.X - c.R, Y: c.Center.Y - c.R, W: 2 * c.R, H: 2 * c.R}
}

func (c *Circle) write(canvas *svg.SVG) {
	canvas.Circle(px(c.Center.X), px(c.Center.Y), px(c.R), c.Style.attrs()...)
}

// Line is a straight segment.
type Line struct {
	From, To geom.Point
	Style    Style
}

func (l *Line) Kind() Kind        { return KindLine }
func (l *Line) Bounds() geom.Rect { return bounds([]geom.Point{l.From, l.To}) }

func (l *Line) write(canvas *svg.SVG) {
	canvas.Line(px(l.From.X), px(l.From.Y), px(l.To.X), px(l.To.Y), l.Style.attrs()...)
}

// Polygon is a closed filled path.
type Polygon struct {
	Points []geom.Point
	Style  Style
}

func (p *Polygon) Kind() Kind        { return KindPolygon }
func (p *Polygon) Bounds() geom.Rect { return bounds(p.Points) }

func (p *Polygon) write(canvas *svg.SVG) {
	xs, ys := coords(p.Points)
	canvas.Polygon(xs, ys, p.Style.attrs()...)
}

// Polyline is an open path, used for waveform leader lines.
type Polyline struct {
	Points []geom.Point
	Style  Style
}

func (p *Polyline) Kind() Kind        { return KindPolyline }
func (p *Polyline) Bounds() geom.Rect { return bounds(p.Points) }

func (p *Polyline) write(canvas *svg.SVG) {
	xs, ys := coords(p.Points)
	canvas.Polyline(xs, ys, p.Style.attrs()...)
}

// Span is one fragment of a Text. At is set when the fragment starts a new
// line.
type Span struct {
	At      *geom.Point
	Content string
	Fill    string
	Stroke  string
}

// Text is a text element. A Text either has Content or Spans.
type Text struct {
	At          geom.Point
	Content     string
	Spans       []Span
	Font        Font
	Anchor      string
	Fill        string
	Stroke      string
	StrokeWidth float64
}

func (t *Text) Kind() Kind        { return KindText }
func (t *Text) Bounds() geom.Rect { return geom.Rect{X: t.At.X, Y: t.At.Y} }

func (t *Text) write(canvas *svg.SVG) {
	a := t.Font.attrs()
	if t.Anchor != "" {
		a = append(a, attr("text-anchor", t.Anchor))
	}
	if t.Fill != "" {
		a = append(a, attr("fill", t.Fill))
	}
	if t.Stroke != "" && t.Stroke != "none" {
		a = append(a, attr("stroke", t.Stroke))
		if t.StrokeWidth > 0 {
			a = append(a, attr("stroke-width", num(t.StrokeWidth)))
		}
	}

	if len(t.Spans) == 0 {
		canvas.Text(px(t.At.X), px(t.At.Y), t.Content, a...)
		return
	}
	canvas.Textspan(px(t.At.X), px(t.At.Y), "", a...)
	for _, s := range t.Spans {
		var sa []string
		if s.At != nil {
			sa = append(sa, attr("x", num(float64(px(s.At.X)))), attr("y", num(float64(px(s.At.Y)))))
		}
		if s.Stroke != "" {
			sa = append(sa, attr("stroke", s.Stroke))
		}
		if s.Fill != "" {
			sa = append(sa, attr("fill", s.Fill))
		}
		canvas.Span(s.Content, sa...)
	}
	canvas.TextEnd()
}

// Image is an embedded raster or vector image. Box is the unrotated
// placement; Rotation turns it about its own center.
type Image struct {
	Box      geom.Rect
	Href     string
	Rotation float64
}

func (i *Image) Kind() Kind { return KindImage }
func (i *Image) Bounds() geom.Rect {
	if i.Rotation == 0 {
		return i.Box
	}
	return geom.RotateAbout(i.Rotation, i.Box.Center()).ApplyRect(i.Box)
}

func (i *Image) write(canvas *svg.SVG) {
	var a []string
	if i.Rotation != 0 {
		c := i.Box.Center()
		a = append(a, attr("transform", fmt.Sprintf("rotate(%s %s %s)", num(i.Rotation), num(c.X), num(c.Y))))
	}
	canvas.Image(px(i.Box.X), px(i.Box.Y), px(i.Box.W), px(i.Box.H), i.Href, a...)
}

func px(v float64) int { return int(math.Round(v)) }

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func attr(name, value string) string {
	return name + `="` + EscapeXML(value) + `"`
}

func coords(pts []geom.Point) ([]int, []int) {
	xs, ys := make([]int, len(pts)), make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	return xs, ys
}

func bounds(pts []geom.Point) geom.Rect {
	if len(pts) == 0 {
		return geom.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
