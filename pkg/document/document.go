// Package document holds the output of a rendering pass: page metadata and
// an ordered list of drawing primitives, serialized to SVG with svgo.
//
// Coordinates are device pixels. The SVG root carries the physical page size
// in millimetres and a viewBox of the pixel resolution, so one user unit is
// one device pixel at the configured DPI.
package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/pinout/pkg/geom"
)

// Document is the rendered diagram.
type Document struct {
	page     Page
	dpi      int
	elements []Element
	imports  []string
}

// New returns an empty A4 landscape document at 300 DPI.
func New() *Document {
	return &Document{page: pages[DefaultPage], dpi: DefaultDPI}
}

// SetPage switches to a page preset.
func (d *Document) SetPage(name string) error {
	p, err := LookupPage(name)
	if err != nil {
		return err
	}
	d.page = p
	return nil
}

// SetDPI changes the resolution.
func (d *Document) SetDPI(dpi int) error {
	if err := ValidateDPI(dpi); err != nil {
		return err
	}
	d.dpi = dpi
	return nil
}

// Page returns the page preset.
func (d *Document) Page() Page { return d.page }

// DPI returns the resolution in dots per inch.
func (d *Document) DPI() int { return d.dpi }

// Resolution returns the page size in device pixels.
func (d *Document) Resolution() (int, int) { return d.page.Resolution(d.dpi) }

// Bounds returns the page rectangle in device pixels.
func (d *Document) Bounds() geom.Rect {
	w, h := d.Resolution()
	return geom.Rect{W: float64(w), H: float64(h)}
}

// Add appends an element.
func (d *Document) Add(e Element) { d.elements = append(d.elements, e) }

// Elements returns the elements in drawing order.
func (d *Document) Elements() []Element { return d.elements }

// Count returns how many elements of kind k were emitted.
func (d *Document) Count(k Kind) int {
	n := 0
	for _, e := range d.elements {
		if e.Kind() == k {
			n++
		}
	}
	return n
}

// AddStyleImport registers a stylesheet (typically a web font) to import.
// Duplicate links are ignored.
func (d *Document) AddStyleImport(url string) {
	for _, u := range d.imports {
		if u == url {
			return
		}
	}
	d.imports = append(d.imports, url)
}

// StyleImports returns the registered stylesheet links.
func (d *Document) StyleImports() []string { return d.imports }

// OffPage returns the indices of elements that extend beyond the page.
func (d *Document) OffPage() []int {
	page := d.Bounds()
	var out []int
	for i, e := range d.elements {
		if !e.Bounds().Within(page) {
			out = append(out, i)
		}
	}
	return out
}

// SVG serializes the document.
func (d *Document) SVG() []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	w, h := d.Resolution()
	canvas.StartviewUnit(int(math.Round(d.page.WidthMM)), int(math.Round(d.page.HeightMM)), "mm", 0, 0, w, h)
	if len(d.imports) > 0 {
		canvas.Def()
		var css strings.Builder
		for _, u := range d.imports {
			fmt.Fprintf(&css, "@import url('%s');\n", u)
		}
		canvas.Style("text/css", css.String())
		canvas.DefEnd()
	}
	for _, e := range d.elements {
		e.write(canvas)
	}
	canvas.End()
	return buf.Bytes()
}

// WriteSVG writes the serialized document to w.
func (d *Document) WriteSVG(w io.Writer) error {
	_, err := w.Write(d.SVG())
	return err
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
