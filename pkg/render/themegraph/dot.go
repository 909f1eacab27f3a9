package themegraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/render"
	"github.com/matzehuels/pinout/pkg/theme"
)

// Options configures theme graph rendering.
type Options struct {
	// Detailed lists every attribute a theme sets in its node label.
	// When false, only the theme name is shown.
	Detailed bool
}

// ToDOT converts the themes of s to Graphviz DOT format.
func ToDOT(s *theme.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph themes {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("\n")

	keys := s.Keys()
	for _, k := range keys {
		t, _ := s.Theme(k)
		fmt.Fprintf(&buf, "  %q [%s];\n", k.String(), strings.Join(fmtAttrs(t, fmtLabel(k, t, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	for _, k := range keys {
		if k != theme.Default {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", k.String(), theme.Default.String())
		}
		if v, ok := s.Lookup(k, theme.Boxes); ok && v.String() != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", k.String(), theme.BoxKey(v.String()).String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(k theme.Key, t theme.Theme, detailed bool) string {
	if !detailed || len(t) == 0 {
		return k.String()
	}
	attrs := make([]string, 0, len(t))
	for a := range t {
		attrs = append(attrs, string(a))
	}
	slices.Sort(attrs)

	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s: %s", a, t[theme.Attr(a)]))
	}
	return k.String() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(t theme.Theme, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if v, ok := t[theme.FillColor]; ok && v.String() != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", v.String()))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which sizes the
// drawing in points, with one sized in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
