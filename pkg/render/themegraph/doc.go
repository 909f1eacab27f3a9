// Package themegraph renders the theme cascade of a pinout description as a
// node-link diagram.
//
// # Overview
//
// Every theme becomes a node. Dashed edges point from a theme to DEFAULT,
// the level its attribute lookups fall back to. Solid edges point from a
// theme to the box theme its BOXES attribute names, which supplies the
// geometry of its label boxes.
//
//	dot := themegraph.ToDOT(store, themegraph.Options{Detailed: true})
//	svg, err := themegraph.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes colored by their own FILL COLOR when they have one.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package themegraph
