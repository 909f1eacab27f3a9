// Package render turns a command stream into a pinout diagram.
//
// # Overview
//
// A [Renderer] owns all mutable state of one rendering pass: the theme
// store, the layout cursor, the open message session and the output
// document. Commands are applied strictly in order; the first failing command
// aborts the pass and is reported with its index and kind.
//
// # Phases
//
// The pass starts in the setup phase. DRAW validates that every BOXES
// reference names a defined box theme and switches to the draw phase; there
// is no way back. Any command used in the wrong phase fails with PHASE_ERROR.
//
//	cmds, err := command.Parse(f)
//	doc, err := render.Render(ctx, cmds, render.WithAssetDir("assets"))
//	os.WriteFile("pinout.svg", doc.SVG(), 0o644)
//
// # Pins
//
// A pin is drawn as a leader line whose shape follows the wire kind, an
// optional group indicator, a marker for the pin kind and a row of label
// boxes. Label boxes take their paint from the label's theme and their
// geometry from the box theme named by the label's BOXES attribute.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert the SVG output to other formats
// using the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(ctx, doc.SVG())
//	png, err := render.ToPNG(ctx, doc.SVG(), doc.DPI())
//
// The [themegraph] subpackage draws the theme cascade as a graph.
package render
