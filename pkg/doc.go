// Package pkg provides the core libraries for pinout diagram rendering.
//
// # Overview
//
// A pinout diagram is described as a CSV-like list of commands. Each command
// either configures the renderer (labels, themes, fonts, page settings) or
// draws into the page (pins, boxes, messages, images, icons). Commands run in
// order through a phase-gated interpreter, and the result is an SVG document.
//
// # Architecture
//
// The typical data flow:
//
//	description (.csv)
//	         ↓
//	    [command] package (parse rows into typed commands)
//	         ↓
//	    [render] package (interpret commands against theme, cursor, page)
//	         ↓
//	    [document] package (SVG elements on a sized page)
//	         ↓
//	    SVG/PNG/PDF output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/pinout/pkg/command"
//	    "github.com/matzehuels/pinout/pkg/render"
//	)
//
//	f, _ := os.Open("board.csv")
//	cmds, _ := command.Parse(f)
//	doc, _ := render.Render(context.Background(), cmds,
//	    render.WithAssetDir("assets"),
//	    render.WithDPI(300))
//	os.WriteFile("board.svg", doc.SVG(), 0o644)
//
// # Main Packages
//
// ## Engine
//
// [command] - Description parsing. Rows become typed commands; numeric and
// enumerated fields are validated up front.
//
// [theme] - The cascading theme store. Attribute lookups fall back from a
// specific theme through its group defaults to the global default.
//
// [layout] - The drawing cursor, pin rows and pinset geometry.
//
// [geom] - Small geometry helpers: rectangles and relative size handling.
//
// [document] - The output document: page sizes, DPI and SVG serialization.
//
// [render] - The command interpreter. Its phases are setup, draw and done.
//
// [render/themegraph] - Graphviz diagrams of how themes cascade.
//
// ## Infrastructure
//
// [pipeline] - Parse, render and export with artifact caching.
//
// [cache] - Artifact caches (file, Redis, null).
//
// [store] - Render records for the HTTP service (memory, MongoDB).
//
// [config] - TOML/YAML configuration with environment overrides.
//
// [observability] - Parse, render, cache and HTTP events delivered to registered sinks.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at link time.
//
// [command]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/command
// [theme]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/theme
// [layout]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/layout
// [geom]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/geom
// [document]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/render
// [render/themegraph]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/render/themegraph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pinout/pkg/buildinfo
package pkg
