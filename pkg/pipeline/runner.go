package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinout/pkg/cache"
	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/observability"
	"github.com/matzehuels/pinout/pkg/render"
)

// Converters used for raster and print export. Tests replace them.
var (
	toPNG = render.ToPNG
	toPDF = render.ToPDF
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// means the default one.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute parses, renders and exports a description.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{DescriptionHash: cache.Hash(opts.Description)}

	// Stage 1: Parse
	start := time.Now()
	cmds, err := command.Parse(bytes.NewReader(opts.Description))
	result.Stats.ParseTime = time.Since(start)
	observability.Emit(ctx, observability.Event{
		Kind: observability.ParseDone, Name: opts.Name,
		Count: len(cmds), Duration: result.Stats.ParseTime, Err: err,
	})
	if err != nil {
		return nil, err
	}
	result.Stats.Commands = len(cmds)

	assetHash := hashAssets(opts.Assets, command.Assets(cmds))
	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(result.DescriptionHash, opts.ArtifactKeyOpts(f, assetHash))
	}
	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, opts, keys); ok {
			result.Artifacts = artifacts
			result.CacheInfo.Hit = true
			opts.Logger.Info("using cached artifacts", "name", opts.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Render
	start = time.Now()
	doc, err := render.Render(ctx, cmds, r.renderOptions(opts)...)
	result.Stats.RenderTime = time.Since(start)
	rendered := observability.Event{Kind: observability.RenderDone, Name: opts.Name, Duration: result.Stats.RenderTime, Err: err}
	if err != nil {
		observability.Emit(ctx, rendered)
		return nil, err
	}
	result.Document = doc
	result.Stats.Elements = len(doc.Elements())
	result.OffPage = doc.OffPage()
	rendered.Count = result.Stats.Elements
	observability.Emit(ctx, rendered)

	if n := len(result.OffPage); n > 0 {
		opts.Logger.Warn("elements reach past the page", "name", opts.Name, "count", n)
	}
	opts.Logger.Info("rendered description",
		"name", opts.Name,
		"commands", result.Stats.Commands,
		"elements", result.Stats.Elements,
		"duration", result.Stats.RenderTime)

	// Stage 3: Export
	start = time.Now()
	artifacts, err := Export(ctx, doc, opts.Formats)
	result.Stats.ExportTime = time.Since(start)
	exported := observability.Event{Kind: observability.ExportDone, Name: opts.Name, Formats: opts.Formats, Duration: result.Stats.ExportTime, Err: err}
	for _, data := range artifacts {
		exported.Count += len(data)
	}
	observability.Emit(ctx, exported)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	for f, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[f], data, TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", f, "err", err)
			continue
		}
		observability.Emit(ctx, observability.Event{
			Kind: observability.CacheStore, Name: opts.Name, Formats: []string{f}, Count: len(data),
		})
	}
	return result, nil
}

// cached returns every artifact from the cache, or false if any is missing.
func (r *Runner) cached(ctx context.Context, opts Options, keys map[string]string) (map[string][]byte, bool) {
	ev := observability.Event{Kind: observability.CacheHit, Name: opts.Name, Formats: opts.Formats}
	artifacts := make(map[string][]byte, len(keys))
	for f, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			ev.Kind = observability.CacheMiss
			observability.Emit(ctx, ev)
			return nil, false
		}
		artifacts[f] = data
	}
	observability.Emit(ctx, ev)
	return artifacts, true
}

func (r *Runner) renderOptions(opts Options) []render.Option {
	ro := []render.Option{render.WithLogger(opts.Logger)}
	if opts.Assets != nil {
		ro = append(ro, render.WithAssets(opts.Assets))
	}
	if opts.Page != "" {
		ro = append(ro, render.WithPage(opts.Page))
	}
	if opts.DPI != 0 {
		ro = append(ro, render.WithDPI(opts.DPI))
	}
	if opts.Strict {
		ro = append(ro, render.WithStrictReferences())
	}
	return ro
}

// Export serializes doc in each format.
func Export(ctx context.Context, doc *document.Document, formats []string) (map[string][]byte, error) {
	svg := doc.SVG()
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		var data []byte
		var err error
		switch f {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = toPNG(ctx, svg, doc.DPI())
		case FormatPDF:
			data, err = toPDF(ctx, svg)
		default:
			err = ValidateFormat(f)
		}
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "export %s", f)
		}
		out[f] = data
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
