package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single input and format) or directory
	outDir    string   // directory for derived output names; "" means beside the input
	formats   []string // output formats: "svg", "png", "pdf"
	overwrite bool     // replace existing output files
	dpi       int      // document DPI before any DPI command
	page      string   // page preset before any PAGE command
	assets    string   // directory IMAGE and ICON names resolve against
	noCache   bool     // bypass the artifact cache
	refresh   bool     // re-render but still update the cache
	strict    bool     // fail on undefined wire and box themes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render descriptions to SVG, PNG or PDF",
		Long: `Render one or more pinout descriptions.

Without arguments on an interactive terminal, a picker lists the .csv files
in the current directory. PNG and PDF export need rsvg-convert on PATH.`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: completeDescriptions,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyRenderDefaults(cmd, &opts)
			if cmd.Flags().Changed("format") {
				if opts.formats = parseFormats(formatsStr); len(opts.formats) == 0 {
					return errors.New(errors.ErrCodeInvalidFormat, "--format needs at least one of svg, png, pdf")
				}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			inputs, err := c.resolveInputs(args)
			if err != nil || len(inputs) == 0 {
				return err
			}
			return c.runRender(cmd.Context(), inputs, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input and format) or directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "overwrite existing output files")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "document DPI (50-1200)")
	cmd.Flags().StringVar(&opts.page, "page", "", "page preset: A4-L, A4-P, A3-L, A3-P")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "asset directory (default: the description's directory)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on undefined wire and box themes")
	registerRenderCompletions(cmd)

	return cmd
}

// applyRenderDefaults fills flags the user did not set from the config.
func (c *CLI) applyRenderDefaults(cmd *cobra.Command, opts *renderOpts) {
	cfg := c.Config
	if !cmd.Flags().Changed("dpi") {
		opts.dpi = cfg.Render.DPI
	}
	if !cmd.Flags().Changed("page") {
		opts.page = cfg.Render.Page
	}
	if !cmd.Flags().Changed("assets") {
		opts.assets = cfg.Render.AssetDir
	}
	if !cmd.Flags().Changed("strict") {
		opts.strict = cfg.Render.Strict
	}
	if !cmd.Flags().Changed("overwrite") {
		opts.overwrite = cfg.Output.Overwrite
	}
	if cfg.Output.Dir != "." {
		opts.outDir = cfg.Output.Dir
	}
	opts.formats = cfg.Output.Formats
}

// resolveInputs returns args, or lets the user pick a description when none
// are given on an interactive terminal.
func (c *CLI) resolveInputs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no description file given")
	}
	path, err := pickDescription(".")
	if err != nil || path == "" {
		return nil, err
	}
	return []string{path}, nil
}

func (c *CLI) runRender(ctx context.Context, inputs []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, opts.noCache, "")
	if err != nil {
		return err
	}
	defer runner.Close()

	if len(inputs) == 1 {
		if err := c.renderFile(ctx, runner, inputs[0], false, opts); err != nil {
			return fmt.Errorf("%s: %w", inputs[0], err)
		}
		return nil
	}

	// With several inputs, report each failure and keep going.
	var first error
	failed := 0
	for _, input := range inputs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.renderFile(ctx, runner, input, true, opts); err != nil {
			printError("%s: %s", input, errors.UserMessage(err))
			if first == nil {
				first = fmt.Errorf("%s: %w", input, err)
			}
			failed++
		}
	}
	logger.Debug("render complete", "inputs", len(inputs), "failed", failed)
	if first != nil {
		return fmt.Errorf("%d of %d descriptions failed: %w", failed, len(inputs), first)
	}
	return nil
}

func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, multi bool, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger, input)

	desc, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read description")
	}
	prog.stage("read")

	// Refuse before rendering so a slow export is not wasted.
	paths := make(map[string]string, len(opts.formats))
	for _, f := range opts.formats {
		p := outputPath(opts, input, f, multi)
		if !opts.overwrite {
			if _, err := os.Stat(p); err == nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s exists (use --overwrite)", p)
			}
		}
		paths[f] = p
	}

	var spin *exportSpinner
	if needsConverter(opts.formats) && term.IsTerminal(int(os.Stderr.Fd())) {
		spin = startSpinner(ctx, os.Stderr, "Exporting "+filepath.Base(input))
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Name:        filepath.Base(input),
		Description: desc,
		Assets:      assetFS(opts.assets, input),
		Formats:     opts.formats,
		Page:        opts.page,
		DPI:         opts.dpi,
		Strict:      opts.strict,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return err
	}
	prog.stage("render")

	for _, f := range opts.formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}
	prog.stage("write")

	prog.done("rendered")
	printSuccess("Rendered %s", input)
	printStats(result.Stats.Commands, result.Stats.Elements, result.CacheInfo.Hit)
	if n := len(result.OffPage); n > 0 {
		printWarning("%d elements reach past the page", n)
	}
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	return nil
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f != pipeline.FormatSVG {
			return true
		}
	}
	return false
}

// assetFS resolves assets against dir, or the input's directory when empty.
func assetFS(dir, input string) fs.FS {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return os.DirFS(dir)
}

// outputPath derives the file written for one input and format. An explicit
// output names the file itself for a single input and format. With several
// formats it is a base path (when it carries a format extension) or a
// directory; with several inputs it is always a directory.
func outputPath(opts renderOpts, input, format string, multiInput bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := stem + "." + format
	switch {
	case opts.output == "" && opts.outDir != "":
		return filepath.Join(opts.outDir, name)
	case opts.output == "":
		return filepath.Join(filepath.Dir(input), name)
	case multiInput:
		return filepath.Join(opts.output, name)
	case len(opts.formats) == 1:
		return opts.output
	}
	ext := filepath.Ext(opts.output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(opts.output, ext) + "." + format
	}
	return filepath.Join(opts.output, name)
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
