// Package pipeline turns description bytes into exported artifacts for both
// the CLI and the render service: [command.Parse] reads the rows, the
// renderer interprets them into a document, and [Export] writes SVG, PNG or
// PDF.
//
// Artifacts are cached per format. The key covers the description, the
// render settings and the content of every IMAGE and ICON asset, so
// replacing board.png on disk forces a re-render like editing the CSV does.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:        "board.csv",
//	    Description: data,
//	    Assets:      os.DirFS("."),
//	    Formats:     []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinout/pkg/cache"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// TTLArtifact is how long exported artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// ValidFormats holds every format Export can produce.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// Options configures one pipeline run.
type Options struct {
	// Name identifies the description in logs, e.g. its file name.
	Name string `json:"name,omitempty"`
	// Description is the comma-separated command source.
	Description []byte `json:"-"`
	// Assets resolves IMAGE and ICON names. Nil means no assets.
	Assets fs.FS `json:"-"`

	Formats []string `json:"formats,omitempty"`
	// Page and DPI preset the document; PAGE and DPI commands override them.
	Page   string `json:"page,omitempty"`
	DPI    int    `json:"dpi,omitempty"`
	Strict bool   `json:"strict,omitempty"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the rendered document; nil when every artifact came from
	// the cache.
	Document *document.Document

	// DescriptionHash is the content hash of the description.
	DescriptionHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// OffPage lists the indices of elements reaching past the page.
	OffPage []int

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commands   int
	Elements   int
	ParseTime  time.Duration
	RenderTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache use.
type CacheInfo struct {
	Hit bool // every requested artifact came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Description) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "description is empty")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Page != "" {
		if _, err := document.LookupPage(o.Page); err != nil {
			return err
		}
	}
	if o.DPI != 0 {
		if err := document.ValidateDPI(o.DPI); err != nil {
			return err
		}
	}
	if o.Name == "" {
		o.Name = "description"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format, assetHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Page:      o.Page,
		DPI:       o.DPI,
		Strict:    o.Strict,
		AssetHash: assetHash,
	}
}
