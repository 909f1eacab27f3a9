package render

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/layout"
	"github.com/matzehuels/pinout/pkg/theme"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for per-command debug output.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithAssets resolves IMAGE and ICON names inside fsys.
func WithAssets(fsys fs.FS) Option { return func(r *Renderer) { r.assets = fsys } }

// WithAssetDir resolves IMAGE and ICON names relative to dir.
func WithAssetDir(dir string) Option { return WithAssets(os.DirFS(dir)) }

// WithStrictReferences makes dangling wire and box theme names in the draw
// phase an error instead of a silent fallback.
func WithStrictReferences() Option { return func(r *Renderer) { r.strict = true } }

// WithDPI sets the initial resolution; a DPI command still overrides it.
func WithDPI(dpi int) Option { return func(r *Renderer) { r.initDPI = dpi } }

// WithPage sets the initial page preset; a PAGE command still overrides it.
func WithPage(name string) Option { return func(r *Renderer) { r.initPage = name } }

// Renderer is a single-use interpreter for one command stream.
type Renderer struct {
	logger   *log.Logger
	assets   fs.FS
	strict   bool
	initDPI  int
	initPage string

	phase  command.Phase
	store  *theme.Store
	cursor layout.Cursor
	msg    *message
	msgDef messageDefaults
	doc    *document.Document
}

// New creates a renderer.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		logger: log.New(io.Discard),
		store:  theme.NewStore(),
		doc:    document.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.initPage != "" {
		if err := r.doc.SetPage(r.initPage); err != nil {
			return nil, err
		}
	}
	if r.initDPI != 0 {
		if err := r.doc.SetDPI(r.initDPI); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render is a convenience wrapper around New and Process.
func Render(ctx context.Context, cmds []command.Command, opts ...Option) (*document.Document, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return r.Process(ctx, cmds)
}

// Process applies cmds in order and returns the finished document. A message
// still open at the end of input is flushed. The context is only checked
// before the pass starts; a pass is never interrupted halfway.
func (r *Renderer) Process(ctx context.Context, cmds []command.Command) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, c := range cmds {
		r.logger.Debug("command", "index", i, "kind", c.Kind(), "phase", r.phase)
		if err := r.apply(c); err != nil {
			return nil, errors.AtCommand(i, string(c.Kind()), err)
		}
	}
	r.endMessage()
	r.logger.Debug("render done", "elements", len(r.doc.Elements()))
	return r.doc, nil
}

// Setup applies the setup part of cmds, including the DRAW validation, and
// stops before the first draw command.
func (r *Renderer) Setup(cmds []command.Command) error {
	for i, c := range cmds {
		err := r.apply(c)
		if err != nil {
			return errors.AtCommand(i, string(c.Kind()), err)
		}
		if r.phase == command.PhaseDraw {
			return nil
		}
	}
	return nil
}

// Store exposes the theme store for inspection.
func (r *Renderer) Store() *theme.Store { return r.store }

// Phase returns the current protocol phase.
func (r *Renderer) Phase() command.Phase { return r.phase }

// Document returns the document built so far.
func (r *Renderer) Document() *document.Document { return r.doc }

func (r *Renderer) apply(c command.Command) error {
	if _, ok := c.(*command.Draw); ok {
		if err := r.store.ValidateBoxRefs(); err != nil {
			return err
		}
		r.phase = command.PhaseDraw
		return nil
	}
	if c.Phase() != r.phase {
		return errors.New(errors.ErrCodePhase,
			"%s is a %s command, used in the %s phase", c.Kind(), c.Phase(), r.phase)
	}

	switch c := c.(type) {
	case *command.Labels:
		return r.declareLabels(c)
	case *command.Style:
		r.store.SetCascade(c.Attr, c.Cascade)
	case *command.TypeDef:
		r.store.Define(theme.PinTypeKey(c.Pin.String()), theme.Theme{
			theme.FillColor: theme.Text(c.Color),
			theme.Opacity:   theme.Float(c.Opacity),
		})
	case *command.WireDef:
		r.store.Define(theme.PinWireKey(c.Wire.String()), theme.Theme{
			theme.FillColor: theme.Text(c.Color),
			theme.Opacity:   theme.Float(c.Opacity),
			theme.Thickness: theme.Float(c.Thickness),
		})
	case *command.GroupDef:
		r.store.Define(theme.GroupKey(c.Name), theme.Theme{
			theme.FillColor: theme.Text(c.Color),
			theme.Opacity:   theme.Float(c.Opacity),
		})
	case *command.BoxTheme:
		r.defineBox(c)
	case *command.TextFont:
		r.defineFont(c)
	case *command.Page:
		return r.doc.SetPage(c.Name)
	case *command.DPI:
		return r.doc.SetDPI(c.Value)
	case *command.GoogleFont:
		if err := errors.ValidateURL(c.Link); err != nil {
			return err
		}
		r.doc.AddStyleImport(c.Link)
	case *command.Image:
		return r.drawImage(c)
	case *command.Icon:
		return r.drawIcon(c)
	case *command.Anchor:
		r.cursor.MoveAnchor(c.X, c.Y)
	case *command.PinSet:
		r.cursor.BeginRow(c.Row)
	case *command.Pin:
		return r.drawPin(c)
	case *command.PinText:
		return r.drawPinText(c)
	case *command.DrawBox:
		return r.drawBox(c)
	case *command.Message:
		r.beginMessage(c)
	case *command.Text:
		return r.appendSegment(c)
	case *command.EndMessage:
		r.endMessage()
	default:
		return errors.New(errors.ErrCodeUnsupported, "no handler for %T", c)
	}
	return nil
}

func (r *Renderer) declareLabels(c *command.Labels) error {
	if r.store.LabelsDeclared() {
		return errors.New(errors.ErrCodeDuplicateLabels, "pin-function labels can only be declared once")
	}
	if c.Default != theme.Default.Name ||
		(c.Type != "" && c.Type != theme.Type.Name) ||
		(c.Group != "" && c.Group != theme.Group.Name) {
		return errors.New(errors.ErrCodeInvalidLabels, "labels must start with DEFAULT, TYPE, GROUP")
	}
	return r.store.DeclareLabels(c.Labels)
}

func (r *Renderer) defineBox(c *command.BoxTheme) {
	r.store.Define(theme.BoxKey(c.Name), theme.Theme{
		theme.BorderColor:   theme.Text(c.BorderColor),
		theme.BorderOpacity: theme.Float(c.BorderOpacity),
		theme.FillColor:     theme.Text(c.FillColor),
		theme.Opacity:       theme.Float(c.FillOpacity),
		theme.BorderWidth:   theme.Float(c.BorderWidth),
		theme.Width:         theme.Float(c.Width),
		theme.Height:        theme.Float(c.Height),
		theme.CornerRX:      theme.Float(c.CornerRX),
		theme.CornerRY:      theme.Float(c.CornerRY),
		theme.Skew:          theme.Float(c.Skew),
		theme.SkewOffset:    theme.Float(c.SkewOffset),
	})
}

func (r *Renderer) defineFont(c *command.TextFont) {
	r.store.Define(theme.FontKey(c.Name), theme.Theme{
		theme.Font:        theme.Text(c.Font),
		theme.FontSize:    theme.Float(c.Size),
		theme.FontOutline: theme.Text(c.OutlineColor),
		theme.FontColor:   theme.Text(c.Color),
		theme.FontSlant:   theme.FromSlant(c.Slant),
		theme.FontBold:    theme.FromWeight(c.Weight),
		theme.FontStretch: theme.FromStretch(c.Stretch),
	})
}
