// Package command defines the typed command records of a pinout description
// and a parser for the comma-separated source format.
//
// Every command belongs to one of two phases. Setup commands declare labels,
// themes and page settings; DRAW switches to the draw phase, where commands
// place images, pins, boxes and text. The phase of a command is intrinsic to
// its type and is enforced by the renderer, not the parser.
package command

import (
	"github.com/matzehuels/pinout/pkg/layout"
	"github.com/matzehuels/pinout/pkg/theme"
)

// Phase is the protocol state a command must run in.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhaseDraw
)

func (p Phase) String() string {
	if p == PhaseDraw {
		return "draw"
	}
	return "setup"
}

// Kind is the command name as written in a description.
type Kind string

const (
	KindLabels     Kind = "LABELS"
	KindType       Kind = "TYPE"
	KindWire       Kind = "WIRE"
	KindGroup      Kind = "GROUP"
	KindBox        Kind = "BOX"
	KindTextFont   Kind = "TEXT FONT"
	KindPage       Kind = "PAGE"
	KindDPI        Kind = "DPI"
	KindDraw       Kind = "DRAW"
	KindGoogleFont Kind = "GOOGLEFONT"
	KindImage      Kind = "IMAGE"
	KindIcon       Kind = "ICON"
	KindAnchor     Kind = "ANCHOR"
	KindPinSet     Kind = "PINSET"
	KindPin        Kind = "PIN"
	KindPinText    Kind = "PINTEXT"
	KindMessage    Kind = "MESSAGE"
	KindText       Kind = "TEXT"
	KindEndMessage Kind = "END MESSAGE"
)

// Command is one typed record.
type Command interface {
	Kind() Kind
	Phase() Phase
}

// WireKind selects a leader-line style.
type WireKind uint8

const (
	WireNone WireKind = iota
	WireDigital
	WirePWM
	WireAnalog
	WireHSAnalog
	WirePower
)

var wireNames = []string{"", "DIGITAL", "PWM", "ANALOG", "HS-ANALOG", "POWER"}

func (w WireKind) String() string { return wireNames[w] }

// PinKind selects a pin marker.
type PinKind uint8

const (
	PinNone PinKind = iota
	PinIO
	PinInput
	PinOutput
)

var pinNames = []string{"", "IO", "INPUT", "OUTPUT"}

func (p PinKind) String() string { return pinNames[p] }

// Labels declares the pin-function labels. Default, Type and Group must name
// the fixed leading themes; Type and Group may be empty.
type Labels struct {
	Default string
	Type    string
	Group   string
	Labels  []string
}

// Style is a cascading theme write such as FILL COLOR or FONT SIZE.
type Style struct {
	Attr    theme.Attr
	Cascade theme.Cascade
}

// TypeDef defines PINTYPE_<pin>.
type TypeDef struct {
	Pin     PinKind
	Color   string
	Opacity float64
}

// WireDef defines PINWIRE_<wire>.
type WireDef struct {
	Wire      WireKind
	Color     string
	Opacity   float64
	Thickness float64
}

// GroupDef defines GROUP_<name>.
type GroupDef struct {
	Name    string
	Color   string
	Opacity float64
}

// BoxTheme defines BOX_<name>.
type BoxTheme struct {
	Name          string
	BorderColor   string
	BorderOpacity float64
	FillColor     string
	FillOpacity   float64
	BorderWidth   float64
	Width         float64
	Height        float64
	CornerRX      float64
	CornerRY      float64
	Skew          float64
	SkewOffset    float64
}

// TextFont defines FONT_<name>.
type TextFont struct {
	Name         string
	Font         string
	Size         float64
	OutlineColor string
	Color        string
	Slant        theme.Slant
	Weight       theme.Weight
	Stretch      theme.Stretch
}

// Page selects a page preset.
type Page struct{ Name string }

// DPI sets the output resolution.
type DPI struct{ Value int }

// Draw ends the setup phase.
type Draw struct{}

// GoogleFont imports a web font stylesheet.
type GoogleFont struct{ Link string }

// Image embeds a raster image. Optional fields are nil when omitted.
type Image struct {
	Name                       string
	X, Y, W, H                 *float64
	CropX, CropY, CropW, CropH *float64
	Rotation                   *float64
}

// Icon embeds an SVG file.
type Icon struct {
	Name       string
	X, Y, W, H *float64
	Rotation   *float64
}

// Anchor moves the layout anchor.
type Anchor struct{ X, Y float64 }

// PinSet starts a pin row.
type PinSet struct{ Row layout.RowConfig }

// Pin draws one pin with label columns.
type Pin struct {
	Wire    WireKind
	Pin     PinKind
	Group   string
	Columns []string
}

// PinText draws one pin with an optional label box and free text styled by
// FONT_<Font>.
type PinText struct {
	Wire  WireKind
	Pin   PinKind
	Group string
	Font  string
	Label string
	Text  string
}

// DrawBox draws a themed box at an absolute position.
type DrawBox struct {
	Theme    string
	X, Y     float64
	W, H     *float64
	JustifyX layout.JustifyX
	JustifyY layout.JustifyY
	Text     string
}

// Message opens a multi-line text session.
type Message struct {
	X, Y     *float64
	LineStep *float64
	Font     string
	FontSize *float64
	JustifyX layout.JustifyX
	JustifyY layout.JustifyY
}

// Text appends a segment to the open message. NewLine makes the segment
// after this one start on a new line.
type Text struct {
	EdgeColor string
	Color     string
	Content   string
	NewLine   bool
}

// EndMessage closes the open message.
type EndMessage struct{}

func (c *Labels) Kind() Kind     { return KindLabels }
func (c *Style) Kind() Kind      { return Kind(c.Attr) }
func (c *TypeDef) Kind() Kind    { return KindType }
func (c *WireDef) Kind() Kind    { return KindWire }
func (c *GroupDef) Kind() Kind   { return KindGroup }
func (c *BoxTheme) Kind() Kind   { return KindBox }
func (c *TextFont) Kind() Kind   { return KindTextFont }
func (c *Page) Kind() Kind       { return KindPage }
func (c *DPI) Kind() Kind        { return KindDPI }
func (c *Draw) Kind() Kind       { return KindDraw }
func (c *GoogleFont) Kind() Kind { return KindGoogleFont }
func (c *Image) Kind() Kind      { return KindImage }
func (c *Icon) Kind() Kind       { return KindIcon }
func (c *Anchor) Kind() Kind     { return KindAnchor }
func (c *PinSet) Kind() Kind     { return KindPinSet }
func (c *Pin) Kind() Kind        { return KindPin }
func (c *PinText) Kind() Kind    { return KindPinText }
func (c *DrawBox) Kind() Kind    { return KindBox }
func (c *Message) Kind() Kind    { return KindMessage }
func (c *Text) Kind() Kind       { return KindText }
func (c *EndMessage) Kind() Kind { return KindEndMessage }

func (c *Labels) Phase() Phase     { return PhaseSetup }
func (c *Style) Phase() Phase      { return PhaseSetup }
func (c *TypeDef) Phase() Phase    { return PhaseSetup }
func (c *WireDef) Phase() Phase    { return PhaseSetup }
func (c *GroupDef) Phase() Phase   { return PhaseSetup }
func (c *BoxTheme) Phase() Phase   { return PhaseSetup }
func (c *TextFont) Phase() Phase   { return PhaseSetup }
func (c *Page) Phase() Phase       { return PhaseSetup }
func (c *DPI) Phase() Phase        { return PhaseSetup }
func (c *Draw) Phase() Phase       { return PhaseSetup }
func (c *GoogleFont) Phase() Phase { return PhaseDraw }
func (c *Image) Phase() Phase      { return PhaseDraw }
func (c *Icon) Phase() Phase       { return PhaseDraw }
func (c *Anchor) Phase() Phase     { return PhaseDraw }
func (c *PinSet) Phase() Phase     { return PhaseDraw }
func (c *Pin) Phase() Phase        { return PhaseDraw }
func (c *PinText) Phase() Phase    { return PhaseDraw }
func (c *DrawBox) Phase() Phase    { return PhaseDraw }
func (c *Message) Phase() Phase    { return PhaseDraw }
func (c *Text) Phase() Phase       { return PhaseDraw }
func (c *EndMessage) Phase() Phase { return PhaseDraw }

// Assets returns the asset file names a command list references.
func Assets(cmds []Command) []string {
	var out []string
	for _, c := range cmds {
		switch c := c.(type) {
		case *Image:
			out = append(out, c.Name)
		case *Icon:
			out = append(out, c.Name)
		}
	}
	return out
}
