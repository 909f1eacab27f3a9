package theme

import "strings"

// Namespace separates the families of themes that share one store.
type Namespace uint8

const (
	// NSPlain holds DEFAULT, TYPE, GROUP and one theme per pin-function label.
	NSPlain Namespace = iota
	NSPinType
	NSPinWire
	NSGroup
	NSBox
	NSFont
)

var prefixes = []string{"", "PINTYPE_", "PINWIRE_", "GROUP_", "BOX_", "FONT_"}

// Prefix returns the naming-convention prefix of ns, e.g. "BOX_".
func (ns Namespace) Prefix() string { return prefixes[ns] }

// Key returns the typed key for name inside ns.
func (ns Namespace) Key(name string) Key { return Key{NS: ns, Name: name} }

// Key identifies a theme. Keys are compared structurally, so a box theme
// named "X" can never collide with a pin-function label called "BOX_X".
type Key struct {
	NS   Namespace
	Name string
}

// Reserved plain themes.
var (
	Default = Key{NS: NSPlain, Name: "DEFAULT"}
	Type    = Key{NS: NSPlain, Name: "TYPE"}
	Group   = Key{NS: NSPlain, Name: "GROUP"}
)

// Label returns the key of a pin-function label theme.
func Label(name string) Key { return NSPlain.Key(name) }

// PinTypeKey returns PINTYPE_<kind>.
func PinTypeKey(kind string) Key { return NSPinType.Key(kind) }

// PinWireKey returns PINWIRE_<kind>.
func PinWireKey(kind string) Key { return NSPinWire.Key(kind) }

// GroupKey returns GROUP_<name>.
func GroupKey(name string) Key { return NSGroup.Key(name) }

// BoxKey returns BOX_<name>. A name already carrying the prefix is accepted.
func BoxKey(name string) Key { return NSBox.Key(strings.TrimPrefix(name, NSBox.Prefix())) }

// FontKey returns FONT_<name>.
func FontKey(name string) Key { return NSFont.Key(strings.TrimPrefix(name, NSFont.Prefix())) }

// String renders the boundary form of k, e.g. "BOX_PORT".
func (k Key) String() string { return prefixes[k.NS] + k.Name }

// ParseKey converts a boundary theme name back into a typed key.
func ParseKey(s string) Key {
	for ns := NSPinType; ns <= NSFont; ns++ {
		if name, ok := strings.CutPrefix(s, prefixes[ns]); ok && name != "" {
			return Key{NS: ns, Name: name}
		}
	}
	return Label(s)
}

// Attr names a theme attribute.
type Attr string

const (
	BorderColor          Attr = "BORDER COLOR"
	BorderWidth          Attr = "BORDER WIDTH"
	BorderOpacity        Attr = "BORDER OPACITY"
	FillColor            Attr = "FILL COLOR"
	Opacity              Attr = "OPACITY"
	Font                 Attr = "FONT"
	FontSize             Attr = "FONT SIZE"
	FontColor            Attr = "FONT COLOR"
	FontSlant            Attr = "FONT SLANT"
	FontBold             Attr = "FONT BOLD"
	FontStretch          Attr = "FONT STRETCH"
	FontOutline          Attr = "FONT OUTLINE"
	FontOutlineThickness Attr = "FONT OUTLINE THICKNESS"
	Boxes                Attr = "BOXES"
	Thickness            Attr = "THICKNESS"
	Width                Attr = "WIDTH"
	Height               Attr = "HEIGHT"
	CornerRX             Attr = "CORNER RX"
	CornerRY             Attr = "CORNER RY"
	Skew                 Attr = "SKEW"
	SkewOffset           Attr = "SKEW OFFSET"
)
