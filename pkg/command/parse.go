package command

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
	"github.com/matzehuels/pinout/pkg/layout"
	"github.com/matzehuels/pinout/pkg/theme"
)

// valueKind tells the parser how to read the fields of a cascade command.
type valueKind uint8

const (
	textValues valueKind = iota
	floatValues
	slantValues
	weightValues
	stretchValues
)

// cascades are the setup commands that write through theme.Store.SetCascade.
var cascades = map[Kind]valueKind{
	Kind(theme.BorderColor):          textValues,
	Kind(theme.FillColor):            textValues,
	Kind(theme.Font):                 textValues,
	Kind(theme.FontColor):            textValues,
	Kind(theme.FontOutline):          textValues,
	Kind(theme.Boxes):                textValues,
	Kind(theme.Opacity):              floatValues,
	Kind(theme.FontSize):             floatValues,
	Kind(theme.FontOutlineThickness): floatValues,
	Kind(theme.FontSlant):            slantValues,
	Kind(theme.FontBold):             weightValues,
	Kind(theme.FontStretch):          stretchValues,
}

// defaultOnly are setup commands that only carry a DEFAULT value.
var defaultOnly = map[Kind]bool{
	Kind(theme.BorderWidth):   true,
	Kind(theme.BorderOpacity): true,
}

// Parse reads a description. Blank lines and lines whose first field starts
// with '#' are skipped. BOX means a box theme before DRAW and a drawn box
// after it.
func Parse(r io.Reader) ([]Command, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var cmds []Command
	drawing := false
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read description")
		}
		line, _ := reader.FieldPos(0)

		rec := record{line: line, fields: fields}
		name := strings.ToUpper(rec.get(0))
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}

		cmd, err := parseRecord(Kind(name), rec, drawing)
		if err != nil {
			return nil, err
		}
		if cmd.Kind() == KindDraw {
			drawing = true
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func parseRecord(kind Kind, r record, drawing bool) (Command, error) {
	if vk, ok := cascades[kind]; ok {
		return r.style(kind, vk)
	}
	if defaultOnly[kind] {
		v, err := r.float(1)
		if err != nil {
			return nil, err
		}
		return &Style{Attr: theme.Attr(kind), Cascade: theme.Cascade{Default: theme.Float(v)}}, nil
	}

	switch kind {
	case KindLabels:
		return r.labels()
	case KindType:
		return r.typeDef()
	case KindWire:
		return r.wireDef()
	case KindGroup:
		return r.groupDef()
	case KindBox:
		if drawing {
			return r.drawBox()
		}
		return r.boxTheme()
	case KindTextFont:
		return r.textFont()
	case KindPage:
		if err := r.need(2, "page name"); err != nil {
			return nil, err
		}
		return &Page{Name: r.get(1)}, nil
	case KindDPI:
		v, err := r.integer(1)
		if err != nil {
			return nil, err
		}
		return &DPI{Value: v}, nil
	case KindDraw:
		return &Draw{}, nil
	case KindGoogleFont:
		if err := r.need(2, "font link"); err != nil {
			return nil, err
		}
		return &GoogleFont{Link: r.get(1)}, nil
	case KindImage:
		return r.image()
	case KindIcon:
		return r.icon()
	case KindAnchor:
		x, err := r.float(1)
		if err != nil {
			return nil, err
		}
		y, err := r.float(2)
		if err != nil {
			return nil, err
		}
		return &Anchor{X: x, Y: y}, nil
	case KindPinSet:
		return r.pinSet()
	case KindPin:
		return r.pin()
	case KindPinText:
		return r.pinText()
	case KindMessage:
		return r.message()
	case KindText:
		return r.text()
	case KindEndMessage:
		return &EndMessage{}, nil
	}
	return nil, r.errorf("unknown command %q", kind)
}

type record struct {
	line   int
	fields []string
}

func (r record) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, "line %d: "+format, append([]any{r.line}, args...)...)
}

func (r record) get(i int) string {
	if i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) present(i int) bool { return i < len(r.fields) }

func (r record) need(n int, what string) error {
	if len(r.fields) < n {
		return r.errorf("%s requires %s", strings.ToUpper(r.get(0)), what)
	}
	return nil
}

func (r record) float(i int) (float64, error) {
	s := r.get(i)
	if s == "" {
		return 0, r.errorf("field %d of %s is required", i, strings.ToUpper(r.get(0)))
	}
	v, err := parseSize(s)
	if err != nil {
		return 0, r.errorf("field %d: %v", i, err)
	}
	return v, nil
}

func (r record) optFloat(i int) (*float64, error) {
	if r.get(i) == "" {
		return nil, nil
	}
	v, err := r.float(i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r record) integer(i int) (int, error) {
	v, err := strconv.Atoi(r.get(i))
	if err != nil {
		return 0, r.errorf("field %d: %q is not an integer", i, r.get(i))
	}
	return v, nil
}

// parseSize accepts plain numbers and percentages; 100% is encoded as
// geom.Full so it stays below the absolute threshold.
func parseSize(s string) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, err
		}
		return geom.Full * math.Min(v, 100) / 100, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func (r record) value(i int, vk valueKind) (theme.Value, error) {
	s := r.get(i)
	if s == "" {
		return theme.Value{}, nil
	}
	var (
		v   theme.Value
		err error
	)
	switch vk {
	case textValues:
		v = theme.Text(s)
	case floatValues:
		var f float64
		f, err = parseSize(s)
		v = theme.Float(f)
	case slantValues:
		var sl theme.Slant
		sl, err = theme.ParseSlant(s)
		v = theme.FromSlant(sl)
	case weightValues:
		var w theme.Weight
		w, err = theme.ParseWeight(s)
		v = theme.FromWeight(w)
	case stretchValues:
		var st theme.Stretch
		st, err = theme.ParseStretch(s)
		v = theme.FromStretch(st)
	}
	if err != nil {
		return theme.Value{}, r.errorf("field %d: %v", i, err)
	}
	return v, nil
}

func (r record) style(kind Kind, vk valueKind) (Command, error) {
	if err := r.need(2, "a default value"); err != nil {
		return nil, err
	}
	var c theme.Cascade
	var err error
	if c.Default, err = r.value(1, vk); err != nil {
		return nil, err
	}
	if c.Default.IsZero() {
		return nil, r.errorf("%s requires a default value", kind)
	}
	if c.Type, err = r.value(2, vk); err != nil {
		return nil, err
	}
	if c.Group, err = r.value(3, vk); err != nil {
		return nil, err
	}
	for i := 4; i < len(r.fields); i++ {
		v, err := r.value(i, vk)
		if err != nil {
			return nil, err
		}
		c.Columns = append(c.Columns, v)
	}
	return &Style{Attr: theme.Attr(kind), Cascade: c}, nil
}

func (r record) labels() (Command, error) {
	if err := r.need(2, "DEFAULT"); err != nil {
		return nil, err
	}
	c := &Labels{Default: r.get(1), Type: r.get(2), Group: r.get(3)}
	end := len(r.fields)
	for end > 4 && r.get(end-1) == "" {
		end--
	}
	for i := 4; i < end; i++ {
		c.Labels = append(c.Labels, r.get(i))
	}
	return c, nil
}

func (r record) typeDef() (Command, error) {
	if err := r.need(4, "pin type, color and opacity"); err != nil {
		return nil, err
	}
	pin, ok := ParsePinKind(r.get(1))
	if !ok {
		return nil, r.errorf("invalid pin type %q", r.get(1))
	}
	op, err := r.float(3)
	if err != nil {
		return nil, err
	}
	return &TypeDef{Pin: pin, Color: r.get(2), Opacity: op}, nil
}

func (r record) wireDef() (Command, error) {
	if err := r.need(5, "wire type, color, opacity and thickness"); err != nil {
		return nil, err
	}
	wire, ok := ParseWireKind(r.get(1))
	if !ok {
		return nil, r.errorf("invalid wire type %q", r.get(1))
	}
	op, err := r.float(3)
	if err != nil {
		return nil, err
	}
	th, err := r.float(4)
	if err != nil {
		return nil, err
	}
	return &WireDef{Wire: wire, Color: r.get(2), Opacity: op, Thickness: th}, nil
}

func (r record) groupDef() (Command, error) {
	if err := r.need(4, "name, color and opacity"); err != nil {
		return nil, err
	}
	if err := errors.ValidateThemeName(r.get(1)); err != nil {
		return nil, r.errorf("%s", errors.UserMessage(err))
	}
	op, err := r.float(3)
	if err != nil {
		return nil, err
	}
	return &GroupDef{Name: r.get(1), Color: r.get(2), Opacity: op}, nil
}

func (r record) boxTheme() (Command, error) {
	if err := r.need(13, "name and 11 box parameters"); err != nil {
		return nil, err
	}
	if err := errors.ValidateThemeName(r.get(1)); err != nil {
		return nil, r.errorf("%s", errors.UserMessage(err))
	}
	c := &BoxTheme{Name: r.get(1), BorderColor: r.get(2), FillColor: r.get(4)}
	targets := []struct {
		field int
		dst   *float64
	}{
		{3, &c.BorderOpacity}, {5, &c.FillOpacity}, {6, &c.BorderWidth},
		{7, &c.Width}, {8, &c.Height}, {9, &c.CornerRX}, {10, &c.CornerRY},
		{11, &c.Skew}, {12, &c.SkewOffset},
	}
	for _, t := range targets {
		v, err := r.float(t.field)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}
	return c, nil
}

func (r record) textFont() (Command, error) {
	if err := r.need(9, "name, font, size, outline, color, slant, weight and stretch"); err != nil {
		return nil, err
	}
	if err := errors.ValidateThemeName(r.get(1)); err != nil {
		return nil, r.errorf("%s", errors.UserMessage(err))
	}
	size, err := r.float(3)
	if err != nil {
		return nil, err
	}
	slant, err := theme.ParseSlant(r.get(6))
	if err != nil {
		return nil, r.errorf("%v", err)
	}
	weight, err := theme.ParseWeight(r.get(7))
	if err != nil {
		return nil, r.errorf("%v", err)
	}
	stretch, err := theme.ParseStretch(r.get(8))
	if err != nil {
		return nil, r.errorf("%v", err)
	}
	return &TextFont{
		Name:         r.get(1),
		Font:         r.get(2),
		Size:         size,
		OutlineColor: r.get(4),
		Color:        r.get(5),
		Slant:        slant,
		Weight:       weight,
		Stretch:      stretch,
	}, nil
}

func (r record) optFloats(from int, dst ...**float64) error {
	for i, d := range dst {
		v, err := r.optFloat(from + i)
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}

func (r record) image() (Command, error) {
	if err := r.need(2, "an image name"); err != nil {
		return nil, err
	}
	c := &Image{Name: r.get(1)}
	err := r.optFloats(2, &c.X, &c.Y, &c.W, &c.H, &c.CropX, &c.CropY, &c.CropW, &c.CropH, &c.Rotation)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r record) icon() (Command, error) {
	if err := r.need(2, "an icon name"); err != nil {
		return nil, err
	}
	c := &Icon{Name: r.get(1)}
	if err := r.optFloats(2, &c.X, &c.Y, &c.W, &c.H, &c.Rotation); err != nil {
		return nil, err
	}
	return c, nil
}

func (r record) pinSet() (Command, error) {
	if err := r.need(11, "side, packing, justification and 6 sizes"); err != nil {
		return nil, err
	}
	var row layout.RowConfig
	var err error
	if row.Side, err = layout.ParseSide(r.get(1)); err != nil {
		return nil, r.errorf("%v", err)
	}
	switch strings.ToUpper(r.get(2)) {
	case "TRUE", "YES", "1", "PACKED":
		row.Packed = true
	case "FALSE", "NO", "0", "UNPACKED":
	default:
		return nil, r.errorf("invalid packed value %q", r.get(2))
	}
	if row.JustifyX, err = layout.ParseJustifyX(r.get(3)); err != nil {
		return nil, r.errorf("%v", err)
	}
	if row.JustifyY, err = layout.ParseJustifyY(r.get(4)); err != nil {
		return nil, r.errorf("%v", err)
	}
	sizes := []*float64{
		&row.LineStep, &row.PinDiameter, &row.GroupDiameter,
		&row.LeaderLength, &row.ColumnGap, &row.LeaderVStep,
	}
	for i, dst := range sizes {
		if *dst, err = r.float(5 + i); err != nil {
			return nil, err
		}
	}
	return &PinSet{Row: row}, nil
}

// pinHead reads the wire, pin type and group fields shared by PIN and
// PINTEXT. Unknown wire or pin types read as absent.
func (r record) pinHead() (WireKind, PinKind, string) {
	wire, _ := ParseWireKind(r.get(1))
	pin, _ := ParsePinKind(r.get(2))
	return wire, pin, r.get(3)
}

func (r record) pin() (Command, error) {
	if err := r.need(2, "at least one attribute"); err != nil {
		return nil, err
	}
	c := &Pin{}
	c.Wire, c.Pin, c.Group = r.pinHead()
	for i := 4; i < len(r.fields); i++ {
		c.Columns = append(c.Columns, r.get(i))
	}
	return c, nil
}

func (r record) pinText() (Command, error) {
	if err := r.need(5, "wire, pin type, group and font theme"); err != nil {
		return nil, err
	}
	c := &PinText{Font: r.get(4), Label: r.get(5), Text: r.get(6)}
	c.Wire, c.Pin, c.Group = r.pinHead()
	return c, nil
}

func (r record) drawBox() (Command, error) {
	if err := r.need(4, "theme, x and y"); err != nil {
		return nil, err
	}
	c := &DrawBox{Theme: r.get(1), Text: r.get(8)}
	var err error
	if c.X, err = r.float(2); err != nil {
		return nil, err
	}
	if c.Y, err = r.float(3); err != nil {
		return nil, err
	}
	if err := r.optFloats(4, &c.W, &c.H); err != nil {
		return nil, err
	}
	// Bad justification falls back to centered.
	c.JustifyX, _ = layout.ParseJustifyX(r.get(6))
	c.JustifyY, _ = layout.ParseJustifyY(r.get(7))
	return c, nil
}

func (r record) message() (Command, error) {
	c := &Message{Font: r.get(4)}
	if err := r.optFloats(1, &c.X, &c.Y, &c.LineStep); err != nil {
		return nil, err
	}
	var err error
	if c.FontSize, err = r.optFloat(5); err != nil {
		return nil, err
	}
	c.JustifyX, _ = layout.ParseJustifyX(r.get(6))
	c.JustifyY, _ = layout.ParseJustifyY(r.get(7))
	return c, nil
}

func (r record) text() (Command, error) {
	if err := r.need(4, "edge color, color and message"); err != nil {
		return nil, err
	}
	return &Text{
		EdgeColor: r.get(1),
		Color:     r.get(2),
		Content:   r.fields[3],
		NewLine:   r.present(4),
	}, nil
}

// ParseWireKind parses DIGITAL, PWM, ANALOG, HS-ANALOG or POWER.
func ParseWireKind(s string) (WireKind, bool) {
	return lookupKind[WireKind](s, wireNames)
}

// ParsePinKind parses IO, INPUT or OUTPUT.
func ParsePinKind(s string) (PinKind, bool) {
	return lookupKind[PinKind](s, pinNames)
}

func lookupKind[T ~uint8](s string, names []string) (T, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "" {
		return 0, false
	}
	for i, n := range names {
		if n == up {
			return T(i), true
		}
	}
	return 0, false
}
