package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
	"github.com/matzehuels/pinout/pkg/geom"
	"github.com/matzehuels/pinout/pkg/theme"
)

const header = `LABELS,DEFAULT,TYPE,GROUP,NAME,FUNC
BOX,PORT,black,1,white,1,1,80,20,3,3,0,0
BOXES,PORT
FILL COLOR,white,,,lightgrey,yellow
`

func mustParse(t *testing.T, src string) []command.Command {
	t.Helper()
	cmds, err := command.ParseString(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cmds
}

func render(t *testing.T, src string, opts ...Option) (*document.Document, error) {
	t.Helper()
	return Render(context.Background(), mustParse(t, src), opts...)
}

func elementsOf[T document.Element](doc *document.Document) []T {
	var out []T
	for _, e := range doc.Elements() {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestRenderSinglePin(t *testing.T) {
	doc, err := render(t, header+`DRAW
ANCHOR,500,100
PINSET,LEFT,UNPACKED,CENTER,CENTER,20,8,12,30,4,3
PIN,DIGITAL,IO,,ON
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if w, h := doc.Resolution(); w != 3507 || h != 2480 {
		t.Errorf("Resolution() = (%d, %d), want (3507, 2480)", w, h)
	}
	if got := doc.Count(document.KindCircle); got != 1 {
		t.Errorf("circles = %d, want 1", got)
	}
	if got := doc.Count(document.KindLine); got != 1 {
		t.Errorf("lines = %d, want 1", got)
	}
	rects := elementsOf[*document.Rect](doc)
	if len(rects) != 1 {
		t.Fatalf("rects = %d, want 1", len(rects))
	}
	texts := elementsOf[*document.Text](doc)
	if len(texts) != 1 || texts[0].Content != "ON" {
		t.Fatalf("texts = %+v, want one with ON", texts)
	}

	// Center (500, 110); leader 30 and gap 4 to the left, box width 80.
	want := rects[0].Box
	if want.X != 500-30-4-80 || want.W != 80 || want.H != 20 || want.Y != 100 {
		t.Errorf("label box = %+v", want)
	}
	if rects[0].Style.Fill != "lightgrey" || rects[0].RX != 3 {
		t.Errorf("label box style = %+v rx=%v", rects[0].Style, rects[0].RX)
	}

	line := elementsOf[*document.Line](doc)[0]
	if line.From.X != 500 || line.To.X != 470 || line.From.Y != 110 {
		t.Errorf("leader = %+v", line)
	}
}

func TestPinText(t *testing.T) {
	doc, err := render(t, header+`TEXT FONT,NOTE,Roboto,9,none,blue,normal,normal,normal
DRAW
ANCHOR,500,100
PINSET,RIGHT,UNPACKED,CENTER,CENTER,20,8,12,30,4,3
PINTEXT,DIGITAL,IO,,NOTE,D1,Free text
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	rects := elementsOf[*document.Rect](doc)
	if len(rects) != 1 {
		t.Fatalf("rects = %d, want 1", len(rects))
	}
	box := rects[0].Box
	if box.X != 500+30+4 || box.W != 80 {
		t.Errorf("label box = %+v", box)
	}

	var free *document.Text
	for _, txt := range elementsOf[*document.Text](doc) {
		if txt.Content == "Free text" {
			free = txt
		}
	}
	if free == nil {
		t.Fatal("free text not drawn")
	}
	if free.At.X <= box.X+box.W || free.Anchor != "start" {
		t.Errorf("free text at %+v anchor %q, want right of the label box", free.At, free.Anchor)
	}
	if free.Font.Family != "Roboto" || free.Font.Size != 9 || free.Fill != "blue" {
		t.Errorf("free text style = %+v fill %q", free.Font, free.Fill)
	}
}

func TestPinColumns(t *testing.T) {
	tests := []struct {
		name   string
		packed string
		wantX  float64
	}{
		{"unpacked reserves empty columns", "UNPACKED", 100 + 10 + 2 + 80 + 2},
		{"packed skips empty columns", "PACKED", 100 + 10 + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := render(t, header+`DRAW
ANCHOR,100,0
PINSET,RIGHT,`+tt.packed+`,LEFT,TOP,20,4,6,10,2,0
PIN,,,,,GPIO1
`)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			rects := elementsOf[*document.Rect](doc)
			if len(rects) != 1 {
				t.Fatalf("rects = %d, want 1", len(rects))
			}
			if rects[0].Box.X != tt.wantX {
				t.Errorf("box x = %v, want %v", rects[0].Box.X, tt.wantX)
			}
			if rects[0].Style.Fill != "yellow" {
				t.Errorf("FUNC box fill = %q, want yellow", rects[0].Style.Fill)
			}
		})
	}
}

func TestPinAdvancesCursor(t *testing.T) {
	doc, err := render(t, header+`DRAW
ANCHOR,100,0
PINSET,RIGHT,PACKED,CENTER,CENTER,20,4,6,10,2,0
PIN,DIGITAL
PIN,DIGITAL
ANCHOR,100,0
PIN,DIGITAL
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := elementsOf[*document.Line](doc)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, want := range []float64{10, 30, 10} {
		if lines[i].From.Y != want {
			t.Errorf("line %d y = %v, want %v", i, lines[i].From.Y, want)
		}
	}
}

func TestPinMarkersAndLeaders(t *testing.T) {
	doc, err := render(t, header+`GROUP,UART,blue,0.5
TYPE,INPUT,red,1
DRAW
ANCHOR,0,0
PINSET,RIGHT,PACKED,CENTER,CENTER,20,8,12,30,2,4
PIN,PWM,INPUT,UART
PIN,ANALOG,OUTPUT
PIN,HS-ANALOG
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := doc.Count(document.KindPolyline); got != 3 {
		t.Errorf("polylines = %d, want 3", got)
	}
	if got := doc.Count(document.KindPolygon); got != 2 {
		t.Errorf("polygons = %d, want 2", got)
	}
	circles := elementsOf[*document.Circle](doc)
	if len(circles) != 1 || circles[0].Style.Fill != "blue" || circles[0].R != 6 {
		t.Errorf("group indicator = %+v", circles)
	}

	tri := elementsOf[*document.Polygon](doc)
	if tri[0].Style.Fill != "red" {
		t.Errorf("input marker fill = %q, want red", tri[0].Style.Fill)
	}
	// The input tip points back at the body, left of the pin on a RIGHT row.
	if tip := tri[0].Points[0]; tip.X >= 0 {
		t.Errorf("input tip x = %v, want < 0", tip.X)
	}
	if tip := tri[1].Points[0]; tip.X <= 0 {
		t.Errorf("output tip x = %v, want > 0", tip.X)
	}
}

func TestBoxCaption(t *testing.T) {
	doc, err := render(t, header+`DRAW
BOX,PORT,10,20,,,LEFT,TOP,first\nsecond
BOX,PORT,10,20,100,40
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	rects := elementsOf[*document.Rect](doc)
	if len(rects) != 2 || rects[1].Box.W != 100 || rects[1].Box.H != 40 || rects[0].Box.W != 80 {
		t.Fatalf("rects = %+v", rects)
	}
	texts := elementsOf[*document.Text](doc)
	if len(texts) != 2 || texts[0].Content != "first" || texts[1].Content != "second" {
		t.Fatalf("texts = %+v", texts)
	}
	if texts[0].At.X != 10 || texts[0].Anchor != "start" {
		t.Errorf("left justified text at %v anchor %q", texts[0].At, texts[0].Anchor)
	}
	if d := texts[1].At.Y - texts[0].At.Y; d != 10 {
		t.Errorf("line spacing = %v, want font size 10", d)
	}
}

func TestMessage(t *testing.T) {
	doc, err := render(t, `LABELS,DEFAULT
TEXT FONT,TITLE,serif,20,none,navy,italic,bold,normal
DRAW
MESSAGE,100,200,30,TITLE,,LEFT,CENTER
TEXT,,red,Hello ,
TEXT,,,world,
TEXT,,,!
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	texts := elementsOf[*document.Text](doc)
	if len(texts) != 1 {
		t.Fatalf("texts = %d, want 1 (flushed at end of input)", len(texts))
	}
	msg := texts[0]
	if msg.Font.Family != "serif" || msg.Font.Size != 20 || msg.Anchor != "start" {
		t.Errorf("message font = %+v anchor %q", msg.Font, msg.Anchor)
	}
	if len(msg.Spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(msg.Spans))
	}
	if msg.Spans[0].At != nil || msg.Spans[0].Fill != "red" {
		t.Errorf("first span = %+v", msg.Spans[0])
	}
	if msg.Spans[1].Fill != "navy" {
		t.Errorf("default span color = %q, want font color navy", msg.Spans[1].Fill)
	}
	for i, wantY := range []float64{230, 260} {
		at := msg.Spans[i+1].At
		if at == nil || at.X != 100 || at.Y != wantY {
			t.Errorf("span %d at %v, want (100, %v)", i+1, at, wantY)
		}
	}
}

func TestMessageSessions(t *testing.T) {
	doc, err := render(t, `LABELS,DEFAULT
DRAW
MESSAGE,0,0
TEXT,,,one
MESSAGE,0,50
TEXT,,,two
END MESSAGE
END MESSAGE
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	texts := elementsOf[*document.Text](doc)
	if len(texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(texts))
	}
	// Reopening flushes "one" before "two" is started.
	for i, want := range []string{"one", "two"} {
		if len(texts[i].Spans) != 1 || texts[i].Spans[0].Content != want {
			t.Errorf("message %d spans = %+v, want one span %q", i, texts[i].Spans, want)
		}
	}
	if texts[0].Font.Family != "sans-serif" || texts[0].Font.Size != 12 {
		t.Errorf("default message font = %+v", texts[0].Font)
	}

	// The second END MESSAGE has no open session and adds nothing.
	once, err := render(t, `LABELS,DEFAULT
DRAW
MESSAGE,0,0
TEXT,,,one
MESSAGE,0,50
TEXT,,,two
END MESSAGE
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := len(doc.Elements()), len(once.Elements()); got != want {
		t.Errorf("elements after a second END MESSAGE = %d, want %d", got, want)
	}

	_, err = render(t, "LABELS,DEFAULT\nDRAW\nTEXT,,,orphan")
	if !errors.Is(err, errors.ErrCodeNoOpenMessage) {
		t.Errorf("TEXT without MESSAGE = %v, want NO_OPEN_MESSAGE", err)
	}
}

func TestPhaseErrors(t *testing.T) {
	tests := []struct {
		name      string
		cmds      []command.Command
		wantIndex int
	}{
		{"draw command in setup", []command.Command{&command.Anchor{X: 1, Y: 1}}, 0},
		{"setup command in draw", []command.Command{
			&command.Labels{Default: "DEFAULT"}, &command.Draw{}, &command.DPI{Value: 300},
		}, 2},
		{"labels after draw", []command.Command{&command.Draw{}, &command.Labels{Default: "DEFAULT"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(context.Background(), tt.cmds)
			if !errors.Is(err, errors.ErrCodePhase) {
				t.Fatalf("err = %v, want PHASE_ERROR", err)
			}
			if got := errors.CommandIndex(err); got != tt.wantIndex {
				t.Errorf("CommandIndex = %d, want %d", got, tt.wantIndex)
			}
		})
	}
}

func TestDrawValidation(t *testing.T) {
	_, err := render(t, "LABELS,DEFAULT,TYPE,GROUP,NAME\nBOXES,MISSING\nDRAW")
	if !errors.Is(err, errors.ErrCodeUndefinedBox) {
		t.Fatalf("err = %v, want UNDEFINED_BOX", err)
	}
	if got := errors.CommandIndex(err); got != 2 {
		t.Errorf("CommandIndex = %d, want 2", got)
	}

	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Process(context.Background(), mustParse(t, header+"DRAW\nDRAW")); err != nil {
		t.Errorf("second DRAW = %v, want nil", err)
	}
	if r.Phase() != command.PhaseDraw {
		t.Errorf("Phase() = %v, want draw", r.Phase())
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"duplicate labels", "LABELS,DEFAULT,A\nLABELS,DEFAULT,B", errors.ErrCodeDuplicateLabels},
		{"wrong leading label", "LABELS,BASE,TYPE,GROUP,A", errors.ErrCodeInvalidLabels},
		{"wrong type label", "LABELS,DEFAULT,KIND,GROUP,A", errors.ErrCodeInvalidLabels},
		{"repeated label", "LABELS,DEFAULT,TYPE,GROUP,A,A", errors.ErrCodeInvalidLabels},
		{"page", "PAGE,Letter", errors.ErrCodeInvalidPageSize},
		{"dpi", "DPI,10", errors.ErrCodeInvalidDPI},
		{"pin before pinset", "LABELS,DEFAULT\nDRAW\nPIN,DIGITAL", errors.ErrCodeRowNotConfigured},
		{"undefined group", "LABELS,DEFAULT\nDRAW\nPINSET,LEFT,PACKED,CENTER,CENTER,1,1,1,1,1,1\nPIN,,,I2C", errors.ErrCodeUndefinedGroup},
		{"font link", "LABELS,DEFAULT\nDRAW\nGOOGLEFONT,ftp://fonts", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render(t, tt.src)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestStrictReferences(t *testing.T) {
	src := "LABELS,DEFAULT\nDRAW\nPINSET,LEFT,PACKED,CENTER,CENTER,1,1,1,1,1,1\nPIN,POWER"
	if _, err := render(t, src); err != nil {
		t.Errorf("lenient render = %v", err)
	}
	if _, err := render(t, src, WithStrictReferences()); !errors.Is(err, errors.ErrCodeUndefinedWire) {
		t.Errorf("strict render = %v, want UNDEFINED_WIRE", err)
	}
	if _, err := render(t, "LABELS,DEFAULT\nDRAW\nBOX,NOPE,1,1", WithStrictReferences()); !errors.Is(err, errors.ErrCodeUndefinedBox) {
		t.Errorf("strict box = %v, want UNDEFINED_BOX", err)
	}
}

func TestSetupStopsAtDraw(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	cmds := mustParse(t, header+"DRAW\nPIN,DIGITAL")
	if err := r.Setup(cmds); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := r.Store().Text(theme.Label("FUNC"), theme.FillColor, ""); got != "yellow" {
		t.Errorf("FUNC fill = %q, want yellow", got)
	}
	if len(r.Document().Elements()) != 0 {
		t.Error("Setup drew elements")
	}
}

func TestOptions(t *testing.T) {
	doc, err := Render(context.Background(), nil, WithPage("A3-P"), WithDPI(100))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Page().Name != "A3-P" || doc.DPI() != 100 {
		t.Errorf("page = %s @ %d", doc.Page().Name, doc.DPI())
	}
	if _, err := New(WithDPI(5)); !errors.Is(err, errors.ErrCodeInvalidDPI) {
		t.Errorf("New(WithDPI(5)) = %v, want INVALID_DPI", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, nil); err == nil {
		t.Error("Render with cancelled context succeeded")
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImages(t *testing.T) {
	assets := fstest.MapFS{
		"board.png": {Data: testPNG(t, 40, 20)},
		"usb.svg":   {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="12"></svg>`)},
		"raw.svg":   {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 48 16"></svg>`)},
		"notes.txt": {Data: []byte("hello")},
	}

	doc, err := render(t, `LABELS,DEFAULT
DRAW
IMAGE,board.png,50%,50%
IMAGE,board.png,100,100,20,,0,0,20,10,90
ICON,usb.svg,10,10
ICON,raw.svg,10,10,96
IMAGE,board.png,100,100,-20,-10
ICON,usb.svg,50,50,-48
`, WithAssets(assets))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	imgs := elementsOf[*document.Image](doc)
	if len(imgs) != 6 {
		t.Fatalf("images = %d, want 6", len(imgs))
	}

	if c := imgs[0].Box.Center(); math.Abs(c.X-3507.0/2) > 1e-6 || math.Abs(c.Y-2480.0/2) > 1e-6 {
		t.Errorf("centered image at %v", c)
	}
	if imgs[0].Box.W != 40 || !strings.HasPrefix(imgs[0].Href, "data:image/png;base64,") {
		t.Errorf("natural image = %+v", imgs[0].Box)
	}
	if imgs[1].Box.W != 20 || imgs[1].Box.H != 10 || imgs[1].Rotation != 90 {
		t.Errorf("cropped image = %+v rot %v", imgs[1].Box, imgs[1].Rotation)
	}
	if imgs[2].Box.W != 24 || imgs[2].Box.H != 12 || !strings.HasPrefix(imgs[2].Href, "data:image/svg+xml;base64,") {
		t.Errorf("icon = %+v", imgs[2].Box)
	}
	if imgs[3].Box.W != 96 || imgs[3].Box.H != 16 {
		t.Errorf("viewBox icon = %+v", imgs[3].Box)
	}
	// Negative sizes count by magnitude; the box stays centered on (x, y).
	if got, want := imgs[4].Box, (geom.Rect{X: 90, Y: 95, W: 20, H: 10}); got != want {
		t.Errorf("negative-size image = %+v, want %+v", got, want)
	}
	if got := imgs[5].Box; got.W != 48 || got.H != 12 {
		t.Errorf("negative-size icon = %+v", got)
	}

	errTests := []struct {
		name string
		cmd  string
		code errors.Code
	}{
		{"missing", "IMAGE,gone.png", errors.ErrCodeMissingAsset},
		{"partial crop", "IMAGE,board.png,1,1,,,0,0,10", errors.ErrCodePartialCrop},
		{"crop too wide", "IMAGE,board.png,1,1,,,30,0,20,10", errors.ErrCodeInvalidCropBounds},
		{"crop too tall", "IMAGE,board.png,1,1,,,0,15,20,10", errors.ErrCodeInvalidCropBounds},
		{"not an image", "IMAGE,notes.txt", errors.ErrCodeInvalidFormat},
		{"icon not svg", "ICON,board.png", errors.ErrCodeInvalidFormat},
		{"traversal", "ICON,../secret.svg", errors.ErrCodeInvalidPath},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := render(t, "LABELS,DEFAULT\nDRAW\n"+tt.cmd, WithAssets(assets))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSVGOutput(t *testing.T) {
	doc, err := render(t, header+`DRAW
GOOGLEFONT,https://fonts.googleapis.com/css2?family=Roboto
ANCHOR,500,100
PINSET,LEFT,UNPACKED,CENTER,CENTER,20,8,12,30,4,3
PIN,DIGITAL,IO,,ON
`)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(doc.SVG())
	for _, want := range []string{"<svg", "@import url(", "<circle", "<line", ">ON</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}
