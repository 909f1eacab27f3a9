package pipeline

import (
	"bytes"
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/pinout/pkg/cache"
	"github.com/matzehuels/pinout/pkg/errors"
)

const description = `LABELS,DEFAULT,TYPE,GROUP,NAME
BOX,PORT,black,1,white,1,1,80,20,3,3,0,0
BOXES,PORT
DRAW
ANCHOR,500,100
PINSET,LEFT,UNPACKED,CENTER,CENTER,20,8,12,30,4,3
PIN,DIGITAL,IO,,ON
`

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24"></svg>`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Description: []byte(description)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Name != "description" {
		t.Errorf("Name = %q", opts.Name)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty", Options{}, errors.ErrCodeInvalidInput},
		{"format", Options{Description: []byte("x"), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"page", Options{Description: []byte("x"), Page: "A9"}, errors.ErrCodeInvalidPageSize},
		{"dpi", Options{Description: []byte("x"), DPI: -1}, errors.ErrCodeInvalidDPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{Description: []byte(description)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	svg := result.Artifacts[FormatSVG]
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(">ON</text>")) {
		t.Errorf("svg = %s", svg)
	}
	if result.Stats.Commands != 7 {
		t.Errorf("Commands = %d, want 7", result.Stats.Commands)
	}
	if result.Stats.Elements == 0 || result.Document == nil {
		t.Error("expected rendered document")
	}
	if result.CacheInfo.Hit {
		t.Error("null cache reported a hit")
	}
}

func TestExecuteExample(t *testing.T) {
	desc, err := os.ReadFile("../../examples/board.csv")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Name:        "board",
		Description: desc,
		Strict:      true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.OffPage) != 0 {
		t.Errorf("OffPage = %v, want none", result.OffPage)
	}
	for _, want := range []string{">Dev board pinout</text>", ">GPIO21</text>", ">12-bit ADC</text>"} {
		if !bytes.Contains(result.Artifacts[FormatSVG], []byte(want)) {
			t.Errorf("svg missing %s", want)
		}
	}
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()
	assets := fstest.MapFS{"chip.svg": {Data: []byte(iconSVG)}}
	desc := []byte(description + "ICON,chip.svg,10,10\n")

	first, err := runner.Execute(ctx, Options{Description: desc, Assets: assets})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Fatal("first run should miss")
	}

	second, err := runner.Execute(ctx, Options{Description: desc, Assets: assets})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.Hit || second.Document != nil {
		t.Error("second run should come from the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	refreshed, err := runner.Execute(ctx, Options{Description: desc, Assets: assets, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.Hit {
		t.Error("refresh should bypass the cache")
	}

	// Editing an asset invalidates the entry.
	assets["chip.svg"] = &fstest.MapFile{Data: []byte(`<svg width="48" height="48"></svg>`)}
	edited, err := runner.Execute(ctx, Options{Description: desc, Assets: assets})
	if err != nil {
		t.Fatalf("edited Execute: %v", err)
	}
	if edited.CacheInfo.Hit {
		t.Error("asset change should miss")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := runner.Execute(ctx, Options{Description: []byte(description + "IMAGE,gone.png\n")})
	if !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("missing asset: err = %v", err)
	}
	if idx := errors.CommandIndex(err); idx != 7 {
		t.Errorf("CommandIndex = %d, want 7", idx)
	}

	_, err = runner.Execute(ctx, Options{Description: []byte("PIN,DIGITAL,IO,,ON\n")})
	if !errors.Is(err, errors.ErrCodePhase) {
		t.Errorf("phase: err = %v", err)
	}
}

func TestExportConverters(t *testing.T) {
	origPNG, origPDF := toPNG, toPDF
	t.Cleanup(func() { toPNG, toPDF = origPNG, origPDF })

	var gotDPI int
	toPNG = func(_ context.Context, svg []byte, dpi int) ([]byte, error) {
		gotDPI = dpi
		return []byte("png"), nil
	}
	toPDF = func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeUnsupported, "rsvg-convert not found")
	}

	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()
	result, err := runner.Execute(ctx, Options{
		Description: []byte(description),
		Formats:     []string{FormatSVG, FormatPNG},
		DPI:         150,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(result.Artifacts[FormatPNG]) != "png" || gotDPI != 150 {
		t.Errorf("png = %q at dpi %d", result.Artifacts[FormatPNG], gotDPI)
	}

	_, err = runner.Execute(ctx, Options{Description: []byte(description), Formats: []string{FormatPDF}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("pdf: err = %v, want UNSUPPORTED", err)
	}
}
