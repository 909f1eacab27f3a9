package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

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

// runCLI executes the root command with an isolated config and cache.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDescription(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.csv")
	if err := os.WriteFile(path, []byte(description), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		opts   renderOpts
		input  string
		format string
		multi  bool
		want   string
	}{
		{"beside input", renderOpts{formats: []string{"svg"}}, "dir/board.csv", "svg", false, "dir/board.svg"},
		{"config dir", renderOpts{outDir: "out", formats: []string{"svg"}}, "dir/board.csv", "svg", false, "out/board.svg"},
		{"explicit file", renderOpts{output: "x.svg", formats: []string{"svg"}}, "board.csv", "svg", false, "x.svg"},
		{"base path", renderOpts{output: "x.svg", formats: []string{"svg", "png"}}, "board.csv", "png", false, "x.png"},
		{"directory", renderOpts{output: "out", formats: []string{"svg", "pdf"}}, "board.csv", "pdf", false, "out/board.pdf"},
		{"multiple inputs", renderOpts{output: "out", formats: []string{"svg"}}, "a/board.csv", "svg", true, "out/board.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.opts, tt.input, tt.format, tt.multi); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeDescription(t)
	if _, err := runCLI(t, "render", input, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := strings.TrimSuffix(input, ".csv") + ".svg"
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte(">ON</text>")) {
		t.Errorf("output missing label: %s", data)
	}

	_, err = runCLI(t, "render", input, "--no-cache")
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "--overwrite") {
		t.Errorf("second render err = %v, want overwrite refusal", err)
	}
	if _, err := runCLI(t, "render", input, "--no-cache", "--overwrite"); err != nil {
		t.Errorf("render --overwrite: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	input := writeDescription(t)

	_, err := runCLI(t, "render", input, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format err = %v", err)
	}

	_, err = runCLI(t, "render", input, "--no-cache", "--dpi", "5", "-o", filepath.Join(t.TempDir(), "x.svg"))
	if !errors.Is(err, errors.ErrCodeInvalidDPI) {
		t.Errorf("bad dpi err = %v", err)
	}

	_, err = runCLI(t, "render", filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Error("missing input should fail")
	}
}

func TestRenderCommandMultipleInputs(t *testing.T) {
	good := writeDescription(t)
	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("PIN,DIGITAL,IO,,ON\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "render", bad, good, "--no-cache")
	if !errors.Is(err, errors.ErrCodePhase) || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("err = %v, want one PHASE_ERROR failure", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(good, ".csv") + ".svg"); err != nil {
		t.Errorf("good input should still render: %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	input := writeDescription(t)
	if _, err := runCLI(t, "check", input); err != nil {
		t.Errorf("check: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("PIN,DIGITAL,IO,,ON\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "check", bad)
	if !errors.Is(err, errors.ErrCodePhase) {
		t.Errorf("check bad err = %v, want PHASE_ERROR", err)
	}
}

func TestThemesCommand(t *testing.T) {
	input := writeDescription(t)

	out, err := runCLI(t, "themes", input)
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, want := range []string{"DEFAULT", "BOX_PORT"} {
		if !strings.Contains(out, want) {
			t.Errorf("themes output missing %q:\n%s", want, out)
		}
	}

	graph := filepath.Join(t.TempDir(), "themes.dot")
	if _, err := runCLI(t, "themes", input, "--graph", graph); err != nil {
		t.Fatalf("themes --graph: %v", err)
	}
	dot, err := os.ReadFile(graph)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph themes")) {
		t.Errorf("graph = %s", dot)
	}

	_, err = runCLI(t, "themes", input, "--graph", "themes.txt")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad graph ext err = %v", err)
	}
}

func TestThemesCommandFilter(t *testing.T) {
	input := writeDescription(t)

	out, err := runCLI(t, "themes", input, "--theme", "BOX_PORT")
	if err != nil {
		t.Fatalf("themes --theme: %v", err)
	}
	if !strings.Contains(out, "BOX_PORT") {
		t.Errorf("filtered output missing BOX_PORT:\n%s", out)
	}

	_, err = runCLI(t, "themes", input, "--theme", "BOX_MISSING")
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "BOX_MISSING") {
		t.Errorf("unknown theme err = %v, want INVALID_INPUT naming BOX_MISSING", err)
	}
}

func TestCheckCommandFonts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fonts.csv")
	src := description + "GOOGLEFONT,https://fonts.googleapis.com/css2?family=Roboto\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	buf := captureUI(t)
	if _, err := runCLI(t, "check", path); err != nil {
		t.Fatalf("check: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Fonts") || !strings.Contains(got, "family=Roboto") {
		t.Errorf("check output missing font link:\n%s", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheInfoCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "info")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"backend:   file", "entries:   0", "size:      0 B"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache info missing %q:\n%s", want, out)
		}
	}
	if _, err := runCLI(t, "cache", "clear", "--expired"); err != nil {
		t.Errorf("cache clear --expired: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
		3 << 30: "3.0 GiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
