package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidDPI, "dpi %d out of range", 20), "INVALID_DPI: dpi 20 out of range"},
		{Wrap(ErrCodeMissingAsset, fs.ErrNotExist, "open %s", "board.png"), "MISSING_ASSET: open board.png: file does not exist"},
		{AtCommand(4, "ANCHOR", New(ErrCodePhase, "ANCHOR needs draw phase")), "command 4 (ANCHOR): PHASE_ERROR: ANCHOR needs draw phase"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeMissingAsset, fs.ErrNotExist, "open board.png")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see the wrapped cause")
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Error("Unwrap should return the cause")
	}
	if New(ErrCodeInternal, "x").Cause != nil {
		t.Error("New should not set a cause")
	}
}

// A failure as the CLI sees it: asset error, attached to its command, then
// wrapped with the file name.
func renderFailure() error {
	asset := Wrap(ErrCodeMissingAsset, fs.ErrNotExist, "asset %q not found", "usb.svg")
	return fmt.Errorf("board.csv: %w", AtCommand(17, "ICON", asset))
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", New(ErrCodePartialCrop, "x"), ErrCodePartialCrop},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodePhase, "inner"), "outer"), ErrCodeInternal},
		{"through command and fmt", renderFailure(), ErrCodeMissingAsset},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
		})
	}
	if Is(renderFailure(), ErrCodePhase) {
		t.Error("Is matched a different code")
	}
	if Is(errors.New("plain"), "") {
		t.Error("the empty code should never match")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidInput, "no description file given"), "no description file given"},
		{errors.New("plain error"), "plain error"},
		{AtCommand(7, "PAGE", New(ErrCodeInvalidPageSize, "unknown page B5")), "command 7 (PAGE): unknown page B5"},
		{renderFailure(), `command 17 (ICON): asset "usb.svg" not found`},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage() = %q, want %q", got, tt.want)
		}
	}
}

func TestCommandIndex(t *testing.T) {
	if AtCommand(1, "PIN", nil) != nil {
		t.Fatal("AtCommand(nil) should stay nil")
	}
	if got := CommandIndex(renderFailure()); got != 17 {
		t.Errorf("CommandIndex() = %d, want 17", got)
	}
	if got := CommandIndex(errors.New("x")); got != -1 {
		t.Errorf("CommandIndex(plain) = %d, want -1", got)
	}
}
