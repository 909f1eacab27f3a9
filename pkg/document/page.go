package document

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/pinout/pkg/errors"
)

// DPI limits and defaults.
const (
	MinDPI     = 50
	MaxDPI     = 1200
	DefaultDPI = 300
)

// DefaultPage is used until a PAGE command changes it.
const DefaultPage = "A4-L"

// Page is a named physical page size in millimetres.
type Page struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var pages = map[string]Page{
	"A4-P": {"A4-P", 210, 297},
	"A4-L": {"A4-L", 297, 210},
	"A3-P": {"A3-P", 297, 420},
	"A3-L": {"A3-L", 420, 297},
}

// LookupPage returns the preset called name, case-insensitively.
func LookupPage(name string) (Page, error) {
	p, ok := pages[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Page{}, errors.New(errors.ErrCodeInvalidPageSize,
			"unknown page %q (supported: %s)", name, strings.Join(PageNames(), ", "))
	}
	return p, nil
}

// PageNames lists the supported presets in sorted order.
func PageNames() []string {
	names := make([]string, 0, len(pages))
	for n := range pages {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ValidateDPI checks that dpi is within [MinDPI, MaxDPI].
func ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return errors.New(errors.ErrCodeInvalidDPI, "dpi %d outside [%d, %d]", dpi, MinDPI, MaxDPI)
	}
	return nil
}

// Resolution returns the page size in device pixels at dpi, rounded down.
func (p Page) Resolution(dpi int) (int, int) {
	return pixels(p.WidthMM, dpi), pixels(p.HeightMM, dpi)
}

func pixels(mm float64, dpi int) int {
	return int(math.Floor(mm * float64(dpi) / 25.4))
}
