package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pinout/pkg/theme"
)

// Palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// status is a one-line message kind: its marker and how the text is styled.
type status struct {
	icon string
	mark lipgloss.Style
	text lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed), lipgloss.NewStyle()}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow), lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

// uiOut receives the human-readable status lines. Logs go to stderr.
var uiOut io.Writer = os.Stdout

func (s status) print(format string, args ...any) {
	fmt.Fprintln(uiOut, s.mark.Render(s.icon)+" "+s.text.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { statusOK.print(format, args...) }
func printError(format string, args ...any)   { statusFail.print(format, args...) }
func printWarning(format string, args ...any) { statusWarn.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printStats(commands, elements int, cached bool) {
	fmt.Fprintln(uiOut, formatStats(commands, elements, cached))
}

// formatStats renders "  N commands · M elements · cached|fresh", leaving
// out zero counts.
func formatStats(commands, elements int, cached bool) string {
	var parts []string
	if commands > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d commands", commands)))
	}
	if elements > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d elements", elements)))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	return "  " + strings.Join(parts, styleDim.Render(" · "))
}

// themeTable lists the themes keys of s with the attributes they set, sorted.
func themeTable(s *theme.Store, keys []theme.Key) string {
	var rows [][]string
	for _, k := range keys {
		t, _ := s.Theme(k)
		attrs := make([]string, 0, len(t))
		for a, v := range t {
			attrs = append(attrs, fmt.Sprintf("%s=%s", a, v))
		}
		slices.Sort(attrs)
		rows = append(rows, []string{k.String(), fmt.Sprint(len(attrs)), strings.Join(attrs, ", ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Theme", "Attrs", "Values").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 1:
				return styleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
