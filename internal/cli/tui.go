package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pinout/pkg/command"
	"github.com/matzehuels/pinout/pkg/errors"
)

var (
	pickCursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickInvalidStyle = lipgloss.NewStyle().Foreground(colorRed)
)

type pickerKeys struct {
	Up, Down, Select, Quit key.Binding
}

func (k pickerKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Up, k.Down, k.Select, k.Quit} }
func (k pickerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "render")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// candidate is a description file offered by the picker, summarized by a
// parse of its contents.
type candidate struct {
	Path     string
	ModTime  time.Time
	Commands int
	Page     string // last PAGE command, "" when the description sets none
	Err      error  // parse failure; such files are listed but cannot be picked
}

// picker is the bubbletea model behind `pinout render` without arguments.
type picker struct {
	files  []candidate
	cursor int
	offset int
	rows   int // visible table rows
	chosen string

	keys pickerKeys
	help help.Model
}

func newPicker(files []candidate) picker {
	return picker{files: files, rows: 15, keys: defaultPickerKeys, help: help.New()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-8, 5)
		m.help.Width = msg.Width
		m.offset = clampOffset(m.offset, m.cursor, m.rows)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.cursor = max(min(m.cursor+1, len(m.files)-1), 0)
		case key.Matches(msg, m.keys.Select):
			if len(m.files) > 0 && m.files[m.cursor].Err == nil {
				m.chosen = m.files[m.cursor].Path
				return m, tea.Quit
			}
		}
		m.offset = clampOffset(m.offset, m.cursor, m.rows)
	}
	return m, nil
}

// clampOffset scrolls the window of rows lines so the cursor stays in view.
func clampOffset(offset, cursor, rows int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+rows {
		return cursor - rows + 1
	}
	return offset
}

func (m picker) View() string {
	end := min(m.offset+m.rows, len(m.files))
	var rows [][]string
	for i := m.offset; i < end; i++ {
		f := m.files[i]
		mark := "  "
		if i == m.cursor {
			mark = "▸ "
		}
		cmds, page := strconv.Itoa(f.Commands), f.Page
		if f.Err != nil {
			cmds, page = "invalid", ""
		}
		if page == "" {
			page = "default"
		}
		rows = append(rows, []string{mark, filepath.Base(f.Path), cmds, page, formatAge(time.Since(f.ModTime), f.ModTime)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Description", "Commands", "Page", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case m.files[m.offset+row].Err != nil && col == 2:
				return pickInvalidStyle
			case m.offset+row == m.cursor:
				return pickCursorStyle
			case col >= 3:
				return styleDim
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(styleTitle.Render("Pick a description to render") + "\n")
	b.WriteString(m.help.View(m.keys) + "\n\n")
	b.WriteString(t.Render() + "\n\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.files))))
	if len(m.files) > 0 {
		if err := m.files[m.cursor].Err; err != nil {
			b.WriteString("\n" + pickInvalidStyle.Render("  "+errors.UserMessage(err)))
		}
	}
	return b.String()
}

// findDescriptions lists and parses the description files in dir, newest
// first.
func findDescriptions(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "list %s", dir)
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), descriptionExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		c := candidate{Path: filepath.Join(dir, e.Name()), ModTime: info.ModTime()}
		c.summarize()
		files = append(files, c)
	}
	slices.SortFunc(files, func(a, b candidate) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

func (c *candidate) summarize() {
	f, err := os.Open(c.Path)
	if err != nil {
		c.Err = err
		return
	}
	defer f.Close()
	cmds, err := command.Parse(f)
	if err != nil {
		c.Err = err
		return
	}
	c.Commands = len(cmds)
	for _, cmd := range cmds {
		if p, ok := cmd.(*command.Page); ok {
			c.Page = p.Name
		}
	}
}

// pickDescription runs the picker over dir. It returns "" when the user quits.
func pickDescription(dir string) (string, error) {
	files, err := findDescriptions(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no %s files in %s", descriptionExt, dir)
	}
	final, err := tea.NewProgram(newPicker(files)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "file picker")
	}
	return final.(picker).chosen, nil
}

// formatAge renders age relative to now, switching to the date after a week.
func formatAge(age time.Duration, t time.Time) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}
