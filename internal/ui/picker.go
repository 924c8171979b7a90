// Package ui provides the interactive action picker and the terminal
// notification sink.
package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

type pickerModel struct {
	title    string
	lines    []string
	cursor   int
	selected map[int]bool
	width    int
	accepted bool
	done     bool
}

func newPickerModel(title string, lines []string) *pickerModel {
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = norm.NFC.String(line)
	}
	return &pickerModel{
		title:    title,
		lines:    normalized,
		selected: make(map[int]bool),
		width:    80,
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.lines)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.lines {
				m.selected[i] = true
			}
		case "enter":
			m.accepted = true
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	pickerCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pickerSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pickerHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *pickerModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(m.title))
	b.WriteString("\n\n")

	lineWidth := m.width - 8
	if lineWidth < 20 {
		lineWidth = 20
	}
	for i, line := range m.lines {
		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursorStyle.Render("> ")
		}
		mark := "[ ]"
		text := runewidth.Truncate(line, lineWidth, "…")
		if m.selected[i] {
			mark = pickerSelectedStyle.Render("[x]")
			text = pickerSelectedStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, mark, text)
	}
	b.WriteString("\n")
	b.WriteString(pickerHelpStyle.Render("space toggle · a all · enter apply · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// picks returns the confirmed selection; enter with nothing toggled picks
// the line under the cursor.
func (m *pickerModel) picks() []int {
	if !m.accepted {
		return nil
	}
	var out []int
	for i := range m.lines {
		if m.selected[i] {
			out = append(out, i)
		}
	}
	if len(out) == 0 && m.cursor >= 0 && m.cursor < len(m.lines) {
		out = append(out, m.cursor)
	}
	return out
}

// Picker runs a full-screen multi-select over the terminal. It implements
// the engine's Selector.
type Picker struct{}

// Pick presents lines under title and returns the chosen indices. A cancel
// returns an empty selection, not an error.
func (Picker) Pick(title string, lines []string) ([]int, error) {
	model := newPickerModel(title, lines)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(*pickerModel)
	if !ok {
		return nil, fmt.Errorf("picker returned unexpected model %T", final)
	}
	return m.picks(), nil
}
