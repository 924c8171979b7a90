package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type waitDoneMsg struct{}

type waitModel struct {
	label   string
	spinner spinner.Model
	done    <-chan struct{}
	quit    bool
}

func newWaitModel(label string, done <-chan struct{}) *waitModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return &waitModel{label: label, spinner: sp, done: done}
}

func (m *waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *waitModel) listen() tea.Cmd {
	return func() tea.Msg {
		<-m.done
		return waitDoneMsg{}
	}
}

func (m *waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case waitDoneMsg:
		m.quit = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.quit {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *waitModel) View() string {
	if m.quit {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// Wait renders a spinner with label until done closes. Callers that are not
// on a terminal should block on done directly instead.
func Wait(label string, done <-chan struct{}) {
	model := newWaitModel(label, done)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	if _, err := program.Run(); err != nil {
		<-done
	}
}
