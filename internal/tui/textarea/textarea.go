package textarea

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by Edit when the editor is closed without saving.
var ErrCancelled = errors.New("edit cancelled")

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

type model struct {
	title    string
	textarea textarea.Model
	saved    bool
}

func newModel(title, initial string) model {
	ti := textarea.New()
	ti.Placeholder = "..."
	ti.SetHeight(20)
	ti.CharLimit = 0
	ti.SetWidth(100)
	ti.SetValue(initial)
	ti.Focus()

	return model{title: title, textarea: ti}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			if m.textarea.Focused() {
				m.textarea.Blur()
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.saved = true
			return m, tea.Quit
		default:
			if !m.textarea.Focused() {
				cmds = append(cmds, m.textarea.Focus())
			}
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n",
		titleStyle.Render(m.title),
		m.textarea.View(),
		"(ctrl+s to save, ctrl+c to cancel)",
	)
}

// Edit opens a full screen editor pre-filled with initial and returns the
// text when the user saves.
func Edit(title, initial string) (string, error) {
	final, err := tea.NewProgram(newModel(title, initial)).Run()
	if err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}
	m := final.(model)
	if !m.saved {
		return "", ErrCancelled
	}
	return m.textarea.Value(), nil
}
