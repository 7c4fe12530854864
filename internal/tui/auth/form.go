// Package auth holds the interactive login and registration forms.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authsvc "github.com/Paintersrp/dash/internal/services/auth"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	cursorStyle  = focusedStyle.Copy()
	noStyle      = lipgloss.NewStyle()

	focusedButton = focusedStyle.Render("[ Submit ]")
	blurredButton = fmt.Sprintf("[ %s ]", blurredStyle.Render("Submit"))
)

var ErrCancelled = errors.New("cancelled")

type Field struct {
	Placeholder string
	Secret      bool
	Limit       int
}

type submitResult struct{ err error }

// Form is a column of text inputs followed by a submit button. Submit is
// called with the values in field order; a returned error is shown under
// the form and the user may try again.
type Form struct {
	title      string
	focusIndex int
	inputs     []textinput.Model
	submit     func(values []string) error
	busy       bool
	err        error
	done       bool
	cancelled  bool
}

func NewForm(title string, fields []Field, submit func(values []string) error) Form {
	m := Form{title: title, inputs: make([]textinput.Model, len(fields)), submit: submit}

	for i, f := range fields {
		t := textinput.New()
		t.Cursor.Style = cursorStyle
		t.Placeholder = f.Placeholder
		t.CharLimit = 64
		if f.Limit > 0 {
			t.CharLimit = f.Limit
		}
		if f.Secret {
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}
		if i == 0 {
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		}
		m.inputs[i] = t
	}
	return m
}

func (m Form) Init() tea.Cmd {
	return textinput.Blink
}

func (m Form) Values() []string {
	out := make([]string, len(m.inputs))
	for i := range m.inputs {
		out[i] = m.inputs[i].Value()
	}
	return out
}

func (m Form) Err() error {
	if m.cancelled {
		return ErrCancelled
	}
	return m.err
}

func (m Form) Done() bool { return m.done }

func (m Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResult:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "tab", "shift+tab", "enter", "up", "down":
			if key == "enter" && m.focusIndex == len(m.inputs) {
				if m.busy {
					return m, nil
				}
				m.busy = true
				values := m.Values()
				submit := m.submit
				return m, func() tea.Msg { return submitResult{err: submit(values)} }
			}

			if key == "up" || key == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
					continue
				}
				m.inputs[i].Blur()
				m.inputs[i].PromptStyle = noStyle
				m.inputs[i].TextStyle = noStyle
			}
			return m, tea.Batch(cmds...)
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Form) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(focusedStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		if i < len(m.inputs)-1 {
			b.WriteRune('\n')
		}
	}

	button := blurredButton
	if m.focusIndex == len(m.inputs) {
		button = focusedButton
	}
	fmt.Fprintf(&b, "\n\n%s\n", button)
	if m.busy {
		b.WriteString(blurredStyle.Render("Working…") + "\n")
	} else if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func run(m Form) error {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	return final.(Form).Err()
}

// Login asks for email and password until the server accepts them.
func Login(ctx context.Context, svc *authsvc.Service) error {
	return run(NewForm("Log in", []Field{
		{Placeholder: "Email"},
		{Placeholder: "Password", Secret: true},
	}, LoginSubmit(ctx, svc)))
}

func LoginSubmit(ctx context.Context, svc *authsvc.Service) func([]string) error {
	return func(v []string) error {
		email, password := strings.TrimSpace(v[0]), v[1]
		if email == "" || password == "" {
			return errors.New("email and password are required")
		}
		_, err := svc.Login(ctx, authsvc.LoginRequest{Email: email, Password: password})
		return err
	}
}

// Register creates an account; the one-time code is entered with
// `dash auth verify` afterwards.
func Register(ctx context.Context, svc *authsvc.Service) (string, error) {
	form := NewForm("Create an account", []Field{
		{Placeholder: "Username"},
		{Placeholder: "Email"},
		{Placeholder: "Password", Secret: true},
		{Placeholder: "Confirm Password", Secret: true},
	}, RegisterSubmit(ctx, svc))

	final, err := tea.NewProgram(form).Run()
	if err != nil {
		return "", err
	}
	f := final.(Form)
	return strings.TrimSpace(f.Values()[1]), f.Err()
}

func RegisterSubmit(ctx context.Context, svc *authsvc.Service) func([]string) error {
	return func(v []string) error {
		username, email := strings.TrimSpace(v[0]), strings.TrimSpace(v[1])
		switch {
		case username == "" || email == "":
			return errors.New("username and email are required")
		case len(v[2]) < 6:
			return errors.New("password must be at least 6 characters")
		case v[2] != v[3]:
			return errors.New("passwords do not match")
		}
		return svc.Register(ctx, authsvc.RegisterRequest{Email: email, Username: username, Password: v[2]})
	}
}
