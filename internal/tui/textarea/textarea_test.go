package textarea

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestCtrlSSavesValue(t *testing.T) {
	m := newModel("Block", "draft")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.saved {
		t.Fatalf("expected ctrl+s to mark the model saved")
	}
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if got := m.textarea.Value(); got != "draft" {
		t.Fatalf("value = %q, want draft", got)
	}
}

func TestCtrlCQuitsWithoutSaving(t *testing.T) {
	m := newModel("Block", "draft")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.saved {
		t.Fatalf("ctrl+c should not save")
	}
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
}

func TestEscBlursThenQuits(t *testing.T) {
	m := newModel("Block", "")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.textarea.Focused() {
		t.Fatalf("expected first esc to blur the textarea")
	}
	if cmd != nil {
		t.Fatalf("expected no command after blur")
	}

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.saved || cmd == nil {
		t.Fatalf("expected second esc to quit without saving")
	}
}

func TestTypingRefocuses(t *testing.T) {
	m := newModel("Block", "")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !m.textarea.Focused() {
		t.Fatalf("expected typing to refocus the textarea")
	}
	if got := m.textarea.Value(); got != "x" {
		t.Fatalf("value = %q, want x", got)
	}
}

func TestViewShowsTitle(t *testing.T) {
	m := newModel("Edit block 2", "")
	if v := m.View(); !containsAll(v, "Edit block 2", "ctrl+s") {
		t.Fatalf("unexpected view %q", v)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
