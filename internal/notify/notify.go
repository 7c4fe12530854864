// Package notify delivers short user-facing messages (toasts in the web
// client, styled lines on stderr here).
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

type Toast struct {
	Title     string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

type Notifier interface {
	Notify(Toast)
}

var (
	titleStyles = map[Kind]lipgloss.Style{
		Info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Console prints toasts as one styled line each.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out}
}

func (c *Console) Notify(t Toast) {
	style, ok := titleStyles[t.Kind]
	if !ok {
		style = titleStyles[Info]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Title == "" {
		fmt.Fprintln(c.out, messageStyle.Render(t.Message))
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", style.Render(t.Title+":"), messageStyle.Render(t.Message))
}

// Recorder keeps every toast it receives.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// ExpiryNotifier shows the session-expired message at most once until Reset
// is called after a successful login.
type ExpiryNotifier struct {
	mu    sync.Mutex
	next  Notifier
	shown bool
}

func NewExpiryNotifier(next Notifier) *ExpiryNotifier {
	return &ExpiryNotifier{next: next}
}

// SessionExpired reports whether this call delivered the notice.
func (e *ExpiryNotifier) SessionExpired() bool {
	e.mu.Lock()
	if e.shown {
		e.mu.Unlock()
		return false
	}
	e.shown = true
	e.mu.Unlock()

	if e.next != nil {
		e.next.Notify(Toast{
			Title:     "Session Expired",
			Message:   "Your session has expired. Please log in again.",
			Kind:      Error,
			CreatedAt: time.Now(),
		})
	}
	return true
}

func (e *ExpiryNotifier) Reset() {
	e.mu.Lock()
	e.shown = false
	e.mu.Unlock()
}
