package todos

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/state"
)

func run(t *testing.T, s *state.State, args ...string) (string, error) {
	t.Helper()

	c := NewCmdTodos(s)
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(append([]string{}, args...))
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, s *state.State, args ...string) string {
	t.Helper()
	out, err := run(t, s, args...)
	if err != nil {
		t.Fatalf("todos %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestTodoCommands(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, true)

	origConfirm := confirm
	t.Cleanup(func() { confirm = origConfirm })
	confirm = func(string) (bool, error) { return false, nil }

	mustRun(t, s, "add", "buy", "milk", "--priority", "low")
	mustRun(t, s, "add", "call", "mom")

	if out := mustRun(t, s, "toggle", "buy milk"); !strings.Contains(out, "[x] buy milk") {
		t.Fatalf("unexpected toggle output: %s", out)
	}
	if out := mustRun(t, s, "list", "--pending"); strings.Contains(out, "buy milk") || !strings.Contains(out, "call mom") {
		t.Fatalf("expected only pending todos:\n%s", out)
	}
	if out := mustRun(t, s, "toggle", "buy milk"); !strings.Contains(out, "[ ] buy milk") {
		t.Fatalf("expected todo unchecked again: %s", out)
	}

	if out := mustRun(t, s, "update", "call mom", "--title", "call dad"); !strings.Contains(out, `"call dad"`) {
		t.Fatalf("unexpected update output: %s", out)
	}

	if out := mustRun(t, s, "delete", "call dad"); !strings.Contains(out, "Cancelled") {
		t.Fatalf("expected the declined prompt to cancel: %s", out)
	}
	mustRun(t, s, "delete", "call dad", "--yes")

	out := mustRun(t, s)
	if strings.Contains(out, "call dad") || !strings.Contains(out, "buy milk") {
		t.Fatalf("unexpected list after delete:\n%s", out)
	}

	if _, err := run(t, s, "toggle", "nothing here"); err == nil {
		t.Fatalf("expected an error for an unknown todo")
	}
}
