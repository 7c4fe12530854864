package root

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/state"
)

func execute(t *testing.T, s *state.State, args ...string) (string, error) {
	t.Helper()

	cmd, err := NewCmdRoot(s)
	if err != nil {
		t.Fatalf("NewCmdRoot: %v", err)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGuardBlocksDashboardCommandsWhenLoggedOut(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, false)

	for _, args := range [][]string{{"notes"}, {"tasks", "list"}, {"todos", "add", "x"}, {"profile"}, {"auth", "logout"}} {
		_, err := execute(t, s, args...)
		var redirect *RedirectError
		if !errors.As(err, &redirect) {
			t.Fatalf("%v: expected a redirect, got %v", args, err)
		}
		if !strings.HasPrefix(redirect.Redirect, constants.RouteGetStarted+"?redirectTo=") {
			t.Fatalf("%v: redirect = %q", args, redirect.Redirect)
		}
		if !strings.Contains(err.Error(), "dash auth login") {
			t.Fatalf("%v: unexpected message %q", args, err.Error())
		}
	}

	if out, err := execute(t, s, "auth", "status"); err != nil || !strings.Contains(out, "Not logged in") {
		t.Fatalf("status should run logged out: %v %s", err, out)
	}
}

func TestGuardBouncesAuthCommandsWhenLoggedIn(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, true)

	_, err := execute(t, s, "auth", "login")
	var redirect *RedirectError
	if !errors.As(err, &redirect) || redirect.Redirect != constants.RouteDashboard {
		t.Fatalf("expected redirect to the dashboard, got %v", err)
	}

	out, err := execute(t, s, "notes")
	if err != nil {
		t.Fatalf("notes should run when logged in: %v", err)
	}
	if !strings.Contains(out, "No notes yet") {
		t.Fatalf("unexpected notes output: %s", out)
	}

	if out, err := execute(t, s, "auth", "logout"); err != nil || !strings.Contains(out, "logged out") {
		t.Fatalf("logout: %v %s", err, out)
	}
	if _, err := execute(t, s, "notes"); !errors.As(err, &redirect) {
		t.Fatalf("expected the guard after logout, got %v", err)
	}
}
