package mockapitest

import (
	"context"
	"io"
	"testing"

	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/state"
)

// State builds an application state in a temporary home directory whose
// config points at the mock server. When login is set the seeded account
// is signed in through the state's own auth service.
func (e *Env) State(t *testing.T, out io.Writer, login bool) *state.State {
	t.Helper()

	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.ChangeBaseURL(e.BaseURL); err != nil {
		t.Fatalf("base url: %v", err)
	}

	s := state.New(cfg, out)
	s.Home = home
	t.Cleanup(func() { s.Close() })

	if login {
		if _, err := s.Auth.Login(context.Background(), auth.LoginRequest{Email: Email, Password: Password}); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return s
}
