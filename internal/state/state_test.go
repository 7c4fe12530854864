package state

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/internal/constants"
)

func TestNewWiresCredentialsToConfigAndCookieJar(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	var out bytes.Buffer
	s := New(cfg, &out)
	defer s.Close()

	if err := s.Credentials.SetPair("access", "refresh"); err != nil {
		t.Fatalf("SetPair returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Dir(), constants.CookieFile)); err != nil {
		t.Fatalf("expected cookie jar next to the config: %v", err)
	}
	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if v, ok := reloaded.Get(constants.RefreshTokenKey); !ok || v != "refresh" {
		t.Fatalf("expected fallback copy in config, got %q", v)
	}
	if s.Client.BaseURL() != cfg.APIBaseURL {
		t.Fatalf("client base url = %q", s.Client.BaseURL())
	}
	if !s.Auth.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
}
