package mockserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/internal/state"
)

func testState(t *testing.T) *state.State {
	t.Helper()
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return state.New(cfg, io.Discard)
}

func TestServeAnswersAndShutsDown(t *testing.T) {
	s := testState(t)
	srv, err := build(s, options{prefix: "/api/v1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer srv.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, srv) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/notes")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without a token", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestBuildSeedsAccountOnce(t *testing.T) {
	s := testState(t)
	db := filepath.Join(t.TempDir(), "dash.db")
	o := options{db: db, email: "Me@Example.com", password: "secret1"}

	srv, err := build(s, o)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	srv.Close()

	srv, err = build(s, o)
	if err != nil {
		t.Fatalf("reopen with the same seed should succeed: %v", err)
	}
	srv.Close()

	if _, err := build(s, options{email: "x@example.com"}); err == nil || !strings.Contains(err.Error(), "seed-password") {
		t.Fatalf("expected missing password error, got %v", err)
	}
}
