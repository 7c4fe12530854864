package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/tokens"
)

func newCredentials(t *testing.T, access, refresh string) *tokens.Credentials {
	t.Helper()
	creds := tokens.NewCredentials(&tokens.Store{
		Cookies:  tokens.NewCookieStore(""),
		Fallback: tokens.NewMemoryStore(),
	}, false)
	if err := creds.SetPair(access, refresh); err != nil {
		t.Fatalf("SetPair returned error: %v", err)
	}
	return creds
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	var refreshes atomic.Int32
	var arrived sync.WaitGroup
	arrived.Add(2)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		time.Sleep(20 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"access_token": "fresh"},
		})
	})
	mux.HandleFunc("/notes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer fresh" {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []string{}})
			return
		}
		arrived.Done()
		arrived.Wait()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, newCredentials(t, "stale", "r1"))

	var wg sync.WaitGroup
	results := make([]Response, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = client.Get(context.Background(), "/notes", true)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if !res.Success {
			t.Fatalf("request %d failed: %+v", i, res)
		}
	}
	if got := refreshes.Load(); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
}

func TestUnauthorizedRetriesOnceAfterRefresh(t *testing.T) {
	var hits, refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"access_token": "a2", "refresh_token": "r2"},
		})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer a2" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]string{"id": "u1"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := newCredentials(t, "a1", "r1")
	client := New(srv.URL, creds)

	got, err := Do[map[string]string](context.Background(), client, http.MethodGet, "/profile", nil, true)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got["id"] != "u1" {
		t.Fatalf("unexpected data %v", got)
	}
	if hits.Load() != 2 || refreshes.Load() != 1 {
		t.Fatalf("expected 2 hits and 1 refresh, got %d and %d", hits.Load(), refreshes.Load())
	}
	if v, _ := creds.Refresh(); v != "r2" {
		t.Fatalf("expected rotated refresh token, got %q", v)
	}
}

func TestNeverRetriesMoreThanOnce(t *testing.T) {
	var hits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]string{"access_token": "a2"},
		})
	})
	mux.HandleFunc("/todos", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "nope"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := New(srv.URL, newCredentials(t, "a1", "r1")).Get(context.Background(), "/todos", true)
	if res.Success || res.Status != http.StatusUnauthorized {
		t.Fatalf("expected final 401, got %+v", res)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected original request plus one retry, got %d", hits.Load())
	}
}

func TestRefreshFailureClearsTokensAndNotifiesOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "invalid refresh token"})
	})
	mux.HandleFunc("/notes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec := &notify.Recorder{}
	creds := newCredentials(t, "a1", "r1")
	client := New(srv.URL, creds, WithExpiryNotifier(notify.NewExpiryNotifier(rec)))

	for i := 0; i < 2; i++ {
		res := client.Get(context.Background(), "/notes", true)
		if !errors.Is(res.Failure(), ErrSessionExpired) {
			t.Fatalf("expected session expired, got %+v", res)
		}
	}

	if _, ok := creds.Access(); ok {
		t.Fatalf("expected access token cleared")
	}
	if _, ok := creds.Refresh(); ok {
		t.Fatalf("expected refresh token cleared")
	}
	if n := len(rec.Toasts()); n != 1 {
		t.Fatalf("expected a single expiry notice, got %d", n)
	}
}

func TestRefreshEndpointIsNotRetried(t *testing.T) {
	var refreshes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "bad"})
	}))
	defer srv.Close()

	res := New(srv.URL, newCredentials(t, "a1", "r1")).Post(context.Background(), RefreshPath, nil, true)
	if res.Success || res.Error != "bad" {
		t.Fatalf("unexpected response %+v", res)
	}
	if refreshes.Load() != 1 {
		t.Fatalf("expected a single call, got %d", refreshes.Load())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusBadRequest, `{"success":false,"error":"title required"}`, "title required"},
		{"status text", http.StatusNotFound, `{"success":false}`, "HTTP 404: Not Found"},
		{"unparseable", http.StatusOK, `<html>`, "Failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := New(srv.URL, nil).Get(context.Background(), "/x", false)
			if res.Success || res.Error != tt.want {
				t.Fatalf("got %+v, want error %q", res, tt.want)
			}
		})
	}
}

func TestTransportErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(url, nil).Get(context.Background(), "/notes", false)
	if res.Success || res.Error == "" || res.Err == nil {
		t.Fatalf("expected transport failure, got %+v", res)
	}
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := Response{Status: 404, Error: "note not found"}.Failure()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
