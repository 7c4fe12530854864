package notify

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestExpiryNotifierFiresOnceUntilReset(t *testing.T) {
	rec := &Recorder{}
	n := NewExpiryNotifier(rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.SessionExpired()
		}()
	}
	wg.Wait()

	if got := len(rec.Toasts()); got != 1 {
		t.Fatalf("expected one notice, got %d", got)
	}

	n.Reset()
	if !n.SessionExpired() {
		t.Fatalf("expected notice after reset")
	}
	if got := len(rec.Toasts()); got != 2 {
		t.Fatalf("expected two notices, got %d", got)
	}
}

func TestConsoleWritesTitleAndMessage(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Notify(Toast{Title: "Saved", Message: "note updated", Kind: Success})

	out := buf.String()
	if !strings.Contains(out, "Saved:") || !strings.Contains(out, "note updated") {
		t.Fatalf("unexpected console output %q", out)
	}
}
