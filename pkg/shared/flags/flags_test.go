package flags

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

func TestContentUsesClipboardOnlyWithPaste(t *testing.T) {
	orig := readClipboard
	t.Cleanup(func() { readClipboard = orig })
	readClipboard = func() (string, error) { return "from clipboard", nil }

	cmd := &cobra.Command{}
	AddPaste(cmd)

	got, err := Content(cmd, "typed")
	if err != nil || got != "typed" {
		t.Fatalf("Content without --paste = %q, %v", got, err)
	}

	if err := cmd.Flags().Set("paste", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	got, err = Content(cmd, "typed")
	if err != nil || got != "from clipboard" {
		t.Fatalf("Content with --paste = %q, %v", got, err)
	}

	readClipboard = func() (string, error) { return "", errors.New("no clipboard") }
	if _, err := Content(cmd, "typed"); err == nil {
		t.Fatalf("expected clipboard error")
	}
}

func TestHandleCopy(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	var copied string
	writeClipboard = func(s string) error { copied = s; return nil }

	cmd := &cobra.Command{}
	AddCopy(cmd)

	if ok, err := HandleCopy(cmd, "x"); ok || err != nil || copied != "" {
		t.Fatalf("expected no copy without flag")
	}
	cmd.Flags().Set("copy", "true")
	if ok, err := HandleCopy(cmd, "x"); !ok || err != nil || copied != "x" {
		t.Fatalf("HandleCopy = %v, %v, copied %q", ok, err, copied)
	}
}
