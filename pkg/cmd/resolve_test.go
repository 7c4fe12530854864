package cmd

import (
	"context"
	"io"
	"testing"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/services/notes"
)

func TestResolveBlock(t *testing.T) {
	list := []blocks.Block{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "1", want: "abc123"},
		{ref: "3", want: "xyz"},
		{ref: "4", wantErr: true},
		{ref: "0", wantErr: true},
		{ref: "abd", want: "abd456"},
		{ref: "ab", wantErr: true},
		{ref: "xyz", want: "xyz"},
		{ref: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveBlock(list, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got.ID)
				}
				return
			}
			if err != nil || got.ID != tt.want {
				t.Fatalf("ResolveBlock(%q) = %q, %v; want %q", tt.ref, got.ID, err, tt.want)
			}
		})
	}
}

func TestResolveItem(t *testing.T) {
	items := []blocks.TodoItem{{ID: "i-one", Text: "a"}, {ID: "i-two", Text: "b"}}

	if it, err := ResolveItem(items, "2"); err != nil || it.ID != "i-two" {
		t.Fatalf("by position: %v %v", it, err)
	}
	if it, err := ResolveItem(items, "i-o"); err != nil || it.ID != "i-one" {
		t.Fatalf("by prefix: %v %v", it, err)
	}
	if _, err := ResolveItem(items, "9"); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestResolveNote(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, true)
	ctx := context.Background()

	first, err := s.Notes.Create(ctx, notes.CreateNoteRequest{Title: "Groceries"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Notes.Create(ctx, notes.CreateNoteRequest{Title: "Reading"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	picked := false
	orig := PickNote
	t.Cleanup(func() { PickNote = orig })
	PickNote = func(list []blocks.Note, query string) (blocks.Note, error) {
		picked = true
		return list[0], nil
	}

	for _, ref := range []string{first.ID, "groceries", first.ID[:6]} {
		got, err := ResolveNote(ctx, s, ref)
		if err != nil || got.ID != first.ID {
			t.Fatalf("ResolveNote(%q) = %q, %v", ref, got.ID, err)
		}
	}
	if picked {
		t.Fatalf("picker should not open for an unambiguous ref")
	}

	if _, err := ResolveNote(ctx, s, ""); err != nil || !picked {
		t.Fatalf("expected the picker for an empty ref, err %v", err)
	}
}
