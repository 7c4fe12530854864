package editor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/editor"
	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/services/notes"
	"github.com/Paintersrp/dash/internal/services/todos"
)

func TestNoteLifecycle(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := notes.NewService(env.Client)
	ctx := context.Background()

	note, err := svc.Create(ctx, notes.CreateNoteRequest{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if note.Title != "Untitled" {
		t.Fatalf("title = %q, want Untitled", note.Title)
	}

	s, err := editor.Open(ctx, svc, note.ID, editor.WithNotifier(env.Toasts))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	hello, err := s.AddBlock(ctx, blocks.Paragraph, "Hello")
	if err != nil {
		t.Fatalf("AddBlock returned error: %v", err)
	}
	if hello.Position != 0 {
		t.Fatalf("position = %d, want 0", hello.Position)
	}

	content := "Hello world"
	if err := s.UpdateBlock(ctx, hello.ID, &content, nil); err != nil {
		t.Fatalf("UpdateBlock returned error: %v", err)
	}

	todo, err := s.AddBlock(ctx, blocks.Todo, "")
	if err != nil {
		t.Fatalf("AddBlock todo returned error: %v", err)
	}
	if err := s.AddTodoItem(ctx, todo.ID, "buy milk"); err != nil {
		t.Fatalf("AddTodoItem returned error: %v", err)
	}

	moved, err := s.MoveBlock(ctx, todo.ID, hello.ID)
	if err != nil || !moved {
		t.Fatalf("MoveBlock returned %v, %v", moved, err)
	}

	server, err := svc.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(server.Blocks) != 2 || server.Blocks[0].ID != todo.ID || server.Blocks[1].Content != "Hello world" {
		t.Fatalf("server blocks = %+v", server.Blocks)
	}
	if len(server.Blocks[0].Items) != 1 || server.Blocks[0].Items[0].Text != "buy milk" {
		t.Fatalf("server items = %+v", server.Blocks[0].Items)
	}

	if err := s.DeleteBlock(ctx, hello.ID); err != nil {
		t.Fatalf("DeleteBlock returned error: %v", err)
	}
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if got := s.Blocks(); len(got) != 1 || got[0].ID != todo.ID {
		t.Fatalf("blocks after refresh = %+v", got)
	}
	if len(env.Toasts.Toasts()) != 0 {
		t.Fatalf("unexpected toasts: %+v", env.Toasts.Toasts())
	}

	if err := svc.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, note.ID); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerRejectionRollsBack(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := notes.NewService(env.Client)
	ctx := context.Background()

	note, _ := svc.Create(ctx, notes.CreateNoteRequest{Title: "x"})
	s, err := editor.Open(ctx, svc, note.ID, editor.WithNotifier(env.Toasts))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	b, err := s.AddBlock(ctx, blocks.Heading, "Title")
	if err != nil {
		t.Fatalf("AddBlock returned error: %v", err)
	}

	// Remove the note behind the session's back.
	if err := svc.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	content := "Renamed"
	if err := s.UpdateBlock(ctx, b.ID, &content, nil); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, _ := s.Block(b.ID)
	if got.Content != "Title" {
		t.Fatalf("expected rollback to Title, got %q", got.Content)
	}
	if len(env.Toasts.Toasts()) != 1 {
		t.Fatalf("expected one toast, got %+v", env.Toasts.Toasts())
	}
}

func TestTodoToggleRoundTrip(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := todos.NewService(env.Client)
	ctx := context.Background()

	created, err := svc.Create(ctx, todos.CreateRequest{Title: "stretch"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	list := editor.NewList([]todos.Todo{created}, func(td todos.Todo) string { return td.ID })

	for _, want := range []bool{true, false} {
		var req todos.UpdateRequest
		toggle := func(td todos.Todo) todos.Todo {
			done := !td.Done
			req = todos.UpdateRequest{Done: &done}
			return req.Apply(td)
		}
		send := func(ctx context.Context, td todos.Todo) error {
			return svc.Update(ctx, td.ID, req)
		}
		got, err := list.Update(ctx, created.ID, toggle, send)
		if err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if got.Done != want {
			t.Fatalf("local done = %v, want %v", got.Done, want)
		}

		remote, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(remote) != 1 || remote[0].Done != want {
			t.Fatalf("server done = %+v, want %v", remote, want)
		}
	}
}
