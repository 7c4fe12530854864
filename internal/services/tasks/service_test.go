package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/services/tasks"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    tasks.Status
		wantErr bool
	}{
		{"todo", tasks.StatusTodo, false},
		{"  In_Progress ", tasks.StatusInProgress, false},
		{"done", tasks.StatusDone, false},
		{"blocked", "", true},
	}
	for _, tt := range tests {
		got, err := tasks.ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpdateRequestApplyIsPartial(t *testing.T) {
	base := tasks.Task{Title: "write", Status: tasks.StatusTodo, Priority: tasks.PriorityLow}
	status := tasks.StatusDone

	got := tasks.UpdateRequest{Status: &status}.Apply(base)
	if got.Status != tasks.StatusDone || got.Title != "write" || got.Priority != tasks.PriorityLow {
		t.Fatalf("unexpected task after apply: %#v", got)
	}
}

func TestServiceLifecycle(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := tasks.NewService(env.Client)
	ctx := context.Background()

	if _, err := svc.Create(ctx, tasks.CreateRequest{}); err == nil {
		t.Fatalf("expected missing title to be rejected")
	}

	deadline := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, tasks.CreateRequest{Title: "ship it", Deadline: &deadline})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != tasks.StatusTodo || created.Priority != tasks.PriorityMedium {
		t.Fatalf("expected defaults, got %#v", created)
	}

	status := tasks.StatusInProgress
	if err := svc.Update(ctx, created.ID, tasks.UpdateRequest{Status: &status}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Status != tasks.StatusInProgress || got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("unexpected task: %#v", got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
