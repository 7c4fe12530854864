package optimistic

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type counter struct{ n int }

func TestRunCommits(t *testing.T) {
	c := &counter{n: 1}
	var states []State

	out := Run(context.Background(), Mutation[int, int]{
		Snapshot: func() int { return c.n },
		Apply:    func() error { c.n++; return nil },
		Remote:   func(context.Context) (int, error) { return 10, nil },
		Commit:   func(v int) { c.n = v },
		Restore:  func(n int) { c.n = n },
		Observe:  func(s State) { states = append(states, s) },
	})

	if !out.Committed() || out.Value != 10 || out.Prior != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.n != 10 {
		t.Fatalf("expected server value reconciled, got %d", c.n)
	}
	if want := []State{Applying, InFlight, Committed}; !reflect.DeepEqual(states, want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
}

func TestRunRollsBackOnRemoteError(t *testing.T) {
	c := &counter{n: 1}
	boom := errors.New("boom")
	var states []State

	out := Run(context.Background(), Mutation[int, int]{
		Snapshot: func() int { return c.n },
		Apply:    func() error { c.n = 99; return nil },
		Remote:   func(context.Context) (int, error) { return 0, boom },
		Restore:  func(n int) { c.n = n },
		Observe:  func(s State) { states = append(states, s) },
	})

	if out.State != RolledBack || !errors.Is(out.Err, boom) || out.Prior != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.n != 1 {
		t.Fatalf("expected snapshot restored, got %d", c.n)
	}
	if want := []State{Applying, InFlight, RolledBack}; !reflect.DeepEqual(states, want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
}

func TestRunSkipsRemoteWhenApplyFails(t *testing.T) {
	called := false
	out := Run(context.Background(), Mutation[struct{}, string]{
		Apply:  func() error { return errors.New("invalid") },
		Remote: func(context.Context) (string, error) { called = true; return "", nil },
	})

	if called {
		t.Fatalf("remote must not run after a failed apply")
	}
	if out.State != RolledBack {
		t.Fatalf("expected rollback, got %v", out.State)
	}
}

func TestStateString(t *testing.T) {
	if InFlight.String() != "in-flight" || State(42).String() != "State(42)" {
		t.Fatalf("unexpected state names")
	}
}
