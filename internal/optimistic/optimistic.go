// Package optimistic runs a change locally before the server confirms it,
// undoing the change if the server refuses.
package optimistic

import (
	"context"
	"fmt"
)

type State int

const (
	Idle State = iota
	Applying
	InFlight
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Applying:
		return "applying"
	case InFlight:
		return "in-flight"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mutation describes one optimistic change. S is the snapshot type, T the
// value the server answers with.
type Mutation[S, T any] struct {
	// Snapshot captures the state to return to on failure.
	Snapshot func() S
	// Apply changes local state. An error stops the mutation before any
	// request is made.
	Apply func() error
	// Remote performs the request.
	Remote func(ctx context.Context) (T, error)
	// Commit reconciles local state with the server's answer. Optional.
	Commit func(T)
	// Restore puts the snapshot back.
	Restore func(S)
	// Observe is told about every state change. Optional.
	Observe func(State)
}

// Outcome is either Committed with the server value or RolledBack with the
// prior snapshot and the cause.
type Outcome[S, T any] struct {
	State State
	Value T
	Prior S
	Err   error
}

func (o Outcome[S, T]) Committed() bool { return o.State == Committed }

func Run[S, T any](ctx context.Context, m Mutation[S, T]) Outcome[S, T] {
	observe := m.Observe
	if observe == nil {
		observe = func(State) {}
	}

	var prior S
	if m.Snapshot != nil {
		prior = m.Snapshot()
	}

	observe(Applying)
	if m.Apply != nil {
		if err := m.Apply(); err != nil {
			return rollback(m, observe, prior, err)
		}
	}

	observe(InFlight)
	value, err := m.Remote(ctx)
	if err != nil {
		return rollback(m, observe, prior, err)
	}

	if m.Commit != nil {
		m.Commit(value)
	}
	observe(Committed)
	return Outcome[S, T]{State: Committed, Value: value, Prior: prior}
}

func rollback[S, T any](m Mutation[S, T], observe func(State), prior S, err error) Outcome[S, T] {
	if m.Restore != nil {
		m.Restore(prior)
	}
	observe(RolledBack)
	return Outcome[S, T]{State: RolledBack, Prior: prior, Err: err}
}
