package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/optimistic"
)

// List is an optimistically updated list of records such as todos or
// tasks. key returns a record's id.
type List[T any] struct {
	key   func(T) string
	queue *queue
	opts  options

	mu    sync.RWMutex
	items []T
}

func NewList[T any](items []T, key func(T) string, opts ...Option) *List[T] {
	return &List[T]{
		key:   key,
		queue: newQueue(),
		opts:  buildOptions(opts),
		items: append([]T(nil), items...),
	}
}

func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Set replaces the list, e.g. after a re-fetch.
func (l *List[T]) Set(items []T) {
	l.mu.Lock()
	l.items = append([]T(nil), items...)
	l.mu.Unlock()
}

func (l *List[T]) indexLocked(id string) int {
	for i, it := range l.items {
		if l.key(it) == id {
			return i
		}
	}
	return -1
}

func (l *List[T]) snapshot() []T { return l.Items() }

func (l *List[T]) restore(items []T) { l.Set(items) }

// Update replaces the record with change(record) and sends the new record
// with remote.
func (l *List[T]) Update(ctx context.Context, id string, change func(T) T, remote func(context.Context, T) error) (T, error) {
	release := l.queue.acquire(id)
	defer release()

	var next T
	sent := false
	out := optimistic.Run(ctx, optimistic.Mutation[[]T, T]{
		Snapshot: l.snapshot,
		Apply: func() error {
			l.mu.Lock()
			defer l.mu.Unlock()
			i := l.indexLocked(id)
			if i < 0 {
				return fmt.Errorf("item %s not found", id)
			}
			next = change(l.items[i])
			l.items[i] = next
			return nil
		},
		Remote: func(ctx context.Context) (T, error) {
			return next, remote(ctx, next)
		},
		Restore: l.restore,
		Observe: l.observer("update", &sent),
	})
	if sent && !out.Committed() {
		l.failed("update", out.Err)
	}
	return out.Value, out.Err
}

// Remove drops the record locally and calls remote to delete it.
func (l *List[T]) Remove(ctx context.Context, id string, remote func(context.Context) error) error {
	release := l.queue.acquire(id)
	defer release()

	sent := false
	out := optimistic.Run(ctx, optimistic.Mutation[[]T, struct{}]{
		Snapshot: l.snapshot,
		Apply: func() error {
			l.mu.Lock()
			defer l.mu.Unlock()
			i := l.indexLocked(id)
			if i < 0 {
				return fmt.Errorf("item %s not found", id)
			}
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, remote(ctx)
		},
		Restore: l.restore,
		Observe: l.observer("delete", &sent),
	})
	if sent && !out.Committed() {
		l.failed("delete", out.Err)
	}
	return out.Err
}

// observer records in sent whether the request went out, so local
// failures are not reported as rollbacks.
func (l *List[T]) observer(op string, sent *bool) func(optimistic.State) {
	return func(st optimistic.State) {
		if st == optimistic.InFlight {
			*sent = true
		}
		if l.opts.observe != nil {
			l.opts.observe(op, st)
		}
	}
}

func (l *List[T]) failed(op string, err error) {
	l.opts.log.Warn().Err(err).Str("op", op).Msg("change rolled back")
	if l.opts.notifier != nil {
		l.opts.notifier.Notify(notify.Toast{
			Title:     "Error",
			Message:   fmt.Sprintf("Failed to %s item: %v", op, err),
			Kind:      notify.Error,
			CreatedAt: time.Now(),
		})
	}
}
