// Package editor keeps a local copy of a note's blocks in sync with the
// server. Every change is applied locally first and undone if the server
// rejects it.
//
// Changes to the same block are sent in the order they were made. Changes
// to different blocks may overlap, and a rollback restores the whole
// collection as it was when that change started, which can also undo an
// overlapping change to another block. Refresh re-reads the note when the
// local copy must match the server exactly.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/optimistic"
)

// orderKey is the queue lane for changes that touch every block.
const orderKey = "\x00order"

// Notes is the part of the notes service a Session needs.
type Notes interface {
	Get(ctx context.Context, id string) (blocks.Note, error)
	AddBlock(ctx context.Context, noteID string, kind blocks.Type, content string) (blocks.Block, error)
	UpdateBlock(ctx context.Context, noteID, blockID string, content *string, items []blocks.TodoItem) error
	DeleteBlock(ctx context.Context, noteID, blockID string) error
	ReorderBlocks(ctx context.Context, noteID string, order []string) error
}

type options struct {
	notifier notify.Notifier
	log      zerolog.Logger
	observe  func(op string, st optimistic.State)
}

type Option func(*options)

// WithNotifier sets where rollback messages go.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithObserver is told about every state change of every mutation.
func WithObserver(fn func(op string, st optimistic.State)) Option {
	return func(o *options) { o.observe = fn }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type Session struct {
	notes Notes
	coll  *blocks.Collection
	queue *queue
	opts  options

	mu    sync.Mutex
	note  blocks.Note
	ids   map[string]string // temporary id -> server id
	lanes map[string]string // server id -> lane key, for blocks created here
}

// Open fetches the note and starts a session on it.
func Open(ctx context.Context, notes Notes, noteID string, opts ...Option) (*Session, error) {
	note, err := notes.Get(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("load note %s: %w", noteID, err)
	}
	return NewSession(notes, note, opts...), nil
}

func NewSession(notes Notes, note blocks.Note, opts ...Option) *Session {
	return &Session{
		notes: notes,
		coll:  blocks.NewCollection(note.ID, note.Blocks),
		queue: newQueue(),
		opts:  buildOptions(opts),
		note:  note,
		ids:   make(map[string]string),
		lanes: make(map[string]string),
	}
}

// Note returns the note with its current local blocks.
func (s *Session) Note() blocks.Note {
	s.mu.Lock()
	n := s.note
	s.mu.Unlock()
	n.Blocks = s.coll.Blocks()
	return n
}

func (s *Session) Blocks() []blocks.Block {
	return s.coll.Blocks()
}

// Block looks a block up by its current or temporary id.
func (s *Session) Block(id string) (blocks.Block, bool) {
	return s.coll.Get(s.resolve(id))
}

// Pending reports how many changes to the block are queued or running.
func (s *Session) Pending(id string) int {
	return s.queue.pending(s.lane(id))
}

// resolve maps a temporary id to the server id once it is known.
func (s *Session) resolve(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if real, ok := s.ids[id]; ok {
		return real
	}
	return id
}

// lane keeps a block created in this session on the lane of its temporary
// id, so changes made before and after the server answered stay ordered.
func (s *Session) lane(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key, ok := s.lanes[id]; ok {
		return key
	}
	return id
}

// mutate runs one optimistic change on a lane. Errors raised by apply are
// returned as they are; a rejected request restores the snapshot and
// raises a notification.
func mutate[T any](ctx context.Context, s *Session, op, key string, apply func() error, remote func(context.Context) (T, error), commit func(T)) (T, error) {
	release := s.queue.acquire(key)
	defer release()

	sent := false
	out := optimistic.Run(ctx, optimistic.Mutation[blocks.Snapshot, T]{
		Snapshot: s.coll.Snapshot,
		Apply:    apply,
		Remote:   remote,
		Commit:   commit,
		Restore:  s.coll.Restore,
		Observe: func(st optimistic.State) {
			if st == optimistic.InFlight {
				sent = true
			}
			if s.opts.observe != nil {
				s.opts.observe(op, st)
			}
		},
	})
	if out.Committed() {
		return out.Value, nil
	}
	if sent {
		s.rolledBack(op, out.Err)
	}
	return out.Value, out.Err
}

func (s *Session) rolledBack(op string, err error) {
	s.opts.log.Warn().Err(err).Str("note", s.coll.NoteID()).Str("op", op).Msg("change rolled back")
	if s.opts.notifier != nil {
		s.opts.notifier.Notify(notify.Toast{
			Title:     "Error",
			Message:   fmt.Sprintf("Failed to %s: %v", op, err),
			Kind:      notify.Error,
			CreatedAt: time.Now(),
		})
	}
}

// AddBlock shows a block with a temporary id at the end of the note and
// swaps in the server's block when it arrives.
func (s *Session) AddBlock(ctx context.Context, kind blocks.Type, content string) (blocks.Block, error) {
	var temp blocks.Block
	switch kind {
	case blocks.Paragraph, blocks.Heading, blocks.Todo:
	default:
		return temp, fmt.Errorf("unknown block type %q", kind)
	}

	// The temporary id is only known after Add, so the block gets its lane
	// from a key reserved up front.
	key := "new:" + uuid.NewString()
	return mutate(ctx, s, "add block", key,
		func() error {
			// Held across Add so lane never sees the block without its key.
			s.mu.Lock()
			temp = s.coll.Add(kind, content)
			s.lanes[temp.ID] = key
			s.mu.Unlock()
			return nil
		},
		func(ctx context.Context) (blocks.Block, error) {
			return s.notes.AddBlock(ctx, s.coll.NoteID(), kind, content)
		},
		func(b blocks.Block) {
			if err := s.coll.Replace(temp.ID, b); err != nil {
				return
			}
			s.mu.Lock()
			s.ids[temp.ID] = b.ID
			s.lanes[b.ID] = key
			s.mu.Unlock()
		},
	)
}

// UpdateBlock changes content and/or items. Nil arguments are left alone.
func (s *Session) UpdateBlock(ctx context.Context, id string, content *string, items []blocks.TodoItem) error {
	_, err := mutate(ctx, s, "update block", s.lane(id),
		func() error { return s.coll.Update(s.resolve(id), content, items) },
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.notes.UpdateBlock(ctx, s.coll.NoteID(), s.resolve(id), content, items)
		},
		nil,
	)
	return err
}

func (s *Session) DeleteBlock(ctx context.Context, id string) error {
	_, err := mutate(ctx, s, "delete block", s.lane(id),
		func() error { return s.coll.Delete(s.resolve(id)) },
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.notes.DeleteBlock(ctx, s.coll.NoteID(), s.resolve(id))
		},
		nil,
	)
	return err
}

// ReorderBlocks sets the order of every block of the note.
func (s *Session) ReorderBlocks(ctx context.Context, ids []string) error {
	order := make([]string, len(ids))
	for i, id := range ids {
		order[i] = s.resolve(id)
	}
	_, err := mutate(ctx, s, "reorder blocks", orderKey,
		func() error { return s.coll.Reorder(order) },
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.notes.ReorderBlocks(ctx, s.coll.NoteID(), order)
		},
		nil,
	)
	return err
}

// MoveBlock applies a drag of activeID onto overID. It reports false
// without a request when the drag changes nothing.
func (s *Session) MoveBlock(ctx context.Context, activeID, overID string) (bool, error) {
	order, ok := blocks.OnDragEnd(s.coll.IDs(), s.resolve(activeID), s.resolve(overID))
	if !ok {
		return false, nil
	}
	return true, s.ReorderBlocks(ctx, order)
}

// ToggleTodo flips one item and sends the block's whole item list.
func (s *Session) ToggleTodo(ctx context.Context, blockID, itemID string) error {
	var items []blocks.TodoItem
	_, err := mutate(ctx, s, "update todo", s.lane(blockID),
		func() (err error) {
			items, err = s.coll.ToggleTodoItem(s.resolve(blockID), itemID)
			return err
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.notes.UpdateBlock(ctx, s.coll.NoteID(), s.resolve(blockID), nil, items)
		},
		nil,
	)
	return err
}

func (s *Session) AddTodoItem(ctx context.Context, blockID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("todo item text is required")
	}
	var items []blocks.TodoItem
	_, err := mutate(ctx, s, "add todo item", s.lane(blockID),
		func() (err error) {
			items, err = s.coll.AddTodoItem(s.resolve(blockID), text)
			return err
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.notes.UpdateBlock(ctx, s.coll.NoteID(), s.resolve(blockID), nil, items)
		},
		nil,
	)
	return err
}

func (s *Session) ReorderTodoItems(ctx context.Context, blockID string, itemIDs []string) error {
	_, err := mutate(ctx, s, "reorder todo items", s.lane(blockID),
		func() error { return s.coll.ReorderTodoItems(s.resolve(blockID), itemIDs) },
		func(ctx context.Context) (struct{}, error) {
			b, ok := s.coll.Get(s.resolve(blockID))
			if !ok {
				return struct{}{}, blocks.ErrBlockNotFound
			}
			return struct{}{}, s.notes.UpdateBlock(ctx, s.coll.NoteID(), b.ID, nil, b.Items)
		},
		nil,
	)
	return err
}

// Refresh replaces local state with the server's copy of the note.
func (s *Session) Refresh(ctx context.Context) error {
	release := s.queue.acquire(orderKey)
	defer release()

	note, err := s.notes.Get(ctx, s.coll.NoteID())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.note = note
	s.mu.Unlock()
	s.coll.Set(note.Blocks)
	return nil
}
