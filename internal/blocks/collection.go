package blocks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrItemNotFound  = errors.New("todo item not found")
	ErrOrderMismatch = errors.New("order does not match existing ids")
	ErrNotTodo       = errors.New("block is not a todo list")
)

// Collection is the ordered set of blocks of one note. Position only defines
// relative order; gaps are allowed.
type Collection struct {
	mu     sync.RWMutex
	noteID string
	blocks []Block
}

func NewCollection(noteID string, blocks []Block) *Collection {
	c := &Collection{noteID: noteID}
	c.setLocked(blocks)
	return c
}

func (c *Collection) NoteID() string { return c.noteID }

// Blocks returns a copy of the blocks sorted by position.
func (c *Collection) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.blocks)
}

func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		ids[i] = b.ID
	}
	return ids
}

func (c *Collection) Get(id string) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Block{}, false
	}
	return c.blocks[i].clone(), true
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Add appends a block after the current last one. The block gets a
// temporary id until the server assigns the real one.
func (c *Collection) Add(kind Type, content string) Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := 0
	for _, b := range c.blocks {
		if b.Position >= pos {
			pos = b.Position + 1
		}
	}

	b := Block{
		ID:       "temp-" + uuid.NewString(),
		NoteID:   c.noteID,
		Type:     kind,
		Position: pos,
	}
	if kind == Todo {
		b.Items = []TodoItem{}
	} else {
		b.Content = content
	}
	c.blocks = append(c.blocks, b)
	return b.clone()
}

// Update replaces the fields that are given: content when non-nil, items
// when non-nil.
func (c *Collection) Update(id string, content *string, items []TodoItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	if content != nil {
		c.blocks[i].Content = *content
	}
	if items != nil {
		cp := make([]TodoItem, len(items))
		copy(cp, items)
		c.blocks[i].Items = cp
	}
	return nil
}

func (c *Collection) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
	return nil
}

// Reorder assigns position = index for a full permutation of the current
// ids. Missing, unknown or repeated ids are rejected and nothing changes.
func (c *Collection) Reorder(ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		current[i] = b.ID
	}
	if err := checkPermutation(current, ids); err != nil {
		return err
	}

	byID := make(map[string]Block, len(c.blocks))
	for _, b := range c.blocks {
		byID[b.ID] = b
	}
	reordered := make([]Block, len(ids))
	for i, id := range ids {
		b := byID[id]
		b.Position = i
		reordered[i] = b
	}
	c.blocks = reordered
	return nil
}

func (c *Collection) ReorderTodoItems(blockID string, itemIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(blockID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	b := &c.blocks[i]
	if b.Type != Todo {
		return ErrNotTodo
	}

	current := make([]string, len(b.Items))
	byID := make(map[string]TodoItem, len(b.Items))
	for j, it := range b.Items {
		current[j] = it.ID
		byID[it.ID] = it
	}
	if err := checkPermutation(current, itemIDs); err != nil {
		return err
	}

	items := make([]TodoItem, len(itemIDs))
	for j, id := range itemIDs {
		items[j] = byID[id]
	}
	b.Items = items
	return nil
}

// ToggleTodoItem flips the done flag of one item and returns the block's
// new item list.
func (c *Collection) ToggleTodoItem(blockID, itemID string) ([]TodoItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(blockID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	b := &c.blocks[i]
	if b.Type != Todo {
		return nil, ErrNotTodo
	}
	for j := range b.Items {
		if b.Items[j].ID == itemID {
			b.Items[j].Done = !b.Items[j].Done
			return b.clone().Items, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// AddTodoItem appends an unchecked item to a todo block.
func (c *Collection) AddTodoItem(blockID, text string) ([]TodoItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(blockID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	b := &c.blocks[i]
	if b.Type != Todo {
		return nil, ErrNotTodo
	}
	b.Items = append(b.Items, TodoItem{ID: uuid.NewString(), Text: text})
	return b.clone().Items, nil
}

// Replace swaps the block with id for b, typically a temporary block for the
// server's copy. The local position is kept.
func (c *Collection) Replace(id string, b Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	b = b.clone()
	b.Position = c.blocks[i].Position
	if b.NoteID == "" {
		b.NoteID = c.noteID
	}
	c.blocks[i] = b
	return nil
}

// Snapshot is an immutable copy of the collection for rollback.
type Snapshot struct {
	blocks []Block
}

func (c *Collection) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{blocks: cloneAll(c.blocks)}
}

func (s Snapshot) Blocks() []Block { return cloneAll(s.blocks) }

func (c *Collection) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = cloneAll(s.blocks)
}

// Set replaces the whole collection, e.g. after re-fetching the note.
func (c *Collection) Set(blocks []Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(blocks)
}

func (c *Collection) setLocked(blocks []Block) {
	c.blocks = cloneAll(blocks)
	sort.SliceStable(c.blocks, func(i, j int) bool {
		return c.blocks[i].Position < c.blocks[j].Position
	})
}

func (c *Collection) indexLocked(id string) int {
	for i, b := range c.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []Block) []Block {
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = b.clone()
	}
	return out
}

func checkPermutation(current, ids []string) error {
	if len(ids) != len(current) {
		return fmt.Errorf("%w: got %d ids, have %d", ErrOrderMismatch, len(ids), len(current))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: unknown id %s", ErrOrderMismatch, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s", ErrOrderMismatch, id)
		}
		seen[id] = true
	}
	return nil
}
