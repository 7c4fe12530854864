// Package blocks holds the note/block model and the in-memory collection the
// editor mutates.
package blocks

import (
	"fmt"
	"time"
)

type Type string

const (
	Paragraph Type = "paragraph"
	Heading   Type = "heading"
	Todo      Type = "todo"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Paragraph, Heading, Todo:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown block type %q", s)
}

type TodoItem struct {
	ID   string `json:"id"   yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
}

// Block is one unit of a note. Paragraph and heading blocks carry markdown
// content, todo blocks carry items.
type Block struct {
	ID       string     `json:"id"                   yaml:"id"`
	NoteID   string     `json:"note_id,omitempty"    yaml:"note_id,omitempty"`
	Type     Type       `json:"type"                 yaml:"type"`
	Position int        `json:"position"             yaml:"position"`
	Content  string     `json:"content_md,omitempty" yaml:"content_md,omitempty"`
	Items    []TodoItem `json:"items,omitempty"      yaml:"items,omitempty"`
}

func (b Block) clone() Block {
	if b.Items != nil {
		items := make([]TodoItem, len(b.Items))
		copy(items, b.Items)
		b.Items = items
	}
	return b
}

type Note struct {
	ID        string    `json:"id"         yaml:"id"`
	Title     string    `json:"title"      yaml:"title"`
	Blocks    []Block   `json:"blocks"     yaml:"blocks"`
	Tags      []string  `json:"tags"       yaml:"tags"`
	Pinned    bool      `json:"is_pinned"  yaml:"is_pinned"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
