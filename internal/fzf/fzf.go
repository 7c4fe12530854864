package fzf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/cache"
	"github.com/Paintersrp/dash/internal/markdown"
)

var ErrNoSelection = errors.New("no note selected")

// Finder picks a note with an interactive fuzzy finder, previewing the
// selected note as rendered markdown.
type Finder struct {
	Header string
	notes  []blocks.Note

	// previews holds rendered notes; the preview is redrawn on every
	// cursor move.
	previews *cache.LRU[previewKey, string]

	// find is fuzzyfinder.Find outside of tests.
	find func(slice interface{}, label func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

type previewKey struct {
	id    string
	width int
}

func NewFinder(header string) *Finder {
	return &Finder{
		Header:   header,
		previews: cache.NewLRU[previewKey, string](64),
		find:     fuzzyfinder.Find,
	}
}

// Pick returns the chosen note. query pre-fills the search.
func (f *Finder) Pick(notes []blocks.Note, query string) (blocks.Note, error) {
	if len(notes) == 0 {
		return blocks.Note{}, fmt.Errorf("no notes to choose from")
	}
	f.notes = notes

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(notes, func(i int) string { return Label(notes[i]) }, options...)
	if errors.Is(err, fuzzyfinder.ErrAbort) || idx == -1 {
		return blocks.Note{}, ErrNoSelection
	}
	if err != nil {
		return blocks.Note{}, fmt.Errorf("error selecting note: %w", err)
	}
	return notes[idx], nil
}

// Label is the line shown for a note in the finder.
func Label(n blocks.Note) string {
	pin := ""
	if n.Pinned {
		pin = "* "
	}
	if len(n.Tags) == 0 {
		return fmt.Sprintf("%s%s [No tags] ", pin, n.Title)
	}
	return fmt.Sprintf("%s%s [Tags: %s] ", pin, n.Title, strings.Join(n.Tags, ", "))
}

func (f *Finder) renderPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	n := f.notes[i]
	key := previewKey{id: n.ID, width: w}
	if out, ok := f.previews.Get(key); ok {
		return out
	}

	out, err := markdown.RenderTerminal(blocks.Markdown(n), w)
	if err != nil {
		return "Error rendering markdown"
	}
	f.previews.Put(key, out)
	return out
}
