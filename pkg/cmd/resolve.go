package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/fzf"
	"github.com/Paintersrp/dash/internal/state"
)

// PickNote chooses among notes interactively. Tests replace it.
var PickNote = func(notes []blocks.Note, query string) (blocks.Note, error) {
	return fzf.NewFinder("Select a note.").Pick(notes, query)
}

// ResolveNote finds the note ref names: an exact id, a unique id prefix or
// a unique title. An empty or ambiguous ref opens the picker.
func ResolveNote(ctx context.Context, s *state.State, ref string) (blocks.Note, error) {
	if s == nil || s.Notes == nil {
		return blocks.Note{}, fmt.Errorf("state is not initialized")
	}
	list, err := s.Notes.List(ctx)
	if err != nil {
		return blocks.Note{}, err
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PickNote(list, "")
	}

	if n, ok := uniqueNote(list, func(n blocks.Note) bool { return n.ID == ref }); ok {
		return n, nil
	}
	if n, ok := uniqueNote(list, func(n blocks.Note) bool { return strings.EqualFold(n.Title, ref) }); ok {
		return n, nil
	}
	if n, ok := uniqueNote(list, func(n blocks.Note) bool { return strings.HasPrefix(n.ID, ref) }); ok {
		return n, nil
	}
	return PickNote(list, ref)
}

func uniqueNote(list []blocks.Note, match func(blocks.Note) bool) (blocks.Note, bool) {
	var found blocks.Note
	count := 0
	for _, n := range list {
		if match(n) {
			found = n
			count++
		}
	}
	return found, count == 1
}

// ResolveBlock finds a block by 1-based position in display order, id or
// unique id prefix.
func ResolveBlock(list []blocks.Block, ref string) (blocks.Block, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return blocks.Block{}, fmt.Errorf("block %d is out of range (1-%d)", n, len(list))
		}
		return list[n-1], nil
	}

	var found []blocks.Block
	for _, b := range list {
		if b.ID == ref {
			return b, nil
		}
		if ref != "" && strings.HasPrefix(b.ID, ref) {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return blocks.Block{}, fmt.Errorf("no block matches %q", ref)
	default:
		return blocks.Block{}, fmt.Errorf("%q matches %d blocks", ref, len(found))
	}
}

// ResolveItem finds a todo item the same way ResolveBlock finds blocks.
func ResolveItem(items []blocks.TodoItem, ref string) (blocks.TodoItem, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return blocks.TodoItem{}, fmt.Errorf("item %d is out of range (1-%d)", n, len(items))
		}
		return items[n-1], nil
	}
	for _, it := range items {
		if it.ID == ref || (ref != "" && strings.HasPrefix(it.ID, ref)) {
			return it, nil
		}
	}
	return blocks.TodoItem{}, fmt.Errorf("no item matches %q", ref)
}

// ResolveItemByRef finds an element of items by 1-based position, id,
// unique id prefix or case-insensitive title.
func ResolveItemByRef[T any](items []T, ref string, id, title func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return zero, fmt.Errorf("%d is out of range (1-%d)", n, len(items))
		}
		return items[n-1], nil
	}

	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}
	for _, match := range []func(T) bool{
		func(it T) bool { return strings.EqualFold(title(it), ref) },
		func(it T) bool { return ref != "" && strings.HasPrefix(id(it), ref) },
	} {
		var found []T
		for _, it := range items {
			if match(it) {
				found = append(found, it)
			}
		}
		if len(found) == 1 {
			return found[0], nil
		}
		if len(found) > 1 {
			return zero, fmt.Errorf("%q matches %d entries", ref, len(found))
		}
	}
	return zero, fmt.Errorf("nothing matches %q", ref)
}
