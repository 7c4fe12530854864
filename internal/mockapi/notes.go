package mockapi

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Paintersrp/dash/internal/blocks"
	"github.com/Paintersrp/dash/internal/services/notes"
)

// loadNote fetches the note named in the route and checks ownership. It
// writes the error response itself and reports false on failure.
func (s *Server) loadNote(w http.ResponseWriter, r *http.Request) (blocks.Note, bool) {
	id := mux.Vars(r)["id"]
	note, owner, err := getDoc[blocks.Note](r.Context(), s.store, kindNote, id)
	if errors.Is(err, ErrNotFound) || (err == nil && owner != userID(r)) {
		writeError(w, http.StatusNotFound, "Note not found")
		return note, false
	}
	if err != nil {
		s.internalError(w, err)
		return note, false
	}
	return note, true
}

func (s *Server) saveNote(w http.ResponseWriter, r *http.Request, note blocks.Note) bool {
	note.UpdatedAt = s.now().UTC()
	if err := putDoc(r.Context(), s.store, kindNote, note.ID, userID(r), note); err != nil {
		s.internalError(w, err)
		return false
	}
	return true
}

func sortBlocks(note *blocks.Note) {
	sort.SliceStable(note.Blocks, func(i, j int) bool {
		return note.Blocks[i].Position < note.Blocks[j].Position
	})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	list, err := listDocs[blocks.Note](r.Context(), s.store, kindNote, userID(r))
	if err != nil {
		s.internalError(w, err)
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	writeData(w, http.StatusOK, list)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req notes.CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	now := s.now().UTC()
	note := blocks.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Blocks:    []blocks.Block{},
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if !s.saveNote(w, r, note) {
		return
	}
	writeData(w, http.StatusCreated, note)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	sortBlocks(&note)
	writeData(w, http.StatusOK, note)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var req notes.UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Tags != nil {
		note.Tags = req.Tags
	}
	if req.Pinned != nil {
		note.Pinned = *req.Pinned
	}
	if s.saveNote(w, r, note) {
		writeMessage(w, "Note updated successfully")
	}
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), kindNote, note.ID); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Note deleted successfully")
}

func (s *Server) addBlock(w http.ResponseWriter, r *http.Request) {
	var req notes.BlockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := blocks.ParseType(string(req.Type))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid block type")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}

	pos := 0
	for _, b := range note.Blocks {
		if b.Position >= pos {
			pos = b.Position + 1
		}
	}
	block := blocks.Block{
		ID:       uuid.NewString(),
		NoteID:   note.ID,
		Type:     kind,
		Position: pos,
	}
	if kind == blocks.Todo {
		block.Items = []blocks.TodoItem{}
		if req.Items != nil {
			block.Items = withItemIDs(*req.Items)
		}
	} else if req.Content != nil {
		block.Content = *req.Content
	}

	note.Blocks = append(note.Blocks, block)
	if s.saveNote(w, r, note) {
		writeData(w, http.StatusCreated, block)
	}
}

func (s *Server) updateBlock(w http.ResponseWriter, r *http.Request) {
	var req notes.BlockRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	c := blocks.NewCollection(note.ID, note.Blocks)

	var items []blocks.TodoItem
	if req.Items != nil {
		items = withItemIDs(*req.Items)
	}
	if err := c.Update(mux.Vars(r)["blockId"], req.Content, items); err != nil {
		writeError(w, http.StatusNotFound, "Block not found")
		return
	}

	note.Blocks = c.Blocks()
	if s.saveNote(w, r, note) {
		writeMessage(w, "Block updated successfully")
	}
}

func (s *Server) deleteBlock(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	c := blocks.NewCollection(note.ID, note.Blocks)
	if err := c.Delete(mux.Vars(r)["blockId"]); err != nil {
		writeError(w, http.StatusNotFound, "Block not found")
		return
	}

	note.Blocks = c.Blocks()
	if s.saveNote(w, r, note) {
		writeMessage(w, "Block deleted successfully")
	}
}

func (s *Server) reorderBlocks(w http.ResponseWriter, r *http.Request) {
	var req notes.ReorderBlocksRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.loadNote(w, r)
	if !ok {
		return
	}
	c := blocks.NewCollection(note.ID, note.Blocks)
	if err := c.Reorder(req.Order); err != nil {
		writeError(w, http.StatusBadRequest, "Order must list every block exactly once")
		return
	}

	note.Blocks = c.Blocks()
	if s.saveNote(w, r, note) {
		writeMessage(w, "Blocks reordered successfully")
	}
}

func withItemIDs(items []blocks.TodoItem) []blocks.TodoItem {
	out := make([]blocks.TodoItem, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		out[i] = it
	}
	return out
}
