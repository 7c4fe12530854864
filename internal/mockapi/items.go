package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Paintersrp/dash/internal/services/tasks"
	"github.com/Paintersrp/dash/internal/services/todos"
)

func loadOwned[T any](s *Server, w http.ResponseWriter, r *http.Request, kind, label string) (T, bool) {
	v, owner, err := getDoc[T](r.Context(), s.store, kind, mux.Vars(r)["id"])
	if errors.Is(err, ErrNotFound) || (err == nil && owner != userID(r)) {
		writeError(w, http.StatusNotFound, label+" not found")
		return v, false
	}
	if err != nil {
		s.internalError(w, err)
		return v, false
	}
	return v, true
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	list, err := listDocs[tasks.Task](r.Context(), s.store, kindTask, userID(r))
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req tasks.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	now := s.now().UTC()
	t := tasks.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = tasks.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = tasks.PriorityMedium
	}
	if err := putDoc(r.Context(), s.store, kindTask, t.ID, userID(r), t); err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	if t, ok := loadOwned[tasks.Task](s, w, r, kindTask, "Task"); ok {
		writeData(w, http.StatusOK, t)
	}
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req tasks.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status != nil {
		if _, err := tasks.ParseStatus(string(*req.Status)); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := loadOwned[tasks.Task](s, w, r, kindTask, "Task")
	if !ok {
		return
	}
	t = req.Apply(t)
	t.UpdatedAt = s.now().UTC()
	if err := putDoc(r.Context(), s.store, kindTask, t.ID, userID(r), t); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Task updated successfully")
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := loadOwned[tasks.Task](s, w, r, kindTask, "Task")
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), kindTask, t.ID); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Task deleted successfully")
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	list, err := listDocs[todos.Todo](r.Context(), s.store, kindTodo, userID(r))
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req todos.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	now := s.now().UTC()
	t := todos.Todo{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = tasks.PriorityMedium
	}
	if err := putDoc(r.Context(), s.store, kindTodo, t.ID, userID(r), t); err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	if t, ok := loadOwned[todos.Todo](s, w, r, kindTodo, "Todo"); ok {
		writeData(w, http.StatusOK, t)
	}
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	var req todos.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := loadOwned[todos.Todo](s, w, r, kindTodo, "Todo")
	if !ok {
		return
	}
	t = req.Apply(t)
	t.UpdatedAt = s.now().UTC()
	if err := putDoc(r.Context(), s.store, kindTodo, t.ID, userID(r), t); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Todo updated successfully")
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := loadOwned[todos.Todo](s, w, r, kindTodo, "Todo")
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), kindTodo, t.ID); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Todo deleted successfully")
}
