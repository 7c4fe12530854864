package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Paintersrp/dash/internal/api"
)

const basePath = "/tasks"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParseStatus(s string) (Status, error) {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusTodo, StatusInProgress, StatusDone:
		return v, nil
	case "in-progress", "doing":
		return StatusInProgress, nil
	}
	return "", fmt.Errorf("invalid status %q: use todo, in_progress or done", s)
}

func ParsePriority(s string) (Priority, error) {
	switch v := Priority(strings.ToLower(strings.TrimSpace(s))); v {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return v, nil
	}
	return "", fmt.Errorf("invalid priority %q: use low, medium or high", s)
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// Apply returns t with the fields of r that are set.
func (r UpdateRequest) Apply(t Task) Task {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.Deadline != nil {
		d := *r.Deadline
		t.Deadline = &d
	}
	return t
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func taskPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("task service is not configured")
	}
	return api.Do[[]Task](ctx, s.client, http.MethodGet, basePath, nil, true)
}

func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return api.Do[Task](ctx, s.client, http.MethodGet, taskPath(id), nil, true)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return Task{}, errors.New("task title is required")
	}
	return api.Do[Task](ctx, s.client, http.MethodPost, basePath, req, true)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) error {
	return s.client.Patch(ctx, taskPath(id), req, true).Failure()
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, taskPath(id), true).Failure()
}
