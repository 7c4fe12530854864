package todos

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/services/tasks"
)

const basePath = "/todos"

type Todo struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Done        bool           `json:"done"`
	Priority    tasks.Priority `json:"priority"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    tasks.Priority `json:"priority,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
}

type UpdateRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Done        *bool           `json:"done,omitempty"`
	Priority    *tasks.Priority `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

func (r UpdateRequest) Apply(t Todo) Todo {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.Done != nil {
		t.Done = *r.Done
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.DueDate != nil {
		d := *r.DueDate
		t.DueDate = &d
	}
	return t
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func todoPath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func (s *Service) List(ctx context.Context) ([]Todo, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("todo service is not configured")
	}
	return api.Do[[]Todo](ctx, s.client, http.MethodGet, basePath, nil, true)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Todo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return Todo{}, errors.New("todo title is required")
	}
	if req.Priority == "" {
		req.Priority = tasks.PriorityMedium
	}
	return api.Do[Todo](ctx, s.client, http.MethodPost, basePath, req, true)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) error {
	return s.client.Patch(ctx, todoPath(id), req, true).Failure()
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, todoPath(id), true).Failure()
}

// Toggle flips done for t and returns the request it sent.
func (s *Service) Toggle(ctx context.Context, t Todo) (UpdateRequest, error) {
	done := !t.Done
	req := UpdateRequest{Done: &done}
	return req, s.Update(ctx, t.ID, req)
}
