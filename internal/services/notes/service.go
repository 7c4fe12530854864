package notes

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/blocks"
)

const basePath = "/notes"

type CreateNoteRequest struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

type UpdateNoteRequest struct {
	Title  *string  `json:"title,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Pinned *bool    `json:"is_pinned,omitempty"`
}

type BlockRequest struct {
	Type    blocks.Type        `json:"type,omitempty"`
	Content *string            `json:"content_md,omitempty"`
	Items   *[]blocks.TodoItem `json:"items,omitempty"`
}

type ReorderBlocksRequest struct {
	Order []string `json:"order"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func notePath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}

func blockPath(noteID, blockID string) string {
	return notePath(noteID) + "/blocks/" + url.PathEscape(blockID)
}

func (s *Service) List(ctx context.Context) ([]blocks.Note, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("notes service is not configured")
	}
	return api.Do[[]blocks.Note](ctx, s.client, http.MethodGet, basePath, nil, true)
}

func (s *Service) Get(ctx context.Context, id string) (blocks.Note, error) {
	return api.Do[blocks.Note](ctx, s.client, http.MethodGet, notePath(id), nil, true)
}

func (s *Service) Create(ctx context.Context, req CreateNoteRequest) (blocks.Note, error) {
	return api.Do[blocks.Note](ctx, s.client, http.MethodPost, basePath, req, true)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateNoteRequest) error {
	return s.client.Patch(ctx, notePath(id), req, true).Failure()
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, notePath(id), true).Failure()
}

// AddBlock creates a block at the end of the note. Todo blocks start with
// an empty item list; other kinds carry content.
func (s *Service) AddBlock(ctx context.Context, noteID string, kind blocks.Type, content string) (blocks.Block, error) {
	req := BlockRequest{Type: kind}
	if kind == blocks.Todo {
		items := []blocks.TodoItem{}
		req.Items = &items
	} else {
		req.Content = &content
	}
	return api.Do[blocks.Block](ctx, s.client, http.MethodPost, notePath(noteID)+"/blocks", req, true)
}

// UpdateBlock sends only the fields that are set.
func (s *Service) UpdateBlock(ctx context.Context, noteID, blockID string, content *string, items []blocks.TodoItem) error {
	req := BlockRequest{Content: content}
	if items != nil {
		req.Items = &items
	}
	return s.client.Patch(ctx, blockPath(noteID, blockID), req, true).Failure()
}

func (s *Service) DeleteBlock(ctx context.Context, noteID, blockID string) error {
	return s.client.Delete(ctx, blockPath(noteID, blockID), true).Failure()
}

func (s *Service) ReorderBlocks(ctx context.Context, noteID string, order []string) error {
	return s.client.Patch(ctx, notePath(noteID)+"/blocks/order", ReorderBlocksRequest{Order: order}, true).Failure()
}
