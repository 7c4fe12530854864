package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/services/auth"
)

var (
	ErrAvatarURLRequired  = errors.New("avatar URL is required")
	ErrPasswordsRequired  = errors.New("both old and new passwords are required")
	ErrPasswordsUnchanged = errors.New("new password must be different from old password")
)

type Profile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FullName    string    `json:"full_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	Language    string    `json:"language,omitempty"`
	Theme       string    `json:"theme,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Response struct {
	User    auth.User `json:"user"`
	Profile Profile   `json:"profile"`
}

// UpdateRequest fields left empty are not sent.
type UpdateRequest struct {
	FullName    string `json:"full_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Language    string `json:"language,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Get(ctx context.Context) (Response, error) {
	return api.Do[Response](ctx, s.client, http.MethodGet, "/profile", nil, true)
}

func (s *Service) Create(ctx context.Context, req UpdateRequest) (Response, error) {
	return api.Do[Response](ctx, s.client, http.MethodPost, "/profile", req.trimmed(), true)
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (Response, error) {
	return api.Do[Response](ctx, s.client, http.MethodPut, "/profile", req.trimmed(), true)
}

func (s *Service) UpdateAvatar(ctx context.Context, avatarURL string) error {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return ErrAvatarURLRequired
	}
	return s.client.Put(ctx, "/profile/avatar", map[string]string{"avatar_url": avatarURL}, true).Failure()
}

func (s *Service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrPasswordsRequired
	}
	if req.OldPassword == req.NewPassword {
		return ErrPasswordsUnchanged
	}
	return s.client.Put(ctx, "/profile/change-password", req, true).Failure()
}

func (r UpdateRequest) trimmed() UpdateRequest {
	for _, f := range []*string{
		&r.FullName, &r.Bio, &r.Avatar, &r.DateOfBirth, &r.Gender, &r.PhoneNumber,
		&r.Country, &r.City, &r.Timezone, &r.Language, &r.Theme,
	} {
		*f = strings.TrimSpace(*f)
	}
	return r
}
