// Package auth wraps the authentication endpoints and keeps the stored
// token pair in step with them.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/notify"
)

var ErrNoRefreshToken = errors.New("no refresh token available")

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	client *api.Client
	expiry *notify.ExpiryNotifier
}

func NewService(client *api.Client, expiry *notify.ExpiryNotifier) *Service {
	return &Service{client: client, expiry: expiry}
}

// Login stores the returned token pair and re-arms the session-expired
// notice.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	out, err := api.Do[LoginResponse](ctx, s.client, http.MethodPost, "/auth/login", req, false)
	if err != nil {
		return out, err
	}
	if err := s.client.Credentials().SetPair(out.AccessToken, out.RefreshToken); err != nil {
		return out, err
	}
	if s.expiry != nil {
		s.expiry.Reset()
	}
	return out, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	return s.client.Post(ctx, "/auth/register", req, false).Failure()
}

func (s *Service) VerifyOTP(ctx context.Context, req OTPRequest) error {
	return s.client.Post(ctx, "/auth/verify-otp", req, false).Failure()
}

func (s *Service) RequestOTP(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/request-otp", map[string]string{"email": email}, false).Failure()
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, false).Failure()
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return s.client.Post(ctx, "/auth/reset-password", req, false).Failure()
}

// Refresh exchanges the refresh token for a new access token. A rejected
// refresh token clears the stored pair.
func (s *Service) Refresh(ctx context.Context) (RefreshResponse, error) {
	creds := s.client.Credentials()
	token, ok := creds.Refresh()
	if !ok {
		return RefreshResponse{}, ErrNoRefreshToken
	}

	resp := s.client.Post(ctx, api.RefreshPath, map[string]string{"refresh_token": token}, false)
	var out RefreshResponse
	if err := resp.Decode(&out); err != nil {
		if resp.Status == http.StatusUnauthorized {
			_ = creds.Clear()
		}
		return out, err
	}
	return out, creds.SetAccess(out.AccessToken)
}

// Logout revokes the refresh token when there is one, then clears local
// credentials whatever the server said.
func (s *Service) Logout(ctx context.Context) error {
	creds := s.client.Credentials()
	var remote error
	if token, ok := creds.Refresh(); ok {
		remote = s.client.Post(ctx, "/auth/logout", map[string]string{"refresh_token": token}, false).Failure()
	}
	return errors.Join(creds.Clear(), remote)
}

func (s *Service) IsAuthenticated() bool {
	_, ok := s.client.Credentials().Access()
	return ok
}
