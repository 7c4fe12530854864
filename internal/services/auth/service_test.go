package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/services/auth"
)

func TestRegisterVerifyAndLogin(t *testing.T) {
	env := mockapitest.New(t)
	ctx := context.Background()

	req := auth.RegisterRequest{Email: "new@example.com", Username: "new", Password: "pa55word"}
	if err := env.Auth.Register(ctx, req); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, err := env.Auth.Login(ctx, auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err == nil {
		t.Fatalf("expected login to fail before verification")
	}

	if err := env.Auth.VerifyOTP(ctx, auth.OTPRequest{Email: req.Email, OTP: mockapitest.OTP}); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	out, err := env.Auth.Login(ctx, auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if out.User.Username != "new" {
		t.Fatalf("expected username new, got %q", out.User.Username)
	}
	if !env.Auth.IsAuthenticated() {
		t.Fatalf("expected stored credentials after login")
	}
	if refresh, _ := env.Creds.Refresh(); refresh != out.RefreshToken {
		t.Fatalf("refresh token not stored")
	}
}

func TestRefreshReplacesAccessToken(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)

	if _, err := env.Auth.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if _, ok := env.Creds.Access(); !ok {
		t.Fatalf("expected access token after refresh")
	}
}

func TestRefreshWithoutTokenFails(t *testing.T) {
	env := mockapitest.New(t)
	if _, err := env.Auth.Refresh(context.Background()); !errors.Is(err, auth.ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestRejectedRefreshClearsCredentials(t *testing.T) {
	env := mockapitest.New(t)
	if err := env.Creds.SetPair("stale", "unknown-refresh"); err != nil {
		t.Fatalf("SetPair returned error: %v", err)
	}

	_, err := env.Auth.Refresh(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if env.Auth.IsAuthenticated() {
		t.Fatalf("expected credentials to be cleared")
	}
}

func TestLogoutClearsAndRevokes(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	refresh, _ := env.Creds.Refresh()

	if err := env.Auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if env.Auth.IsAuthenticated() {
		t.Fatalf("expected no credentials after logout")
	}

	// The revoked refresh token must no longer work.
	if err := env.Creds.SetPair("x", refresh); err != nil {
		t.Fatalf("SetPair returned error: %v", err)
	}
	if _, err := env.Auth.Refresh(context.Background()); err == nil {
		t.Fatalf("expected revoked refresh token to be rejected")
	}
}

func TestResetPassword(t *testing.T) {
	env := mockapitest.New(t)
	ctx := context.Background()

	if err := env.Auth.ForgotPassword(ctx, mockapitest.Email); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	err := env.Auth.ResetPassword(ctx, auth.ResetPasswordRequest{
		Email:       mockapitest.Email,
		OTP:         mockapitest.OTP,
		NewPassword: "brand new pass",
	})
	if err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if _, err := env.Auth.Login(ctx, auth.LoginRequest{Email: mockapitest.Email, Password: "brand new pass"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
