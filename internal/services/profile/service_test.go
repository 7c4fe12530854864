package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/services/profile"
)

func TestGetAndUpdate(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := profile.NewService(env.Client)
	ctx := context.Background()

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.User.Email != mockapitest.Email {
		t.Fatalf("expected seeded user, got %#v", got.User)
	}

	updated, err := svc.Update(ctx, profile.UpdateRequest{FullName: "  Test User ", City: "Oslo"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Profile.FullName != "Test User" || updated.Profile.City != "Oslo" {
		t.Fatalf("unexpected profile: %#v", updated.Profile)
	}

	// Empty fields leave existing values alone.
	updated, err = svc.Update(ctx, profile.UpdateRequest{Bio: "hi"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Profile.City != "Oslo" || updated.Profile.Bio != "hi" {
		t.Fatalf("unexpected profile after partial update: %#v", updated.Profile)
	}
}

func TestUpdateAvatar(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := profile.NewService(env.Client)
	ctx := context.Background()

	if err := svc.UpdateAvatar(ctx, " "); !errors.Is(err, profile.ErrAvatarURLRequired) {
		t.Fatalf("expected ErrAvatarURLRequired, got %v", err)
	}
	if err := svc.UpdateAvatar(ctx, "https://cdn.example.com/a.png"); err != nil {
		t.Fatalf("UpdateAvatar returned error: %v", err)
	}
	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Profile.Avatar != "https://cdn.example.com/a.png" {
		t.Fatalf("avatar = %q", got.Profile.Avatar)
	}
}

func TestChangePassword(t *testing.T) {
	env := mockapitest.New(t)
	env.Login(t)
	svc := profile.NewService(env.Client)
	ctx := context.Background()

	tests := []struct {
		name string
		req  profile.ChangePasswordRequest
		want error
	}{
		{"missing", profile.ChangePasswordRequest{OldPassword: "x"}, profile.ErrPasswordsRequired},
		{"unchanged", profile.ChangePasswordRequest{OldPassword: "same", NewPassword: "same"}, profile.ErrPasswordsUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.ChangePassword(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	wrong := profile.ChangePasswordRequest{OldPassword: "not it", NewPassword: "another one"}
	if err := svc.ChangePassword(ctx, wrong); err == nil {
		t.Fatalf("expected wrong old password to be rejected")
	}

	req := profile.ChangePasswordRequest{OldPassword: mockapitest.Password, NewPassword: "fresh password"}
	if err := svc.ChangePassword(ctx, req); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, err := env.Auth.Login(ctx, auth.LoginRequest{Email: mockapitest.Email, Password: "fresh password"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
