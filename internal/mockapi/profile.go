package mockapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Paintersrp/dash/internal/services/profile"
)

func (s *Server) currentUser(ctx context.Context, id string) (userRecord, error) {
	u, _, err := getDoc[userRecord](ctx, s.store, kindUser, id)
	return u, err
}

// profileFor returns the stored profile, creating an empty one on first use.
func (s *Server) profileFor(ctx context.Context, uid string) (profile.Profile, error) {
	p, _, err := getDoc[profile.Profile](ctx, s.store, kindProfile, uid)
	if errors.Is(err, ErrNotFound) {
		now := s.now().UTC()
		p = profile.Profile{ID: uuid.NewString(), UserID: uid, CreatedAt: now, UpdatedAt: now}
		return p, putDoc(ctx, s.store, kindProfile, uid, uid, p)
	}
	return p, err
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, status int) {
	ctx := r.Context()
	u, err := s.currentUser(ctx, userID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	p, err := s.profileFor(ctx, u.ID)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, status, profile.Response{User: u.User, Profile: p})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeProfile(w, r, http.StatusOK)
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	s.saveProfile(w, r, http.StatusCreated)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	s.saveProfile(w, r, http.StatusOK)
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request, status int) {
	var req profile.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uid := userID(r)
	p, err := s.profileFor(r.Context(), uid)
	if err != nil {
		s.internalError(w, err)
		return
	}
	p = mergeProfile(p, req)
	p.UpdatedAt = s.now().UTC()
	if err := putDoc(r.Context(), s.store, kindProfile, uid, uid, p); err != nil {
		s.internalError(w, err)
		return
	}
	s.writeProfile(w, r, status)
}

func (s *Server) updateAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.AvatarURL) == "" {
		writeError(w, http.StatusBadRequest, "avatar_url is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	uid := userID(r)
	p, err := s.profileFor(r.Context(), uid)
	if err != nil {
		s.internalError(w, err)
		return
	}
	p.Avatar = strings.TrimSpace(req.AvatarURL)
	p.UpdatedAt = s.now().UTC()
	if err := putDoc(r.Context(), s.store, kindProfile, uid, uid, p); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Avatar updated successfully")
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req profile.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.currentUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, err)
		return
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = s.now().UTC()
	if err := s.saveUser(r.Context(), u); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Password changed successfully")
}

// mergeProfile copies the non-empty fields of req onto p.
func mergeProfile(p profile.Profile, req profile.UpdateRequest) profile.Profile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.FullName, req.FullName)
	set(&p.Bio, req.Bio)
	set(&p.Avatar, req.Avatar)
	set(&p.DateOfBirth, req.DateOfBirth)
	set(&p.Gender, req.Gender)
	set(&p.PhoneNumber, req.PhoneNumber)
	set(&p.Country, req.Country)
	set(&p.City, req.City)
	set(&p.Timezone, req.Timezone)
	set(&p.Language, req.Language)
	set(&p.Theme, req.Theme)
	return p
}
