package mockapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Paintersrp/dash/internal/services/auth"
)

type userRecord struct {
	auth.User
	PasswordHash string `json:"password_hash"`
}

type refreshRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type otpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func randomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// userByEmail looks a user up through the owner index, which holds emails
// for user documents.
func (s *Server) userByEmail(ctx context.Context, email string) (userRecord, error) {
	users, err := listDocs[userRecord](ctx, s.store, kindUser, normalizeEmail(email))
	if err != nil {
		return userRecord{}, err
	}
	if len(users) == 0 {
		return userRecord{}, ErrNotFound
	}
	return users[0], nil
}

func (s *Server) saveUser(ctx context.Context, u userRecord) error {
	return putDoc(ctx, s.store, kindUser, u.ID, u.Email, u)
}

// ErrUserExists is returned by SeedUser when the email is taken.
var ErrUserExists = errors.New("user already exists")

// SeedUser creates a verified account directly, bypassing the OTP flow. An
// empty username defaults to the local part of the email.
func (s *Server) SeedUser(email, username, password string) (auth.User, error) {
	if _, err := s.userByEmail(context.Background(), email); err == nil {
		return auth.User{}, ErrUserExists
	}
	if username == "" {
		username, _, _ = strings.Cut(normalizeEmail(email), "@")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return auth.User{}, err
	}
	now := s.now().UTC()
	u := userRecord{
		User: auth.User{
			ID:         uuid.NewString(),
			Email:      normalizeEmail(email),
			Username:   username,
			IsActive:   true,
			IsVerified: true,
			Role:       "user",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		PasswordHash: string(hash),
	}
	return u.User, s.saveUser(context.Background(), u)
}

func (s *Server) issueOTP(ctx context.Context, email string) error {
	code := s.opts.OTP()
	rec := otpRecord{Code: code, ExpiresAt: s.now().Add(10 * time.Minute)}
	if err := putDoc(ctx, s.store, kindOTP, email, email, rec); err != nil {
		return err
	}
	s.log.Info().Str("email", email).Str("otp", code).Msg("one-time code issued")
	return nil
}

func (s *Server) checkOTP(ctx context.Context, email, code string) bool {
	rec, _, err := getDoc[otpRecord](ctx, s.store, kindOTP, email)
	if err != nil || rec.Code != code || s.now().After(rec.ExpiresAt) {
		return false
	}
	_ = s.store.Delete(ctx, kindOTP, email)
	return true
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Username) == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Email, username and a password of at least 6 characters are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, err)
		return
	}
	now := s.now().UTC()
	u := userRecord{
		User: auth.User{
			ID:        uuid.NewString(),
			Email:     email,
			Username:  strings.TrimSpace(req.Username),
			IsActive:  true,
			Role:      "user",
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}
	if err := s.saveUser(r.Context(), u); err != nil {
		s.internalError(w, err)
		return
	}
	if err := s.issueOTP(r.Context(), email); err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Registration successful. Check your email for the verification code.",
		Status:  http.StatusCreated,
	})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.OTPRequest
	if !decodeBody(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userByEmail(r.Context(), email)
	if err != nil || !s.checkOTP(r.Context(), email, strings.TrimSpace(req.OTP)) {
		writeError(w, http.StatusBadRequest, "Invalid or expired code")
		return
	}
	u.IsVerified = true
	u.UpdatedAt = s.now().UTC()
	if err := s.saveUser(r.Context(), u); err != nil {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Email verified")
}

func (s *Server) requestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)
	if _, err := s.userByEmail(r.Context(), email); err == nil {
		if err := s.issueOTP(r.Context(), email); err != nil {
			s.internalError(w, err)
			return
		}
	}
	writeMessage(w, "If the account exists, a code has been sent")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := s.userByEmail(r.Context(), req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !u.IsVerified {
		writeError(w, http.StatusForbidden, "Email not verified")
		return
	}

	access, err := s.signAccess(u.ID)
	if err != nil {
		s.internalError(w, err)
		return
	}
	refresh := uuid.NewString()
	rec := refreshRecord{UserID: u.ID, ExpiresAt: s.now().Add(s.opts.RefreshTTL)}
	if err := putDoc(r.Context(), s.store, kindRefresh, refresh, u.ID, rec); err != nil {
		s.internalError(w, err)
		return
	}

	writeData(w, http.StatusOK, auth.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.opts.AccessTTL / time.Second),
		User:         u.User,
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	rec, _, err := getDoc[refreshRecord](r.Context(), s.store, kindRefresh, req.RefreshToken)
	if err != nil || s.now().After(rec.ExpiresAt) {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	access, err := s.signAccess(rec.UserID)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeData(w, http.StatusOK, auth.RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int(s.opts.AccessTTL / time.Second),
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.Delete(r.Context(), kindRefresh, req.RefreshToken); err != nil && !errors.Is(err, ErrNotFound) {
		s.internalError(w, err)
		return
	}
	writeMessage(w, "Logged out")
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	s.requestOTP(w, r)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	email := normalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userByEmail(r.Context(), email)
	if err != nil || !s.checkOTP(r.Context(), email, strings.TrimSpace(req.OTP)) {
		writeError(w, http.StatusBadRequest, "Invalid or expired code")
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
	writeMessage(w, "Password has been reset")
}
