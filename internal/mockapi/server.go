// Package mockapi is an in-process implementation of the dashboard REST API.
// It backs the mock-server command and the end-to-end tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/dash/internal/constants"
)

const (
	kindUser    = "user"
	kindRefresh = "refresh"
	kindOTP     = "otp"
	kindProfile = "profile"
	kindNote    = "note"
	kindTask    = "task"
	kindTodo    = "todo"
)

type Options struct {
	// Prefix is prepended to every route, e.g. "/api/v1".
	Prefix     string
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Store      Store
	Logger     zerolog.Logger
	// OTP generates one-time codes. Defaults to a random six digit code.
	OTP func() string
}

type Server struct {
	router *mux.Router
	store  Store
	secret []byte
	opts   Options
	now    func() time.Time
	log    zerolog.Logger

	// mu serializes read-modify-write cycles on documents.
	mu sync.Mutex
}

func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("dash-mock-secret")
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = constants.AccessTokenMaxAge
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = constants.RefreshTokenMaxAge
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.OTP == nil {
		opts.OTP = randomOTP
	}

	s := &Server{
		store:  opts.Store,
		secret: opts.Secret,
		opts:   opts,
		now:    time.Now,
		log:    opts.Logger,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) routes() {
	root := mux.NewRouter()
	r := root
	if p := strings.TrimRight(s.opts.Prefix, "/"); p != "" {
		r = root.PathPrefix(p).Subrouter()
	}
	r.Use(s.logRequests)

	a := r.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/register", s.register).Methods(http.MethodPost)
	a.HandleFunc("/verify-otp", s.verifyOTP).Methods(http.MethodPost)
	a.HandleFunc("/request-otp", s.requestOTP).Methods(http.MethodPost)
	a.HandleFunc("/login", s.login).Methods(http.MethodPost)
	a.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	a.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	a.HandleFunc("/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	a.HandleFunc("/reset-password", s.resetPassword).Methods(http.MethodPost)

	p := r.NewRoute().Subrouter()
	p.Use(s.requireAuth)

	p.HandleFunc("/profile", s.getProfile).Methods(http.MethodGet)
	p.HandleFunc("/profile", s.createProfile).Methods(http.MethodPost)
	p.HandleFunc("/profile", s.updateProfile).Methods(http.MethodPut)
	p.HandleFunc("/profile/avatar", s.updateAvatar).Methods(http.MethodPut)
	p.HandleFunc("/profile/change-password", s.changePassword).Methods(http.MethodPut)

	p.HandleFunc("/notes", s.listNotes).Methods(http.MethodGet)
	p.HandleFunc("/notes", s.createNote).Methods(http.MethodPost)
	p.HandleFunc("/notes/{id}", s.getNote).Methods(http.MethodGet)
	p.HandleFunc("/notes/{id}", s.updateNote).Methods(http.MethodPatch, http.MethodPut)
	p.HandleFunc("/notes/{id}", s.deleteNote).Methods(http.MethodDelete)
	p.HandleFunc("/notes/{id}/blocks", s.addBlock).Methods(http.MethodPost)
	p.HandleFunc("/notes/{id}/blocks/order", s.reorderBlocks).Methods(http.MethodPatch, http.MethodPut)
	p.HandleFunc("/notes/{id}/blocks/{blockId}", s.updateBlock).Methods(http.MethodPatch, http.MethodPut)
	p.HandleFunc("/notes/{id}/blocks/{blockId}", s.deleteBlock).Methods(http.MethodDelete)

	p.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	p.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	p.HandleFunc("/tasks/{id}", s.getTask).Methods(http.MethodGet)
	p.HandleFunc("/tasks/{id}", s.updateTask).Methods(http.MethodPatch, http.MethodPut)
	p.HandleFunc("/tasks/{id}", s.deleteTask).Methods(http.MethodDelete)

	p.HandleFunc("/todos", s.listTodos).Methods(http.MethodGet)
	p.HandleFunc("/todos", s.createTodo).Methods(http.MethodPost)
	p.HandleFunc("/todos/{id}", s.getTodo).Methods(http.MethodGet)
	p.HandleFunc("/todos/{id}", s.updateTodo).Methods(http.MethodPatch, http.MethodPut)
	p.HandleFunc("/todos/{id}", s.deleteTodo).Methods(http.MethodDelete)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.router = root
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("mock request")
	})
}

type ctxKey struct{}

type accessClaims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		claims := &accessClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		})
		if err != nil || !parsed.Valid || claims.UserID == "" {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (s *Server) signAccess(uid string) (string, error) {
	now := s.now()
	claims := accessClaims{
		UserID: uid,
		StandardClaims: jwt.StandardClaims{
			Subject:   uid,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.opts.AccessTTL).Unix(),
			Issuer:    constants.AppName + "-mock",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data, Status: status})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: msg,
		Data:    map[string]string{"message": msg},
		Status:  http.StatusOK,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg, Status: status})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("mock server error")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
