package tokens

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Options mirror the attributes a browser cookie is written with.
type Options struct {
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
	Path     string
}

type cookieRecord struct {
	Name     string    `yaml:"name"`
	Value    string    `yaml:"value"`
	Path     string    `yaml:"path"`
	Expires  time.Time `yaml:"expires"`
	Secure   bool      `yaml:"secure"`
	SameSite string    `yaml:"same_site"`
}

// CookieStore is a small persistent cookie jar. Cookies past their expiry
// read as absent and are dropped on the next write.
type CookieStore struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	cookies map[string]*http.Cookie
	loaded  bool
}

func NewCookieStore(path string) *CookieStore {
	return &CookieStore{
		path:    path,
		now:     time.Now,
		cookies: make(map[string]*http.Cookie),
	}
}

func (s *CookieStore) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", false
	}

	c, ok := s.cookies[name]
	if !ok || s.expired(c) {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Set(name, value string, opts Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	path := opts.Path
	if path == "" {
		path = "/"
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	s.cookies[name] = &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   int(maxAge / time.Second),
		Expires:  s.now().Add(maxAge),
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	return s.save()
}

func (s *CookieStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.cookies[name]; !ok {
		return nil
	}
	delete(s.cookies, name)
	return s.save()
}

func (s *CookieStore) expired(c *http.Cookie) bool {
	return !c.Expires.IsZero() && !s.now().Before(c.Expires)
}

func (s *CookieStore) load() error {
	if s.loaded || s.path == "" {
		s.loaded = true
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cookie jar: %w", err)
	}

	var records []cookieRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse cookie jar %s: %w", s.path, err)
	}
	for _, r := range records {
		s.cookies[r.Name] = &http.Cookie{
			Name:     r.Name,
			Value:    r.Value,
			Path:     r.Path,
			Expires:  r.Expires,
			Secure:   r.Secure,
			SameSite: parseSameSite(r.SameSite),
		}
	}
	s.loaded = true
	return nil
}

func (s *CookieStore) save() error {
	if s.path == "" {
		return nil
	}

	records := make([]cookieRecord, 0, len(s.cookies))
	for name, c := range s.cookies {
		if s.expired(c) {
			delete(s.cookies, name)
			continue
		}
		records = append(records, cookieRecord{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			SameSite: sameSiteName(c.SameSite),
		})
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func sameSiteName(m http.SameSite) string {
	switch m {
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return ""
	}
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
