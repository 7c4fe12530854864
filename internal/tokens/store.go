// Package tokens keeps the access and refresh tokens. The cookie jar is the
// primary store; a fallback store is read only when a cookie is missing.
package tokens

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/Paintersrp/dash/internal/constants"
)

const DefaultMaxAge = constants.DefaultCookieAge

// FallbackStore is the secondary key/value store. config.Config satisfies it
// through its credentials section.
type FallbackStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Store reads the cookie first and only then the fallback. Writes go to the
// cookie jar alone.
type Store struct {
	Cookies  *CookieStore
	Fallback FallbackStore
}

func (s *Store) Get(name string) (string, bool) {
	if s.Cookies != nil {
		if v, ok := s.Cookies.Get(name); ok {
			return v, true
		}
	}
	if s.Fallback != nil {
		return s.Fallback.Get(name)
	}
	return "", false
}

func (s *Store) Set(name, value string, opts Options) error {
	if s.Cookies == nil {
		return errors.New("tokens: no cookie store configured")
	}
	return s.Cookies.Set(name, value, opts)
}

func (s *Store) Remove(name string) error {
	if s.Cookies == nil {
		return nil
	}
	return s.Cookies.Remove(name)
}

// MemoryStore is an in-process FallbackStore.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok && v != ""
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Credentials manages the token pair across both stores.
type Credentials struct {
	store  *Store
	secure bool
}

// NewCredentials returns credentials backed by store. secure marks the
// cookies Secure, which production builds require.
func NewCredentials(store *Store, secure bool) *Credentials {
	return &Credentials{store: store, secure: secure}
}

func (c *Credentials) options(maxAge time.Duration) Options {
	return Options{
		MaxAge:   maxAge,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

func (c *Credentials) SetPair(access, refresh string) error {
	if err := c.SetAccess(access); err != nil {
		return err
	}
	if err := c.store.Set(constants.RefreshTokenKey, refresh, c.options(constants.RefreshTokenMaxAge)); err != nil {
		return err
	}
	if c.store.Fallback != nil {
		return c.store.Fallback.Set(constants.RefreshTokenKey, refresh)
	}
	return nil
}

func (c *Credentials) SetAccess(access string) error {
	if err := c.store.Set(constants.AccessTokenKey, access, c.options(constants.AccessTokenMaxAge)); err != nil {
		return err
	}
	if c.store.Fallback != nil {
		return c.store.Fallback.Set(constants.AccessTokenKey, access)
	}
	return nil
}

func (c *Credentials) Access() (string, bool) {
	return c.store.Get(constants.AccessTokenKey)
}

func (c *Credentials) Refresh() (string, bool) {
	return c.store.Get(constants.RefreshTokenKey)
}

// Clear removes both tokens from both stores.
func (c *Credentials) Clear() error {
	var errs []error
	for _, key := range []string{constants.AccessTokenKey, constants.RefreshTokenKey} {
		errs = append(errs, c.store.Remove(key))
		if c.store.Fallback != nil {
			errs = append(errs, c.store.Fallback.Remove(key))
		}
	}
	return errors.Join(errs...)
}

// AccessValid reports whether token is a JWT whose exp claim lies in the
// future. The signature is not checked; the server does that.
func AccessValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return now.Before(time.Unix(int64(exp), 0))
}
