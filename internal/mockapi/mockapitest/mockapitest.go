// Package mockapitest starts a mock API server on a loopback listener and
// hands back a client wired to it.
package mockapitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/logging"
	"github.com/Paintersrp/dash/internal/mockapi"
	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/tokens"
)

const (
	Email    = "tester@example.com"
	Password = "correct horse"
	OTP      = "424242"
)

type Env struct {
	Mock    *mockapi.Server
	HTTP    *httptest.Server
	Client  *api.Client
	Creds   *tokens.Credentials
	Expiry  *notify.ExpiryNotifier
	Toasts  *notify.Recorder
	Auth    *auth.Service
	Account auth.User
	// BaseURL is the server address including the route prefix.
	BaseURL string
}

// New starts a server with a seeded, verified account. The client is not
// logged in yet; call Login for that.
func New(t *testing.T, opts ...mockapi.Options) *Env {
	t.Helper()

	o := mockapi.Options{Logger: logging.Nop()}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.OTP == nil {
		o.OTP = func() string { return OTP }
	}

	mock := mockapi.New(o)
	srv := httptest.NewServer(mock)
	t.Cleanup(func() {
		srv.Close()
		mock.Close()
	})

	user, err := mock.SeedUser(Email, "tester", Password)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	creds := tokens.NewCredentials(&tokens.Store{
		Cookies:  tokens.NewCookieStore(""),
		Fallback: tokens.NewMemoryStore(),
	}, false)
	toasts := &notify.Recorder{}
	expiry := notify.NewExpiryNotifier(toasts)
	base := srv.URL + o.Prefix
	client := api.New(base, creds,
		api.WithHTTPClient(srv.Client()),
		api.WithTimeout(5*time.Second),
		api.WithExpiryNotifier(expiry),
	)

	return &Env{
		Mock:    mock,
		HTTP:    srv,
		Client:  client,
		Creds:   creds,
		Expiry:  expiry,
		Toasts:  toasts,
		Auth:    auth.NewService(client, expiry),
		Account: user,
		BaseURL: base,
	}
}

// Login signs the seeded account in and stores its tokens.
func (e *Env) Login(t *testing.T) {
	t.Helper()
	if _, err := e.Auth.Login(context.Background(), auth.LoginRequest{Email: Email, Password: Password}); err != nil {
		t.Fatalf("login: %v", err)
	}
}
