// Package api is the authenticated HTTP client for the dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/tokens"
)

const RefreshPath = "/auth/refresh"

type Client struct {
	baseURL string
	http    *http.Client
	creds   *tokens.Credentials
	expiry  *notify.ExpiryNotifier
	log     zerolog.Logger

	refreshes singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithExpiryNotifier(n *notify.ExpiryNotifier) Option {
	return func(c *Client) { c.expiry = n }
}

func New(baseURL string, creds *tokens.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: constants.DefaultTimeout},
		creds:   creds,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Credentials() *tokens.Credentials { return c.creds }

func (c *Client) BaseURL() string { return c.baseURL }

// CloseIdleConnections releases pooled connections at shutdown.
func (c *Client) CloseIdleConnections() { c.http.CloseIdleConnections() }

// Request performs one API call. A 401 on an authenticated call triggers a
// token refresh shared with every other caller waiting on one, followed by
// a single retry. If the refresh fails the stored tokens are cleared and
// the response carries ErrSessionExpired.
func (c *Client) Request(ctx context.Context, method, path string, body any, requireAuth bool) Response {
	return c.request(ctx, method, path, body, requireAuth, false)
}

func (c *Client) Get(ctx context.Context, path string, requireAuth bool) Response {
	return c.Request(ctx, http.MethodGet, path, nil, requireAuth)
}

func (c *Client) Post(ctx context.Context, path string, body any, requireAuth bool) Response {
	return c.Request(ctx, http.MethodPost, path, body, requireAuth)
}

func (c *Client) Put(ctx context.Context, path string, body any, requireAuth bool) Response {
	return c.Request(ctx, http.MethodPut, path, body, requireAuth)
}

func (c *Client) Patch(ctx context.Context, path string, body any, requireAuth bool) Response {
	return c.Request(ctx, http.MethodPatch, path, body, requireAuth)
}

func (c *Client) Delete(ctx context.Context, path string, requireAuth bool) Response {
	return c.Request(ctx, http.MethodDelete, path, nil, requireAuth)
}

func (c *Client) request(ctx context.Context, method, path string, body any, requireAuth, retry bool) Response {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return Response{Error: fmt.Sprintf("failed to encode request: %v", err), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Response{Error: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var sent string
	if requireAuth && c.creds != nil {
		if token, ok := c.creds.Access(); ok {
			sent = token
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return Response{Error: err.Error(), Err: err}
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return Response{Error: err.Error(), Status: resp.StatusCode, Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Bool("retry", retry).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized && requireAuth && !retry && !strings.Contains(path, RefreshPath) {
		if c.refresh(ctx, sent) {
			return c.request(ctx, method, path, body, requireAuth, true)
		}
		c.expire()
		out := decode(resp.StatusCode, data)
		out.Err = ErrSessionExpired
		return out
	}

	return decode(resp.StatusCode, data)
}

// refresh obtains a new access token. sent is the token the failed request
// carried; if another caller has already replaced it, no refresh is needed.
func (c *Client) refresh(ctx context.Context, sent string) bool {
	if c.creds == nil {
		return false
	}
	if current, ok := c.creds.Access(); ok && current != sent {
		return true
	}

	ctx = context.WithoutCancel(ctx)
	v, _, shared := c.refreshes.Do("refresh", func() (any, error) {
		return c.performRefresh(ctx), nil
	})
	c.log.Debug().Bool("shared", shared).Bool("ok", v.(bool)).Msg("token refresh")
	return v.(bool)
}

func (c *Client) performRefresh(ctx context.Context) bool {
	refreshToken, ok := c.creds.Refresh()
	if !ok {
		return false
	}

	resp := c.request(ctx, http.MethodPost, RefreshPath, map[string]string{"refresh_token": refreshToken}, false, true)
	if !resp.Success {
		c.log.Debug().Str("error", resp.Error).Msg("refresh rejected")
		return false
	}

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil || out.AccessToken == "" {
		return false
	}

	if out.RefreshToken != "" {
		err := c.creds.SetPair(out.AccessToken, out.RefreshToken)
		return err == nil
	}
	return c.creds.SetAccess(out.AccessToken) == nil
}

func (c *Client) expire() {
	if err := c.creds.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear credentials")
	}
	if c.expiry != nil {
		c.expiry.SessionExpired()
	}
}

func decode(status int, data []byte) Response {
	ok := status >= 200 && status < 300
	if ok && len(bytes.TrimSpace(data)) == 0 {
		return Response{Success: true, Status: status}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return Response{Error: parseFailure, Status: status}
	}

	if !ok {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
		}
		return Response{Error: msg, Status: status, Message: out.Message}
	}

	if out.Status == 0 {
		out.Status = status
	}
	return out
}

// Do performs a request and decodes its data into T.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, requireAuth bool) (T, error) {
	var out T
	resp := c.Request(ctx, method, path, body, requireAuth)
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
