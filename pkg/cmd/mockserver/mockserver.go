package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/mockapi"
	"github.com/Paintersrp/dash/internal/state"
)

type options struct {
	addr     string
	db       string
	prefix   string
	secret   string
	email    string
	password string
}

func NewCmdMockServer(s *state.State) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local dashboard API for development",
		Long: heredoc.Doc(`
			Serve the dashboard REST API from memory, or from a SQLite file
			with --db. One-time codes are printed to the log instead of being
			emailed. Point api_base_url at the server to use it.
		`),
		Example: heredoc.Doc(`
			dash mock-server
			dash mock-server --addr :9000 --db ./dash.db --seed-email me@example.com --seed-password secret
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := build(s, o)
			if err != nil {
				return err
			}
			defer srv.Close()

			ln, err := net.Listen("tcp", o.addr)
			if err != nil {
				return err
			}
			s.Log.Info().Str("addr", ln.Addr().String()).Str("prefix", o.prefix).Msg("mock API listening")
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s%s\n", ln.Addr(), o.prefix)
			return serve(ctx, ln, srv)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.addr, "addr", "localhost:8080", "Address to listen on")
	f.StringVar(&o.db, "db", "", "SQLite file to persist data in, memory when empty")
	f.StringVar(&o.prefix, "prefix", "/api/v1", "Route prefix")
	f.StringVar(&o.secret, "secret", "", "JWT signing secret")
	f.StringVar(&o.email, "seed-email", "", "Create a verified account with this email")
	f.StringVar(&o.password, "seed-password", "", "Password for the seeded account")

	return cmd
}

func build(s *state.State, o options) (*mockapi.Server, error) {
	opts := mockapi.Options{
		Prefix: o.prefix,
		Secret: []byte(o.secret),
		Logger: s.Log,
	}
	if o.db != "" {
		store, err := mockapi.OpenSQLiteStore(o.db)
		if err != nil {
			return nil, err
		}
		opts.Store = store
	}

	srv := mockapi.New(opts)
	if o.email != "" {
		if o.password == "" {
			srv.Close()
			return nil, errors.New("--seed-password is required with --seed-email")
		}
		if _, err := srv.SeedUser(o.email, "", o.password); err != nil && !errors.Is(err, mockapi.ErrUserExists) {
			srv.Close()
			return nil, err
		}
	}
	return srv, nil
}

// serve runs h on ln until ctx is cancelled, then drains connections.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	hs := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
