package state

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Paintersrp/dash/internal/api"
	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/logging"
	"github.com/Paintersrp/dash/internal/notify"
	"github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/services/notes"
	"github.com/Paintersrp/dash/internal/services/profile"
	"github.com/Paintersrp/dash/internal/services/tasks"
	"github.com/Paintersrp/dash/internal/services/todos"
	"github.com/Paintersrp/dash/internal/tokens"
)

// State is the application session: configuration, stored credentials,
// the API client and the services built on it. It is created once in main
// and closed on exit.
type State struct {
	Config      *config.Config
	Home        string
	Log         zerolog.Logger
	Cookies     *tokens.CookieStore
	Credentials *tokens.Credentials
	Notifier    notify.Notifier
	Expiry      *notify.ExpiryNotifier
	Client      *api.Client

	Auth    *auth.Service
	Notes   *notes.Service
	Tasks   *tasks.Service
	Todos   *todos.Service
	Profile *profile.Service
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	s := New(cfg, os.Stderr)
	s.Home = home
	return s, nil
}

// New wires a State around cfg. Logs and notifications go to out.
func New(cfg *config.Config, out io.Writer) *State {
	log := logging.New(out, cfg.LogLevel)

	cookies := tokens.NewCookieStore(filepath.Join(cfg.Dir(), constants.CookieFile))
	creds := tokens.NewCredentials(&tokens.Store{Cookies: cookies, Fallback: cfg}, cfg.IsProduction())

	notifier := notify.NewConsole(out)
	expiry := notify.NewExpiryNotifier(notifier)

	client := api.New(cfg.APIBaseURL, creds,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(log),
		api.WithExpiryNotifier(expiry),
	)

	return &State{
		Config:      cfg,
		Log:         log,
		Cookies:     cookies,
		Credentials: creds,
		Notifier:    notifier,
		Expiry:      expiry,
		Client:      client,
		Auth:        auth.NewService(client, expiry),
		Notes:       notes.NewService(client),
		Tasks:       tasks.NewService(client),
		Todos:       todos.NewService(client),
		Profile:     profile.NewService(client),
	}
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases the client's pooled connections.
func (s *State) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	s.Client.CloseIdleConnections()
	return nil
}
