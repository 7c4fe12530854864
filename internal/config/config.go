package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/dash/internal/constants"
)

type AvatarConfig struct {
	Bucket    string `yaml:"bucket"     json:"bucket"`
	Region    string `yaml:"region"     json:"region"`
	Endpoint  string `yaml:"endpoint"   json:"endpoint"`
	PublicURL string `yaml:"public_url" json:"public_url"`
	Prefix    string `yaml:"prefix"     json:"prefix"`

	// Static keys for S3-compatible stores. When empty the default AWS
	// credential chain is used.
	AccessKeyID     string `yaml:"access_key_id,omitempty"     json:"-"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"-"`
}

type Config struct {
	APIBaseURL  string            `yaml:"api_base_url" json:"api_base_url"`
	Environment string            `yaml:"environment"  json:"environment"`
	Timeout     string            `yaml:"timeout"      json:"timeout"`
	LogLevel    string            `yaml:"log_level"    json:"log_level"`
	Avatar      AvatarConfig      `yaml:"avatar"       json:"avatar"`
	Credentials map[string]string `yaml:"credentials"  json:"-"`

	path string     `yaml:"-"`
	mu   sync.Mutex `yaml:"-"`
}

const (
	defaultBaseURL     = "http://localhost:8080/api/v1"
	defaultEnvironment = "development"
	defaultLogLevel    = "info"
)

var ValidEnvironments = map[string]bool{
	"development": true,
	"production":  true,
	"test":        true,
}

func ValidateEnvironment(env string) error {
	if _, valid := ValidEnvironments[env]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid environment: %q. Please choose from 'development', 'production', or 'test'",
		env,
	)
}

func newConfig(path string) *Config {
	return &Config{
		APIBaseURL:  defaultBaseURL,
		Environment: defaultEnvironment,
		Timeout:     constants.DefaultTimeout.String(),
		LogLevel:    defaultLogLevel,
		Credentials: make(map[string]string),
		path:        path,
	}
}

func (cfg *Config) ensureDefaults() {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = defaultBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.Timeout == "" {
		cfg.Timeout = constants.DefaultTimeout.String()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Credentials == nil {
		cfg.Credentials = make(map[string]string)
	}
}

// Load reads the config file under home, overlaying values from a local
// .env file and DASH_* environment variables.
func Load(home string) (*Config, error) {
	return LoadFile(GetConfigPath(home))
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := newConfig(path)
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.path = path

	applyEnvironment(cfg)
	cfg.ensureDefaults()

	if err := ValidateEnvironment(cfg.Environment); err != nil {
		return nil, err
	}
	if _, err := time.ParseDuration(cfg.Timeout); err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
	}

	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	overrides := map[string]*string{
		"api_base_url":      &cfg.APIBaseURL,
		"environment":       &cfg.Environment,
		"timeout":           &cfg.Timeout,
		"log_level":         &cfg.LogLevel,
		"avatar_bucket":     &cfg.Avatar.Bucket,
		"avatar_region":     &cfg.Avatar.Region,
		"avatar_endpoint":   &cfg.Avatar.Endpoint,
		"avatar_public_url": &cfg.Avatar.PublicURL,
		"avatar_access_key": &cfg.Avatar.AccessKeyID,
		"avatar_secret_key": &cfg.Avatar.SecretAccessKey,
	}
	for key, target := range overrides {
		if value := strings.TrimSpace(v.GetString(key)); value != "" {
			*target = value
		}
	}
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production"
}

func (cfg *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil || d <= 0 {
		return constants.DefaultTimeout
	}
	return d
}

func (cfg *Config) Path() string {
	return cfg.path
}

// Dir is the directory holding the config file and the cookie jar.
func (cfg *Config) Dir() string {
	return filepath.Dir(cfg.path)
}

func (cfg *Config) ChangeBaseURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("api base url cannot be empty")
	}

	cfg.mu.Lock()
	cfg.APIBaseURL = strings.TrimRight(url, "/")
	cfg.mu.Unlock()

	return cfg.Save()
}

func (cfg *Config) ChangeEnvironment(env string) error {
	if err := ValidateEnvironment(env); err != nil {
		return err
	}

	cfg.mu.Lock()
	cfg.Environment = env
	cfg.mu.Unlock()

	return cfg.Save()
}

// Get, Set and Remove make the credentials section usable as the fallback
// token store.
func (cfg *Config) Get(name string) (string, bool) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	value, ok := cfg.Credentials[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (cfg *Config) Set(name, value string) error {
	cfg.mu.Lock()
	if cfg.Credentials == nil {
		cfg.Credentials = make(map[string]string)
	}
	cfg.Credentials[name] = value
	cfg.mu.Unlock()

	return cfg.Save()
}

func (cfg *Config) Remove(name string) error {
	cfg.mu.Lock()
	if _, ok := cfg.Credentials[name]; !ok {
		cfg.mu.Unlock()
		return nil
	}
	delete(cfg.Credentials, name)
	cfg.mu.Unlock()

	return cfg.Save()
}

func (cfg *Config) Save() error {
	if cfg.path == "" {
		return fmt.Errorf("config path is not set")
	}

	cfg.mu.Lock()
	data, err := yaml.Marshal(cfg)
	cfg.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.path), 0o700); err != nil {
		return err
	}

	return os.WriteFile(cfg.path, data, 0o600)
}
