package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvAPIURL    = "BCNT_API_URL"
	EnvAPIKey    = "BCNT_API_KEY"
	EnvToken     = "BCNT_TOKEN"
	EnvTimezone  = "BCNT_TIMEZONE"
	EnvLang      = "BCNT_LANG"
	EnvPrefsPath = "BCNT_PREFS_PATH"
	EnvCacheTTL  = "BCNT_CACHE_TTL"
)

// Config holds the client settings
type Config struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	APIKey    string        `yaml:"api_key,omitempty"`
	Token     string        `yaml:"token,omitempty"`
	Timezone  string        `yaml:"timezone" validate:"required"`
	Language  string        `yaml:"language,omitempty" validate:"omitempty,oneof=es ca en"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=1s"`
	CacheTTL  time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	NoCache   bool          `yaml:"no_cache,omitempty"`
	Refresh   time.Duration `yaml:"refresh" validate:"gte=5s"`
	PrefsPath string        `yaml:"prefs_path,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseURL:  "https://api.bcntransit.app",
		Timezone: "Europe/Madrid",
		Timeout:  10 * time.Second,
		CacheTTL: 24 * time.Hour,
		Refresh:  30 * time.Second,
	}
}

// Dir returns the configuration directory
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bcnt")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "bcnt")
	}
	return filepath.Join(home, ".config", "bcnt")
}

// DefaultPath returns the default configuration file
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path (the
// default file when empty), a .env file in the working directory and the
// environment, in that order. Flags are applied by the caller, which must
// then call Validate.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	// #nosec G304 -- path is the user's own config file
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no config file is fine
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Load .env into environment (ignore if missing)
	_ = godotenv.Load(envFile)

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvLang); v != "" {
		c.Language = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvPrefsPath); v != "" {
		c.PrefsPath = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", EnvCacheTTL, v)
		}
		c.CacheTTL = d
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location loads the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolvedPrefsPath returns the preferences database path
func (c *Config) ResolvedPrefsPath() string {
	if c.PrefsPath != "" {
		return c.PrefsPath
	}
	return filepath.Join(Dir(), "prefs.db")
}

// Save writes the configuration as YAML, creating the directory if needed.
// Secrets are written too, so the file is private to the user.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
