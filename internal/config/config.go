// Package config loads userboard settings from ~/.userboard/config.yaml with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/userboard/internal/gateway"
)

const fileName = "config.yaml"

// Config is everything the CLI needs to build a session.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
	Theme   string        `yaml:"theme"`
	Debug   bool          `yaml:"debug"`

	// TokenSource is "env", "file" or "" when no token is set.
	TokenSource string `yaml:"-"`
}

func Default() Config {
	return Config{
		BaseURL: gateway.DefaultBaseURL,
		Timeout: 10 * time.Second,
		Theme:   "classic",
	}
}

// Dir is the per-user settings directory; USERBOARD_HOME overrides it.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("USERBOARD_HOME")); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".userboard"), nil
}

// Path resolves the config file location; an explicit path wins.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config file (a missing file means defaults) and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	p, err := Path(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", p, err)
		}
		if cfg.Token != "" {
			cfg.Token = stripBearer(strings.TrimSpace(cfg.Token))
			cfg.TokenSource = "file"
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("USERBOARD_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("USERBOARD_TOKEN")); v != "" {
		cfg.Token = stripBearer(v)
		cfg.TokenSource = "env"
	}
	if v := strings.TrimSpace(getenv("USERBOARD_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid USERBOARD_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(getenv("DEBUG")); v != "" {
		if dbg, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = dbg
		}
	}
	return nil
}

// Validate rejects settings no session can run with.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base_url %q: must start with http:// or https://", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	return nil
}

// SaveToken stores token in the config file, creating it with owner-only
// permissions. An empty token removes it.
func SaveToken(path, token string) error {
	p, err := Path(path)
	if err != nil {
		return err
	}
	doc := map[string]any{}
	b, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("parse config %s: %w", p, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}

	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		delete(doc, "token")
	} else {
		doc["token"] = token
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(p, out, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
