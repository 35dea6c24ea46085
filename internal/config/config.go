// internal/config/config.go
//
// Runtime configuration for the admin console. Every operator machine gets
// a ~/.micasa/ folder holding the config file and the logbook. A missing
// config file is written from the embedded default on first run so there
// is always a file to edit.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MicasaDir is the per-operator settings directory under $HOME.
	MicasaDir = ".micasa"

	configFileName = "config.yaml"

	defaultBaseURL        = "http://localhost:4000"
	defaultTimeoutSeconds = 30
)

const defaultConfigYAML = `# micasa-admin configuration
version: 1

api:
  base_url: http://localhost:4000
  user_endpoint: /api/user/graphqlUser
  buyer_endpoint: /api/buyer/graphqlBuyer
  upload_endpoint: /api/documents/uploadToCloudinary
  timeout_seconds: 30

log:
  path: ""   # empty means <settings dir>/logs/admin.log
`

// APIConfig is the backend contact surface.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	UserEndpoint   string `yaml:"user_endpoint"`
	BuyerEndpoint  string `yaml:"buyer_endpoint"`
	UploadEndpoint string `yaml:"upload_endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig locates the logbook file.
type LogConfig struct {
	Path string `yaml:"path"`
}

// Config models the config.yaml file plus derived paths.
type Config struct {
	Version int       `yaml:"version"`
	API     APIConfig `yaml:"api"`
	Log     LogConfig `yaml:"log"`

	// SettingsDir is where the file was loaded from; not serialized.
	SettingsDir string `yaml:"-"`
}

// Timeout returns the backend call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// LogPath resolves the logbook file, defaulting into the settings dir.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return filepath.Join(c.SettingsDir, "logs", "admin.log")
}

// DefaultDir returns the per-operator settings directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, MicasaDir), nil
}

// Load reads the config file from dir, writing the embedded default first
// when none exists. The MICASA_API_URL environment variable overrides the
// configured base URL.
func Load(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("config: ensure settings dir: %w", err)
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			return nil, fmt.Errorf("config: write default config: %w", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.SettingsDir = dir
	applyDefaults(cfg)

	if override := os.Getenv("MICASA_API_URL"); override != "" {
		cfg.API.BaseURL = override
	}
	return cfg, nil
}

// Save writes the config back to its settings directory.
func (c *Config) Save() error {
	if c.SettingsDir == "" {
		return fmt.Errorf("config: settings dir unknown")
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	path := filepath.Join(c.SettingsDir, configFileName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}
	if cfg.API.UserEndpoint == "" {
		cfg.API.UserEndpoint = "/api/user/graphqlUser"
	}
	if cfg.API.BuyerEndpoint == "" {
		cfg.API.BuyerEndpoint = "/api/buyer/graphqlBuyer"
	}
	if cfg.API.UploadEndpoint == "" {
		cfg.API.UploadEndpoint = "/api/documents/uploadToCloudinary"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = defaultTimeoutSeconds
	}
}
