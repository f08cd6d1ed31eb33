package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultHost is the GitHub host used when neither config nor environment names one.
const DefaultHost = "github.com"

// Host holds the credentials and preferences for one GitHub host.
type Host struct {
	User       string `toml:"user" yaml:"user"`
	OAuthToken string `toml:"oauth_token" yaml:"oauth_token"`
	Protocol   string `toml:"protocol" yaml:"protocol"` // "http" or "https" for web and API URLs
}

// Config holds the hub configuration
type Config struct {
	DefaultHost string          `toml:"default_host"`
	GitProtocol string          `toml:"git_protocol"` // "git", "ssh" or "https" for clone URLs
	Browser     string          `toml:"browser"`
	APIURL      string          `toml:"api_url"` // overrides the API endpoint for every host
	Theme       string          `toml:"theme"`   // colors of status output
	Hosts       map[string]Host `toml:"hosts"`

	// Path is the file the configuration was read from, empty if none.
	Path string `toml:"-"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		DefaultHost: DefaultHost,
		Hosts:       map[string]Host{},
	}
}

// Load reads the hub configuration and applies environment overrides.
//
// The TOML file at $HUB_CONFIG or ~/.config/hub.toml is preferred. When it does
// not exist, the legacy YAML file ~/.config/hub is read instead.
// Returns Default() with overrides applied if neither file exists (no error).
// Returns error only if a file exists but is invalid.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	path := getenv("HUB_CONFIG")
	if path == "" {
		p, err := configPath()
		if err != nil {
			cfg := Default()
			cfg.applyEnv(getenv)
			return cfg, nil
		}
		path = p
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = loadLegacyDefault()
	}
	if err != nil {
		cfg = Default()
		cfg.applyEnv(getenv)
		return cfg, err
	}

	cfg.applyEnv(getenv)
	return cfg, nil
}

// LoadFile reads a TOML config file. A missing file is reported as an error
// wrapping os.ErrNotExist.
func LoadFile(path string) (Config, error) {
	path, err := expandPath(path)
	if err != nil {
		return Default(), err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), err
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	cfg.normalize()
	return cfg, nil
}

func loadLegacyDefault() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	cfg, err := LoadLegacy(filepath.Join(home, ".config", "hub"))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if err := validateEnum(c.GitProtocol, "git_protocol", ValidGitProtocols); err != nil {
		return err
	}
	if err := validateEnum(c.Theme, "theme", ValidThemes); err != nil {
		return err
	}
	for name, h := range c.Hosts {
		if err := validateEnum(h.Protocol, "protocol for host "+name, ValidWebProtocols); err != nil {
			return err
		}
	}
	return nil
}

// normalize lower-cases host keys and fills empty defaults.
func (c *Config) normalize() {
	if c.DefaultHost == "" {
		c.DefaultHost = DefaultHost
	}
	hosts := make(map[string]Host, len(c.Hosts))
	for name, h := range c.Hosts {
		hosts[strings.ToLower(name)] = h
	}
	c.Hosts = hosts
}

// Host returns the settings for host, compared case-insensitively.
func (c *Config) Host(host string) Host {
	return c.Hosts[strings.ToLower(host)]
}

// User returns the configured user for host, empty if unknown.
func (c *Config) User(host string) string {
	return c.Host(host).User
}

// Token returns the OAuth token for host, empty if unknown.
func (c *Config) Token(host string) string {
	return c.Host(host).OAuthToken
}

// WebProtocol returns the protocol used for web and API URLs on host.
func (c *Config) WebProtocol(host string) string {
	if p := c.Host(host).Protocol; p != "" {
		return p
	}
	return "https"
}

// setHost updates one field set of a host entry, creating it if needed.
func (c *Config) setHost(host string, update func(*Host)) {
	if c.Hosts == nil {
		c.Hosts = map[string]Host{}
	}
	key := strings.ToLower(host)
	h := c.Hosts[key]
	update(&h)
	c.Hosts[key] = h
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hub.toml"), nil
}
