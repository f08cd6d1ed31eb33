// Package sshconfig reads the subset of OpenSSH client configuration that
// hub needs to turn ssh host aliases into real host names and users.
//
// Settings are collected per Host pattern in the order the patterns first
// appear. A lookup walks the patterns in that order and returns the first
// value found for the key, so an earlier pattern wins over a later one
// exactly like ssh itself resolves options.
package sshconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultFiles lists the configuration files read by [LoadDefault], most specific first.
var DefaultFiles = []string{"~/.ssh/config", "/etc/ssh_config", "/etc/ssh/ssh_config"}

var settingRE = regexp.MustCompile(`^\s*([^\s=]+)\s*=?\s*(.*?)\s*$`)

// HostPattern is a single glob from a Host line.
type HostPattern struct {
	pattern string
}

// NewHostPattern returns a pattern matching hosts case-insensitively.
func NewHostPattern(pattern string) HostPattern {
	return HostPattern{pattern: strings.ToLower(pattern)}
}

// Match reports whether host matches the pattern.
func (p HostPattern) Match(host string) bool {
	if p.pattern == "*" {
		return true
	}
	host = strings.ToLower(host)
	if !strings.ContainsAny(p.pattern, "*?[") {
		return p.pattern == host
	}
	ok, err := doublestar.Match(p.pattern, host)
	return err == nil && ok
}

func (p HostPattern) String() string {
	return p.pattern
}

type section struct {
	pattern  HostPattern
	settings map[string]string
}

// Config is a parsed set of ssh client settings.
type Config struct {
	sections []*section
	index    map[string]*section
}

// New returns an empty configuration.
func New() *Config {
	return &Config{index: map[string]*section{}}
}

// LoadDefault reads [DefaultFiles].
func LoadDefault() (*Config, error) {
	return Load(DefaultFiles...)
}

// Load parses each file in order. Files that do not exist are skipped.
func Load(files ...string) (*Config, error) {
	c := New()
	for _, name := range files {
		path, err := expandHome(name)
		if err != nil {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
				continue
			}
			return c, fmt.Errorf("open ssh config %s: %w", path, err)
		}
		err = c.Parse(f)
		f.Close()
		if err != nil {
			return c, fmt.Errorf("parse ssh config %s: %w", path, err)
		}
	}
	return c, nil
}

// Parse adds the settings read from r. Settings before the first Host line
// apply to every host.
func (c *Config) Parse(r io.Reader) error {
	current := []string{"*"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := settingRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := strings.ToLower(m[1]), unquote(m[2])

		switch key {
		case "host":
			current = strings.Fields(value)
		case "match":
			// Match blocks use criteria hub cannot evaluate.
			current = nil
		default:
			for _, p := range current {
				s := c.section(p)
				if _, ok := s.settings[key]; !ok {
					s.settings[key] = value
				}
			}
		}
	}
	return scanner.Err()
}

func (c *Config) section(pattern string) *section {
	p := NewHostPattern(pattern)
	if s, ok := c.index[p.pattern]; ok {
		return s
	}
	s := &section{pattern: p, settings: map[string]string{}}
	c.sections = append(c.sections, s)
	c.index[p.pattern] = s
	return s
}

// GetValue returns the first value for key among the patterns matching host,
// or def if none defines it. Keys are case-insensitive.
func (c *Config) GetValue(host, key, def string) string {
	key = strings.ToLower(key)
	for _, s := range c.sections {
		if !s.pattern.Match(host) {
			continue
		}
		if v, ok := s.settings[key]; ok {
			return v
		}
	}
	return def
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
