package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadLegacy reads the YAML config written by older hub releases.
//
// The file maps each host to a list of credential entries; only the first
// entry of each host is used:
//
//	github.com:
//	- user: octocat
//	  oauth_token: abc123
//	  protocol: https
func LoadLegacy(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), err
		}
		return Default(), fmt.Errorf("failed to read legacy config: %w", err)
	}

	var raw map[string][]Host
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse legacy config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path
	for host, entries := range raw {
		if len(entries) == 0 {
			continue
		}
		cfg.Hosts[host] = entries[0]
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	cfg.normalize()
	return cfg, nil
}
