// Package config handles loading and validation of hub configuration.
//
// Configuration is read from ~/.config/hub.toml (or the file named by
// $HUB_CONFIG). When that file does not exist the legacy YAML file
// ~/.config/hub is read instead. hub never writes either file.
//
// # Configuration Sources (highest priority first)
//
//   - GITHUB_HOST, GITHUB_USER, GITHUB_TOKEN env vars: default host and its credentials
//   - HUB_PROTOCOL, BROWSER, HUB_API_URL env vars
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//	default_host = "github.com"
//	git_protocol = "ssh"        # git, ssh or https for expanded clone URLs
//	browser = "firefox"         # launcher for "hub browse"
//
//	[hosts."github.com"]
//	user = "octocat"
//	oauth_token = "..."
//	protocol = "https"          # http or https for web and API URLs
//
// Host keys are compared case-insensitively.
package config
