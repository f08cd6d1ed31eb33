package config

// applyEnv applies environment variable overrides. Credentials from the
// environment always belong to the default host.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("GITHUB_HOST"); v != "" {
		c.DefaultHost = v
	}
	if v := getenv("GITHUB_USER"); v != "" {
		c.setHost(c.DefaultHost, func(h *Host) { h.User = v })
	}
	if v := getenv("GITHUB_TOKEN"); v != "" {
		c.setHost(c.DefaultHost, func(h *Host) { h.OAuthToken = v })
	}
	if v := getenv("HUB_PROTOCOL"); v != "" && validateEnum(v, "HUB_PROTOCOL", ValidGitProtocols) == nil {
		c.GitProtocol = v
	}
	if v := getenv("BROWSER"); v != "" {
		c.Browser = v
	}
	if v := getenv("HUB_API_URL"); v != "" {
		c.APIURL = v
	}
}
