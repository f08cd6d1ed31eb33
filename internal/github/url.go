package github

import (
	"net/url"
	"strings"
)

// URL is a web URL pointing inside a known project.
type URL struct {
	*url.URL
	Project *Project
}

// ParseURL parses raw as an http(s) URL inside a project on a known host.
func ParseURL(raw string, isKnownHost func(string) bool) (*URL, bool) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	p, ok := ProjectFromURL(u, isKnownHost)
	if !ok {
		return nil, false
	}
	return &URL{URL: u, Project: p}, true
}

// ProjectPath returns the part of the path after owner and name, such as
// "pull/12" or "commit/abc1234". Empty when the URL points at the project root.
func (u *URL) ProjectPath() string {
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
