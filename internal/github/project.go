package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MainHost is the public GitHub host.
const MainHost = "github.com"

var (
	firstWordRE = regexp.MustCompile(`^(\w+)`)
	wikiNameRE  = regexp.MustCompile(`\.wiki$`)
)

// Project identifies a repository on a GitHub host.
type Project struct {
	Owner string
	Name  string
	Host  string

	// Private is known only after the API has been asked about the repository.
	Private *bool
}

// NewProject builds a project, normalizing the name and host.
// An empty host means the public GitHub host.
func NewProject(owner, name, host string) *Project {
	return &Project{
		Owner: owner,
		Name:  strings.ReplaceAll(name, " ", "-"),
		Host:  NormalizeHost(host),
	}
}

// NormalizeHost lower-cases host and maps ssh.github.com, the ssh-over-443
// endpoint, back to github.com.
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	switch host {
	case "", "ssh." + MainHost:
		return MainHost
	}
	return host
}

// NameWithOwner returns "owner/name".
func (p *Project) NameWithOwner() string {
	return p.Owner + "/" + p.Name
}

func (p *Project) String() string {
	return p.NameWithOwner()
}

// Equal reports whether p and o name the same repository.
func (p *Project) Equal(o *Project) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.NameWithOwner() == o.NameWithOwner()
}

// OwnedBy returns a copy of p owned by owner, such as the user's fork.
func (p *Project) OwnedBy(owner string) *Project {
	c := *p
	c.Owner = owner
	c.Private = nil
	return &c
}

// IsPrivate reports whether the project should be reached over an
// authenticated transport. Without API data every repository outside the
// public host is treated as private.
func (p *Project) IsPrivate() bool {
	if p.Private != nil {
		return *p.Private
	}
	return p.Host != MainHost
}

// URLOptions selects the transport of a git URL.
type URLOptions struct {
	Private bool
	// Protocol is the user's preference: "https", "ssh", "git" or empty.
	Protocol string
}

// GitURL returns the URL to clone or fetch the project.
//
// An https or ssh preference wins; otherwise private projects (or an
// explicit Private request) use ssh and public ones the anonymous git
// protocol.
func (p *Project) GitURL(opts URLOptions) string {
	var prefix string
	switch {
	case opts.Protocol == "https":
		prefix = "https://" + p.Host + "/"
	case opts.Protocol == "ssh", opts.Private, p.IsPrivate():
		prefix = "git@" + p.Host + ":"
	default:
		prefix = "git://" + p.Host + "/"
	}
	return prefix + p.NameWithOwner() + ".git"
}

// WebURL returns the browser URL for a page of the project. protocol
// defaults to https. Wiki repositories and wiki paths map onto the wiki
// pages of the main repository.
func (p *Project) WebURL(subpath, protocol string) string {
	if protocol == "" {
		protocol = "https"
	}
	name := p.Name
	if wikiNameRE.MatchString(name) {
		name = wikiNameRE.ReplaceAllString(name, "")
		switch {
		case subpath == "" || subpath == "/wiki":
			subpath = "/wiki"
		case strings.HasPrefix(subpath, "/commits"):
			subpath = "/wiki/_history"
		case strings.HasPrefix(subpath, "/wiki"):
		default:
			subpath = "/wiki/" + firstWordRE.ReplaceAllString(strings.TrimPrefix(subpath, "/"), "_$1")
		}
	}
	return fmt.Sprintf("%s://%s/%s/%s%s", protocol, p.Host, p.Owner, name, subpath)
}

// ProjectFromURL parses the owner and name out of a web or git URL whose
// host satisfies isKnownHost.
func ProjectFromURL(u *url.URL, isKnownHost func(string) bool) (*Project, bool) {
	host := u.Hostname()
	if host == "" || !isKnownHost(host) {
		return nil, false
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, false
	}
	name := strings.TrimSuffix(parts[1], ".git")
	if name == "" {
		return nil, false
	}
	return NewProject(parts[0], name, host), true
}
