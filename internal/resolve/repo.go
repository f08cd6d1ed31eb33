package resolve

import (
	"context"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/raphi011/hub/internal/github"
)

var (
	remoteLineRE = regexp.MustCompile(`^(.+?)\t(.+) \((.+)\)$`)
	schemeRE     = regexp.MustCompile(`^[\w-]+://`)
	scpRE        = regexp.MustCompile(`^([^/]+?):(.*)$`)
)

// LocalRepo is the repository hub runs in.
type LocalRepo struct {
	r      *Resolver
	GitDir string

	remotes       []*Remote
	remotesLoaded bool
}

// Remotes lists the configured remotes in "git remote -v" order, with
// origin moved to the front.
func (l *LocalRepo) Remotes(ctx context.Context) []*Remote {
	if l.remotesLoaded {
		return l.remotes
	}
	l.remotesLoaded = true

	byName := map[string]*Remote{}
	for _, line := range l.r.git.Lines(ctx, "remote", "-v") {
		m := remoteLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, raw, kind := m[1], m[2], m[3]
		remote, ok := byName[name]
		if !ok {
			remote = &Remote{r: l.r, Name: name}
			byName[name] = remote
			l.remotes = append(l.remotes, remote)
		}
		if u, ok := l.r.parseRemoteURL(raw); ok {
			remote.URLs = append(remote.URLs, RemoteURL{Kind: kind, URL: u})
		}
	}

	if i := slices.IndexFunc(l.remotes, func(rm *Remote) bool { return rm.Name == "origin" }); i > 0 {
		origin := l.remotes[i]
		l.remotes = append([]*Remote{origin}, slices.Delete(l.remotes, i, i+1)...)
	}
	return l.remotes
}

// MainRemote returns the first remote, origin when it exists.
func (l *LocalRepo) MainRemote(ctx context.Context) (*Remote, bool) {
	remotes := l.Remotes(ctx)
	if len(remotes) == 0 {
		return nil, false
	}
	return remotes[0], true
}

// MainProject returns the project the main remote points at.
func (l *LocalRepo) MainProject(ctx context.Context) (*github.Project, bool) {
	remote, ok := l.MainRemote(ctx)
	if !ok {
		return nil, false
	}
	return remote.Project(ctx)
}

// UpstreamProject returns the project of the remote the current branch tracks.
func (l *LocalRepo) UpstreamProject(ctx context.Context) (*github.Project, bool) {
	branch, ok := l.r.CurrentBranch(ctx)
	if !ok {
		return nil, false
	}
	upstream, ok := branch.Upstream(ctx)
	if !ok || !upstream.IsRemote() {
		return nil, false
	}
	remote, ok := l.r.RemoteByName(ctx, upstream.RemoteName())
	if !ok {
		return nil, false
	}
	return remote.Project(ctx)
}

// CurrentProject returns the upstream project, or the main project when the
// current branch does not track a remote branch.
func (l *LocalRepo) CurrentProject(ctx context.Context) (*github.Project, bool) {
	if p, ok := l.UpstreamProject(ctx); ok {
		return p, true
	}
	return l.MainProject(ctx)
}

// RemoteURL is one fetch or push URL of a remote.
type RemoteURL struct {
	Kind string // "fetch" or "push"
	URL  *url.URL
}

// Remote is a named remote of the local repository.
type Remote struct {
	r    *Resolver
	Name string
	URLs []RemoteURL
}

func (rm *Remote) String() string {
	return rm.Name
}

// Project returns the GitHub project of the first URL on a known host.
func (rm *Remote) Project(ctx context.Context) (*github.Project, bool) {
	isKnown := func(h string) bool { return rm.r.IsKnownHost(ctx, h) }
	for _, u := range rm.URLs {
		if p, ok := github.ProjectFromURL(u.URL, isKnown); ok {
			rm.r.foldSSHHost(p)
			return p, true
		}
	}
	return nil, false
}

// parseRemoteURL normalizes a remote URL. The scp-like "host:path" form
// becomes ssh://host/path, and ssh aliases are replaced by the HostName
// and User from the ssh client configuration.
func (r *Resolver) parseRemoteURL(raw string) (*url.URL, bool) {
	if !schemeRE.MatchString(raw) {
		m := scpRE.FindStringSubmatch(raw)
		if m == nil {
			return nil, false
		}
		raw = "ssh://" + m[1] + "/" + strings.TrimPrefix(m[2], "/")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}

	if u.Scheme == "ssh" {
		alias := u.Hostname()
		host := r.ssh.GetValue(alias, "hostname", alias)
		if port := u.Port(); port != "" {
			u.Host = host + ":" + port
		} else {
			u.Host = host
		}
		if user := r.ssh.GetValue(alias, "user", ""); user != "" {
			u.User = url.User(user)
		}
	}
	return u, true
}
