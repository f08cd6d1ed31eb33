package resolve

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/hub/internal/config"
	"github.com/raphi011/hub/internal/git"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/sshconfig"
)

// FatalError is returned when an operation that needs a repository or a
// user identity is asked for outside of one.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

func fatalf(format string, args ...any) error {
	return &FatalError{Message: fmt.Sprintf(format, args...)}
}

// Resolver answers questions about the repository hub runs in and the
// identity of the current user. Every answer is computed at most once.
type Resolver struct {
	git *git.Reader
	cfg *config.Config
	ssh *sshconfig.Config
	dir string

	repo       *LocalRepo
	repoLoaded bool
	knownHosts []string
}

// New returns a resolver for the repository containing dir.
func New(g *git.Reader, cfg *config.Config, ssh *sshconfig.Config, dir string) *Resolver {
	if ssh == nil {
		ssh = sshconfig.New()
	}
	return &Resolver{git: g, cfg: cfg, ssh: ssh, dir: dir}
}

// Git returns the reader the resolver queries git with.
func (r *Resolver) Git() *git.Reader {
	return r.git
}

// Dir returns the directory git operates in: the one hub was started in,
// moved by any "-C" options.
func (r *Resolver) Dir() string {
	return r.dir
}

// Chdir moves the resolver the way "git -C dir" moves git. A relative dir
// is taken relative to the current one.
func (r *Resolver) Chdir(dir string) {
	if dir == "" {
		return
	}
	if filepath.IsAbs(dir) {
		r.dir = filepath.Clean(dir)
		return
	}
	r.dir = filepath.Join(r.dir, dir)
}

// DefaultHost returns the GitHub host used when nothing else names one.
func (r *Resolver) DefaultHost() string {
	if r.cfg.DefaultHost != "" {
		return strings.ToLower(r.cfg.DefaultHost)
	}
	return config.DefaultHost
}

// KnownHosts returns the hosts whose URLs are treated as GitHub projects:
// every "hub.host" git config value plus the default host and its ssh alias.
func (r *Resolver) KnownHosts(ctx context.Context) []string {
	if r.knownHosts != nil {
		return r.knownHosts
	}
	def := r.DefaultHost()
	hosts := []string{}
	for _, h := range append(r.git.ConfigAll(ctx, "hub.host"), def, "ssh."+def) {
		h = strings.ToLower(h)
		if h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	r.knownHosts = hosts
	return hosts
}

// IsKnownHost reports whether host is one of [Resolver.KnownHosts], ignoring case.
func (r *Resolver) IsKnownHost(ctx context.Context, host string) bool {
	return slices.Contains(r.KnownHosts(ctx), strings.ToLower(host))
}

// GitHubUser returns the user name for host, empty if unknown.
func (r *Resolver) GitHubUser(ctx context.Context, host string) string {
	if u := r.cfg.User(host); u != "" {
		return u
	}
	u, _ := r.git.Config(ctx, "github.user")
	return u
}

// RequireUser is GitHubUser that fails when no user is configured.
func (r *Resolver) RequireUser(ctx context.Context, host string) (string, error) {
	if u := r.GitHubUser(ctx, host); u != "" {
		return u, nil
	}
	return "", fatalf("missing GitHub user for %s; set GITHUB_USER or git config github.user", host)
}

// GitProtocol returns the preferred transport of expanded git URLs:
// "https", "ssh", "git" or empty when nothing is configured. hub.protocol
// wins over hub.http-clone, which wins over the config file.
func (r *Resolver) GitProtocol(ctx context.Context) string {
	if p, ok := r.git.Config(ctx, "hub.protocol"); ok {
		if p = strings.ToLower(p); slices.Contains(config.ValidGitProtocols, p) {
			return p
		}
	}
	if r.git.ConfigBool(ctx, "hub.http-clone") {
		return "https"
	}
	return r.cfg.GitProtocol
}

// WebProtocol returns the protocol of browser URLs on host.
func (r *Resolver) WebProtocol(host string) string {
	return r.cfg.WebProtocol(host)
}

// LocalRepo returns the repository hub runs in, if any.
func (r *Resolver) LocalRepo(ctx context.Context) (*LocalRepo, bool) {
	if !r.repoLoaded {
		r.repoLoaded = true
		if dir, ok := r.git.GitDir(ctx); ok {
			r.repo = &LocalRepo{r: r, GitDir: dir}
		}
	}
	return r.repo, r.repo != nil
}

// IsRepo reports whether hub runs inside a repository.
func (r *Resolver) IsRepo(ctx context.Context) bool {
	_, ok := r.LocalRepo(ctx)
	return ok
}

// RequireRepo is LocalRepo that fails outside of a repository.
func (r *Resolver) RequireRepo(ctx context.Context) (*LocalRepo, error) {
	if repo, ok := r.LocalRepo(ctx); ok {
		return repo, nil
	}
	return nil, fatalf("Not a git repository")
}

// RepoName returns the name of the main project, or the directory name
// when no remote points at a GitHub project.
func (r *Resolver) RepoName(ctx context.Context) (string, error) {
	repo, err := r.RequireRepo(ctx)
	if err != nil {
		return "", err
	}
	if p, ok := repo.MainProject(ctx); ok {
		return p.Name, nil
	}
	return filepath.Base(r.dir), nil
}

// MainProject returns the project of the first remote.
func (r *Resolver) MainProject(ctx context.Context) (*github.Project, bool) {
	repo, ok := r.LocalRepo(ctx)
	if !ok {
		return nil, false
	}
	return repo.MainProject(ctx)
}

// CurrentProject returns the project the current branch tracks, falling
// back to the main project.
func (r *Resolver) CurrentProject(ctx context.Context) (*github.Project, bool) {
	repo, ok := r.LocalRepo(ctx)
	if !ok {
		return nil, false
	}
	return repo.CurrentProject(ctx)
}

// CurrentBranch returns the checked out branch; absent when HEAD is detached.
func (r *Resolver) CurrentBranch(ctx context.Context) (*Branch, bool) {
	ref, ok := r.git.Command(ctx, "symbolic-ref", "-q", "HEAD")
	if !ok {
		return nil, false
	}
	return r.branch(ref), true
}

// MasterBranch returns the default branch of the main remote, then
// init.defaultBranch, then "main".
func (r *Resolver) MasterBranch(ctx context.Context) *Branch {
	if repo, ok := r.LocalRepo(ctx); ok {
		if remote, ok := repo.MainRemote(ctx); ok {
			if ref, ok := r.git.Command(ctx, "symbolic-ref", "-q", "refs/remotes/"+remote.Name+"/HEAD"); ok {
				return r.branch("refs/heads/" + shortName(ref))
			}
		}
	}
	if name, ok := r.git.Config(ctx, "init.defaultBranch"); ok {
		return r.branch("refs/heads/" + name)
	}
	return r.branch("refs/heads/main")
}

// Project builds a project named name owned by owner on the host of the
// main project, or the default host outside of a repository. Either part
// may be given as "owner/name". An empty name means the current repository
// name, an empty owner the current user.
func (r *Resolver) Project(ctx context.Context, name, owner string) (*github.Project, error) {
	switch {
	case strings.Contains(owner, "/"):
		owner, name, _ = strings.Cut(owner, "/")
	case strings.Contains(name, "/"):
		owner, name, _ = strings.Cut(name, "/")
	}

	host := r.DefaultHost()
	main, hasMain := r.MainProject(ctx)
	if hasMain {
		host = main.Host
	}

	if name == "" {
		n, err := r.RepoName(ctx)
		if err != nil {
			return nil, err
		}
		name = n
	}
	if owner == "" {
		u, err := r.RequireUser(ctx, host)
		if err != nil {
			return nil, err
		}
		owner = u
	}
	return github.NewProject(owner, name, host), nil
}

// ParseURL parses raw as a web URL on a known host.
func (r *Resolver) ParseURL(ctx context.Context, raw string) (*github.URL, bool) {
	u, ok := github.ParseURL(raw, func(h string) bool { return r.IsKnownHost(ctx, h) })
	if ok {
		r.foldSSHHost(u.Project)
	}
	return u, ok
}

// foldSSHHost maps the ssh endpoint of the default host, such as
// ssh.github.com, onto the default host so web and API URLs are built
// for the right server.
func (r *Resolver) foldSSHHost(p *github.Project) {
	if def := r.DefaultHost(); p.Host == "ssh."+def {
		p.Host = def
	}
}

// Remotes lists the remotes of the current repository, origin first.
func (r *Resolver) Remotes(ctx context.Context) []*Remote {
	repo, ok := r.LocalRepo(ctx)
	if !ok {
		return nil
	}
	return repo.Remotes(ctx)
}

// RemoteByName looks up a remote of the current repository.
func (r *Resolver) RemoteByName(ctx context.Context, name string) (*Remote, bool) {
	for _, remote := range r.Remotes(ctx) {
		if remote.Name == name {
			return remote, true
		}
	}
	return nil, false
}

// RemoteForProject returns the remote pointing at p.
func (r *Resolver) RemoteForProject(ctx context.Context, p *github.Project) (*Remote, bool) {
	for _, remote := range r.Remotes(ctx) {
		if rp, ok := remote.Project(ctx); ok && rp.Equal(p) {
			return remote, true
		}
	}
	return nil, false
}

// RemotesGroup returns the members of a "remotes.<name>" group.
func (r *Resolver) RemotesGroup(ctx context.Context, name string) (string, bool) {
	return r.git.Config(ctx, "remotes."+name)
}
