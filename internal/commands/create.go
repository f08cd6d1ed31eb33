package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
)

// newFlagSet returns a flag set for a hub command. Errors are reported by
// the caller, and "--" is kept as the end of options.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(true)
	return fs
}

// create creates the current repository on GitHub and adds it as origin.
func create(ctx context.Context, env *Env, a *args.Args) error {
	if !env.Resolver.IsRepo(ctx) {
		return abort("'create' must be run from inside a git repository")
	}

	fs := newFlagSet("create")
	private := fs.BoolP("private", "p", false, "create a private repository")
	description := fs.StringP("description", "d", "", "repository description")
	homepage := fs.StringP("homepage", "h", "", "repository homepage")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(createUsage))
	}
	if fs.NArg() > 1 {
		return abort("invalid argument: %s", fs.Arg(1))
	}

	host := env.Resolver.DefaultHost()
	if main, ok := env.Resolver.MainProject(ctx); ok {
		host = main.Host
	}
	owner, err := env.Resolver.RequireUser(ctx, host)
	if err != nil {
		return err
	}
	name := fs.Arg(0)
	if o, n, ok := strings.Cut(name, "/"); ok {
		owner, name = o, n
	}
	p, err := env.Resolver.Project(ctx, name, owner)
	if err != nil {
		return err
	}

	api, err := env.api(p.Host)
	if err != nil {
		return abort("error creating repository: %s", err)
	}

	var action string
	_, err = api.RepoInfo(ctx, p)
	switch {
	case err == nil:
		log.FromContext(ctx).Printf("%s already exists on %s\n", p.NameWithOwner(), p.Host)
		action = "set remote origin"
	case !github.IsNotFound(err):
		return abort("%s", github.FormatError("creating repository", err))
	default:
		action = "created repository"
		if !a.IsNoop() {
			repo, err := api.CreateRepo(ctx, p, github.CreateRepoOptions{
				Private:     *private,
				Description: *description,
				Homepage:    *homepage,
			})
			if err != nil {
				return abort("%s", github.FormatError("creating repository", err))
			}
			if o, n, ok := strings.Cut(repo.FullName, "/"); ok {
				p = github.NewProject(o, n, p.Host)
			}
		}
	}

	url := p.GitURL(github.URLOptions{Private: true, Protocol: env.Resolver.GitProtocol(ctx)})
	if mainRemote, ok := firstRemote(ctx, env); ok && mainRemote == "origin" {
		a.Replace("remote", "-v")
	} else {
		a.Replace("remote", "add", "-f", "origin", url)
	}
	a.AfterExec("echo", action+":", p.NameWithOwner())
	return nil
}

func firstRemote(ctx context.Context, env *Env) (string, bool) {
	remotes := env.Resolver.Remotes(ctx)
	if len(remotes) == 0 {
		return "", false
	}
	return remotes[0].Name, true
}

// fork forks the main project under your account and adds the fork as a
// remote named after you.
func fork(ctx context.Context, env *Env, a *args.Args) error {
	if _, err := env.Resolver.RequireRepo(ctx); err != nil {
		return err
	}
	p, ok := env.Resolver.MainProject(ctx)
	if !ok {
		return abort("Error: repository under 'origin' remote is not a GitHub project")
	}
	user, err := env.Resolver.RequireUser(ctx, p.Host)
	if err != nil {
		return err
	}
	forked := p.OwnedBy(user)

	api, err := env.api(p.Host)
	if err != nil {
		return abort("error creating fork: %s", err)
	}

	existing, err := api.RepoInfo(ctx, forked)
	switch {
	case err == nil:
		var parent *github.URL
		if existing.Parent != nil {
			parent, _ = env.Resolver.ParseURL(ctx, existing.Parent.HTMLURL)
		}
		if parent == nil || !parent.Project.Equal(p) {
			return abort("Error creating fork: %s already exists on %s", forked.NameWithOwner(), forked.Host)
		}
	case !github.IsNotFound(err):
		return abort("%s", github.FormatError("creating fork", err))
	case !a.IsNoop():
		if _, err := api.ForkRepo(ctx, p); err != nil {
			return abort("%s", github.FormatError("creating fork", err))
		}
	}

	if a.Contains("--no-remote") {
		a.Skip()
		return nil
	}
	url := forked.GitURL(github.URLOptions{Private: true, Protocol: env.Resolver.GitProtocol(ctx)})
	a.Replace("remote", "add", "-f", forked.Owner, url)
	a.AfterExec("echo", "new remote:", forked.Owner)
	return nil
}
