package commands

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
)

// cloneValueFlags are the clone options whose value is a separate token.
var cloneValueFlags = []string{
	"--upload-pack", "--template", "--depth", "--origin", "--branch", "--reference", "--name",
	"-u", "-b", "-o",
}

// clone expands the repository argument:
//
//	git clone rtomayko/tilt  ->  git clone git://github.com/rtomayko/tilt.git
//	git clone -p tilt        ->  git clone git@github.com:<user>/tilt.git
func clone(ctx context.Context, env *Env, a *args.Args) error {
	return expandCloneURL(ctx, env, a, true)
}

// expandCloneURL rewrites the first word after the subcommand when it is
// an [owner/]name shorthand and not an existing directory. Your own
// repositories are cloned over ssh when ownerSSH is set.
func expandCloneURL(ctx context.Context, env *Env, a *args.Args, ownerSSH bool) error {
	ssh := a.Remove("-p")

	for i := 1; i < a.Len(); i++ {
		t := a.Get(i)
		if strings.HasPrefix(t, "-") {
			if slices.Contains(cloneValueFlags, t) {
				i++
			}
			continue
		}
		if !nameWithOwnerRE.MatchString(t) || env.isDir(t) {
			return nil
		}

		p, err := env.Resolver.Project(ctx, t, "")
		if err != nil {
			return err
		}
		if ownerSSH && !ssh {
			ssh = p.Owner == env.Resolver.GitHubUser(ctx, p.Host)
		}
		a.Set(i, p.GitURL(github.URLOptions{Private: ssh, Protocol: env.Resolver.GitProtocol(ctx)}))
		return nil
	}
	return nil
}

// submodule expands the repository of "submodule add" like clone does.
func submodule(ctx context.Context, env *Env, a *args.Args) error {
	idx := a.Index("add")
	if idx < 0 {
		return nil
	}
	a.DeleteAt(idx)

	branchIdx := a.Index("-b")
	if branchIdx < 0 {
		branchIdx = a.Index("--branch")
	}
	var branchFlag, branch string
	if branchIdx >= 0 {
		branchFlag = a.DeleteAt(branchIdx)
		branch = a.DeleteAt(branchIdx)
	}

	if err := expandCloneURL(ctx, env, a, false); err != nil {
		return err
	}

	if branchFlag != "" {
		a.Insert(branchIdx, branchFlag, branch)
	}
	a.Insert(idx, "add")
	return nil
}

// remote expands "remote add [-p] [name] owner[/repo]" and the same for
// set-url. The owner's copy of the current repository is used when no
// repo is given; "remote add origin" alone means your own.
func remote(ctx context.Context, env *Env, a *args.Args) error {
	if sub := a.Get(1); sub != "add" && sub != "set-url" {
		return nil
	}
	// Without a name git prints its own usage.
	words := wordsSkipping(a, "-t", "-m")
	if len(words) < 3 {
		return nil
	}
	last := a.Get(a.Len() - 1)
	m := ownerSlashRE.FindStringSubmatch(last)
	if m == nil {
		return nil
	}
	owner, repo := m[1], m[2]

	ssh := a.Remove("-p")

	switch {
	case len(words) == 3 && words[2] == "origin":
		owner = ""
		repo = ""
	case len(words) == 3:
		// "remote add rtomayko/tilt": the owner doubles as the remote name.
		a.Set(a.Len()-1, owner)
	default:
		a.Pop()
	}

	p, err := env.Resolver.Project(ctx, repo, owner)
	if err != nil {
		return err
	}
	a.Push(p.GitURL(github.URLOptions{Private: ssh, Protocol: env.Resolver.GitProtocol(ctx)}))
	return nil
}

// initRepo handles "init -g [dir]": after the repository is created, an
// origin remote pointing at <user>/<dir> is added.
func initRepo(ctx context.Context, env *Env, a *args.Args) error {
	if !a.Remove("-g") {
		return nil
	}

	dir := env.Resolver.Dir()
	var gitFlags []string
	if words := wordsSkipping(a, "--template", "--separate-git-dir", "-b", "--initial-branch", "--object-format"); len(words) > 1 {
		target := words[1]
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		dir = target
		gitFlags = []string{"-C", target}
	}

	host := env.Resolver.DefaultHost()
	user, err := env.Resolver.RequireUser(ctx, host)
	if err != nil {
		return err
	}
	p := github.NewProject(user, filepath.Base(dir), host)
	url := p.GitURL(github.URLOptions{Private: true, Protocol: env.Resolver.GitProtocol(ctx)})
	a.AfterGit(append(gitFlags, "remote", "add", "origin", url)...)
	return nil
}
