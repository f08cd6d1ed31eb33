package commands

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
)

var (
	commaListRE   = regexp.MustCompile(`^\w+(,\w+)+$`)
	pullPathRE    = regexp.MustCompile(`^pull/(\d+)`)
	commitPathRE  = regexp.MustCompile(`^commit/([a-f0-9]{7,40})`)
	ownerShaRE    = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9-]*)@([a-f0-9]{7,40})$`)
	pullSubpageRE = regexp.MustCompile(`(/pull/\d+)/\w*$`)
)

// fetch adds remotes for GitHub users that are not remotes yet:
//
//	git fetch mislav      ->  git remote add mislav git://github.com/mislav/REPO.git
//	                          git fetch mislav
//	git fetch mislav,xoebus  ->  git fetch --multiple mislav xoebus
func fetch(ctx context.Context, env *Env, a *args.Args) error {
	var names []string
	words := a.Words()
	switch {
	case a.Contains("--multiple"):
		names = words[1:]
	case len(words) > 1:
		name := words[1]
		if commaListRE.MatchString(name) {
			idx := a.Index(name)
			a.DeleteAt(idx)
			names = strings.Split(name, ",")
			a.Insert(idx, append([]string{"--multiple"}, names...)...)
		} else {
			names = []string{name}
		}
	}

	for _, name := range names {
		if !ownerRE.MatchString(name) {
			continue
		}
		if _, ok := env.Resolver.RemoteByName(ctx, name); ok {
			continue
		}
		if _, ok := env.Resolver.RemotesGroup(ctx, name); ok {
			continue
		}

		p, err := env.Resolver.Project(ctx, "", name)
		if err != nil {
			return err
		}
		api, err := env.api(p.Host)
		if err != nil {
			return err
		}
		repo, err := api.RepoInfo(ctx, p)
		if err != nil {
			log.FromContext(ctx).Debug("not a GitHub repository", "project", p, "error", err)
			continue
		}
		p.Private = &repo.Private
		a.BeforeGit("remote", "add", p.Owner, p.GitURL(github.URLOptions{Protocol: env.Resolver.GitProtocol(ctx)}))
	}
	return nil
}

// pullRequestFromArg looks up the pull request a web URL argument points at.
func pullRequestFromArg(ctx context.Context, env *Env, arg string) (*github.URL, *github.PullRequest, string, error) {
	u, ok := env.Resolver.ParseURL(ctx, arg)
	if !ok {
		return nil, nil, "", nil
	}
	m := pullPathRE.FindStringSubmatch(u.ProjectPath())
	if m == nil {
		return nil, nil, "", nil
	}
	api, err := env.api(u.Project.Host)
	if err != nil {
		return nil, nil, "", err
	}
	pr, err := api.PullRequestInfo(ctx, u.Project, m[1])
	if err != nil {
		return nil, nil, "", abort("%s", github.FormatError("fetching pull request", err))
	}
	return u, pr, m[1], nil
}

// headOf splits the "owner:branch" label of a pull request head and checks
// that the fork still exists.
func headOf(pr *github.PullRequest) (string, string, error) {
	user, branch, _ := strings.Cut(pr.Head.Label, ":")
	if pr.Head.Repo == nil {
		return "", "", abort("Error: %s's fork is not available anymore", user)
	}
	return user, branch, nil
}

// checkout turns a pull request URL into a tracking branch of the
// contributor's fork:
//
//	git checkout https://github.com/defunkt/hub/pull/73
//	  ->  git remote add -f -t feature mislav git://github.com/mislav/hub.git
//	      git checkout --track -B mislav-feature mislav/feature
func checkout(ctx context.Context, env *Env, a *args.Args) error {
	words := a.Words()
	if len(words) < 2 {
		return nil
	}
	urlArg := words[1]
	var newBranch string
	if len(words) > 2 {
		newBranch = words[2]
	}

	u, pr, _, err := pullRequestFromArg(ctx, env, urlArg)
	if err != nil || pr == nil {
		return err
	}
	user, branch, err := headOf(pr)
	if err != nil {
		return err
	}
	if newBranch != "" {
		a.Delete(newBranch)
	} else {
		newBranch = user + "-" + branch
	}

	if _, ok := env.Resolver.RemoteByName(ctx, user); ok {
		a.BeforeGit("remote", "set-branches", "--add", user, branch)
		a.BeforeGit("fetch", user, fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, user, branch))
	} else {
		fork := github.NewProject(user, u.Project.Name, u.Project.Host)
		forkURL := fork.GitURL(github.URLOptions{Private: pr.Head.Repo.Private, Protocol: env.Resolver.GitProtocol(ctx)})
		a.BeforeGit("remote", "add", "-f", "-t", branch, user, forkURL)
	}

	idx := a.Index(urlArg)
	a.DeleteAt(idx)
	a.Insert(idx, "--track", "-B", newBranch, user+"/"+branch)
	return nil
}

// merge merges a pull request by URL with a merge commit that names it:
//
//	git merge https://github.com/defunkt/hub/pull/73
//	  ->  git fetch git://github.com/mislav/hub.git +refs/heads/feature:refs/remotes/mislav/feature
//	      git merge mislav/feature --no-ff -m "Merge pull request #73 from mislav/feature..."
func merge(ctx context.Context, env *Env, a *args.Args) error {
	words := a.Words()
	if len(words) < 2 {
		return nil
	}
	urlArg := words[1]

	u, pr, id, err := pullRequestFromArg(ctx, env, urlArg)
	if err != nil || pr == nil {
		return err
	}
	user, branch, err := headOf(pr)
	if err != nil {
		return err
	}

	fork := github.NewProject(user, u.Project.Name, u.Project.Host)
	forkURL := fork.GitURL(github.URLOptions{Private: pr.Head.Repo.Private, Protocol: env.Resolver.GitProtocol(ctx)})
	mergeHead := user + "/" + branch
	a.BeforeGit("fetch", forkURL, fmt.Sprintf("+refs/heads/%s:refs/remotes/%s", branch, mergeHead))

	idx := a.Index(urlArg)
	a.DeleteAt(idx)
	a.Insert(idx, mergeHead, "--no-ff", "-m",
		fmt.Sprintf("Merge pull request #%s from %s\n\n%s", id, mergeHead, pr.Title))
	return nil
}

// cherryPick accepts a commit URL or "owner@sha" and fetches the commit first.
func cherryPick(ctx context.Context, env *Env, a *args.Args) error {
	if a.Contains("-m") || a.Contains("--mainline") {
		return nil
	}
	words := a.Words()
	if len(words) < 2 {
		return nil
	}
	ref := words[len(words)-1]

	var p *github.Project
	var sha string
	if u, ok := env.Resolver.ParseURL(ctx, ref); ok {
		if m := commitPathRE.FindStringSubmatch(u.ProjectPath()); m != nil {
			p, sha = u.Project, m[1]
		}
	} else if m := ownerShaRE.FindStringSubmatch(ref); m != nil {
		main, ok := env.Resolver.MainProject(ctx)
		if !ok {
			return nil
		}
		p, sha = main.OwnedBy(m[1]), m[2]
	}
	if p == nil {
		return nil
	}

	a.Set(a.Index(ref), sha)
	if remote, ok := env.Resolver.RemoteForProject(ctx, p); ok {
		a.BeforeGit("fetch", remote.Name)
	} else {
		a.BeforeGit("remote", "add", "-f", p.Owner, p.GitURL(github.URLOptions{Protocol: env.Resolver.GitProtocol(ctx)}))
	}
	return nil
}

// am downloads a pull request, commit or gist given by URL and hands the
// patch file to git am or git apply.
func am(ctx context.Context, env *Env, a *args.Args) error {
	for i, t := range a.Tokens() {
		u, err := url.Parse(t)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		host := u.Hostname()
		gist := strings.HasPrefix(host, "gist.")
		if !env.Resolver.IsKnownHost(ctx, strings.TrimPrefix(host, "gist.")) {
			continue
		}

		u.Fragment, u.RawFragment = "", ""
		patchURL := u.String()
		ext := ".patch"
		if gist {
			ext = ".txt"
		} else {
			patchURL = pullSubpageRE.ReplaceAllString(patchURL, "$1")
		}
		if path.Ext(patchURL) != ext {
			patchURL += ext
		}

		patchFile := filepath.Join(env.TempDir, path.Base(patchURL))
		a.BeforeFunc(fmt.Sprintf("curl -#LA 'hub %s' %s -o %s", env.Version, patchURL, patchFile), func(ctx context.Context) error {
			return env.download(ctx, patchURL, patchFile)
		})
		a.Set(i, patchFile)
		return nil
	}
	return nil
}

// push pushes to several remotes at once:
//
//	git push origin,staging,qa bert_timeout
//	  ->  git push origin bert_timeout
//	      git push staging bert_timeout
//	      git push qa bert_timeout
func push(ctx context.Context, env *Env, a *args.Args) error {
	target := a.Get(1)
	if !strings.Contains(target, ",") {
		return nil
	}

	var refs []string
	if words := a.Words(); len(words) > 2 {
		refs = words[2:]
	}
	if len(refs) == 0 {
		branch, ok := env.Resolver.CurrentBranch(ctx)
		if !ok {
			return abort("Aborted: not currently on any branch.")
		}
		refs = []string{branch.ShortName()}
		a.Push(refs...)
	}

	remotes := strings.Split(target, ",")
	a.Set(1, remotes[0])

	// Flags and refs follow the remote in every push, in their original order.
	rest := a.Tokens()[2:]
	for _, name := range remotes[1:] {
		a.AfterGit(append([]string{"push", name}, rest...)...)
	}
	return nil
}
