package commands

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
	"github.com/raphi011/hub/internal/resolve"
)

var compareRangeRE = regexp.MustCompile(`^((?:[a-zA-Z0-9][a-zA-Z0-9-]*:)?\w[\w.-]+\w)\.\.((?:[a-zA-Z0-9][a-zA-Z0-9-]*:)?\w[\w.-]+\w)$`)

// browse opens a project page:
//
//	git browse                 ->  the current project, on the tracked branch
//	git browse mislav/hub      ->  https://github.com/mislav/hub
//	git browse -- issues       ->  https://github.com/<current>/issues
func browse(ctx context.Context, env *Env, a *args.Args) error {
	fs := newFlagSet("browse")
	urlOnly := fs.BoolP("url", "u", false, "print the URL instead of opening it")
	copyURL := fs.BoolP("copy", "c", false, "copy the URL to the clipboard")
	private := fs.BoolP("private", "p", false, "deprecated, has no effect")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(browseUsage))
	}
	if *private {
		log.FromContext(ctx).Printf("Warning: the `-p` flag has no effect anymore\n")
	}

	rest := fs.Args()
	var dest, subpage string
	if fs.ArgsLenAtDash() == 0 {
		if len(rest) > 0 {
			subpage = rest[0]
		}
	} else {
		if len(rest) > 0 {
			dest = rest[0]
		}
		if len(rest) > 1 {
			subpage = rest[1]
		}
	}

	var p *github.Project
	var branch *resolve.Branch
	if dest != "" {
		var err error
		if p, err = env.Resolver.Project(ctx, dest, ""); err != nil {
			return err
		}
		branch = env.Resolver.MasterBranch(ctx)
	} else {
		main, _ := env.Resolver.MainProject(ctx)
		upstream, project := remoteBranchAndProject(ctx, env, main)
		p = project
		if upstream != nil && upstream.IsRemote() {
			branch = upstream
		} else {
			branch = env.Resolver.MasterBranch(ctx)
		}
	}
	if p == nil {
		return abort("Usage: hub browse [<USER>/]<REPOSITORY>")
	}

	var path string
	switch subpage {
	case "commits":
		path = "/commits/" + branchInURL(branch)
	case "tree", "":
		if !branch.IsDefault(ctx) {
			path = "/tree/" + branchInURL(branch)
		}
	default:
		path = "/" + subpage
	}

	return openURL(env, a, p.WebURL(path, env.Resolver.WebProtocol(p.Host)), *urlOnly, *copyURL)
}

func branchInURL(b *resolve.Branch) string {
	return strings.ReplaceAll(url.QueryEscape(b.ShortName()), "%2F", "/")
}

// compare opens a compare view:
//
//	git compare refactor         ->  https://github.com/<current>/compare/refactor
//	git compare 1.0..fix         ->  https://github.com/<current>/compare/1.0...fix
//	git compare mislav a..b      ->  https://github.com/mislav/<repo>/compare/a...b
func compare(ctx context.Context, env *Env, a *args.Args) error {
	fs := newFlagSet("compare")
	urlOnly := fs.BoolP("url", "u", false, "print the URL instead of opening it")
	copyURL := fs.BoolP("copy", "c", false, "copy the URL to the clipboard")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(compareUsage))
	}
	usage := abort("Usage: hub compare [USER] [<START>...]<END>")

	rest := fs.Args()
	var rng string
	var p *github.Project
	if len(rest) == 0 {
		branch, ok := env.Resolver.CurrentBranch(ctx)
		if !ok {
			return usage
		}
		upstream, ok := branch.Upstream(ctx)
		if !ok || upstream.IsDefault(ctx) {
			return usage
		}
		rng = upstream.ShortName()
	} else {
		rng = compareRangeRE.ReplaceAllString(rest[len(rest)-1], "$1...$2")
		if len(rest) > 1 {
			var err error
			if p, err = env.Resolver.Project(ctx, "", rest[len(rest)-2]); err != nil {
				return err
			}
		}
	}
	if p == nil {
		current, ok := env.Resolver.CurrentProject(ctx)
		if !ok {
			return usage
		}
		p = current
	}

	path := "/compare/" + strings.ReplaceAll(rng, "/", ";")
	return openURL(env, a, p.WebURL(path, env.Resolver.WebProtocol(p.Host)), *urlOnly, *copyURL)
}
