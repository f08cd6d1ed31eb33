package commands

import (
	"context"
	"fmt"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/output"
	"github.com/raphi011/hub/internal/ui/styles"
)

// ciStatus prints the combined CI state of a commit and exits with
//
//	0  success
//	1  failure or error
//	2  pending
//	3  no status
func ciStatus(ctx context.Context, env *Env, a *args.Args) error {
	fs := newFlagSet("ci-status")
	verbose := fs.BoolP("verbose", "v", false, "print the URL of the status")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(ciStatusUsage))
	}
	ref := "HEAD"
	if fs.NArg() > 0 {
		ref = fs.Arg(0)
	}

	if _, err := env.Resolver.RequireRepo(ctx); err != nil {
		return err
	}
	p, ok := env.Resolver.CurrentProject(ctx)
	if !ok {
		return abort("Aborted: the origin remote doesn't point to a GitHub repository.")
	}
	sha, ok := env.Resolver.Git().Command(ctx, "rev-parse", "-q", ref)
	if !ok {
		return abort("Aborted: no revision could be determined from '%s'", ref)
	}

	api, err := env.api(p.Host)
	if err != nil {
		return abort("Error fetching statuses: %s", err)
	}
	statuses, err := api.Statuses(ctx, p, sha)
	if err != nil {
		return abort("%s", github.FormatError("fetching statuses", err))
	}

	state, target := "no status", ""
	if len(statuses) > 0 {
		state, target = statuses[0].State, statuses[0].TargetURL
	}

	w := output.FromContext(ctx).Styled()
	if *verbose && target != "" {
		fmt.Fprintf(w, "%s: %s\n", styles.RenderState(state), target)
	} else {
		fmt.Fprintln(w, styles.RenderState(state))
	}
	return exit(ciExitCode(state))
}

func ciExitCode(state string) int {
	switch state {
	case "success":
		return 0
	case "failure", "error":
		return 1
	case "pending":
		return 2
	default:
		return 3
	}
}
