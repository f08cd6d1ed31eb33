package commands

import (
	"context"
	"slices"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/log"
)

var (
	// globalFlags are git options that go before the subcommand.
	globalFlags = []string{"-p", "--paginate", "--no-pager", "--no-replace-objects", "--bare"}
	// globalValueFlags take the next token as their value.
	globalValueFlags = []string{"-c", "-C"}
	// globalPrefixFlags carry their value after "=".
	globalPrefixFlags = []string{"--git-dir=", "--work-tree=", "--exec-path=", "--namespace="}
)

// slurpGlobalFlags consumes the git options in front of the subcommand.
// They are re-applied to the primary invocation, to every chained git
// step and to the plumbing queries of the resolver.
func slurpGlobalFlags(env *Env, a *args.Args) {
	var flags []string
loop:
	for a.Len() > 0 {
		t := a.Get(0)
		switch {
		case t == "--noop":
			a.Shift()
			a.Noop()
		case t == "--version":
			a.Set(0, "version")
			break loop
		case t == "--help":
			a.Set(0, "help")
			break loop
		case slices.Contains(globalFlags, t):
			a.Shift()
			flags = append(flags, t)
		case slices.Contains(globalValueFlags, t):
			a.Shift()
			v, ok := a.Shift()
			if !ok {
				break loop
			}
			flags = append(flags, t, v)
			switch t {
			case "-c":
				if key, value, ok := strings.Cut(v, "="); ok {
					env.Resolver.Git().StubConfig(key, value)
				}
			case "-C":
				env.Resolver.Chdir(v)
			}
		case hasAnyPrefix(t, globalPrefixFlags):
			a.Shift()
			flags = append(flags, t)
		default:
			break loop
		}
	}
	if len(flags) > 0 {
		a.AddExecFlags(flags...)
		env.Resolver.Git().AddExecFlags(flags...)
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// expandAlias replaces a git alias with its definition. Shell aliases,
// those starting with "!", are left for git to run.
func expandAlias(ctx context.Context, env *Env, a *args.Args) {
	name := a.Get(0)
	if _, hub := table[name]; hub {
		return
	}
	def, ok := env.Resolver.Git().AliasFor(ctx, name)
	if !ok || strings.HasPrefix(def, "!") {
		return
	}
	words, err := splitWords(def)
	if err != nil || len(words) == 0 {
		log.FromContext(ctx).Debug("alias not expanded", "alias", name, "error", err)
		return
	}
	a.DeleteAt(0)
	a.Insert(0, words...)
	log.FromContext(ctx).Debug("alias expanded", "alias", name, "to", strings.Join(words, " "))
}
