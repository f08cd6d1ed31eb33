package commands

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/output"
)

var shells = []string{"bash", "zsh", "sh", "ksh", "csh", "tcsh", "fish"}

var shellProfiles = map[string]string{
	"bash": "~/.bash_profile",
	"zsh":  "~/.zshrc",
	"ksh":  "~/.profile",
	"fish": "~/.config/fish/config.fish",
}

// alias shows how to make git an alias of hub in the user's shell. With
// -s it prints only the alias line, suited for eval.
func alias(ctx context.Context, env *Env, a *args.Args) error {
	fs := newFlagSet("alias")
	script := fs.BoolP("script", "s", false, "print the alias command only")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(aliasUsage))
	}

	shell := fs.Arg(0)
	if shell == "" {
		shell = env.getenv("SHELL")
	}
	if shell == "" {
		return abort("hub alias: unknown shell")
	}
	shell = filepath.Base(shell)

	if !slices.Contains(shells, shell) {
		msg := "hub alias: unsupported shell\nsupported shells: " + strings.Join(shells, " ")
		if matches := fuzzy.Find(shell, shells); len(matches) > 0 {
			msg += "\n\nDid you mean " + matches[0].Str + "?"
		}
		return abort("%s", msg)
	}

	out := output.FromContext(ctx)
	if *script {
		out.Println("alias git=hub")
		return exit(0)
	}

	profile, ok := shellProfiles[shell]
	if !ok {
		profile = "your profile"
	}
	eval := `eval "$(hub alias -s)"`
	if shell == "fish" {
		eval = "eval (hub alias -s)"
	}
	out.Printf("# Wrap git automatically by adding the following to %s:\n\n%s\n", profile, eval)
	return exit(0)
}
