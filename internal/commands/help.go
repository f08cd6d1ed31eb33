package commands

import (
	"context"
	"io"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/output"
	"github.com/raphi011/hub/internal/ui/static"
)

const (
	aliasUsage = `hub alias [-s] [<SHELL>]

Show shell instructions for wrapping git. With -s, print only the alias
command, suitable for eval in a shell profile.
`
	browseUsage = `hub browse [-u] [-c] [[<USER>/]<REPOSITORY>] [<SUBPAGE>]

Open a GitHub page in the default browser. Without a repository, the
current project is opened; the subpage defaults to the tracked branch.
-u prints the URL instead, -c copies it to the clipboard.
`
	ciStatusUsage = `hub ci-status [-v] [<COMMIT>]

Show the CI status of a commit, HEAD by default. Exits with 0 for
success, 1 for failure or error, 2 for pending and 3 without a status.
-v also prints the URL of the status.
`
	compareUsage = `hub compare [-u] [-c] [<USER>] [<START>...]<END>

Open a GitHub compare view. Two dots in the range are read as three.
-u prints the URL instead, -c copies it to the clipboard.
`
	createUsage = `hub create [-p] [-d <DESCRIPTION>] [-h <HOMEPAGE>] [[<ORGANIZATION>/]<NAME>]

Create this repository on GitHub and add it as the origin remote.
-p makes the repository private.
`
	forkUsage = `hub fork [--no-remote]

Fork the origin project on GitHub and add the fork as a remote named
after your user. --no-remote skips adding the remote.
`
	pullRequestUsage = `hub pull-request [-fo] [-c] [-m <MESSAGE>|-F <FILE>|-i <ISSUE>|<ISSUE-URL>] [-b <BASE>] [-h <HEAD>]

Open a pull request on GitHub from the current branch. Without a message,
an editor opens with the commits being requested. BASE and HEAD take the
form [<OWNER>:]<BRANCH>. -f skips the unpushed commits check, -o opens
the result in a browser and -c copies its URL.
`
)

var gitCommandGroups = []struct {
	title    string
	commands [][]string
}{
	{"Basic Commands:", [][]string{
		{"init", "Create an empty git repository or reinitialize an existing one"},
		{"add", "Add new or modified files to the staging area"},
		{"rm", "Remove files from the working directory and staging area"},
		{"mv", "Move or rename a file, a directory, or a symlink"},
		{"status", "Show the status of the working directory and staging area"},
		{"commit", "Record changes to the repository"},
	}},
	{"History Commands:", [][]string{
		{"log", "Show the commit history log"},
		{"diff", "Show changes between commits, commit and working tree, etc"},
		{"show", "Show information about commits, tags or files"},
	}},
	{"Branching Commands:", [][]string{
		{"branch", "List, create, or delete branches"},
		{"checkout", "Switch the active branch to another branch"},
		{"merge", "Join two or more development histories (branches) together"},
		{"tag", "Create, list, delete, sign or verify a tag object"},
	}},
	{"Remote Commands:", [][]string{
		{"clone", "Clone a remote repository into a new directory"},
		{"fetch", "Download data, tags and branches from a remote repository"},
		{"pull", "Fetch from and merge with another repository or a local branch"},
		{"push", "Upload data, tags and branches to a remote repository"},
		{"remote", "View and manage a set of remote repositories"},
	}},
	{"GitHub Commands:", [][]string{
		{"pull-request", "Open a pull request on GitHub"},
		{"fork", "Make a fork of a remote repository on GitHub and add as remote"},
		{"create", "Create this repository on GitHub and add GitHub as origin"},
		{"browse", "Open a GitHub page in the default browser"},
		{"compare", "Open a compare page on GitHub"},
		{"ci-status", "Show the CI status of a commit"},
	}},
}

const helpSynopsis = `usage: git [--version] [--exec-path[=<path>]] [--html-path] [--man-path] [--info-path]
           [-p|--paginate|--no-pager] [--no-replace-objects] [--bare]
           [--git-dir=<path>] [--work-tree=<path>] [--namespace=<name>]
           [-c name=value] [--help]
           <command> [<args>]
`

// helpText is the overview printed by a bare "git help".
func helpText() string {
	var b strings.Builder
	b.WriteString(helpSynopsis)
	for _, g := range gitCommandGroups {
		b.WriteString("\n")
		b.WriteString(static.RenderSection(g.title, g.commands))
	}
	b.WriteString("\nSee 'git help <command>' for more information on a specific command.\n")
	return b.String()
}

// hubHelpText lists the usage of every hub command.
func hubHelpText() string {
	var b strings.Builder
	b.WriteString("hub: git + hub = github\n")
	for _, usage := range []string{aliasUsage, browseUsage, ciStatusUsage, compareUsage, createUsage, forkUsage, pullRequestUsage} {
		b.WriteString("\n")
		b.WriteString(usage)
	}
	return b.String()
}

// help prints hub's help for "help", "help hub" and "help <hub command>".
// Other topics and "help --all" are left to git.
func help(ctx context.Context, env *Env, a *args.Args) error {
	words := a.Words()
	var topic string
	if len(words) > 1 {
		topic = words[1]
	}

	w := output.FromContext(ctx).Styled()
	switch {
	case topic == "hub":
		io.WriteString(w, hubHelpText())
		return exit(0)
	case topic == "" && !a.Contains("-a") && !a.Contains("--all"):
		io.WriteString(w, helpText())
		return exit(0)
	case topic != "":
		if c, ok := table[topic]; ok && c.custom {
			io.WriteString(w, c.usage)
			return exit(0)
		}
	}
	return nil
}

// version prints hub's version after git's.
func version(_ context.Context, env *Env, a *args.Args) error {
	a.AfterExec("echo", "hub version", env.Version)
	return nil
}
