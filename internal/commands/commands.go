package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/config"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
	"github.com/raphi011/hub/internal/output"
	"github.com/raphi011/hub/internal/resolve"
)

var (
	ownerRE         = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)
	nameWithOwnerRE = regexp.MustCompile(`^(?:[\w.][\w.-]*|[a-zA-Z0-9][a-zA-Z0-9-]*/[\w.][\w.-]*)$`)
	ownerSlashRE    = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9-]*)(?:/([\w.][\w.-]*))?$`)
)

// API is the part of the GitHub API the rules call.
type API interface {
	RepoInfo(ctx context.Context, p *github.Project) (*github.Repository, error)
	CreateRepo(ctx context.Context, p *github.Project, opts github.CreateRepoOptions) (*github.Repository, error)
	ForkRepo(ctx context.Context, p *github.Project) (*github.Repository, error)
	PullRequestInfo(ctx context.Context, p *github.Project, id string) (*github.PullRequest, error)
	CreatePullRequest(ctx context.Context, p *github.Project, opts github.PullRequestOptions) (*github.PullRequest, error)
	Statuses(ctx context.Context, p *github.Project, sha string) ([]github.Status, error)
}

// Env is everything a rule may consult besides the argument list.
type Env struct {
	Resolver *resolve.Resolver
	Config   *config.Config

	// API returns a client for a GitHub host.
	API func(host string) (API, error)

	Version string

	IsDir      func(path string) bool
	LookPath   func(file string) (string, error)
	Getenv     func(key string) string
	GOOS       string
	TempDir    string
	Stdin      io.Reader
	IsTerminal func() bool
	Clipboard  func(text string) error
	HTTP       *http.Client

	// Edit opens path in the editor command line and waits for it to exit.
	Edit func(ctx context.Context, editor []string, path string) error
}

// ExitError stops hub before anything runs. Message goes to stderr when set.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

func abort(format string, a ...any) error {
	return &ExitError{Code: 1, Message: fmt.Sprintf(format, a...)}
}

func exit(code int) error {
	return &ExitError{Code: code}
}

type rule func(ctx context.Context, env *Env, a *args.Args) error

type command struct {
	run rule

	// custom commands exist only in hub; "-h" and "--help" print their usage.
	custom bool
	usage  string
}

var table map[string]command

func init() {
	table = map[string]command{
		"clone":        {run: clone},
		"submodule":    {run: submodule},
		"remote":       {run: remote},
		"fetch":        {run: fetch},
		"checkout":     {run: checkout},
		"merge":        {run: merge},
		"cherry-pick":  {run: cherryPick},
		"am":           {run: am},
		"apply":        {run: am},
		"init":         {run: initRepo},
		"push":         {run: push},
		"create":       {run: create, custom: true, usage: createUsage},
		"fork":         {run: fork, custom: true, usage: forkUsage},
		"pull-request": {run: pullRequest, custom: true, usage: pullRequestUsage},
		"browse":       {run: browse, custom: true, usage: browseUsage},
		"compare":      {run: compare, custom: true, usage: compareUsage},
		"ci-status":    {run: ciStatus, custom: true, usage: ciStatusUsage},
		"alias":        {run: alias, custom: true, usage: aliasUsage},
		"version":      {run: version},
		"help":         {run: help},
	}
}

func passThrough(context.Context, *Env, *args.Args) error {
	return nil
}

func lookup(name string) command {
	if c, ok := table[name]; ok {
		return c
	}
	return command{run: passThrough}
}

// Run rewrites a for the git command it names. Global flags are moved onto
// the executable, git aliases are expanded, then the rule for the
// subcommand edits the tokens and chain. An error means nothing must run;
// it is an *ExitError for every user-facing failure.
func Run(ctx context.Context, env *Env, a *args.Args) error {
	slurpGlobalFlags(env, a)
	if a.Len() == 0 {
		a.Push("help")
	}
	expandAlias(ctx, env, a)

	name := a.Get(0)
	c := lookup(name)
	log.FromContext(ctx).Debug("dispatch", "command", name, "custom", c.custom)

	if c.custom {
		if err := respectHelpFlags(ctx, a, c); err != nil {
			return err
		}
	}

	err := c.run(ctx, env, a)
	var fatal *resolve.FatalError
	if errors.As(err, &fatal) {
		return &ExitError{Code: 1, Message: "fatal: " + fatal.Message}
	}
	return err
}

// respectHelpFlags handles "hub <cmd> -h" and "hub <cmd> --help". Longer
// argument lists are left to the rule since "-h" takes a value there.
func respectHelpFlags(ctx context.Context, a *args.Args, c command) error {
	if a.Len() > 2 {
		return nil
	}
	switch a.Get(1) {
	case "-h":
		return &ExitError{Code: 1, Message: "Usage: " + firstLine(c.usage)}
	case "--help":
		output.FromContext(ctx).Print(c.usage)
		return exit(0)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// wordsSkipping returns the non-flag tokens of a, skipping the token after
// any of valueFlags.
func wordsSkipping(a *args.Args, valueFlags ...string) []string {
	var out []string
	tokens := a.Tokens()
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if strings.HasPrefix(t, "-") {
			if slices.Contains(valueFlags, t) {
				i++
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

func (env *Env) api(host string) (API, error) {
	if env.API == nil {
		return nil, errors.New("no API client configured")
	}
	return env.API(host)
}

// isDir reports whether path is a directory, relative paths being taken
// from the directory git operates in.
func (env *Env) isDir(path string) bool {
	if !filepath.IsAbs(path) && env.Resolver != nil && env.Resolver.Dir() != "" {
		path = filepath.Join(env.Resolver.Dir(), path)
	}
	if env.IsDir != nil {
		return env.IsDir(path)
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
