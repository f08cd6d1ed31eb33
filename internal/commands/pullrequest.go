package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
	"github.com/raphi011/hub/internal/output"
	"github.com/raphi011/hub/internal/resolve"
	"github.com/raphi011/hub/internal/storage"
)

var (
	issuePathRE = regexp.MustCompile(`^issues/(\d+)`)
	vimRE       = regexp.MustCompile(`^[mg]?vim$`)
)

const editmsgFile = "PULLREQ_EDITMSG"

// pullRequest opens a pull request for the current branch.
func pullRequest(ctx context.Context, env *Env, a *args.Args) error {
	fs := newFlagSet("pull-request")
	force := fs.BoolP("force", "f", false, "skip the unpushed commits check")
	message := fs.StringP("message", "m", "", "pull request title and body")
	file := fs.StringP("file", "F", "", "read the title and body from a file")
	baseRef := fs.StringP("base", "b", "", "[owner:]branch to merge into")
	headRef := fs.StringP("head", "h", "", "[owner:]branch to merge from")
	issue := fs.StringP("issue", "i", "", "turn an issue into a pull request")
	openBrowser := fs.BoolP("browse", "o", false, "open the pull request in a browser")
	copyURL := fs.BoolP("copy", "c", false, "copy the pull request URL")
	if err := fs.Parse(a.Tokens()[1:]); err != nil {
		return abort("%s\nUsage: %s", err, firstLine(pullRequestUsage))
	}

	repo, err := env.Resolver.RequireRepo(ctx)
	if err != nil {
		return err
	}
	branch, ok := env.Resolver.CurrentBranch(ctx)
	if !ok {
		return abort("Aborted: not currently on any branch.")
	}
	baseProject, ok := env.Resolver.MainProject(ctx)
	if !ok {
		return abort("Aborted: the origin remote doesn't point to a GitHub repository.")
	}
	tracked, headProject := remoteBranchAndProject(ctx, env, baseProject)

	var opts github.PullRequestOptions
	switch {
	case *file != "":
		text, err := readMessageFile(env, *file)
		if err != nil {
			return abort("%s", err)
		}
		opts.Title, opts.Body = readMsg(text)
	case *message != "":
		opts.Title, opts.Body = readMsg(*message)
	}
	if *baseRef != "" {
		baseProject, opts.Base = fromGitHubRef(*baseRef, baseProject)
	}
	if *headRef != "" {
		headProject, opts.Head = fromGitHubRef(*headRef, headProject)
	}
	opts.Issue = *issue

	logger := log.FromContext(ctx)
	for _, arg := range fs.Args() {
		if u, ok := env.Resolver.ParseURL(ctx, arg); ok {
			if m := issuePathRE.FindStringSubmatch(u.ProjectPath()); m != nil {
				opts.Issue = m[1]
				baseProject = u.Project
				continue
			}
		}
		if opts.Title == "" && !strings.HasPrefix(arg, "-") {
			opts.Title = arg
			logger.Printf("hub: Specifying pull request title without a flag is deprecated.\n")
			logger.Printf("Please use one of `-m' or `-F' options.\n")
			continue
		}
		return abort("invalid argument: %s", arg)
	}
	if opts.Issue != "" {
		logger.Printf("Warning: Issue to pull request conversion is deprecated and might not work in the future.\n")
	}

	if opts.Base == "" {
		opts.Base = env.Resolver.MasterBranch(ctx).ShortName()
	}
	if opts.Head == "" && tracked != nil {
		if !tracked.IsRemote() {
			tracked = nil
		} else if baseProject.Equal(headProject) && tracked.ShortName() == opts.Base {
			return abort("Aborted: head branch is the same as base (%q)\n(use `-h <branch>` to specify an explicit pull request head)", opts.Base)
		}
	}
	if opts.Head == "" {
		if tracked != nil {
			opts.Head = tracked.ShortName()
		} else {
			opts.Head = branch.ShortName()
		}
	}

	remoteBranch := remoteName(ctx, env, headProject) + "/" + opts.Head
	opts.Head = headProject.Owner + ":" + opts.Head

	git := env.Resolver.Git()
	if !*force && tracked != nil {
		if out, ok := git.Command(ctx, "rev-list", "--cherry-pick", "--right-only", "--no-merges", remoteBranch+"..."); ok {
			return abort("Aborted: %d commits are not yet pushed to %s\n(use `-f` to force submit a pull request anyway)",
				len(strings.Split(out, "\n")), remoteBranch)
		}
	}

	if a.IsNoop() {
		output.FromContext(ctx).Printf("Would request a pull to %s:%s from %s\n", baseProject.Owner, opts.Base, opts.Head)
		return exit(0)
	}

	var msgFile string
	if opts.Title == "" && opts.Issue == "" {
		baseBranch := remoteName(ctx, env, baseProject) + "/" + opts.Base
		msgFile = filepath.Join(repo.GitDir, editmsgFile)
		if !filepath.IsAbs(msgFile) {
			msgFile = filepath.Join(env.Resolver.Dir(), msgFile)
		}
		e := editmsg{
			path:    msgFile,
			cc:      commentChar(ctx, env),
			base:    baseProject.Owner + ":" + opts.Base,
			head:    opts.Head,
			message: defaultMessage(ctx, env, baseBranch, remoteBranch),
		}
		e.changes = commitSummary(ctx, env, baseBranch, remoteBranch)
		opts.Title, opts.Body, err = e.run(ctx, env)
		if err != nil {
			return err
		}
	}

	api, err := env.api(baseProject.Host)
	if err != nil {
		return abort("Error creating pull request: %s", err)
	}
	pr, err := api.CreatePullRequest(ctx, baseProject, opts)
	if err != nil {
		return abort("%s", github.FormatError("creating pull request", err))
	}
	if msgFile != "" {
		if err := os.Remove(msgFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Debug("removing message file", "error", err)
		}
	}

	return openURL(env, a, pr.HTMLURL, !*openBrowser, *copyURL)
}

// remoteBranchAndProject returns the branch the current branch tracks and
// the project of its remote, defaulting to the main project.
func remoteBranchAndProject(ctx context.Context, env *Env, main *github.Project) (*resolve.Branch, *github.Project) {
	branch, ok := env.Resolver.CurrentBranch(ctx)
	if !ok {
		return nil, main
	}
	upstream, ok := branch.Upstream(ctx)
	if !ok {
		return nil, main
	}
	if upstream.IsRemote() {
		if remote, ok := env.Resolver.RemoteByName(ctx, upstream.RemoteName()); ok {
			if p, ok := remote.Project(ctx); ok {
				return upstream, p
			}
		}
	}
	return upstream, main
}

// fromGitHubRef splits "owner:branch" into the owner's copy of p and the branch.
func fromGitHubRef(ref string, p *github.Project) (*github.Project, string) {
	owner, branch, ok := strings.Cut(ref, ":")
	if !ok {
		return p, ref
	}
	return p.OwnedBy(owner), branch
}

// remoteName returns the name of the remote pointing at p, or the owner
// of p when no remote does.
func remoteName(ctx context.Context, env *Env, p *github.Project) string {
	if remote, ok := env.Resolver.RemoteForProject(ctx, p); ok {
		return remote.Name
	}
	return p.Owner
}

func readMessageFile(env *Env, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(env.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// readMsg splits a message into a one-line title and a body at the first
// blank line.
func readMsg(msg string) (string, string) {
	title, body, _ := strings.Cut(msg, "\n\n")
	title = strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	return title, strings.TrimSpace(body)
}

func commentChar(ctx context.Context, env *Env) string {
	if cc, ok := env.Resolver.Git().Config(ctx, "core.commentchar"); ok {
		return cc
	}
	return "#"
}

func revList(ctx context.Context, env *Env, from, to string) []string {
	return env.Resolver.Git().Lines(ctx, "rev-list", "--cherry-pick", "--right-only", "--no-merges", from+"..."+to)
}

// defaultMessage is the message of the only commit being requested.
func defaultMessage(ctx context.Context, env *Env, base, head string) string {
	commits := revList(ctx, env, base, head)
	if len(commits) != 1 {
		return ""
	}
	out, _ := env.Resolver.Git().Command(ctx, "show", "-s", "--format=%w(78,0,0)%s%n%+b", commits[0])
	return out
}

// commitSummary lists the commits being requested when there are several.
func commitSummary(ctx context.Context, env *Env, base, head string) string {
	if len(revList(ctx, env, base, head)) < 2 {
		return ""
	}
	out, _ := env.Resolver.Git().Command(ctx, "log", "--no-color",
		"--format=%h (%aN, %ar)%n%w(78,3,3)%s%n%+b", "--cherry", base+"..."+head)
	return out
}

// editmsg is the pull request message edited in the user's editor.
type editmsg struct {
	path    string
	cc      string
	base    string
	head    string
	message string
	changes string
}

// run writes the template, opens the editor and reads back the title and
// body. A message left from an aborted run less than an hour ago is reused.
func (e *editmsg) run(ctx context.Context, env *Env) (string, string, error) {
	if fi, err := os.Stat(e.path); err == nil && time.Since(fi.ModTime()) < time.Hour {
		if f, err := os.Open(e.path); err == nil {
			title, body := readEditmsg(f, e.cc)
			f.Close()
			if title != "" {
				e.message = strings.TrimSpace(title + "\n\n" + body)
			}
		}
	}

	if err := storage.WriteFile(e.path, []byte(e.template()), 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", e.path, err)
	}

	editor, err := gitEditor(ctx, env)
	if err != nil {
		return "", "", err
	}
	if env.IsTerminal != nil && !env.IsTerminal() {
		return "", "", abort("error using text editor for pull request message: stdin is not a terminal (use -m or -F)")
	}
	if err := env.Edit(ctx, editor, e.path); err != nil {
		os.Remove(e.path)
		return "", "", abort("error using text editor for pull request message")
	}

	f, err := os.Open(e.path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	title, body := readEditmsg(f, e.cc)
	if title == "" {
		return "", "", abort("Aborting due to empty pull request title")
	}
	return title, body, nil
}

func (e *editmsg) template() string {
	var b strings.Builder
	if e.message != "" {
		b.WriteString(e.message + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s Requesting a pull to %s from %s\n", e.cc, e.base, e.head)
	fmt.Fprintf(&b, "%s\n", e.cc)
	fmt.Fprintf(&b, "%s Write a message for this pull request. The first block\n", e.cc)
	fmt.Fprintf(&b, "%s of text is the title and the rest is the description.\n", e.cc)
	if e.changes != "" {
		fmt.Fprintf(&b, "%s\n%s Changes:\n%s\n", e.cc, e.cc, e.cc)
		for _, line := range strings.Split(e.changes, "\n") {
			b.WriteString(strings.TrimRight(e.cc+" "+line, " ") + "\n")
		}
	}
	return b.String()
}

// readEditmsg returns the first block of non-comment text as the title
// and everything after it as the body.
func readEditmsg(r io.Reader, cc string) (string, string) {
	var title, body []string
	inTitle, titleDone := false, false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, cc) {
			continue
		}
		blank := strings.TrimSpace(line) == ""
		switch {
		case titleDone:
			body = append(body, line)
		case !blank:
			title = append(title, strings.TrimSpace(line))
			inTitle = true
		case inTitle:
			titleDone = true
		}
	}
	return strings.Join(title, " "), strings.TrimSpace(strings.Join(body, "\n"))
}

// gitEditor returns the editor command line git would use, with vim told
// to treat the file as a commit message.
func gitEditor(ctx context.Context, env *Env) ([]string, error) {
	raw, ok := env.Resolver.Git().Command(ctx, "var", "GIT_EDITOR")
	if !ok {
		return nil, abort("Can't find git editor: set $GIT_EDITOR or core.editor")
	}
	editor, err := splitWords(raw)
	if err != nil || len(editor) == 0 {
		return nil, abort("Can't parse git editor %q", raw)
	}
	if vimRE.MatchString(filepath.Base(editor[0])) {
		editor = append(editor, "-c", "set ft=gitcommit tw=0 wrap lbr")
	}
	return editor, nil
}

// openURL replaces the invocation with one that shows url: printed with
// echo, copied to the clipboard, or opened in the browser.
func openURL(env *Env, a *args.Args, url string, urlOnly, copyURL bool) error {
	a.Replace()
	switch {
	case copyURL:
		a.Skip()
		a.AfterFunc("copy "+url+" to clipboard", func(context.Context) error {
			if env.Clipboard == nil {
				return errors.New("no clipboard available")
			}
			return env.Clipboard(url)
		})
	case urlOnly:
		a.SetExecutable("echo")
		a.Push(url)
	default:
		launcher, err := env.browserLauncher()
		if err != nil {
			return err
		}
		a.SetExecutable(launcher...)
		a.Push(url)
	}
	return nil
}
