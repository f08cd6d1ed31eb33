package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/hub/internal/cmd"
	"github.com/raphi011/hub/internal/config"
	"github.com/raphi011/hub/internal/git"
	"github.com/raphi011/hub/internal/sshconfig"
)

const remotesOutput = "upstream\thttps://github.com/defunkt/hub.git (fetch)\n" +
	"upstream\thttps://github.com/defunkt/hub.git (push)\n" +
	"origin\tgit@gh:mislav/hub.git (fetch)\n" +
	"origin\tgit@gh:mislav/hub.git (push)\n" +
	"local\t/srv/git/hub.git (fetch)\n"

func stubResolver(t *testing.T, responses map[string]string, cfg *config.Config) *Resolver {
	t.Helper()
	ssh := sshconfig.New()
	if err := ssh.Parse(strings.NewReader("Host gh\n  HostName github.com\n  User git\n")); err != nil {
		t.Fatal(err)
	}
	if cfg == nil {
		c := config.Default()
		cfg = &c
	}
	return New(git.NewReaderWithQuery("git", git.StubQuery(responses)), cfg, ssh, "/work/hub-checkout")
}

func repoResponses() map[string]string {
	return map[string]string{
		"rev-parse -q --git-dir":    ".git\n",
		"remote -v":                 remotesOutput,
		"config --get-all hub.host": "git.corp.example\n",
		"symbolic-ref -q HEAD":      "refs/heads/feature\n",
		"rev-parse --symbolic-full-name feature@{upstream}": "refs/remotes/upstream/feature\n",
		"symbolic-ref -q refs/remotes/origin/HEAD":          "refs/remotes/origin/master\n",
		"config github.user":                                "mislav\n",
		"rev-parse --symbolic-full-name master@{upstream}":  "refs/remotes/origin/master\n",
		"config remotes.everyone":                           "origin upstream\n",
	}
}

func TestRemotes_OriginFirstAndSSHAliases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := stubResolver(t, repoResponses(), nil)

	remotes := r.Remotes(ctx)
	var names []string
	for _, rm := range remotes {
		names = append(names, rm.Name)
	}
	if got := strings.Join(names, ","); got != "origin,upstream,local" {
		t.Fatalf("Remotes() = %s, want origin,upstream,local", got)
	}

	origin := remotes[0]
	if len(origin.URLs) != 2 {
		t.Fatalf("origin URLs = %d, want fetch and push", len(origin.URLs))
	}
	if got := origin.URLs[0].URL.String(); got != "ssh://git@github.com/mislav/hub.git" {
		t.Errorf("origin URL = %q, want ssh alias resolved", got)
	}

	if _, ok := remotes[2].Project(ctx); ok {
		t.Error("local path remote has a project, want none")
	}
}

func TestMainAndCurrentProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := stubResolver(t, repoResponses(), nil)

	main, ok := r.MainProject(ctx)
	if !ok || main.NameWithOwner() != "mislav/hub" {
		t.Errorf("MainProject() = %v, %v, want mislav/hub", main, ok)
	}

	current, ok := r.CurrentProject(ctx)
	if !ok || current.NameWithOwner() != "defunkt/hub" {
		t.Errorf("CurrentProject() = %v, %v, want upstream project defunkt/hub", current, ok)
	}

	if remote, ok := r.RemoteForProject(ctx, current); !ok || remote.Name != "upstream" {
		t.Errorf("RemoteForProject() = %v, %v, want upstream", remote, ok)
	}
}

func TestProject_SSHEndpointOfDefaultHost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := config.Default()
	cfg.DefaultHost = "git.corp.example"
	r := stubResolver(t, map[string]string{
		"rev-parse -q --git-dir": ".git\n",
		"remote -v":              "origin\tgit@ssh.git.corp.example:team/tool.git (fetch)\n",
	}, &cfg)

	main, ok := r.MainProject(ctx)
	if !ok {
		t.Fatal("MainProject() absent for the ssh endpoint of the default host")
	}
	if main.Host != "git.corp.example" {
		t.Errorf("MainProject().Host = %q, want git.corp.example", main.Host)
	}

	u, ok := r.ParseURL(ctx, "https://ssh.git.corp.example/team/tool/pull/3")
	if !ok {
		t.Fatal("ParseURL() ok = false")
	}
	if u.Project.Host != "git.corp.example" {
		t.Errorf("ParseURL().Project.Host = %q, want git.corp.example", u.Project.Host)
	}
}

func TestBranches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := stubResolver(t, repoResponses(), nil)

	branch, ok := r.CurrentBranch(ctx)
	if !ok || branch.ShortName() != "feature" {
		t.Fatalf("CurrentBranch() = %v, %v", branch, ok)
	}
	if branch.IsDefault(ctx) {
		t.Error("feature IsDefault() = true")
	}

	upstream, ok := branch.Upstream(ctx)
	if !ok {
		t.Fatal("Upstream() absent")
	}
	if !upstream.IsRemote() || upstream.RemoteName() != "upstream" || upstream.ShortName() != "feature" {
		t.Errorf("Upstream() = %s remote=%q short=%q", upstream, upstream.RemoteName(), upstream.ShortName())
	}

	master := r.MasterBranch(ctx)
	if master.Name != "refs/heads/master" || !master.IsDefault(ctx) {
		t.Errorf("MasterBranch() = %s", master)
	}
}

func TestMasterBranch_Fallbacks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	withInit := stubResolver(t, map[string]string{"config init.defaultBranch": "trunk\n"}, nil)
	if got := withInit.MasterBranch(ctx).ShortName(); got != "trunk" {
		t.Errorf("MasterBranch() = %q, want trunk from init.defaultBranch", got)
	}

	bare := stubResolver(t, map[string]string{}, nil)
	if got := bare.MasterBranch(ctx).ShortName(); got != "main" {
		t.Errorf("MasterBranch() = %q, want main", got)
	}
}

func TestKnownHosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := stubResolver(t, repoResponses(), nil)

	want := []string{"git.corp.example", "github.com", "ssh.github.com"}
	if got := r.KnownHosts(ctx); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("KnownHosts() = %v, want %v", got, want)
	}
	if !r.IsKnownHost(ctx, "Git.Corp.Example") {
		t.Error("IsKnownHost() is case-sensitive")
	}
	if r.IsKnownHost(ctx, "gitlab.com") {
		t.Error("IsKnownHost(gitlab.com) = true")
	}
}

func TestGitHubUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Hosts["github.com"] = config.Host{User: "from-config"}
	r := stubResolver(t, repoResponses(), &cfg)
	if got := r.GitHubUser(ctx, "github.com"); got != "from-config" {
		t.Errorf("GitHubUser() = %q, want config user first", got)
	}
	if got := r.GitHubUser(ctx, "git.corp.example"); got != "mislav" {
		t.Errorf("GitHubUser(corp) = %q, want git config fallback", got)
	}

	anon := stubResolver(t, map[string]string{}, nil)
	_, err := anon.RequireUser(ctx, "github.com")
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Errorf("RequireUser() error = %v, want FatalError", err)
	}
}

func TestGitProtocol(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		responses map[string]string
		protocol  string
		want      string
	}{
		{"default", map[string]string{}, "", ""},
		{"hub.protocol", map[string]string{"config hub.protocol": "https\n"}, "", "https"},
		{"hub.protocol ssh", map[string]string{"config hub.protocol": "ssh\n"}, "https", "ssh"},
		{"hub.protocol unknown", map[string]string{"config hub.protocol": "ftp\n"}, "ssh", "ssh"},
		{"hub.http-clone", map[string]string{"config --bool hub.http-clone": "true\n"}, "", "https"},
		{"config file", map[string]string{}, "https", "https"},
		{"config file ssh", map[string]string{}, "ssh", "ssh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			cfg.GitProtocol = tt.protocol
			r := stubResolver(t, tt.responses, &cfg)
			if got := r.GitProtocol(ctx); got != tt.want {
				t.Errorf("GitProtocol() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepoName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := stubResolver(t, repoResponses(), nil)
	if got, err := r.RepoName(ctx); err != nil || got != "hub" {
		t.Errorf("RepoName() = %q, %v, want hub", got, err)
	}

	noRemotes := stubResolver(t, map[string]string{"rev-parse -q --git-dir": ".git\n"}, nil)
	if got, err := noRemotes.RepoName(ctx); err != nil || got != "hub-checkout" {
		t.Errorf("RepoName() = %q, %v, want directory name", got, err)
	}

	outside := stubResolver(t, map[string]string{}, nil)
	_, err := outside.RepoName(ctx)
	var fatal *FatalError
	if !errors.As(err, &fatal) || fatal.Message != "Not a git repository" {
		t.Errorf("RepoName() outside repo error = %v, want FatalError", err)
	}
}

func TestProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := stubResolver(t, repoResponses(), nil)

	tests := []struct {
		name, pname, owner string
		want               string
	}{
		{"defaults", "", "", "mislav/hub"},
		{"owner only", "", "defunkt", "defunkt/hub"},
		{"name with owner", "defunkt/resque", "", "defunkt/resque"},
		{"owner with name", "", "rtomayko/tilt", "rtomayko/tilt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Project(ctx, tt.pname, tt.owner)
			if err != nil {
				t.Fatalf("Project() error = %v", err)
			}
			if p.NameWithOwner() != tt.want || p.Host != "github.com" {
				t.Errorf("Project() = %s on %s, want %s", p, p.Host, tt.want)
			}
		})
	}
}

func TestRemotesGroup(t *testing.T) {
	t.Parallel()
	r := stubResolver(t, repoResponses(), nil)
	if _, ok := r.RemotesGroup(context.Background(), "everyone"); !ok {
		t.Error("RemotesGroup(everyone) absent")
	}
	if _, ok := r.RemotesGroup(context.Background(), "nobody"); ok {
		t.Error("RemotesGroup(nobody) present")
	}
}

func TestResolver_RealRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(tmp, "spoon-knife")
	run := func(args ...string) {
		t.Helper()
		if err := cmd.RunContext(ctx, repo, "git", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test User")
	run("config", "commit.gpgsign", "false")
	run("commit", "--allow-empty", "-m", "Initial commit")
	run("remote", "add", "origin", "https://github.com/octocat/Spoon-Knife.git")
	run("update-ref", "refs/remotes/origin/main", "HEAD")
	run("symbolic-ref", "refs/remotes/origin/HEAD", "refs/remotes/origin/main")
	run("config", "branch.main.remote", "origin")
	run("config", "branch.main.merge", "refs/heads/main")

	r := New(git.NewReader("git", repo), func() *config.Config { c := config.Default(); return &c }(), nil, repo)

	p, ok := r.CurrentProject(ctx)
	if !ok || p.NameWithOwner() != "octocat/Spoon-Knife" {
		t.Fatalf("CurrentProject() = %v, %v", p, ok)
	}

	branch, ok := r.CurrentBranch(ctx)
	if !ok || branch.Name != "refs/heads/main" {
		t.Fatalf("CurrentBranch() = %v, %v", branch, ok)
	}
	upstream, ok := branch.Upstream(ctx)
	if !ok || upstream.Name != "refs/remotes/origin/main" {
		t.Errorf("Upstream() = %v, %v, want refs/remotes/origin/main", upstream, ok)
	}
	if !branch.IsDefault(ctx) {
		t.Error("main IsDefault() = false")
	}
}
