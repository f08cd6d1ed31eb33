package commands

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/raphi011/hub/internal/github"
)

func bareRepoResponses() map[string]string {
	return map[string]string{
		"rev-parse -q --git-dir": ".git\n",
		"config github.user":     "mislav\n",
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
		opts   github.CreateRepoOptions
	}{
		{
			name:   "named after directory",
			tokens: []string{"create"},
			want: []string{
				"git remote add -f origin git@github.com:mislav/hub.git",
				`echo "created repository:" mislav/hub`,
			},
		},
		{
			name:   "organization with options",
			tokens: []string{"create", "-p", "-d", "A widget", "-h", "https://example.com", "myorg/widget"},
			want: []string{
				"git remote add -f origin git@github.com:myorg/widget.git",
				`echo "created repository:" myorg/widget`,
			},
			opts: github.CreateRepoOptions{Private: true, Description: "A widget", Homepage: "https://example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, api := newTestEnv(t, bareRepoResponses())

			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			wantCommands(t, a, tt.want...)
			if diff := cmp.Diff([]github.CreateRepoOptions{tt.opts}, api.created); diff != "" {
				t.Errorf("CreateRepo() calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreate_ChangedDirectory(t *testing.T) {
	t.Parallel()

	responses := map[string]string{}
	for k, v := range bareRepoResponses() {
		responses["-C /work/widget "+k] = v
	}
	env, api := newTestEnv(t, responses)

	a, _, err := runHub(t, env, "-C", "/work/widget", "create")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantCommands(t, a,
		"git -C /work/widget remote add -f origin git@github.com:mislav/widget.git",
		`echo "created repository:" mislav/widget`,
	)
	if len(api.created) != 1 {
		t.Errorf("CreateRepo() called %d times, want 1", len(api.created))
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	t.Parallel()
	responses := bareRepoResponses()
	responses["remote -v"] = "origin\tgit@github.com:mislav/hub.git (fetch)\n"
	env, api := newTestEnv(t, responses)
	api.repos["mislav/hub"] = &github.Repository{FullName: "mislav/hub"}

	a, _, err := runHub(t, env, "create")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantCommands(t, a, "git remote -v", `echo "set remote origin:" mislav/hub`)
	if len(api.created) != 0 {
		t.Errorf("CreateRepo() called %d times for an existing repository", len(api.created))
	}
}

func TestCreate_Noop(t *testing.T) {
	t.Parallel()
	env, api := newTestEnv(t, bareRepoResponses())

	a, _, err := runHub(t, env, "--noop", "create")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !a.IsNoop() {
		t.Error("IsNoop() = false")
	}
	if len(api.created) != 0 {
		t.Error("CreateRepo() called with --noop")
	}
	wantCommands(t, a,
		"git remote add -f origin git@github.com:mislav/hub.git",
		`echo "created repository:" mislav/hub`,
	)
}

func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("outside repository", func(t *testing.T) {
		t.Parallel()
		env, _ := newTestEnv(t, map[string]string{})
		_, _, err := runHub(t, env, "create")
		wantExit(t, err, 1, "'create' must be run from inside a git repository")
	})

	t.Run("extra argument", func(t *testing.T) {
		t.Parallel()
		env, _ := newTestEnv(t, bareRepoResponses())
		_, _, err := runHub(t, env, "create", "one", "two")
		wantExit(t, err, 1, "invalid argument: two")
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		env, _ := newTestEnv(t, bareRepoResponses())
		_, _, err := runHub(t, env, "create", "--bogus", "name")
		wantExit(t, err, 1, "Usage: hub create")
	})
}

func TestFork(t *testing.T) {
	t.Parallel()

	env, api := newTestEnv(t, repoResponses())
	a, _, err := runHub(t, env, "fork")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantCommands(t, a,
		"git remote add -f mislav git@github.com:mislav/hub.git",
		`echo "new remote:" mislav`,
	)
	if diff := cmp.Diff([]string{"defunkt/hub"}, api.forked); diff != "" {
		t.Errorf("ForkRepo() calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFork_NoRemote(t *testing.T) {
	t.Parallel()

	env, api := newTestEnv(t, repoResponses())
	a, _, err := runHub(t, env, "fork", "--no-remote")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !a.IsSkip() || len(a.Commands()) != 0 {
		t.Errorf("Commands() = %v, want nothing to run", commandLines(a))
	}
	if len(api.forked) != 1 {
		t.Errorf("ForkRepo() called %d times, want 1", len(api.forked))
	}
}

func TestFork_Existing(t *testing.T) {
	t.Parallel()

	t.Run("fork of main project", func(t *testing.T) {
		t.Parallel()
		env, api := newTestEnv(t, repoResponses())
		api.repos["mislav/hub"] = &github.Repository{
			FullName: "mislav/hub",
			Parent:   &github.Repository{FullName: "defunkt/hub", HTMLURL: "https://github.com/defunkt/hub"},
		}

		a, _, err := runHub(t, env, "fork")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(api.forked) != 0 {
			t.Error("ForkRepo() called for an existing fork")
		}
		wantCommands(t, a,
			"git remote add -f mislav git@github.com:mislav/hub.git",
			`echo "new remote:" mislav`,
		)
	})

	t.Run("unrelated repository", func(t *testing.T) {
		t.Parallel()
		env, api := newTestEnv(t, repoResponses())
		api.repos["mislav/hub"] = &github.Repository{FullName: "mislav/hub"}

		_, _, err := runHub(t, env, "fork")
		wantExit(t, err, 1, "Error creating fork: mislav/hub already exists on github.com")
	})
}

func TestFork_Noop(t *testing.T) {
	t.Parallel()

	env, api := newTestEnv(t, repoResponses())
	if _, _, err := runHub(t, env, "--noop", "fork"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(api.forked) != 0 {
		t.Error("ForkRepo() called with --noop")
	}
}
