package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/github"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "unknown user becomes remote",
			tokens: []string{"fetch", "alice"},
			want:   []string{"git remote add alice git://github.com/alice/hub.git", "git fetch alice"},
		},
		{
			name:   "comma separated users",
			tokens: []string{"fetch", "alice,bob"},
			want: []string{
				"git remote add alice git://github.com/alice/hub.git",
				"git remote add bob git@github.com:bob/hub.git",
				"git fetch --multiple alice bob",
			},
		},
		{
			name:   "multiple flag",
			tokens: []string{"fetch", "--multiple", "alice", "origin"},
			want:   []string{"git remote add alice git://github.com/alice/hub.git", "git fetch --multiple alice origin"},
		},
		{
			name:   "existing remote",
			tokens: []string{"fetch", "origin"},
			want:   []string{"git fetch origin"},
		},
		{
			name:   "user without repository",
			tokens: []string{"fetch", "nobody"},
			want:   []string{"git fetch nobody"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, api := newTestEnv(t, repoResponses())
			api.repos["alice/hub"] = &github.Repository{FullName: "alice/hub"}
			api.repos["bob/hub"] = &github.Repository{FullName: "bob/hub", Private: true}

			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			wantCommands(t, a, tt.want...)
		})
	}
}

const pullURL = "https://github.com/defunkt/hub/pull/73"

func stubPull(api *fakeAPI, fork *github.Repository) {
	api.pulls["defunkt/hub#73"] = &github.PullRequest{
		Number: 73,
		Title:  "Add feature",
		Head:   github.PullRequestRef{Label: "mislav:feature", Ref: "feature", Repo: fork},
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	withRemote := repoResponses()
	withRemote["remote -v"] = originDefunkt + "mislav\tgit://github.com/mislav/hub.git (fetch)\n"

	tests := []struct {
		name      string
		responses map[string]string
		tokens    []string
		want      []string
	}{
		{
			name:      "new remote",
			responses: repoResponses(),
			tokens:    []string{"checkout", pullURL},
			want: []string{
				"git remote add -f -t feature mislav git://github.com/mislav/hub.git",
				"git checkout --track -B mislav-feature mislav/feature",
			},
		},
		{
			name:      "custom branch name",
			responses: repoResponses(),
			tokens:    []string{"checkout", pullURL, "review"},
			want: []string{
				"git remote add -f -t feature mislav git://github.com/mislav/hub.git",
				"git checkout --track -B review mislav/feature",
			},
		},
		{
			name:      "existing remote",
			responses: withRemote,
			tokens:    []string{"checkout", pullURL},
			want: []string{
				"git remote set-branches --add mislav feature",
				"git fetch mislav +refs/heads/feature:refs/remotes/mislav/feature",
				"git checkout --track -B mislav-feature mislav/feature",
			},
		},
		{
			name:      "plain branch",
			responses: repoResponses(),
			tokens:    []string{"checkout", "main"},
			want:      []string{"git checkout main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, api := newTestEnv(t, tt.responses)
			stubPull(api, &github.Repository{FullName: "mislav/hub"})

			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			wantCommands(t, a, tt.want...)
		})
	}
}

func TestCheckout_DeletedFork(t *testing.T) {
	t.Parallel()
	env, api := newTestEnv(t, repoResponses())
	stubPull(api, nil)

	_, _, err := runHub(t, env, "checkout", pullURL)
	wantExit(t, err, 1, "Error: mislav's fork is not available anymore")
}

func TestMerge(t *testing.T) {
	t.Parallel()
	env, api := newTestEnv(t, repoResponses())
	stubPull(api, &github.Repository{FullName: "mislav/hub"})

	a, _, err := runHub(t, env, "merge", pullURL)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantCommands(t, a,
		"git fetch git://github.com/mislav/hub.git +refs/heads/feature:refs/remotes/mislav/feature",
		`git merge mislav/feature --no-ff -m "Merge pull request #73 from mislav/feature\n\nAdd feature"`,
	)
}

func TestMerge_UnknownPull(t *testing.T) {
	t.Parallel()
	env, _ := newTestEnv(t, repoResponses())

	_, _, err := runHub(t, env, "merge", pullURL)
	wantExit(t, err, 1, "Error fetching pull request: Not Found (HTTP 404)")
}

func TestCherryPick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "owner at sha",
			tokens: []string{"cherry-pick", "mislav@a1b2c3d"},
			want:   []string{"git remote add -f mislav git://github.com/mislav/hub.git", "git cherry-pick a1b2c3d"},
		},
		{
			name:   "commit URL of a remote",
			tokens: []string{"cherry-pick", "https://github.com/defunkt/hub/commit/a1b2c3d"},
			want:   []string{"git fetch origin", "git cherry-pick a1b2c3d"},
		},
		{
			name:   "plain sha",
			tokens: []string{"cherry-pick", "a1b2c3d"},
			want:   []string{"git cherry-pick a1b2c3d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _ := newTestEnv(t, repoResponses())
			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			wantCommands(t, a, tt.want...)
		})
	}
}

func TestAm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tokens    []string
		patchURL  string
		patchFile string
	}{
		{
			name:      "pull request",
			tokens:    []string{"am", "-3", "https://github.com/defunkt/hub/pull/55#issuecomment-1"},
			patchURL:  "https://github.com/defunkt/hub/pull/55.patch",
			patchFile: "55.patch",
		},
		{
			name:      "pull request subpage",
			tokens:    []string{"am", "https://github.com/defunkt/hub/pull/55/commits"},
			patchURL:  "https://github.com/defunkt/hub/pull/55.patch",
			patchFile: "55.patch",
		},
		{
			name:      "commit",
			tokens:    []string{"apply", "https://github.com/davidbalbert/hub/commit/fdb9921"},
			patchURL:  "https://github.com/davidbalbert/hub/commit/fdb9921.patch",
			patchFile: "fdb9921.patch",
		},
		{
			name:      "gist",
			tokens:    []string{"am", "https://gist.github.com/8da7fb575debd88c54cf"},
			patchURL:  "https://gist.github.com/8da7fb575debd88c54cf.txt",
			patchFile: "8da7fb575debd88c54cf.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _ := newTestEnv(t, repoResponses())
			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			file := filepath.Join(env.TempDir, tt.patchFile)
			steps := a.Commands()
			if len(steps) != 2 || steps[0].Kind != args.StepInvoke {
				t.Fatalf("Commands() = %v, want download then git", commandLines(a))
			}
			wantLabel := "curl -#LA 'hub 2.0.0-test' " + tt.patchURL + " -o " + file
			if steps[0].Label != wantLabel {
				t.Errorf("download label = %q, want %q", steps[0].Label, wantLabel)
			}
			if got := steps[1].Argv[len(steps[1].Argv)-1]; got != file {
				t.Errorf("patch argument = %q, want %q", got, file)
			}
		})
	}
}

func TestAm_Untouched(t *testing.T) {
	t.Parallel()

	for _, patch := range []string{"0001-fix.patch", "https://gitlab.com/x/y/-/merge_requests/1.patch"} {
		env, _ := newTestEnv(t, repoResponses())
		a, _, err := runHub(t, env, "am", patch)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		wantCommands(t, a, "git am "+patch)
	}
}

func TestAm_Download(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/owner/repo/pull/5.patch" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "hub 2.0.0-test" {
			http.Error(w, "bad user agent "+ua, http.StatusBadRequest)
			return
		}
		w.Write([]byte("From 1234 Mon Sep 17 00:00:00 2001\n"))
	}))
	t.Cleanup(srv.Close)

	responses := repoResponses()
	responses["config --get-all hub.host"] = "127.0.0.1\n"

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "found", path: "/owner/repo/pull/5"},
		{name: "missing", path: "/owner/repo/pull/6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _ := newTestEnv(t, responses)
			env.HTTP = srv.Client()

			a, _, err := runHub(t, env, "am", srv.URL+tt.path)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			download := a.Commands()[0]
			err = download.Fn(context.Background())
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
					t.Errorf("download error = %v, want HTTP 404", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("download error = %v", err)
			}
			got, err := os.ReadFile(a.Get(1))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(got), "From 1234") {
				t.Errorf("patch file = %q", got)
			}
		})
	}
}

func TestPush(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "explicit ref",
			tokens: []string{"push", "origin,staging,qa", "bert_timeout"},
			want: []string{
				"git push origin bert_timeout",
				"git push staging bert_timeout",
				"git push qa bert_timeout",
			},
		},
		{
			name:   "current branch",
			tokens: []string{"push", "origin,staging"},
			want:   []string{"git push origin feature", "git push staging feature"},
		},
		{
			name:   "flags repeated for every remote",
			tokens: []string{"push", "origin,staging", "--force", "main"},
			want:   []string{"git push origin --force main", "git push staging --force main"},
		},
		{
			name:   "flags with current branch",
			tokens: []string{"push", "origin,staging", "-u"},
			want:   []string{"git push origin -u feature", "git push staging -u feature"},
		},
		{
			name:   "single remote",
			tokens: []string{"push", "origin", "main"},
			want:   []string{"git push origin main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _ := newTestEnv(t, repoResponses())
			a, _, err := runHub(t, env, tt.tokens...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			wantCommands(t, a, tt.want...)
		})
	}
}

func TestPush_DetachedHead(t *testing.T) {
	t.Parallel()
	responses := repoResponses()
	delete(responses, "symbolic-ref -q HEAD")
	env, _ := newTestEnv(t, responses)

	a, _, err := runHub(t, env, "push", "origin,staging")
	wantExit(t, err, 1, "Aborted: not currently on any branch.")
	if diff := cmp.Diff([]string{"push", "origin,staging"}, a.Tokens()); diff != "" {
		t.Errorf("tokens changed on abort (-want +got):\n%s", diff)
	}
}
