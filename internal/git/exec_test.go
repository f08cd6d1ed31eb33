package git

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckGit(t *testing.T) {
	t.Parallel()

	if err := CheckGit("git"); err != nil {
		t.Fatalf("CheckGit(git) = %v, want nil", err)
	}

	err := CheckGit("git-that-does-not-exist")
	if !errors.Is(err, ErrGitNotFound) {
		t.Errorf("CheckGit(missing) = %v, want ErrGitNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "git-that-does-not-exist") {
		t.Errorf("error %q does not name the executable", err)
	}
}

func TestExecutable(t *testing.T) {
	t.Setenv("GIT", "/opt/git/bin/git")
	if got := Executable(); got != "/opt/git/bin/git" {
		t.Errorf("Executable() = %q, want $GIT", got)
	}

	t.Setenv("GIT", "")
	if got := Executable(); got != "git" {
		t.Errorf("Executable() = %q, want git", got)
	}
}
