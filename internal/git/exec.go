package git

import (
	"fmt"
	"os"
	"os/exec"
)

// ErrGitNotFound is returned by [CheckGit] when the git program cannot be
// found on PATH.
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// Executable returns the git program to run: $GIT if set, otherwise "git".
func Executable() string {
	if g := os.Getenv("GIT"); g != "" {
		return g
	}
	return "git"
}

// CheckGit reports whether executable resolves to a program.
func CheckGit(executable string) error {
	if _, err := exec.LookPath(executable); err != nil {
		return fmt.Errorf("%w: %s", ErrGitNotFound, executable)
	}
	return nil
}
