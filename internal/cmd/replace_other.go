//go:build !unix

package cmd

import (
	"context"
	"os/exec"
)

// Replace runs argv as a child and reports its status, since this platform
// cannot replace the running process image.
func Replace(ctx context.Context, argv ...string) (int, error) {
	return Spawn(ctx, Inherit(), argv...)
}

func signalStatus(*exec.ExitError) int {
	return 1
}
