//go:build unix

package cmd

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	"github.com/raphi011/hub/internal/log"
)

// Replace replaces the current process image with argv. It only returns on
// failure; the returned status is meaningless in that case.
func Replace(ctx context.Context, argv ...string) (int, error) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, err
	}
	log.FromContext(ctx).Command("", argv[0], argv[1:]...)(0)
	return 0, syscall.Exec(path, argv, os.Environ())
}

func signalStatus(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
