package cmd

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/raphi011/hub/internal/log"
)

// Stdio is the set of streams a spawned child inherits.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Inherit returns the stdio of the current process.
func Inherit() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Spawn runs argv as a child process attached to stdio and waits for it.
// It returns the child's exit status; the error is only set when the child
// could not be started.
//
// The context is not used to kill the child: an interrupt typed at the
// terminal reaches the child directly and hub waits for it to exit.
func Spawn(ctx context.Context, stdio Stdio, argv ...string) (int, error) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, err
	}

	c := exec.Command(path, argv[1:]...)
	c.Args[0] = argv[0]
	c.Stdin = stdio.In
	c.Stdout = stdio.Out
	c.Stderr = stdio.Err

	done := log.FromContext(ctx).Command("", argv[0], argv[1:]...)
	start := time.Now()
	err = c.Run()
	done(time.Since(start))

	if status, ok := ExitStatus(err); ok {
		return status, nil
	}
	return 0, err
}
