package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/cmd"
	"github.com/raphi011/hub/internal/log"
)

// ErrExecutableNotFound is returned when a step names a program that is not on PATH.
var ErrExecutableNotFound = errors.New("command not found")

// Strategy is how the chain gets executed.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyPrint
	StrategyReplace
	StrategyChain
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyPrint:
		return "print"
	case StrategyReplace:
		return "replace"
	case StrategyChain:
		return "chain"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Select picks the strategy for a.
func Select(a *args.Args) Strategy {
	if a.IsNoop() {
		return StrategyPrint
	}
	steps := a.Commands()
	switch {
	case len(steps) == 0:
		return StrategyNone
	case len(steps) == 1 && steps[0].Kind == args.StepSpawn:
		return StrategyReplace
	default:
		return StrategyChain
	}
}

// Executor starts programs.
type Executor interface {
	// Replace runs argv in place of the current process where the platform
	// allows it.
	Replace(ctx context.Context, argv []string) (int, error)
	// Spawn runs argv as a child and waits for it.
	Spawn(ctx context.Context, argv []string) (int, error)
}

// OSExecutor runs real processes attached to Stdio.
type OSExecutor struct {
	Stdio cmd.Stdio
}

// NewOSExecutor returns an executor wired to the current process's stdio.
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{Stdio: cmd.Inherit()}
}

func (e *OSExecutor) Replace(ctx context.Context, argv []string) (int, error) {
	return cmd.Replace(ctx, argv...)
}

func (e *OSExecutor) Spawn(ctx context.Context, argv []string) (int, error) {
	return cmd.Spawn(ctx, e.Stdio, argv...)
}

// Runner executes argument lists.
type Runner struct {
	exec Executor
	out  io.Writer
}

// New returns a runner starting programs with exec and printing --noop
// output to out.
func New(exec Executor, out io.Writer) *Runner {
	return &Runner{exec: exec, out: out}
}

// Run executes a and returns the exit status hub should terminate with.
// A non-nil error means a step could not be started or an in-process step
// failed; the status is then 1.
func (r *Runner) Run(ctx context.Context, a *args.Args) (int, error) {
	strategy := Select(a)
	steps := a.Commands()
	log.FromContext(ctx).Debug("running", "strategy", strategy, "steps", len(steps))

	switch strategy {
	case StrategyPrint:
		for _, s := range steps {
			fmt.Fprintln(r.out, s.String())
		}
		return 0, nil
	case StrategyNone:
		return 0, nil
	case StrategyReplace:
		return r.replace(ctx, steps[0].Argv)
	default:
		return r.chain(ctx, steps)
	}
}

func (r *Runner) chain(ctx context.Context, steps []*args.Step) (int, error) {
	status := 0
	for i, s := range steps {
		if s.Kind == args.StepInvoke {
			if err := s.Fn(ctx); err != nil {
				return 1, err
			}
			status = 0
			continue
		}

		if i == len(steps)-1 {
			return r.replace(ctx, s.Argv)
		}

		code, err := r.exec.Spawn(ctx, s.Argv)
		if err != nil {
			return 1, notFound(s.Argv[0], err)
		}
		if code != 0 {
			return code, nil
		}
		status = code
	}
	return status, nil
}

func (r *Runner) replace(ctx context.Context, argv []string) (int, error) {
	code, err := r.exec.Replace(ctx, argv)
	if err != nil {
		return 1, notFound(argv[0], err)
	}
	return code, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("Error: `%s` %w", name, ErrExecutableNotFound)
	}
	return fmt.Errorf("running %s: %w", name, err)
}
