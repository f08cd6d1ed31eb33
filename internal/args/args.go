package args

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// StepKind tells the runner how to execute a step.
type StepKind int

const (
	// StepSpawn runs an external program.
	StepSpawn StepKind = iota
	// StepInvoke calls a function inside the hub process.
	StepInvoke
)

// Step is one unit of work in the execution chain.
type Step struct {
	Kind  StepKind
	Argv  []string
	Label string
	Fn    func(ctx context.Context) error

	// Primary marks the user's own, possibly rewritten, git invocation.
	Primary bool
}

// Spawn returns a step running argv.
func Spawn(argv ...string) *Step {
	return &Step{Kind: StepSpawn, Argv: argv}
}

// Invoke returns a step calling fn. The label is shown by --noop.
func Invoke(label string, fn func(context.Context) error) *Step {
	return &Step{Kind: StepInvoke, Label: label, Fn: fn}
}

// String renders the step as a shell-like command line, quoting empty
// arguments and arguments containing whitespace.
func (s *Step) String() string {
	if s.Kind == StepInvoke {
		return s.Label
	}
	parts := make([]string, len(s.Argv))
	for i, a := range s.Argv {
		if a == "" || strings.ContainsFunc(a, isSpace) {
			a = strconv.Quote(a)
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// Args is the argument list of one git invocation together with the steps
// to run before and after it.
//
// The chain always contains exactly one nil entry standing for the primary
// invocation. Before-steps are inserted just ahead of it in call order,
// after-steps are appended at the end, so steps never change their
// relative order.
type Args struct {
	executable []string
	tokens     []string
	original   []string
	noop       bool
	skip       bool
	chain      []*Step
}

// New returns the argument list for running executable with tokens.
func New(executable string, tokens []string) *Args {
	return &Args{
		executable: []string{executable},
		tokens:     slices.Clone(tokens),
		original:   slices.Clone(tokens),
		chain:      []*Step{nil},
	}
}

// Executable returns the program and exec flags of the primary invocation.
func (a *Args) Executable() []string {
	return slices.Clone(a.executable)
}

// SetExecutable replaces the program of the primary invocation, dropping
// any exec flags.
func (a *Args) SetExecutable(argv ...string) {
	a.executable = slices.Clone(argv)
}

// AddExecFlags appends global flags such as "-C dir" to the executable.
// They apply to the primary invocation and to every later BeforeGit and
// AfterGit step.
func (a *Args) AddExecFlags(flags ...string) {
	a.executable = append(a.executable, flags...)
}

// ToExec prefixes argv with the executable and its exec flags.
func (a *Args) ToExec(argv ...string) []string {
	return append(a.Executable(), argv...)
}

// Words returns the tokens that are not flags.
func (a *Args) Words() []string {
	var out []string
	for _, t := range a.tokens {
		if !strings.HasPrefix(t, "-") {
			out = append(out, t)
		}
	}
	return out
}

// Flags returns the tokens that are flags.
func (a *Args) Flags() []string {
	var out []string
	for _, t := range a.tokens {
		if strings.HasPrefix(t, "-") {
			out = append(out, t)
		}
	}
	return out
}

// Before inserts s ahead of the primary invocation, after any
// previously inserted before-steps.
func (a *Args) Before(s *Step) {
	i := slices.Index(a.chain, nil)
	a.chain = slices.Insert(a.chain, i, s)
}

// After appends s to the end of the chain.
func (a *Args) After(s *Step) {
	a.chain = append(a.chain, s)
}

// BeforeGit runs git with argv before the primary invocation.
func (a *Args) BeforeGit(argv ...string) {
	a.Before(Spawn(a.ToExec(argv...)...))
}

// AfterGit runs git with argv after the primary invocation.
func (a *Args) AfterGit(argv ...string) {
	a.After(Spawn(a.ToExec(argv...)...))
}

// BeforeExec runs an arbitrary program before the primary invocation.
func (a *Args) BeforeExec(name string, argv ...string) {
	a.Before(Spawn(append([]string{name}, argv...)...))
}

// AfterExec runs an arbitrary program after the primary invocation.
func (a *Args) AfterExec(name string, argv ...string) {
	a.After(Spawn(append([]string{name}, argv...)...))
}

// BeforeFunc calls fn before the primary invocation.
func (a *Args) BeforeFunc(label string, fn func(context.Context) error) {
	a.Before(Invoke(label, fn))
}

// AfterFunc calls fn after the primary invocation.
func (a *Args) AfterFunc(label string, fn func(context.Context) error) {
	a.After(Invoke(label, fn))
}

// Skip drops the primary invocation; chain steps still run.
func (a *Args) Skip() {
	a.skip = true
}

// IsSkip reports whether the primary invocation is dropped.
func (a *Args) IsSkip() bool {
	return a.skip
}

// Noop makes the runner print the chain instead of executing it.
func (a *Args) Noop() {
	a.noop = true
}

// IsNoop reports whether the chain is only printed.
func (a *Args) IsNoop() bool {
	return a.noop
}

// Chained reports whether any step besides the primary invocation exists.
func (a *Args) Chained() bool {
	return len(a.chain) > 1
}

// Changed reports whether the tokens were rewritten or steps were added.
func (a *Args) Changed() bool {
	return a.Chained() || !slices.Equal(a.tokens, a.original)
}

// Commands returns the chain with the primary invocation in place of the
// sentinel. The primary invocation is left out when skipped.
func (a *Args) Commands() []*Step {
	out := make([]*Step, 0, len(a.chain))
	for _, s := range a.chain {
		if s != nil {
			out = append(out, s)
			continue
		}
		if a.skip {
			continue
		}
		primary := Spawn(a.ToExec(a.tokens...)...)
		primary.Primary = true
		out = append(out, primary)
	}
	return out
}
