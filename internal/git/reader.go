package git

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/raphi011/hub/internal/cmd"
)

// QueryFunc runs git with argv (exec flags included, executable excluded)
// and returns its stdout.
type QueryFunc func(ctx context.Context, argv []string) (string, error)

type result struct {
	out string
	ok  bool
}

// Reader answers read-only git queries and remembers every answer for the
// lifetime of the process. The same query is never run twice.
type Reader struct {
	executable string
	flags      []string
	query      QueryFunc

	mu    sync.Mutex
	cache map[string]result
}

// NewReader returns a Reader running executable in dir.
// An empty dir runs git in the current working directory.
func NewReader(executable, dir string) *Reader {
	return NewReaderWithQuery(executable, func(ctx context.Context, argv []string) (string, error) {
		out, err := cmd.OutputContext(ctx, dir, executable, argv...)
		return string(out), err
	})
}

// NewReaderWithQuery returns a Reader answering queries through q.
func NewReaderWithQuery(executable string, q QueryFunc) *Reader {
	return &Reader{executable: executable, query: q, cache: map[string]result{}}
}

// StubQuery returns a QueryFunc answering from responses, keyed by the
// space-joined argv. Unknown queries fail.
func StubQuery(responses map[string]string) QueryFunc {
	return func(_ context.Context, argv []string) (string, error) {
		if out, ok := responses[strings.Join(argv, " ")]; ok {
			return out, nil
		}
		return "", errNoStub
	}
}

var errNoStub = errors.New("no stubbed response")

// Executable returns the configured git program.
func (r *Reader) Executable() string {
	return r.executable
}

// AddExecFlags prepends flags such as "-C dir" to every later query.
func (r *Reader) AddExecFlags(flags ...string) {
	r.flags = append(r.flags, flags...)
}

// Command runs git with args and returns its output with the trailing
// newline removed. ok is false when git fails or prints nothing.
func (r *Reader) Command(ctx context.Context, args ...string) (string, bool) {
	key := strings.Join(args, "\x00")

	r.mu.Lock()
	res, cached := r.cache[key]
	r.mu.Unlock()
	if cached {
		return res.out, res.ok
	}

	out, err := r.query(ctx, append(slices.Clone(r.flags), args...))
	out = strings.TrimRight(out, "\n")
	res = result{out: out, ok: err == nil && out != ""}

	r.mu.Lock()
	r.cache[key] = res
	r.mu.Unlock()
	return res.out, res.ok
}

// Lines runs git with args and splits the output into lines.
func (r *Reader) Lines(ctx context.Context, args ...string) []string {
	out, ok := r.Command(ctx, args...)
	if !ok {
		return nil
	}
	return strings.Split(out, "\n")
}

// Config returns the value of a git config key.
func (r *Reader) Config(ctx context.Context, key string) (string, bool) {
	return r.Command(ctx, "config", key)
}

// ConfigAll returns every value of a multi-valued git config key.
func (r *Reader) ConfigAll(ctx context.Context, key string) []string {
	return r.Lines(ctx, "config", "--get-all", key)
}

// ConfigBool reports whether a git config key is set to a true value.
func (r *Reader) ConfigBool(ctx context.Context, key string) bool {
	out, ok := r.Command(ctx, "config", "--bool", key)
	return ok && out == "true"
}

// StubConfig makes later Config lookups of key return value without asking git.
// It mirrors "-c key=value" passed on the command line.
func (r *Reader) StubConfig(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache["config\x00"+key] = result{out: value, ok: value != ""}
}

// AliasFor returns the alias definition for a git command name.
func (r *Reader) AliasFor(ctx context.Context, name string) (string, bool) {
	return r.Config(ctx, "alias."+name)
}

// GitDir returns the path of the repository's git directory.
func (r *Reader) GitDir(ctx context.Context) (string, bool) {
	return r.Command(ctx, "rev-parse", "-q", "--git-dir")
}
