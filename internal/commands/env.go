package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/raphi011/hub/internal/cmd"
	"github.com/raphi011/hub/internal/config"
	"github.com/raphi011/hub/internal/resolve"
	"github.com/raphi011/hub/internal/storage"
)

// NewEnv returns an Env wired to the real process: stdin, the clipboard,
// PATH lookups and an HTTP client for patch downloads.
func NewEnv(r *resolve.Resolver, cfg *config.Config, api func(host string) (API, error), version string) *Env {
	return &Env{
		Resolver: r,
		Config:   cfg,
		API:      api,
		Version:  version,
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
		GOOS:     runtime.GOOS,
		TempDir:  os.TempDir(),
		Stdin:    os.Stdin,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		Clipboard: clipboard.WriteAll,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Edit: func(ctx context.Context, editor []string, path string) error {
			status, err := cmd.Spawn(ctx, cmd.Inherit(), append(editor, path)...)
			if err != nil {
				return err
			}
			if status != 0 {
				return fmt.Errorf("editor exited with status %d", status)
			}
			return nil
		},
	}
}

func (env *Env) getenv(key string) string {
	if env.Getenv == nil {
		return ""
	}
	return env.Getenv(key)
}

// splitWords splits s like a POSIX shell would, without expanding
// parameters, command substitutions or globs. "$HOME" stays "$HOME".
func splitWords(s string) ([]string, error) {
	var words []*syntax.Word
	err := syntax.NewParser().Words(strings.NewReader(s), func(w *syntax.Word) bool {
		words = append(words, w)
		return true
	})
	if err != nil {
		return nil, err
	}
	cfg := &expand.Config{
		Env: expand.FuncEnviron(func(name string) string {
			if name == "IFS" {
				return ""
			}
			return "$" + name
		}),
	}
	return expand.Fields(cfg, words...)
}

var browserCandidates = []string{"xdg-open", "cygstart", "x-www-browser", "firefox", "opera", "mozilla", "netscape"}

// browserLauncher returns the command line that opens a URL: the
// configured browser, else the platform opener.
func (env *Env) browserLauncher() ([]string, error) {
	if b := env.Config.Browser; b != "" {
		argv, err := splitWords(b)
		if err == nil && len(argv) > 0 {
			return argv, nil
		}
	}
	switch env.GOOS {
	case "darwin":
		return []string{"open"}, nil
	case "windows":
		return []string{"cmd", "/c", "start"}, nil
	}
	if env.LookPath != nil {
		for _, c := range browserCandidates {
			if _, err := env.LookPath(c); err == nil {
				return []string{c}, nil
			}
		}
	}
	return nil, abort("Please set $BROWSER to a web launcher to use this command.")
}

// download fetches url into path.
func (env *Env) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "hub "+env.Version)

	client := env.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("downloading %s: HTTP %d", url, resp.StatusCode)
	}

	if err := storage.Copy(path, resp.Body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
