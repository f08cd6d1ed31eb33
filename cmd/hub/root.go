package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/hub/internal/args"
	"github.com/raphi011/hub/internal/commands"
	"github.com/raphi011/hub/internal/config"
	"github.com/raphi011/hub/internal/git"
	"github.com/raphi011/hub/internal/github"
	"github.com/raphi011/hub/internal/log"
	"github.com/raphi011/hub/internal/output"
	"github.com/raphi011/hub/internal/resolve"
	"github.com/raphi011/hub/internal/runner"
	"github.com/raphi011/hub/internal/sshconfig"
	"github.com/raphi011/hub/internal/ui/styles"
)

// rootCmd hands every argument to the rewrite pipeline. Flags are git's,
// so cobra must not parse them.
var rootCmd = &cobra.Command{
	Use:   "hub [git options] <command> [<args>]",
	Short: "git + hub = github",
	Long: `hub is a command line wrapper for git that makes you better at GitHub.

It expands GitHub shorthand in git commands and adds commands such as
pull-request, fork and browse. Run "hub help hub" for the full list.`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE: func(cmd *cobra.Command, argv []string) error {
		return run(cmd.Context(), argv, os.Stdout)
	},
}

// Execute runs hub and exits with the status of the last command run.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, os.Getenv("HUB_VERBOSE") != "", os.Getenv("HUB_QUIET") != "")
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err == nil {
		return
	}

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// run rewrites argv and executes the result. --noop output goes to stdout.
// A non-zero exit status is returned as an *commands.ExitError.
func run(ctx context.Context, argv []string, stdout io.Writer) error {
	logger := log.FromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("Warning: %v\n", err)
	}
	if err := styles.Init(cfg.Theme); err != nil {
		logger.Printf("Warning: %v\n", err)
	}

	executable := git.Executable()
	if err := git.CheckGit(executable); err != nil {
		return err
	}

	ssh, err := sshconfig.LoadDefault()
	if err != nil {
		logger.Debug("ssh config not loaded", "error", err)
		ssh = sshconfig.New()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	r := resolve.New(git.NewReader(executable, ""), &cfg, ssh, workDir)
	env := commands.NewEnv(r, &cfg, apiClient(&cfg), versionString())

	a := args.New(executable, argv)
	if err := commands.Run(ctx, env, a); err != nil {
		return err
	}

	status, err := runner.New(runner.NewOSExecutor(), stdout).Run(ctx, a)
	if err != nil {
		return &commands.ExitError{Code: max(status, 1), Message: err.Error()}
	}
	if status != 0 {
		return &commands.ExitError{Code: status}
	}
	return nil
}

// apiClient returns a factory for API clients authenticated from cfg.
func apiClient(cfg *config.Config) func(host string) (commands.API, error) {
	return func(host string) (commands.API, error) {
		c := github.NewClient(host, cfg.Token(host))
		c.User = cfg.User(host)
		c.UserAgent = "hub " + version
		if cfg.APIURL != "" {
			c.BaseURL = cfg.APIURL
		}
		return c, nil
	}
}
