// Command attractor-shell is an interactive REPL that scores typed responses
// against the active profile
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"attractor/internal/core/version"
	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	analyzemod "attractor/internal/services/analyze/module"
	"attractor/internal/services/shell"
)

const name = "attractor-shell"

func setEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		profile  = fs.String("profile", "", "profile file (yaml or json); empty uses the embedded default")
		mode     = fs.String("mode", "", "counting mode: multiset|distinct")
		history  = fs.String("history", "", "history file (default ~/.attractor_history, SHELL_HISTORY)")
		showVers = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *showVers {
		fmt.Fprintln(stdout, version.Info(name))
		return 0
	}

	// keep info logs off the prompt unless asked for
	if os.Getenv("LOG_LEVEL") == "" {
		_ = os.Setenv("LOG_LEVEL", "warn")
	}
	setEnv("LOG_SERVICE", name)
	setEnv("CORE_ANALYZE_PROFILE", *profile)
	setEnv("CORE_ANALYZE_COUNTING_MODE", *mode)

	root := config.New()
	sh, err := newShell(root, *history, stdout)
	if err == nil {
		err = sh.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
	}
	return perr.ExitCode(err)
}

func newShell(root config.Conf, history string, out io.Writer) (*shell.Shell, error) {
	opts, err := analyzemod.FromConfig(root)
	if err != nil {
		return nil, err
	}
	svc, err := opts.NewService()
	if err != nil {
		return nil, err
	}
	if history == "" {
		history = root.MayString("SHELL_HISTORY", shell.DefaultHistoryFile())
	}
	return shell.New(svc, shell.Config{HistoryFile: history}, out), nil
}
