// # cmd/cxxconv/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cxxconv/internal/app"
	"cxxconv/internal/config"
	"cxxconv/internal/observability"
)

const VERSION = "1.0.0"

const defaultConfigPath = "./cxxconv.toml"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("cxxconv", flag.ContinueOnError)
	opts := &cliOptions{}
	registerFlags(fs, opts)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("cxxconv v%s\n", VERSION)
		return 0
	}

	setupLogging(opts)

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	overlay(cfg, opts, seenFlags(fs))
	if fs.NArg() > 0 {
		cfg.Source = fs.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, VERSION)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	runner := newRunner(cfg, opts)
	defer runner.Close()

	if opts.trends {
		return runner.printTrends()
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	if cfg.Watch.Enabled {
		return runner.watch(ctx, a)
	}
	return runner.once(ctx, a)
}

func setupLogging(opts *cliOptions) {
	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if opts.ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

func loadConfig(opts *cliOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.Load(defaultConfigPath)
	}
	return config.Default(), nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cxxconv", "cxxconv.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cxxconv", "cxxconv.log")
	}

	return "cxxconv.log"
}
