// # cmd/cxxconv/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cxxconv/internal/app"
	"cxxconv/internal/config"
	"cxxconv/internal/history"
	"cxxconv/internal/observability"
)

// runner ties one invocation together: history recording, the optional
// metrics endpoint, and summary output.
type runner struct {
	cfg   *config.Config
	opts  *cliOptions
	store *history.Store

	lastRunTime time.Time
	lastError   string
}

func newRunner(cfg *config.Config, opts *cliOptions) *runner {
	r := &runner{cfg: cfg, opts: opts}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("history disabled", "path", cfg.History.Path, "error", err)
		} else {
			r.store = store
		}
	}
	return r
}

func (r *runner) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

func (r *runner) once(ctx context.Context, a *app.App) int {
	stats, err := a.Run(ctx)
	if err != nil {
		slog.Error("conversion failed", "error", err)
		r.recordRun(stats, err)
		return 1
	}
	r.recordRun(stats, nil)
	printSummary(os.Stdout, r.cfg, stats)
	if stats.Failed() {
		return 1
	}
	return 0
}

func (r *runner) watch(ctx context.Context, a *app.App) int {
	var srv *observability.Server
	if r.cfg.Observability.Addr != "" {
		srv = observability.NewServer(r.cfg.Observability.Addr, r.health)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start metrics server", "addr", r.cfg.Observability.Addr, "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	// Convert once up front so the watcher starts from a synced tree.
	stats, err := a.Run(ctx)
	r.noteRun(stats, err)
	r.recordRun(stats, err)
	if err != nil {
		slog.Error("initial conversion failed", "error", err)
		return 1
	}

	if r.opts.ui {
		return r.watchUI(ctx, a, stats)
	}

	printSummary(os.Stdout, r.cfg, stats)
	w, err := a.Watch(ctx, func(stats *app.RunStats, err error) {
		r.noteRun(stats, err)
		r.recordRun(stats, err)
		if err != nil {
			slog.Error("conversion failed", "error", err)
			return
		}
		printSummary(os.Stdout, r.cfg, stats)
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	defer w.Close()

	slog.Info("watching for changes", "source", r.cfg.Source)
	<-ctx.Done()
	return 0
}

func (r *runner) noteRun(stats *app.RunStats, err error) {
	r.lastRunTime = time.Now().UTC()
	switch {
	case err != nil:
		r.lastError = err.Error()
	case stats != nil && stats.Failed():
		r.lastError = fmt.Sprintf("%d write errors", len(stats.WriteErrors))
	default:
		r.lastError = ""
	}
}

func (r *runner) health() observability.Health {
	status := "up"
	if r.lastError != "" {
		status = "degraded"
	}
	h := observability.Health{
		Status:    status,
		LastError: r.lastError,
	}
	if !r.lastRunTime.IsZero() {
		h.LastRun = r.lastRunTime.Format(time.RFC3339)
	}
	return h
}

func (r *runner) recordRun(stats *app.RunStats, runErr error) {
	if r.store == nil || stats == nil {
		return
	}
	run := history.Run{
		ProjectKey:       r.cfg.History.Project,
		Action:           r.cfg.Action,
		Source:           r.cfg.Source,
		AllFiles:         stats.AllFiles,
		ConvertibleFiles: stats.ConvertibleFiles,
		ConvertedFiles:   stats.ConvertedFiles,
		CopiedFiles:      stats.CopiedFiles,
		WarningCount:     len(stats.Warnings),
		WriteErrorCount:  len(stats.WriteErrors),
		Duration:         stats.Duration,
	}
	if runErr != nil {
		run.WriteErrorCount++
	}
	if _, err := r.store.SaveRun(r.cfg.History.Project, run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}

func (r *runner) printTrends() int {
	if r.store == nil {
		fmt.Fprintln(os.Stderr, "trends require a history database (set history.path or -history)")
		return 1
	}
	since := time.Now().UTC().Add(-30 * 24 * time.Hour)
	runs, err := r.store.LoadRuns(r.cfg.History.Project, since)
	if err != nil {
		slog.Error("failed to load run history", "error", err)
		return 1
	}
	report, err := history.BuildTrendReport(r.cfg.History.Project, runs, 24*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no trend data: %v\n", err)
		return 1
	}
	fmt.Print(history.FormatTrendReport(report))
	return 0
}

func printSummary(w *os.File, cfg *config.Config, stats *app.RunStats) {
	sep := strings.Repeat("=", 60)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "cxxconv %s: %s\n", cfg.Action, cfg.Source)
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  files seen:       %d\n", stats.AllFiles)
	fmt.Fprintf(w, "  convertible:      %d\n", stats.ConvertibleFiles)
	fmt.Fprintf(w, "  converted:        %d\n", stats.ConvertedFiles)
	fmt.Fprintf(w, "  copied:           %d\n", stats.CopiedFiles)
	fmt.Fprintf(w, "  duration:         %s\n", stats.Duration.Round(time.Millisecond))

	if len(stats.Warnings) > 0 {
		fmt.Fprintln(w, sep)
		fmt.Fprintf(w, "  %d unresolved includes:\n", len(stats.Warnings))
		for _, warn := range stats.Warnings {
			fmt.Fprintf(w, "    %s: %q\n", warn.File, warn.Include)
		}
	}

	if len(stats.WriteErrors) > 0 {
		fmt.Fprintln(w, sep)
		fmt.Fprintf(w, "  %d write errors:\n", len(stats.WriteErrors))
		for _, err := range stats.WriteErrors {
			fmt.Fprintf(w, "    %v\n", err)
		}
	}
	fmt.Fprintln(w, sep)
}
