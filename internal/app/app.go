package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"cxxconv/internal/config"
	"cxxconv/internal/convert"
	"cxxconv/internal/errors"
	"cxxconv/internal/observability"
	"cxxconv/internal/util"
)

// App drives whole-tree conversion runs. Each Run builds a fresh converter
// so the file index always reflects the tree as it is on disk.
type App struct {
	cfg     *config.Config
	action  convert.Action
	workers int

	// probe answers extension questions outside a run, watch mode uses it
	// to filter events.
	probe *convert.Converter
}

// RunStats mirrors one run's outcome: discovery counters, collected
// warnings and per-file write failures.
type RunStats struct {
	AllFiles         int
	ConvertibleFiles int
	ConvertedFiles   int
	CopiedFiles      int

	Warnings    []convert.UnresolvedInclude
	WriteErrors []error

	Duration time.Duration
}

func (s *RunStats) Failed() bool { return len(s.WriteErrors) > 0 }

func New(cfg *config.Config) (*App, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	action, err := convert.ParseAction(cfg.Action)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ConverterOptions()
	if err != nil {
		return nil, err
	}
	probe, err := convert.NewConverter(action, opts)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &App{cfg: cfg, action: action, workers: workers, probe: probe}, nil
}

func (a *App) Config() *config.Config { return a.cfg }
func (a *App) Action() convert.Action { return a.action }

// Run converts the configured source tree into the destination tree.
// Structural errors (bad configuration, duplicate module names) abort with
// an error; per-file problems are collected into the returned stats.
func (a *App) Run(ctx context.Context) (*RunStats, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()

	opts, err := a.cfg.ConverterOptions()
	if err != nil {
		return nil, err
	}
	conv, err := convert.NewConverter(a.action, opts)
	if err != nil {
		return nil, err
	}

	// The walk starts at the resolution root when it encloses the source
	// directory, so module names include the path from the root down.
	walkRoot, subdir, err := a.resolveWalkRoot()
	if err != nil {
		return nil, err
	}

	slog.Info("conversion run starting",
		"action", a.action, "source", a.cfg.Source, "destination", a.cfg.Destination, "root", walkRoot)

	files, err := a.discover(ctx, conv, walkRoot, subdir)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{}
	a.convertAll(ctx, conv, walkRoot, files, stats)

	stats.Duration = time.Since(start)
	a.publishMetrics(conv, stats)

	slog.Info("conversion run finished",
		"files", stats.AllFiles,
		"convertible", stats.ConvertibleFiles,
		"converted", stats.ConvertedFiles,
		"copied", stats.CopiedFiles,
		"warnings", len(stats.Warnings),
		"write_errors", len(stats.WriteErrors),
		"duration", stats.Duration)
	for _, w := range stats.Warnings {
		slog.Warn("unresolved include", "file", w.File, "include", w.Include)
	}
	for _, e := range stats.WriteErrors {
		slog.Error("write failed", "error", e)
	}

	return stats, nil
}

// resolveWalkRoot decides where discovery starts. With a root above the
// source directory the subdir narrows conversion back down to the source
// while the index still covers the whole root.
func (a *App) resolveWalkRoot() (root, subdir string, err error) {
	source := filepath.Clean(a.cfg.Source)
	root = filepath.Clean(a.cfg.Root)
	if root == source || root == "" {
		return source, "", nil
	}
	rel, relErr := filepath.Rel(root, source)
	if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", errors.Newf(errors.CodeConfig,
			"root %q does not contain source directory %q", a.cfg.Root, a.cfg.Source)
	}
	if rel == "." {
		rel = ""
	}
	return root, filepath.ToSlash(rel), nil
}

// SourceRelevant reports whether a changed path can affect conversion
// output. Watch mode uses it to filter watcher events.
func (a *App) SourceRelevant(path string) bool {
	rel := util.NormalizePatternPath(path)
	return a.probe.SourceContentType(rel) != convert.ContentOther
}
