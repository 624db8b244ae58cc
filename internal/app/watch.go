package app

import (
	"context"
	"log/slog"

	"cxxconv/internal/observability"
	"cxxconv/internal/util"
	"cxxconv/internal/watcher"
)

// Watch re-runs the conversion whenever relevant files under the source
// tree change. Every batch triggers a full re-run: the file index must
// reflect creations and removals, and write-if-different keeps unchanged
// outputs untouched. The limiter bounds reconversion churn.
func (a *App) Watch(ctx context.Context, onRun func(*RunStats, error)) (*watcher.Watcher, error) {
	limiter := util.NewLimiter(a.cfg.Watch.RatePerSec, a.cfg.Watch.Burst)

	w, err := watcher.New(a.cfg.Watch.Debounce, a.cfg.Skip, a.SourceRelevant, func(paths []string) {
		observability.WatcherEventsTotal.Inc()
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
		slog.Info("source changed, reconverting", "changed", len(paths))
		stats, err := a.Run(ctx)
		if onRun != nil {
			onRun(stats, err)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := w.Watch(a.cfg.Source); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
