package app

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cxxconv/internal/convert"
	"cxxconv/internal/errors"
	"cxxconv/internal/index"
	"cxxconv/internal/observability"
)

type fileMode int

const (
	modeConvert fileMode = iota
	modeCopy
)

type discoveredFile struct {
	rel  string // slash path relative to the walk root
	ct   convert.ContentType
	opts convert.FileOptions
	mode fileMode
}

// discover walks the tree, fills the converter's file index and registers
// module names. Duplicate module names within a unit class abort the run
// before any file is converted.
func (a *App) discover(ctx context.Context, conv *convert.Converter, walkRoot, subdir string) ([]discoveredFile, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.discover")
	defer span.End()

	if err := conv.Files().AddDirectoryTree(walkRoot); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "index source tree")
	}

	// Compat flags and skip state inherit down the tree, so the ancestors of
	// the conversion subdir contribute before the walk starts.
	seedOpts := convert.FileOptions{}
	seedCopy := false
	prefix := ""
	for _, component := range strings.Split(subdir, "/") {
		if component == "" {
			continue
		}
		prefix = path.Join(prefix, component)
		seedCopy = seedCopy || conv.ShouldSkip(prefix)
		seedOpts = conv.NextFileOptions(seedOpts, prefix)
	}

	var files []discoveredFile
	var walk func(dir string, parentOpts convert.FileOptions, copyOnly bool) error
	walk = func(dir string, parentOpts convert.FileOptions, copyOnly bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return errors.AddContext(
				errors.Wrap(err, errors.CodeConfig, "read source directory"), errors.CtxPath, dir)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			relOS, err := filepath.Rel(walkRoot, full)
			if err != nil {
				continue
			}
			rel := filepath.ToSlash(relOS)
			childCopy := copyOnly || conv.ShouldSkip(rel)
			childOpts := conv.NextFileOptions(parentOpts, rel)
			if entry.IsDir() {
				if err := walk(full, childOpts, childCopy); err != nil {
					return err
				}
				continue
			}
			files = append(files, a.classify(conv, rel, childOpts, childCopy))
		}
		return nil
	}

	start := filepath.Join(walkRoot, filepath.FromSlash(subdir))
	if err := walk(start, seedOpts, seedCopy); err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.mode != modeConvert {
			continue
		}
		if err := conv.RegisterModule(f.rel); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (a *App) classify(conv *convert.Converter, rel string, opts convert.FileOptions, copyOnly bool) discoveredFile {
	f := discoveredFile{rel: rel, ct: conv.SourceContentType(rel), opts: opts, mode: modeConvert}
	if copyOnly || f.ct == convert.ContentOther || conv.AlwaysLiteral(rel) {
		f.mode = modeCopy
	}
	return f
}

// convertAll runs the conversion phase: interface units first on a worker
// pool, a barrier, then implementation units and copies. Implementation
// units inherit their interface's global module fragment, hence the split.
func (a *App) convertAll(ctx context.Context, conv *convert.Converter, walkRoot string, files []discoveredFile, stats *RunStats) {
	ctx, span := observability.Tracer.Start(ctx, "app.convert")
	defer span.End()

	var interfaces, rest []discoveredFile
	for _, f := range files {
		stats.AllFiles++
		if f.mode == modeConvert && f.ct.IsInterface() {
			interfaces = append(interfaces, f)
		} else {
			rest = append(rest, f)
		}
	}

	var mu sync.Mutex
	process := func(f discoveredFile) {
		outcome := a.processFile(ctx, conv, walkRoot, f)
		mu.Lock()
		defer mu.Unlock()
		if f.mode == modeConvert {
			stats.ConvertibleFiles++
		}
		stats.ConvertedFiles += outcome.converted
		stats.CopiedFiles += outcome.copied
		stats.Warnings = append(stats.Warnings, outcome.warnings...)
		if outcome.err != nil {
			stats.WriteErrors = append(stats.WriteErrors, outcome.err)
		}
	}

	a.runPool(ctx, interfaces, process)
	a.runPool(ctx, rest, process)
}

func (a *App) runPool(ctx context.Context, files []discoveredFile, process func(discoveredFile)) {
	if len(files) == 0 {
		return
	}
	jobs := make(chan discoveredFile)
	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				process(f)
			}
		}()
	}
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		jobs <- f
	}
	close(jobs)
	wg.Wait()
}

type fileOutcome struct {
	converted int
	copied    int
	warnings  []convert.UnresolvedInclude
	err       error
}

func (a *App) processFile(ctx context.Context, conv *convert.Converter, walkRoot string, f discoveredFile) fileOutcome {
	srcPath := filepath.Join(walkRoot, filepath.FromSlash(f.rel))

	if f.mode == modeCopy {
		wrote, err := copyIfDiff(srcPath, filepath.Join(a.cfg.Destination, filepath.FromSlash(f.rel)))
		out := fileOutcome{err: err}
		if wrote {
			out.copied = 1
		}
		return out
	}

	started := time.Now()
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fileOutcome{err: errors.AddContext(
			errors.Wrap(err, errors.CodeWrite, "read source file"), errors.CtxPath, srcPath)}
	}

	result, err := conv.ConvertContent(string(data), f.rel, f.opts)
	if err != nil {
		return fileOutcome{err: err}
	}
	observability.ConversionDuration.WithLabelValues(string(a.action)).Observe(time.Since(started).Seconds())

	out := fileOutcome{warnings: result.Warnings}
	for _, produced := range result.Files {
		destPath := filepath.Join(a.cfg.Destination, filepath.FromSlash(produced.Filename))
		wrote, err := writeIfDiff(destPath, produced.Content)
		if err != nil {
			out.err = err
			return out
		}
		if wrote {
			out.converted++
		}
	}
	return out
}

func (a *App) publishMetrics(conv *convert.Converter, stats *RunStats) {
	observability.RunDuration.WithLabelValues(string(a.action)).Observe(stats.Duration.Seconds())
	observability.FilesSeenTotal.Add(float64(stats.AllFiles))
	observability.FilesConvertedTotal.Add(float64(stats.ConvertedFiles))
	observability.FilesCopiedTotal.Add(float64(stats.CopiedFiles))
	observability.UnresolvedIncludesTotal.Add(float64(len(stats.Warnings)))
	observability.WriteErrorsTotal.Add(float64(len(stats.WriteErrors)))
	observability.IndexedFiles.Set(float64(len(conv.Files().Files())))
	observability.IndexedModules.WithLabelValues(index.ClassInterface.String()).
		Set(float64(conv.Modules().Count(index.ClassInterface)))
	observability.IndexedModules.WithLabelValues(index.ClassImpl.String()).
		Set(float64(conv.Modules().Count(index.ClassImpl)))
}
