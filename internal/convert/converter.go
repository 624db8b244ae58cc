// # internal/convert/converter.go
package convert

import (
	"sync"

	"cxxconv/internal/errors"
	"cxxconv/internal/index"
	"cxxconv/internal/match"
)

// Converter converts file contents in one direction. Pattern matchers and
// export rules are compiled once at construction; the file and module
// indexes are filled during the discovery phase and read-only afterwards, so
// ConvertContent is safe to call from concurrent workers.
type Converter struct {
	action  Action
	opts    *Options
	files   *index.FileSet
	modules *index.Modules
	res     *resolver
	skip    *match.PathMatcher
	compat  *match.PathMatcher
	table   *exportTable

	mu         sync.RWMutex
	interfaces map[string]*moduleBuilder
}

func NewConverter(action Action, opts *Options) (*Converter, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if opts.CompatMacro == "" {
		opts.CompatMacro = CompatMacroDefault
	}
	skip, err := match.CompilePaths(opts.SkipPatterns)
	if err != nil {
		return nil, err
	}
	compat, err := match.CompilePaths(opts.CompatPatterns)
	if err != nil {
		return nil, err
	}
	always, err := match.CompilePaths(opts.AlwaysInclude)
	if err != nil {
		return nil, err
	}
	table, err := newExportTable(opts.ExportRules, opts.ExportSuffixes)
	if err != nil {
		return nil, err
	}
	files := index.NewFileSet()
	return &Converter{
		action:     action,
		opts:       opts,
		files:      files,
		modules:    index.NewModules(),
		res:        &resolver{opts: opts, files: files, always: always},
		skip:       skip,
		compat:     compat,
		table:      table,
		interfaces: make(map[string]*moduleBuilder),
	}, nil
}

func (c *Converter) Action() Action             { return c.action }
func (c *Converter) Options() *Options          { return c.opts }
func (c *Converter) Files() *index.FileSet      { return c.files }
func (c *Converter) Modules() *index.Modules    { return c.modules }
func (c *Converter) ShouldSkip(rel string) bool { return c.skip.Match(rel) }

// AlwaysLiteral reports whether the path is on the always-include allowlist
// and must be copied rather than converted.
func (c *Converter) AlwaysLiteral(rel string) bool { return c.res.always.Match(rel) }

// NextFileOptions inherits per-file flags down the directory tree: once a
// path component matches a compat pattern, everything below converts compat.
func (c *Converter) NextFileOptions(parent FileOptions, rel string) FileOptions {
	next := parent
	if !next.ConvertAsCompat && c.compat.Match(rel) {
		next.ConvertAsCompat = true
	}
	return next
}

func (c *Converter) SourceContentType(rel string) ContentType {
	return c.res.sourceContentType(c.action, rel)
}

// ModuleNameFor resolves a relative path to its module name. Deterministic
// for a fixed configuration and file index.
func (c *Converter) ModuleNameFor(rel string) string {
	return c.res.moduleNameFor(rel)
}

// RegisterModule records the path's module name in the index during the
// discovery phase. Two files of the same kind resolving to one name is a
// fatal conflict.
func (c *Converter) RegisterModule(rel string) error {
	var class index.Class
	switch c.SourceContentType(rel) {
	case ContentHeader, ContentModuleInterface:
		class = index.ClassInterface
	case ContentSource, ContentModuleImpl:
		class = index.ClassImpl
	default:
		return nil
	}
	return c.modules.Add(class, c.res.moduleNameFor(rel), rel)
}

// ConvertContent transforms one file's text. Inputs already in the target
// model pass through unchanged.
func (c *Converter) ConvertContent(content, rel string, fileOpts FileOptions) (*Result, error) {
	ct := c.SourceContentType(rel)
	if ct == ContentOther {
		return nil, errors.Newf(errors.CodeInternal, "cannot convert %q: unrecognized extension", rel)
	}
	if c.action == ActionModules {
		if ct == ContentModuleInterface || ct == ContentModuleImpl {
			return &Result{Files: []FileContent{{Filename: rel, Type: ct, Content: content}}}, nil
		}
		return c.toModule(content, rel, ct, fileOpts)
	}
	if ct == ContentHeader || ct == ContentSource {
		return &Result{Files: []FileContent{{Filename: rel, Type: ct, Content: content}}}, nil
	}
	return c.toHeader(content, rel, ct)
}

func (c *Converter) toModule(content, rel string, ct ContentType, fileOpts FileOptions) (*Result, error) {
	builder := newModuleBuilder(c.opts, c.res, c.table, rel, ct.Converted(), fileOpts)
	if builder.kind == ContentModuleInterface {
		c.mu.Lock()
		c.interfaces[builder.moduleName] = builder
		c.mu.Unlock()
	} else {
		c.mu.RLock()
		builder.interfaceBuilder = c.interfaces[builder.moduleName]
		c.mu.RUnlock()
	}

	builder.applyAll(ScanUnit(content))

	result := &Result{
		Files:    []FileContent{builder.buildFileContent()},
		Warnings: builder.warnings,
	}
	if fileOpts.ConvertAsCompat && builder.kind == ContentModuleInterface {
		result.Files = append(result.Files, buildCompatHeader(c.opts, c.res, builder))
	}
	return result, nil
}

func (c *Converter) toHeader(content, rel string, ct ContentType) (*Result, error) {
	dirs := ScanModule(content)
	declared := false
	for _, d := range dirs {
		if d.Kind == DirModuleDecl {
			declared = true
			break
		}
	}
	if !declared {
		// not actually a module unit, leave it alone
		return &Result{Files: []FileContent{{Filename: rel, Type: ct, Content: content}}}, nil
	}
	builder := newHeaderBuilder(c.opts, c.res, c.modules, rel, ct)
	builder.applyAll(dirs)
	return &Result{
		Files:    []FileContent{builder.buildFileContent()},
		Warnings: builder.warnings,
	}, nil
}
