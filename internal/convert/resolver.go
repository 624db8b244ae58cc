// # internal/convert/resolver.go
package convert

import (
	"path"
	"strings"

	"cxxconv/internal/index"
	"cxxconv/internal/match"
	"cxxconv/internal/util"
)

// pathToModuleName turns a relative slash path into a dotted module name by
// dropping the extension and joining the directory components.
func pathToModuleName(relPath string) string {
	stem := util.StemPath(util.NormalizePatternPath(relPath))
	return strings.ReplaceAll(stem, "/", ".")
}

// guardMacro derives an include-guard macro from a module name: upper-cased,
// any non-alphanumeric replaced with underscore.
func guardMacro(moduleName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(moduleName) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// resolver maps paths to content types and module names, and resolves
// include targets against the file index. Read-only after construction.
type resolver struct {
	opts   *Options
	files  *index.FileSet
	always *match.PathMatcher
}

func (r *resolver) sourceContentType(action Action, filename string) ContentType {
	ext := path.Ext(filename)
	var types ExtTypes
	if action == ActionModules {
		types = r.opts.ModulesExt
	} else {
		types = r.opts.HeadersExt
	}
	if t, ok := types[ext]; ok {
		return t
	}
	return ContentOther
}

// convertedFilename swaps the extension for the output content type.
func (r *resolver) convertedFilename(filename string, t ContentType) string {
	return util.ReplaceExt(filename, r.opts.OutExt[t])
}

// moduleNameFor computes the dotted name for a relative path. The configured
// prefix is applied only to files the index knows, names fabricated for
// unindexed paths stay bare.
func (r *resolver) moduleNameFor(relPath string) string {
	full := util.NormalizePatternPath(relPath)
	if r.opts.ModulePrefix != "" && r.files.Contains(full) {
		full = r.opts.ModulePrefix + "/" + full
	}
	return pathToModuleName(full)
}

// resolveInSearchPath finds an include target, trying the resolution root
// first, then the including file's directory for quoted includes, then each
// configured search path. Returns false when nothing matches.
func (r *resolver) resolveInSearchPath(currentDir, includeFilename string, isQuote bool) (string, bool) {
	include := util.NormalizePatternPath(includeFilename)
	if r.files.Contains(include) {
		return include, true
	}
	if isQuote {
		full := path.Join(currentDir, include)
		if r.files.Contains(full) {
			return full, true
		}
	}
	for _, searchDir := range r.opts.SearchPath {
		full := path.Join(util.NormalizePatternPath(searchDir), include)
		if r.files.Contains(full) {
			return full, true
		}
	}
	return "", false
}

// unitResolver scopes include resolution to one source file.
type unitResolver struct {
	parent   *resolver
	filename string
	dir      string
}

func newUnitResolver(parent *resolver, relPath string) *unitResolver {
	rel := util.NormalizePatternPath(relPath)
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	return &unitResolver{parent: parent, filename: rel, dir: dir}
}

func (u *unitResolver) resolveInclude(includeFilename string, isQuote bool) (string, bool) {
	return u.parent.resolveInSearchPath(u.dir, includeFilename, isQuote)
}

func (u *unitResolver) resolveIncludeToModuleName(includeFilename string, isQuote bool) (string, bool) {
	resolved, ok := u.resolveInclude(includeFilename, isQuote)
	if !ok {
		return "", false
	}
	return u.parent.moduleNameFor(resolved), true
}
