// # internal/convert/header_builder.go
package convert

import (
	"fmt"
	"strings"

	"cxxconv/internal/index"
)

// headerBuilder inverts a module unit back into the header/source model: the
// module declaration becomes an include guard (interfaces) or an include of
// the interface header (implementations), imports become includes resolved
// through the module index, export blocks are unwrapped.
type headerBuilder struct {
	opts    *Options
	res     *resolver
	modules *index.Modules

	relPath string
	srcKind ContentType

	moduleName string
	outKind    ContentType
	sawDecl    bool

	copyright []string
	body      []string
	warnings  []UnresolvedInclude
}

func newHeaderBuilder(opts *Options, res *resolver, modules *index.Modules, relPath string, srcKind ContentType) *headerBuilder {
	return &headerBuilder{
		opts:    opts,
		res:     res,
		modules: modules,
		relPath: relPath,
		srcKind: srcKind,
		outKind: srcKind.Converted(),
	}
}

// headerPathFor inverts a module name to the relative path of its generated
// header. Unknown names fall back to the dotted name spelled as a path, with
// a warning, never a silent drop.
func (b *headerBuilder) headerPathFor(moduleName string) string {
	if b.modules != nil {
		if p, ok := b.modules.PathOf(index.ClassInterface, moduleName); ok {
			return b.res.convertedFilename(p, ContentHeader)
		}
	}
	b.warnings = append(b.warnings, UnresolvedInclude{File: b.relPath, Include: moduleName})
	return strings.ReplaceAll(moduleName, ".", "/") + b.opts.OutExt[ContentHeader]
}

func (b *headerBuilder) apply(d Directive) {
	switch d.Kind {
	case DirCopyright:
		b.copyright = append(b.copyright, d.Raw)
	case DirGlobalModule:
		// fragment includes pass through on their own
	case DirModuleDecl:
		b.sawDecl = true
		b.moduleName = d.Target
		if d.Export {
			b.outKind = ContentHeader
		} else {
			b.outKind = ContentSource
			include := fmt.Sprintf("%s#include %q%s", d.Space, b.headerPathFor(d.Target), d.Tail)
			b.body = append(b.body, include)
		}
	case DirImport:
		include := fmt.Sprintf("%s#include %q%s", d.Space, b.headerPathFor(d.Target), d.Tail)
		b.body = append(b.body, include)
	case DirExportOpen, DirExportClose, DirExternOpen, DirExternClose:
		// unwrapped, header symbols are visible without an export block
	case DirIncludeSystem, DirIncludeLocal, DirPragmaOnce, DirGuard,
		DirPreproc, DirPreprocIf, DirPreprocEndif, DirContent:
		b.body = append(b.body, d.Raw)
	}
}

func (b *headerBuilder) applyAll(dirs []Directive) {
	for _, d := range dirs {
		b.apply(d)
	}
}

func (b *headerBuilder) buildResult() string {
	var sections [][]string
	sections = append(sections, b.copyright)
	if b.outKind == ContentHeader {
		guard := guardMacro(b.moduleName)
		sections = append(sections,
			[]string{fmt.Sprintf("#ifndef %s", guard), fmt.Sprintf("#define %s", guard)},
			b.body,
			[]string{fmt.Sprintf("#endif // %s", guard)})
	} else {
		sections = append(sections, b.body)
	}
	var parts []string
	for _, section := range sections {
		if joined := strings.Join(section, "\n"); joined != "" {
			parts = append(parts, joined)
		}
	}
	return strings.Join(parts, "\n") + "\n"
}

func (b *headerBuilder) buildFileContent() FileContent {
	return FileContent{
		Filename: b.res.convertedFilename(b.relPath, b.outKind),
		Type:     b.outKind,
		Content:  b.buildResult(),
	}
}
