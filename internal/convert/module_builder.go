// # internal/convert/module_builder.go
package convert

import (
	"fmt"
	"strings"
)

// moduleBuilder assembles one module unit from scanned directives. Lines
// move through two staging areas: module staging feeds the purview content,
// global staging feeds the global module fragment. A staged conditional
// block lands on whichever side ends up owning its includes, which is only
// known once the block closes, hence the nesting counters.
type moduleBuilder struct {
	opts     *Options
	fileOpts FileOptions
	resolver *unitResolver
	table    *exportTable
	kind     ContentType // ContentModuleInterface or ContentModuleImpl

	relPath    string
	moduleName string

	fileCopyright      []string
	gmfStart           []string
	gmfCompatIncludes  []string
	gmfCompatEnd       []string
	gmf                []string
	gmfSeen            map[string]bool
	purviewStart       []string
	moduleContent      []string
	mainContentIndex   int
	moduleStaging      []string
	flushedNesting     int
	gmfStaging         []string
	nesting            int
	gmfIncludeCount    int
	flushedGMFIncludes int
	lastUnnestedIndex  int

	actuallyModule   bool // impl units only, interfaces are always modules
	interfaceBuilder *moduleBuilder

	warnings []UnresolvedInclude
}

func newModuleBuilder(opts *Options, res *resolver, table *exportTable, relPath string, kind ContentType, fileOpts FileOptions) *moduleBuilder {
	b := &moduleBuilder{
		opts:             opts,
		fileOpts:         fileOpts,
		resolver:         newUnitResolver(res, relPath),
		table:            table,
		kind:             kind,
		relPath:          relPath,
		gmfSeen:          make(map[string]bool),
		mainContentIndex: -1,
	}
	b.moduleName = res.moduleNameFor(relPath)
	return b
}

func (b *moduleBuilder) isModule() bool {
	return b.kind == ContentModuleInterface || b.actuallyModule
}

func (b *moduleBuilder) setIsActuallyModule() {
	if b.kind == ContentModuleInterface {
		return
	}
	b.actuallyModule = true
	if len(b.gmf) > 0 {
		b.setGMFStart()
	}
}

func (b *moduleBuilder) purviewPrefix() string {
	if b.kind == ContentModuleInterface {
		return "export module"
	}
	return "module"
}

func (b *moduleBuilder) compatHeader() bool {
	return b.fileOpts.ConvertAsCompat && b.kind == ContentModuleInterface
}

func (b *moduleBuilder) wrapCompat(lines []string) []string {
	if !b.compatHeader() {
		return lines
	}
	wrapped := make([]string, 0, len(lines)+2)
	wrapped = append(wrapped, fmt.Sprintf("#ifndef %s", b.opts.CompatMacro))
	wrapped = append(wrapped, lines...)
	wrapped = append(wrapped, "#endif")
	return wrapped
}

func (b *moduleBuilder) setGMFStart() {
	if len(b.gmfStart) > 0 || !b.isModule() {
		return
	}
	if b.compatHeader() {
		b.gmfStart = []string{
			fmt.Sprintf("#ifndef %s", b.opts.CompatMacro),
			"module;",
			"#else",
			"#pragma once",
		}
		b.gmfCompatEnd = []string{"#endif"}
	} else {
		b.gmfStart = []string{"module;"}
	}
}

func (b *moduleBuilder) setPurviewStart() {
	if len(b.purviewStart) > 0 || !b.isModule() {
		return
	}
	b.purviewStart = b.wrapCompat([]string{
		fmt.Sprintf("%s %s;", b.purviewPrefix(), b.moduleName),
	})
}

func (b *moduleBuilder) addFileCopyright(line string) {
	b.fileCopyright = append(b.fileCopyright, line)
}

func (b *moduleBuilder) flushGMF() {
	b.flushedGMFIncludes = 0
	if b.nesting != 0 {
		return
	}
	if b.gmfIncludeCount == 0 && !b.compatHeader() {
		return
	}
	b.setGMFStart()
	b.gmf = append(b.gmf, b.gmfStaging...)
	b.gmfStaging = nil
	b.flushedGMFIncludes = b.gmfIncludeCount
	b.gmfIncludeCount = 0
	b.flushModuleStaging(nil)
}

// addGMFInclude routes one include line into the global module fragment,
// dropping duplicates of lines already flushed there.
func (b *moduleBuilder) addGMFInclude(line string) {
	key := strings.TrimSpace(line)
	if b.gmfSeen[key] {
		return
	}
	b.gmfSeen[key] = true
	b.gmfIncludeCount++
	b.gmfStaging = append(b.gmfStaging, line)
	b.flushGMF()
}

func (b *moduleBuilder) addStaging(line string, nestingAdvance int) {
	b.nesting += nestingAdvance
	b.addModuleStaging(line, nestingAdvance)
	b.gmfStaging = append(b.gmfStaging, line)
	b.flushGMF()
}

func (b *moduleBuilder) addModuleStaging(line string, nestingAdvance int) {
	if b.nesting == 0 && nestingAdvance == 0 || b.nesting == 1 && nestingAdvance == 1 {
		b.lastUnnestedIndex = len(b.moduleStaging)
	}
	b.moduleStaging = append(b.moduleStaging, line)
	if b.nesting == 0 && nestingAdvance == -1 {
		b.lastUnnestedIndex = len(b.moduleStaging)
	}
}

func (b *moduleBuilder) flushModuleStaging(lastUnnestedInserter func()) {
	b.setPurviewStart()
	if b.flushedGMFIncludes == 0 || b.flushedNesting != 0 {
		for i, line := range b.moduleStaging {
			if lastUnnestedInserter != nil && i == b.lastUnnestedIndex {
				lastUnnestedInserter()
				lastUnnestedInserter = nil
			}
			b.moduleContent = append(b.moduleContent, line)
		}
		if lastUnnestedInserter != nil && b.lastUnnestedIndex == len(b.moduleStaging) {
			lastUnnestedInserter()
		}
	}
	b.moduleStaging = nil
	b.flushedNesting = b.nesting
	b.flushedGMFIncludes = 0
	b.lastUnnestedIndex = 0
}

func (b *moduleBuilder) addModuleContent(line string) {
	b.flushModuleStaging(nil)
	b.setPurviewStart()
	b.moduleContent = append(b.moduleContent, line)
}

func (b *moduleBuilder) handleMainContent(line string) {
	b.flushModuleStaging(b.markMainContentStart)
	b.addModuleContent(line)
}

func (b *moduleBuilder) markMainContentStart() {
	if b.mainContentIndex < 0 {
		b.mainContentIndex = len(b.moduleContent)
	}
}

func (b *moduleBuilder) addCompatInclude(line string) {
	b.setGMFStart()
	b.gmfCompatIncludes = append(b.gmfCompatIncludes, line)
}

func (b *moduleBuilder) handleSystemInclude(d Directive) {
	b.addGMFInclude(d.Raw)
}

func (b *moduleBuilder) handleLocalInclude(d Directive) {
	if b.compatHeader() {
		b.addCompatInclude(d.Raw)
	}
	b.addImportFromInclude(d)
}

func (b *moduleBuilder) handlePragmaOnce(d Directive) {
	b.addModuleStaging("// "+d.Raw, 0)
}

// addImportFromInclude classifies one local include: allowlisted headers and
// unresolved targets stay literal in the global fragment, the unit's own
// header vanishes into the module declaration, everything else becomes an
// import statement.
func (b *moduleBuilder) addImportFromInclude(d Directive) {
	b.setPurviewStart()

	resolved, ok := b.resolver.resolveInclude(d.Target, true)
	if !ok {
		b.warnings = append(b.warnings, UnresolvedInclude{File: b.relPath, Include: d.Target})
		b.addGMFInclude(d.Raw)
		return
	}
	if b.resolver.parent.always.Match(resolved) {
		b.addGMFInclude(d.Raw)
		return
	}

	importName := b.resolver.parent.moduleNameFor(resolved)
	if importName == b.moduleName {
		b.setIsActuallyModule()
		b.setPurviewStart()
		return
	}

	exportOpt := ""
	if b.kind == ContentModuleInterface && b.table.needsExport(b.moduleName, importName) {
		exportOpt = "export "
	}
	importLine := fmt.Sprintf("%s%s%simport %s;%s", d.Space, d.Space, exportOpt, importName, d.Tail)
	for _, line := range b.wrapCompat([]string{importLine}) {
		b.addModuleContent(line)
	}
}

func (b *moduleBuilder) apply(d Directive) {
	switch d.Kind {
	case DirCopyright:
		b.addFileCopyright(d.Raw)
	case DirIncludeSystem:
		b.handleSystemInclude(d)
	case DirIncludeLocal:
		b.handleLocalInclude(d)
	case DirPragmaOnce:
		b.handlePragmaOnce(d)
	case DirGuard:
		// stripped entirely, the matching #ifndef/#define/#endif pair is
		// replaced by the module system's own guarantees
	case DirPreproc:
		b.addStaging(d.Raw, 0)
	case DirPreprocIf:
		b.addStaging(d.Raw, 1)
	case DirPreprocEndif:
		b.addStaging(d.Raw, -1)
	case DirGlobalModule, DirModuleDecl, DirImport, DirExportOpen, DirExportClose, DirExternOpen, DirExternClose, DirContent:
		b.handleMainContent(d.Raw)
	}
}

func (b *moduleBuilder) applyAll(dirs []Directive) {
	for _, d := range dirs {
		b.apply(d)
	}
}

// markInterfaceExport wraps the main declarations of an interface unit in an
// export block, and of a compat unit in extern "C++" so the symbols keep
// non-module linkage when built as a header.
func (b *moduleBuilder) markInterfaceExport() {
	if b.mainContentIndex < 0 {
		return
	}
	var blockStart, blockEnd []string
	if b.fileOpts.ConvertAsCompat {
		blockStart = []string{`extern "C++" {`}
		blockEnd = []string{`} // extern "C++"`}
	}
	if b.kind == ContentModuleInterface {
		blockStart = append([]string{"export {"}, blockStart...)
		blockEnd = append(blockEnd, "} // export")
	}
	if b.fileOpts.ConvertAsCompat {
		blockStart = b.wrapCompat(blockStart)
		blockEnd = b.wrapCompat(blockEnd)
	}
	out := make([]string, 0, len(b.moduleContent)+len(blockStart)+len(blockEnd))
	out = append(out, b.moduleContent[:b.mainContentIndex]...)
	out = append(out, blockStart...)
	out = append(out, b.moduleContent[b.mainContentIndex:]...)
	out = append(out, blockEnd...)
	b.moduleContent = out
}

func (b *moduleBuilder) convertedFilename() string {
	return b.resolver.parent.convertedFilename(b.relPath, b.kind)
}

func (b *moduleBuilder) buildResult() string {
	if b.kind == ContentModuleImpl && b.isModule() &&
		b.interfaceBuilder != nil && len(b.interfaceBuilder.gmf) > 0 {
		// the implementation needs everything its interface pulled into the
		// global fragment, minus what it already has
		b.setGMFStart()
		combined := append([]string(nil), b.interfaceBuilder.gmf...)
		seen := make(map[string]bool, len(combined))
		for _, line := range combined {
			seen[strings.TrimSpace(line)] = true
		}
		for _, line := range b.gmf {
			if seen[strings.TrimSpace(line)] {
				continue
			}
			combined = append(combined, line)
		}
		b.gmf = combined
	}
	b.flushModuleStaging(nil)
	b.markInterfaceExport()

	var parts []string
	for _, section := range [][]string{
		b.fileCopyright,
		b.gmfStart,
		b.gmfCompatIncludes,
		b.gmfCompatEnd,
		b.gmf,
		b.purviewStart,
		b.moduleContent,
	} {
		if joined := strings.Join(section, "\n"); joined != "" {
			parts = append(parts, joined)
		}
	}
	return strings.Join(parts, "\n") + "\n"
}

func (b *moduleBuilder) buildFileContent() FileContent {
	return FileContent{
		Filename: b.convertedFilename(),
		Type:     b.kind,
		Content:  b.buildResult(),
	}
}
