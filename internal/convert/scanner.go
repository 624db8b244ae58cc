// # internal/convert/scanner.go
package convert

import (
	"regexp"
	"strings"
)

// DirectiveKind is a closed set: every consumer switches over it, so a new
// kind fails loudly at each switch instead of silently passing through.
type DirectiveKind int

const (
	DirCopyright DirectiveKind = iota
	DirIncludeSystem
	DirIncludeLocal
	DirPragmaOnce
	DirGuard        // stripped include-guard line
	DirPreproc      // nesting-neutral preprocessor line, comment or blank
	DirPreprocIf    // opens a conditional block
	DirPreprocEndif // closes a conditional block
	DirGlobalModule // bare `module;`
	DirModuleDecl   // `module N;` or `export module N;`
	DirImport       // `import N;` or `export import N;`
	DirExportOpen   // `export {`
	DirExportClose  // `} // export`
	DirExternOpen   // `extern "C++" {`
	DirExternClose  // `} // extern "C++"`
	DirContent
)

// Directive is one classified source line (with continuations joined).
type Directive struct {
	Kind   DirectiveKind
	Raw    string
	Space  string // leading whitespace of include/import lines
	Target string // include filename or module name
	Tail   string // trailing text after the directive proper
	Export bool   // for DirModuleDecl and DirImport
}

var (
	spacesRx          = regexp.MustCompile(`^\s*$`)
	includeBracketsRx = regexp.MustCompile(`^(\s*)#(\s*)include\s*<(.+)>(.*)$`)
	includeQuoteRx    = regexp.MustCompile(`^(\s*)#(\s*)include\s*"(.+)"(.*)$`)
	lineCommentRx     = regexp.MustCompile(`^\s*//`)
	preprocIfRx       = regexp.MustCompile(`^\s*#\s*if`)
	preprocEndifRx    = regexp.MustCompile(`^\s*#\s*endif`)
	preprocDefineRx   = regexp.MustCompile(`^\s*#\s*define`)
	preprocOtherRx    = regexp.MustCompile(`^\s*#\s*(error|elif|else|pragma|warning)`)
	pragmaOnceRx      = regexp.MustCompile(`^\s*#\s*pragma\s+once`)

	guardIfndefRx = regexp.MustCompile(`^\s*#\s*ifndef\s+(\w+)\s*$`)
	guardDefineRx = regexp.MustCompile(`^\s*#\s*define\s+(\w+)\s*$`)

	globalModuleRx = regexp.MustCompile(`^\s*module\s*;\s*$`)
	moduleDeclRx   = regexp.MustCompile(`^(\s*)(export\s+)?module\s+([A-Za-z_][\w.]*)\s*;(.*)$`)
	importRx       = regexp.MustCompile(`^(\s*)(export\s+)?import\s+([A-Za-z_][\w.:]*)\s*;(.*)$`)
	exportOpenRx   = regexp.MustCompile(`^\s*export\s*\{\s*$`)
	exportCloseRx  = regexp.MustCompile(`^\s*\}\s*//\s*export\s*$`)
	externOpenRx   = regexp.MustCompile(`^\s*extern\s+"C\+\+"\s*\{\s*$`)
	externCloseRx  = regexp.MustCompile(`^\s*\}\s*//\s*extern\s+"C\+\+"\s*$`)
)

func splitContentLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func isFileCommentLine(line string) bool {
	return line == "" ||
		strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "/*") ||
		strings.HasPrefix(line, "\uFEFF//") ||
		strings.HasPrefix(line, "\uFEFF/*")
}

type scanState int

const (
	scanStart scanState = iota
	scanFileComment
	scanMain
)

// each classify func turns one joined line into a directive
type classifyFunc func(line string) Directive

// scan drives the shared line loop: continuation joining and the leading
// file-comment block, then per-line classification.
func scan(content string, classify classifyFunc) []Directive {
	lines := splitContentLines(content)
	var out []Directive
	state := scanStart
	i := 0
	for i < len(lines) {
		line := lines[i]
		for strings.HasSuffix(line, `\`) && i+1 < len(lines) {
			i++
			line += "\n" + lines[i]
		}
	redispatch:
		switch state {
		case scanStart:
			if isFileCommentLine(line) {
				state = scanFileComment
			} else {
				state = scanMain
			}
			goto redispatch
		case scanFileComment:
			stripped := strings.TrimSpace(line)
			if line == "" || isFileCommentLine(stripped) ||
				strings.HasPrefix(line, "\uFEFF//") || strings.HasPrefix(line, "\uFEFF/*") ||
				strings.HasPrefix(stripped, "*") {
				out = append(out, Directive{Kind: DirCopyright, Raw: line})
			} else {
				state = scanMain
				goto redispatch
			}
		case scanMain:
			out = append(out, classify(line))
		}
		i++
	}
	return out
}

func classifyUnitLine(line string) Directive {
	switch {
	case includeBracketsRx.MatchString(line):
		m := includeBracketsRx.FindStringSubmatch(line)
		return Directive{Kind: DirIncludeSystem, Raw: line, Space: m[1], Target: m[3], Tail: m[4]}
	case includeQuoteRx.MatchString(line):
		m := includeQuoteRx.FindStringSubmatch(line)
		return Directive{Kind: DirIncludeLocal, Raw: line, Space: m[1], Target: m[3], Tail: m[4]}
	case pragmaOnceRx.MatchString(line):
		return Directive{Kind: DirPragmaOnce, Raw: line}
	case lineCommentRx.MatchString(line), preprocOtherRx.MatchString(line), spacesRx.MatchString(line):
		return Directive{Kind: DirPreproc, Raw: line}
	case preprocDefineRx.MatchString(line):
		return Directive{Kind: DirPreproc, Raw: line}
	case preprocIfRx.MatchString(line):
		return Directive{Kind: DirPreprocIf, Raw: line}
	case preprocEndifRx.MatchString(line):
		return Directive{Kind: DirPreprocEndif, Raw: line}
	}
	return Directive{Kind: DirContent, Raw: line}
}

// ScanUnit classifies a header or source file for the modules direction.
// The result has classic include guards already reduced to DirGuard.
func ScanUnit(content string) []Directive {
	return stripIncludeGuard(scan(content, classifyUnitLine))
}

func classifyModuleLine(line string) Directive {
	switch {
	case globalModuleRx.MatchString(line):
		return Directive{Kind: DirGlobalModule, Raw: line}
	case moduleDeclRx.MatchString(line):
		m := moduleDeclRx.FindStringSubmatch(line)
		return Directive{Kind: DirModuleDecl, Raw: line, Space: m[1], Target: m[3], Tail: m[4], Export: m[2] != ""}
	case importRx.MatchString(line):
		m := importRx.FindStringSubmatch(line)
		return Directive{Kind: DirImport, Raw: line, Space: m[1], Target: m[3], Tail: m[4], Export: m[2] != ""}
	case exportOpenRx.MatchString(line):
		return Directive{Kind: DirExportOpen, Raw: line}
	case exportCloseRx.MatchString(line):
		return Directive{Kind: DirExportClose, Raw: line}
	case externOpenRx.MatchString(line):
		return Directive{Kind: DirExternOpen, Raw: line}
	case externCloseRx.MatchString(line):
		return Directive{Kind: DirExternClose, Raw: line}
	case includeBracketsRx.MatchString(line):
		m := includeBracketsRx.FindStringSubmatch(line)
		return Directive{Kind: DirIncludeSystem, Raw: line, Space: m[1], Target: m[3], Tail: m[4]}
	case includeQuoteRx.MatchString(line):
		m := includeQuoteRx.FindStringSubmatch(line)
		return Directive{Kind: DirIncludeLocal, Raw: line, Space: m[1], Target: m[3], Tail: m[4]}
	case pragmaOnceRx.MatchString(line):
		return Directive{Kind: DirPragmaOnce, Raw: line}
	}
	return Directive{Kind: DirContent, Raw: line}
}

// ScanModule classifies a module unit for the headers direction.
func ScanModule(content string) []Directive {
	return scan(content, classifyModuleLine)
}

// stripIncludeGuard rewrites a classic #ifndef/#define/#endif guard triple to
// DirGuard so the builder drops it instead of treating it as a conditional
// block spanning the whole file.
func stripIncludeGuard(dirs []Directive) []Directive {
	openIdx := -1
	var macro string
	for i, d := range dirs {
		switch d.Kind {
		case DirCopyright:
			continue
		case DirPreproc:
			if spacesRx.MatchString(d.Raw) || lineCommentRx.MatchString(d.Raw) {
				continue
			}
		case DirPreprocIf:
			if m := guardIfndefRx.FindStringSubmatch(d.Raw); m != nil {
				openIdx = i
				macro = m[1]
			}
		}
		break
	}
	if openIdx < 0 {
		return dirs
	}

	defineIdx := -1
	for i := openIdx + 1; i < len(dirs); i++ {
		d := dirs[i]
		if d.Kind == DirPreproc && (spacesRx.MatchString(d.Raw) || lineCommentRx.MatchString(d.Raw)) {
			continue
		}
		if d.Kind == DirPreproc {
			if m := guardDefineRx.FindStringSubmatch(d.Raw); m != nil && m[1] == macro {
				defineIdx = i
			}
		}
		break
	}
	if defineIdx < 0 {
		return dirs
	}

	// the guard's #endif must close the opening #ifndef and be followed only
	// by blank lines or comments
	closeIdx := -1
	nesting := 0
	for i := openIdx; i < len(dirs); i++ {
		switch dirs[i].Kind {
		case DirPreprocIf:
			nesting++
		case DirPreprocEndif:
			nesting--
			if nesting == 0 {
				closeIdx = i
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 {
		return dirs
	}
	for i := closeIdx + 1; i < len(dirs); i++ {
		d := dirs[i]
		if d.Kind == DirPreproc && (spacesRx.MatchString(d.Raw) || lineCommentRx.MatchString(d.Raw)) {
			continue
		}
		return dirs
	}

	dirs[openIdx] = Directive{Kind: DirGuard, Raw: dirs[openIdx].Raw}
	dirs[defineIdx] = Directive{Kind: DirGuard, Raw: dirs[defineIdx].Raw}
	dirs[closeIdx] = Directive{Kind: DirGuard, Raw: dirs[closeIdx].Raw}
	return dirs
}
