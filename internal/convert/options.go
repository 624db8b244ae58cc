// # internal/convert/options.go
package convert

import (
	"strings"

	"cxxconv/internal/errors"
)

// CompatMacroDefault guards the header-syntax region of compat output when no
// macro name is configured.
const CompatMacroDefault = "CXX_COMPAT_HEADER"

// defaultAlwaysInclude names headers that must stay textual includes even
// when they resolve to an indexed file. assert.h redefines the assert macro
// on every inclusion, importing it once would break that contract.
var defaultAlwaysInclude = []string{
	"cassert",
	"assert.h",
}

// ExtTypes maps a file extension (with leading dot) to a content type.
type ExtTypes map[string]ContentType

// Options is the full conversion configuration. Collaborators (CLI, config
// file) fill it in; NewConverter validates and compiles it.
type Options struct {
	AlwaysInclude  []string
	RootDir        string // resolution base, informational for the core
	ModulePrefix   string // prepended to names of files under the root
	SearchPath     []string
	SkipPatterns   []string
	CompatPatterns []string
	CompatMacro    string
	ExportRules    []ExportRule // declaration order is precedence order
	ExportSuffixes []string

	ModulesExt ExtTypes // source extensions for the modules action
	HeadersExt ExtTypes // source extensions for the headers action
	OutExt     map[ContentType]string

	modulesDefaults map[ContentType]bool
	headersDefaults map[ContentType]bool
}

func NewOptions() *Options {
	return &Options{
		AlwaysInclude: append([]string(nil), defaultAlwaysInclude...),
		CompatMacro:   CompatMacroDefault,
		ModulesExt: ExtTypes{
			".h":   ContentHeader,
			".cpp": ContentSource,
		},
		HeadersExt: ExtTypes{
			".cppm": ContentModuleInterface,
			".cpp":  ContentModuleImpl,
		},
		OutExt: map[ContentType]string{
			ContentHeader:          ".h",
			ContentSource:          ".cpp",
			ContentModuleInterface: ".cppm",
			ContentModuleImpl:      ".cpp",
		},
		modulesDefaults: map[ContentType]bool{ContentHeader: true, ContentSource: true},
		headersDefaults: map[ContentType]bool{ContentModuleInterface: true, ContentModuleImpl: true},
	}
}

// AddModulesExt registers an extension for the modules action. The first
// registration for a content type replaces the built-in default, later ones
// accumulate.
func (o *Options) AddModulesExt(ext string, t ContentType) {
	addExt(o.ModulesExt, o.modulesDefaults, ext, t)
}

// AddHeadersExt registers an extension for the headers action, with the same
// replace-then-accumulate behavior as AddModulesExt.
func (o *Options) AddHeadersExt(ext string, t ContentType) {
	addExt(o.HeadersExt, o.headersDefaults, ext, t)
}

func addExt(types ExtTypes, defaults map[ContentType]bool, ext string, t ContentType) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if defaults[t] {
		delete(defaults, t)
		for e, et := range types {
			if et == t {
				delete(types, e)
				break
			}
		}
	}
	types[ext] = t
}

// SetOutExt overrides the output extension for a content type.
func (o *Options) SetOutExt(t ContentType, ext string) error {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "." {
		return errors.New(errors.CodeConfig, "empty output extension")
	}
	o.OutExt[t] = ext
	return nil
}
