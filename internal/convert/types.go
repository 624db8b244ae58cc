// # internal/convert/types.go
// Package convert implements the conversion core: directive scanning,
// include classification, export rule evaluation and unit synthesis in both
// directions, headers to modules and modules back to headers.
package convert

import (
	"cxxconv/internal/errors"
)

// Action selects the conversion direction.
type Action string

const (
	ActionModules Action = "modules"
	ActionHeaders Action = "headers"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionModules:
		return ActionModules, nil
	case ActionHeaders:
		return ActionHeaders, nil
	}
	return "", errors.Newf(errors.CodeConfig, "unknown action %q, expected %q or %q", s, ActionModules, ActionHeaders)
}

func (a Action) String() string { return string(a) }

// ContentType classifies a translation unit by what it is on disk.
type ContentType int

const (
	ContentOther ContentType = iota
	ContentHeader
	ContentSource
	ContentModuleInterface
	ContentModuleImpl
)

func (t ContentType) String() string {
	switch t {
	case ContentHeader:
		return "header"
	case ContentSource:
		return "source"
	case ContentModuleInterface:
		return "module interface unit"
	case ContentModuleImpl:
		return "module implementation unit"
	}
	return "other"
}

// Converted returns the content type a unit becomes in the opposite model.
func (t ContentType) Converted() ContentType {
	switch t {
	case ContentHeader:
		return ContentModuleInterface
	case ContentSource:
		return ContentModuleImpl
	case ContentModuleInterface:
		return ContentHeader
	case ContentModuleImpl:
		return ContentSource
	}
	return ContentOther
}

// IsInterface reports whether the unit exposes an interface to importers.
func (t ContentType) IsInterface() bool {
	return t == ContentHeader || t == ContentModuleInterface
}

// FileContent is one produced output file.
type FileContent struct {
	Filename string
	Type     ContentType
	Content  string
}

// FileOptions carries per-file conversion flags, inherited down the
// directory tree during discovery.
type FileOptions struct {
	ConvertAsCompat bool
}

// UnresolvedInclude records a local include (or, in reverse conversion, an
// import) that could not be matched against the file index. Non-fatal.
type UnresolvedInclude struct {
	File    string // file containing the reference
	Include string // the unresolved include target or module name
}

// Result is the outcome of converting one source file. A single input can
// produce more than one output, a compat interface emits a forwarding header
// next to the module unit.
type Result struct {
	Files    []FileContent
	Warnings []UnresolvedInclude
}
