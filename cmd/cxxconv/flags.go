// # cmd/cxxconv/flags.go
package main

import (
	"flag"
	"strings"

	"cxxconv/internal/config"
)

// stringList collects repeatable flags.
type stringList []string

func (l *stringList) String() string     { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error { *l = append(*l, v); return nil }

type cliOptions struct {
	configPath string

	source      string
	destination string
	inplace     bool
	action      string
	root        string
	parent      bool
	prefix      string

	includes       stringList
	skips          stringList
	compatPatterns stringList
	compatMacro    string
	alwaysInclude  stringList
	exportRules    stringList
	exportSuffixes stringList

	watch       bool
	ui          bool
	trends      bool
	historyPath string
	project     string
	metricsAddr string
	workers     int
	verbose     bool
	version     bool
}

// short spellings share the long flag's storage, Visit reports whichever the
// user typed.
var canonicalFlag = map[string]string{
	"s": "source",
	"d": "destination",
	"i": "inplace",
	"a": "action",
	"r": "root",
	"p": "parent",
	"n": "name",
	"I": "include",
	"k": "skip",
	"c": "compat",
}

func registerFlags(fs *flag.FlagSet, o *cliOptions) {
	fs.StringVar(&o.configPath, "config", "", "path to a TOML config file")

	fs.StringVar(&o.source, "s", "", "the directory with files")
	fs.StringVar(&o.source, "source", "", "the directory with files")
	fs.StringVar(&o.destination, "d", "", "destination directory for conversion results, ignored with -inplace")
	fs.StringVar(&o.destination, "destination", "", "destination directory for conversion results, ignored with -inplace")
	fs.BoolVar(&o.inplace, "i", false, "convert files in the source directory")
	fs.BoolVar(&o.inplace, "inplace", false, "convert files in the source directory")
	fs.StringVar(&o.action, "a", "", "conversion action: modules or headers")
	fs.StringVar(&o.action, "action", "", "conversion action: modules or headers")
	fs.StringVar(&o.root, "r", "", "resolve module names starting from this root directory, ignored with -parent")
	fs.StringVar(&o.root, "root", "", "resolve module names starting from this root directory, ignored with -parent")
	fs.BoolVar(&o.parent, "p", false, "resolve module names starting from the parent of the source directory")
	fs.BoolVar(&o.parent, "parent", false, "resolve module names starting from the parent of the source directory")
	fs.StringVar(&o.prefix, "n", "", "module name prefix for files under the root directory")
	fs.StringVar(&o.prefix, "name", "", "module name prefix for files under the root directory")
	fs.Var(&o.includes, "I", "include search path, relative to the root (repeatable)")
	fs.Var(&o.includes, "include", "include search path, relative to the root (repeatable)")
	fs.Var(&o.skips, "k", "skip pattern, matching files are copied unchanged (repeatable)")
	fs.Var(&o.skips, "skip", "skip pattern, matching files are copied unchanged (repeatable)")

	fs.Var(&o.compatPatterns, "c", "pattern for files converted in compat dual-syntax mode (repeatable)")
	fs.Var(&o.compatPatterns, "compat", "pattern for files converted in compat dual-syntax mode (repeatable)")
	fs.StringVar(&o.compatMacro, "compat-macro", "", "macro guarding the compat header-syntax region")
	fs.Var(&o.alwaysInclude, "always-include", "header name kept as a textual include (repeatable)")
	fs.Var(&o.exportRules, "export", "export rule source=target, target !-prefixed for plain import (repeatable)")
	fs.Var(&o.exportSuffixes, "export-suffix", "module name suffix forcing export import (repeatable)")

	fs.BoolVar(&o.watch, "watch", false, "watch the source tree and reconvert on change")
	fs.BoolVar(&o.ui, "ui", false, "terminal UI in watch mode")
	fs.BoolVar(&o.trends, "trends", false, "print run history trends and exit")
	fs.StringVar(&o.historyPath, "history", "", "sqlite file for run history")
	fs.StringVar(&o.project, "project", "", "project key for run history")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "listen address for /metrics and /health in watch mode")
	fs.IntVar(&o.workers, "workers", 0, "conversion worker count, 0 means GOMAXPROCS")
	fs.BoolVar(&o.verbose, "verbose", false, "enable verbose logging")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
}

// overlay applies flags the user actually set on top of the config file.
func overlay(cfg *config.Config, o *cliOptions, seen map[string]bool) {
	if seen["source"] {
		cfg.Source = o.source
	}
	if seen["destination"] {
		cfg.Destination = o.destination
	}
	if seen["inplace"] {
		cfg.Inplace = o.inplace
	}
	if seen["action"] {
		cfg.Action = o.action
	}
	if seen["root"] {
		cfg.Root = o.root
	}
	if seen["parent"] {
		cfg.Parent = o.parent
	}
	if seen["name"] {
		cfg.ModulePrefix = o.prefix
	}
	if seen["include"] {
		cfg.SearchPath = o.includes
	}
	if seen["skip"] {
		cfg.Skip = o.skips
	}
	if seen["compat"] {
		cfg.Compat.Patterns = o.compatPatterns
	}
	if seen["compat-macro"] {
		cfg.Compat.Macro = o.compatMacro
	}
	if seen["always-include"] {
		cfg.AlwaysInclude = o.alwaysInclude
	}
	if seen["export"] {
		cfg.Export.Rules = o.exportRules
	}
	if seen["export-suffix"] {
		cfg.Export.Suffixes = o.exportSuffixes
	}
	if seen["watch"] {
		cfg.Watch.Enabled = o.watch
	}
	if seen["history"] {
		cfg.History.Path = o.historyPath
	}
	if seen["project"] {
		cfg.History.Project = o.project
	}
	if seen["metrics-addr"] {
		cfg.Observability.Addr = o.metricsAddr
	}
	if seen["workers"] {
		cfg.Workers = o.workers
	}
}

func seenFlags(fs *flag.FlagSet) map[string]bool {
	seen := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if canonical, ok := canonicalFlag[name]; ok {
			name = canonical
		}
		seen[name] = true
	})
	return seen
}
