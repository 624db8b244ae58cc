// # cmd/cxxconv/flags_test.go
package main

import (
	"flag"
	"testing"

	"cxxconv/internal/config"
)

func parseFlags(t *testing.T, args ...string) (*cliOptions, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("cxxconv", flag.ContinueOnError)
	opts := &cliOptions{}
	registerFlags(fs, opts)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return opts, seenFlags(fs)
}

func TestStringList(t *testing.T) {
	var l stringList
	if err := l.Set("a"); err != nil {
		t.Fatal(err)
	}
	if err := l.Set("b"); err != nil {
		t.Fatal(err)
	}
	if got := l.String(); got != "a,b" {
		t.Errorf("String() = %q, want %q", got, "a,b")
	}
}

func TestShortFlagsAreCanonicalized(t *testing.T) {
	opts, seen := parseFlags(t, "-s", "src", "-d", "dst", "-a", "headers", "-p", "-I", "inc", "-I", "vendor/inc", "-k", "third_party")

	for _, name := range []string{"source", "destination", "action", "parent", "include", "skip"} {
		if !seen[name] {
			t.Errorf("flag %q not reported as seen", name)
		}
	}
	if opts.source != "src" || opts.destination != "dst" {
		t.Errorf("got source=%q destination=%q", opts.source, opts.destination)
	}
	if len(opts.includes) != 2 || opts.includes[1] != "vendor/inc" {
		t.Errorf("includes = %v", opts.includes)
	}
}

func TestOverlayOnlyAppliesSeenFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Source = "from-file"
	cfg.Action = "headers"
	cfg.Skip = []string{"from-file"}
	cfg.Watch.Enabled = true

	opts, seen := parseFlags(t, "-source", "from-cli", "-k", "gen")
	overlay(cfg, opts, seen)

	if cfg.Source != "from-cli" {
		t.Errorf("Source = %q, want %q", cfg.Source, "from-cli")
	}
	if cfg.Action != "headers" {
		t.Errorf("Action = %q, unset flag should not override config", cfg.Action)
	}
	if len(cfg.Skip) != 1 || cfg.Skip[0] != "gen" {
		t.Errorf("Skip = %v", cfg.Skip)
	}
	if !cfg.Watch.Enabled {
		t.Error("Watch.Enabled reset by unset flag")
	}
}

func TestOverlayLongAndShortShareStorage(t *testing.T) {
	cfg := config.Default()
	opts, seen := parseFlags(t, "-inplace", "-n", "mylib")
	overlay(cfg, opts, seen)

	if !cfg.Inplace {
		t.Error("Inplace not applied")
	}
	if cfg.ModulePrefix != "mylib" {
		t.Errorf("ModulePrefix = %q", cfg.ModulePrefix)
	}
}
