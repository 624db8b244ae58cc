// # internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cxxconv/internal/convert"
	"cxxconv/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cxxconv.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FullFile", func(t *testing.T) {
		path := writeConfig(t, `
source = "src"
destination = "out"
action = "modules"
module_prefix = "org"
search_path = ["include"]
skip = ["third_party/**"]
always_include = ["config.h"]

[compat]
patterns = ["legacy/*"]
macro = "LEGACY_HEADER"

[export]
rules = ["ui.*=core.*", "a=!b"]
suffixes = [".impl"]

[watch]
debounce = "250ms"

[history]
path = "runs.db"
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Source != "src" || cfg.Destination != "out" {
			t.Errorf("source/destination = %q/%q", cfg.Source, cfg.Destination)
		}
		if cfg.Compat.Macro != "LEGACY_HEADER" {
			t.Errorf("compat macro = %q", cfg.Compat.Macro)
		}
		if cfg.Watch.Debounce != 250*time.Millisecond {
			t.Errorf("debounce = %v", cfg.Watch.Debounce)
		}
		if len(cfg.Export.Rules) != 2 || len(cfg.Export.Suffixes) != 1 {
			t.Errorf("export = %+v", cfg.Export)
		}
		if cfg.History.Path != "runs.db" {
			t.Errorf("history path = %q", cfg.History.Path)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		_, err := Load(writeConfig(t, "source = [unclosed"))
		if !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("DefaultsApplied", func(t *testing.T) {
		cfg := &Config{Source: "src", Destination: "out"}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if cfg.Action != "modules" {
			t.Errorf("action = %q", cfg.Action)
		}
		if cfg.Root != "src" {
			t.Errorf("root = %q", cfg.Root)
		}
		if cfg.Compat.Macro != convert.CompatMacroDefault {
			t.Errorf("macro = %q", cfg.Compat.Macro)
		}
		if cfg.Watch.Debounce != 500*time.Millisecond {
			t.Errorf("debounce = %v", cfg.Watch.Debounce)
		}
	})

	t.Run("ParentOverridesExplicitRoot", func(t *testing.T) {
		cfg := &Config{Source: "project/src", Destination: "out", Root: "elsewhere", Parent: true}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if cfg.Root != "project" {
			t.Errorf("root = %q, want parent of source", cfg.Root)
		}
	})

	t.Run("InplaceSetsDestination", func(t *testing.T) {
		cfg := &Config{Source: "src", Inplace: true}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if cfg.Destination != "src" {
			t.Errorf("destination = %q", cfg.Destination)
		}
	})

	t.Run("MissingDestination", func(t *testing.T) {
		cfg := &Config{Source: "src"}
		if err := cfg.Normalize(); !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})

	t.Run("DestinationEqualsSource", func(t *testing.T) {
		cfg := &Config{Source: "src", Destination: "./src"}
		if err := cfg.Normalize(); !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})

	t.Run("UnknownAction", func(t *testing.T) {
		cfg := &Config{Source: "src", Destination: "out", Action: "sideways"}
		if err := cfg.Normalize(); !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})
}

func TestConverterOptions(t *testing.T) {
	t.Run("Translation", func(t *testing.T) {
		cfg := Default()
		cfg.Destination = "out"
		cfg.ModulePrefix = "org"
		cfg.Skip = []string{"vendor/**"}
		cfg.Compat.Patterns = []string{"legacy/*"}
		cfg.Export.Rules = []string{"a=b"}
		cfg.Export.Suffixes = []string{".impl"}
		cfg.AlwaysInclude = []string{"config.h"}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		opts, err := cfg.ConverterOptions()
		if err != nil {
			t.Fatalf("ConverterOptions: %v", err)
		}
		if opts.ModulePrefix != "org" {
			t.Errorf("prefix = %q", opts.ModulePrefix)
		}
		if len(opts.ExportRules) != 1 || opts.ExportRules[0].Source != "a" {
			t.Errorf("rules = %+v", opts.ExportRules)
		}
		// defaults stay in front of configured names
		if len(opts.AlwaysInclude) != 3 || opts.AlwaysInclude[2] != "config.h" {
			t.Errorf("always include = %v", opts.AlwaysInclude)
		}
	})

	t.Run("BadExportRule", func(t *testing.T) {
		cfg := Default()
		cfg.Destination = "out"
		cfg.Export.Rules = []string{"no-equals-sign"}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if _, err := cfg.ConverterOptions(); !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})

	t.Run("ExtOverride", func(t *testing.T) {
		cfg := Default()
		cfg.Destination = "out"
		cfg.Ext.Modules = map[string]string{"header": "hpp"}
		cfg.Ext.Out = map[string]string{"module_interface": ".ixx"}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		opts, err := cfg.ConverterOptions()
		if err != nil {
			t.Fatalf("ConverterOptions: %v", err)
		}
		if opts.ModulesExt[".hpp"] != convert.ContentHeader {
			t.Errorf("modules ext = %v", opts.ModulesExt)
		}
		if _, stillDefault := opts.ModulesExt[".h"]; stillDefault {
			t.Error("first override should replace the default header extension")
		}
		if opts.OutExt[convert.ContentModuleInterface] != ".ixx" {
			t.Errorf("out ext = %v", opts.OutExt)
		}
	})

	t.Run("BadExtName", func(t *testing.T) {
		cfg := Default()
		cfg.Destination = "out"
		cfg.Ext.Modules = map[string]string{"mystery": ".x"}
		if err := cfg.Normalize(); err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		if _, err := cfg.ConverterOptions(); !errors.IsCode(err, errors.CodeConfig) {
			t.Fatalf("want config error, got %v", err)
		}
	})
}
