// # internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cxxconv/internal/convert"
	"cxxconv/internal/errors"
)

type Config struct {
	Source        string   `toml:"source"`
	Destination   string   `toml:"destination"`
	Inplace       bool     `toml:"inplace"`
	Action        string   `toml:"action"`
	Root          string   `toml:"root"`
	Parent        bool     `toml:"parent"`
	ModulePrefix  string   `toml:"module_prefix"`
	SearchPath    []string `toml:"search_path"`
	Skip          []string `toml:"skip"`
	AlwaysInclude []string `toml:"always_include"`
	Workers       int      `toml:"workers"`

	Compat        Compat        `toml:"compat"`
	Export        Export        `toml:"export"`
	Ext           Ext           `toml:"ext"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Compat struct {
	Patterns []string `toml:"patterns"`
	Macro    string   `toml:"macro"`
}

type Export struct {
	Rules    []string `toml:"rules"`
	Suffixes []string `toml:"suffixes"`
}

// Ext overrides the extension maps. Keys are content type names
// ("header", "source", "module_interface", "module_impl"), values are
// extensions with or without the leading dot.
type Ext struct {
	Modules map[string]string `toml:"modules"`
	Headers map[string]string `toml:"headers"`
	Out     map[string]string `toml:"out"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
	// Reconversion rate limit for watch churn, runs per second.
	RatePerSec float64 `toml:"rate_per_sec"`
	Burst      int     `toml:"burst"`
}

type History struct {
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

type Observability struct {
	Addr string `toml:"addr"`
}

func Default() *Config {
	return &Config{
		Source: ".",
		Action: string(convert.ActionModules),
		Watch: Watch{
			Debounce:   500 * time.Millisecond,
			RatePerSec: 2,
			Burst:      1,
		},
		Compat: Compat{Macro: convert.CompatMacroDefault},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "read config file")
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, "parse config file")
	}
	return cfg, nil
}

// Normalize applies defaults and the root-resolution precedence, then
// validates the result. Parent mode overrides an explicit root.
func (c *Config) Normalize() error {
	if strings.TrimSpace(c.Source) == "" {
		c.Source = "."
	}
	if c.Action == "" {
		c.Action = string(convert.ActionModules)
	}
	if _, err := convert.ParseAction(c.Action); err != nil {
		return err
	}
	if c.Compat.Macro == "" {
		c.Compat.Macro = convert.CompatMacroDefault
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.RatePerSec <= 0 {
		c.Watch.RatePerSec = 2
	}
	if c.Watch.Burst <= 0 {
		c.Watch.Burst = 1
	}

	if c.Parent {
		c.Root = filepath.Dir(filepath.Clean(c.Source))
	}
	if c.Root == "" {
		c.Root = c.Source
	}

	if c.Inplace {
		c.Destination = c.Source
	} else {
		if strings.TrimSpace(c.Destination) == "" {
			return errors.New(errors.CodeConfig, "destination directory is required unless converting in place")
		}
		if filepath.Clean(c.Destination) == filepath.Clean(c.Source) {
			return errors.New(errors.CodeConfig, "destination must differ from source, use inplace to convert in the source tree")
		}
	}
	return nil
}

// ConverterOptions translates the file/flag surface into compiled-form
// conversion options. Call Normalize first.
func (c *Config) ConverterOptions() (*convert.Options, error) {
	opts := convert.NewOptions()
	opts.RootDir = c.Root
	opts.ModulePrefix = c.ModulePrefix
	opts.SearchPath = append([]string(nil), c.SearchPath...)
	opts.SkipPatterns = append([]string(nil), c.Skip...)
	opts.CompatPatterns = append([]string(nil), c.Compat.Patterns...)
	opts.CompatMacro = c.Compat.Macro
	opts.ExportSuffixes = append([]string(nil), c.Export.Suffixes...)
	opts.AlwaysInclude = append(opts.AlwaysInclude, c.AlwaysInclude...)

	for _, raw := range c.Export.Rules {
		rule, err := convert.ParseExportRule(raw)
		if err != nil {
			return nil, err
		}
		opts.ExportRules = append(opts.ExportRules, rule)
	}

	for name, ext := range c.Ext.Modules {
		t, err := contentTypeByName(name)
		if err != nil {
			return nil, err
		}
		opts.AddModulesExt(ext, t)
	}
	for name, ext := range c.Ext.Headers {
		t, err := contentTypeByName(name)
		if err != nil {
			return nil, err
		}
		opts.AddHeadersExt(ext, t)
	}
	for name, ext := range c.Ext.Out {
		t, err := contentTypeByName(name)
		if err != nil {
			return nil, err
		}
		if err := opts.SetOutExt(t, ext); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func contentTypeByName(name string) (convert.ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "header":
		return convert.ContentHeader, nil
	case "source":
		return convert.ContentSource, nil
	case "module_interface":
		return convert.ContentModuleInterface, nil
	case "module_impl":
		return convert.ContentModuleImpl, nil
	}
	return convert.ContentOther, errors.Newf(errors.CodeConfig, "unknown content type %q in ext table", name)
}
