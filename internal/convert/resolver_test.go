// # internal/convert/resolver_test.go
package convert

import (
	"testing"

	"cxxconv/internal/index"
	"cxxconv/internal/match"
)

func newTestResolver(t *testing.T, opts *Options, files ...string) *resolver {
	t.Helper()
	if opts == nil {
		opts = NewOptions()
	}
	always, err := match.CompilePaths(opts.AlwaysInclude)
	if err != nil {
		t.Fatalf("CompilePaths: %v", err)
	}
	set := index.NewFileSet()
	for _, f := range files {
		set.AddFile(f)
	}
	return &resolver{opts: opts, files: set, always: always}
}

func TestPathToModuleName(t *testing.T) {
	cases := map[string]string{
		"simple.cpp":        "simple",
		"subdir/simple.cpp": "subdir.simple",
		"a/b/c.h":           "a.b.c",
	}
	for in, want := range cases {
		if got := pathToModuleName(in); got != want {
			t.Errorf("pathToModuleName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuardMacro(t *testing.T) {
	cases := map[string]string{
		"foo.bar":    "FOO_BAR",
		"simple":     "SIMPLE",
		"a.b2.c_d":   "A_B2_C_D",
		"org.ui-lib": "ORG_UI_LIB",
	}
	for in, want := range cases {
		if got := guardMacro(in); got != want {
			t.Errorf("guardMacro(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModuleNameDeterminism(t *testing.T) {
	opts := NewOptions()
	opts.ModulePrefix = "org"
	r := newTestResolver(t, opts, "subdir/simple.h")
	first := r.moduleNameFor("subdir/simple.h")
	second := r.moduleNameFor("subdir/simple.h")
	if first != second || first != "org.subdir.simple" {
		t.Errorf("resolution not stable: %q then %q", first, second)
	}
}

func TestModuleNamePrefixOnlyForIndexedFiles(t *testing.T) {
	opts := NewOptions()
	opts.ModulePrefix = "org"
	r := newTestResolver(t, opts, "root.h", "subdir1/simple1.h")

	if got := r.moduleNameFor("root.h"); got != "org.root" {
		t.Errorf("root.h = %q", got)
	}
	if got := r.moduleNameFor("subdir1/simple1.h"); got != "org.subdir1.simple1" {
		t.Errorf("subdir1/simple1.h = %q", got)
	}
	if got := r.moduleNameFor("missing.h"); got != "missing" {
		t.Errorf("missing.h = %q, the prefix is only for files under the root", got)
	}
}

func TestResolveInSearchPath(t *testing.T) {
	r := newTestResolver(t, nil,
		"root.h",
		"subdir1/simple1.h",
		"subdir1/subdir2/simple2.h",
		"dir2/simple1.h",
		"dir2/subdir2/simple2.h",
		"dir2/subdir2/simple3.h",
	)
	u := newUnitResolver(r, "subdir1/test.h")

	t.Run("RootRelativeFirst", func(t *testing.T) {
		got, ok := u.resolveInclude("subdir1/subdir2/simple2.h", true)
		if !ok || got != "subdir1/subdir2/simple2.h" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("CurrentDirForQuoted", func(t *testing.T) {
		got, ok := u.resolveInclude("subdir2/simple2.h", true)
		if !ok || got != "subdir1/subdir2/simple2.h" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("CurrentDirSkippedForBrackets", func(t *testing.T) {
		if got, ok := u.resolveInclude("subdir2/simple2.h", false); ok {
			t.Errorf("bracket include resolved via current dir: %q", got)
		}
	})

	t.Run("SearchPath", func(t *testing.T) {
		r.opts.SearchPath = []string{"dir2"}
		defer func() { r.opts.SearchPath = nil }()
		got, ok := u.resolveInclude("subdir2/simple3.h", true)
		if !ok || got != "dir2/subdir2/simple3.h" {
			t.Errorf("got %q, %v", got, ok)
		}
		// current dir still wins over the search path
		got, ok = u.resolveInclude("subdir2/simple2.h", true)
		if !ok || got != "subdir1/subdir2/simple2.h" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if got, ok := u.resolveInclude("subdir2/simple4.h", true); ok {
			t.Errorf("expected miss, got %q", got)
		}
	})
}

func TestSourceContentType(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		r := newTestResolver(t, nil)
		cases := []struct {
			action   Action
			filename string
			want     ContentType
		}{
			{ActionModules, "test.h", ContentHeader},
			{ActionModules, "test.hpp", ContentOther},
			{ActionModules, "test.cpp", ContentSource},
			{ActionModules, "test.txt", ContentOther},
			{ActionHeaders, "test.cppm", ContentModuleInterface},
			{ActionHeaders, "test.cpp", ContentModuleImpl},
			{ActionHeaders, "test.h", ContentOther},
		}
		for _, tc := range cases {
			if got := r.sourceContentType(tc.action, tc.filename); got != tc.want {
				t.Errorf("sourceContentType(%v, %q) = %v, want %v", tc.action, tc.filename, got, tc.want)
			}
		}
	})

	t.Run("FirstAddReplacesDefault", func(t *testing.T) {
		opts := NewOptions()
		opts.AddModulesExt(".hpp", ContentHeader)
		r := newTestResolver(t, opts)
		if got := r.sourceContentType(ActionModules, "test.h"); got != ContentOther {
			t.Errorf("test.h = %v, first registration must replace the default", got)
		}
		if got := r.sourceContentType(ActionModules, "test.hpp"); got != ContentHeader {
			t.Errorf("test.hpp = %v", got)
		}

		opts.AddModulesExt("h", ContentHeader) // no dot, accumulates
		if got := r.sourceContentType(ActionModules, "test.h"); got != ContentHeader {
			t.Errorf("test.h after re-add = %v", got)
		}
		if got := r.sourceContentType(ActionModules, "test.hpp"); got != ContentHeader {
			t.Errorf("test.hpp after re-add = %v", got)
		}
	})
}

func TestConvertedFilename(t *testing.T) {
	r := newTestResolver(t, nil)
	cases := []struct {
		in   string
		t    ContentType
		want string
	}{
		{"simple.h", ContentModuleInterface, "simple.cppm"},
		{"subdir/simple.cpp", ContentModuleImpl, "subdir/simple.cpp"},
		{"foo/bar.cppm", ContentHeader, "foo/bar.h"},
	}
	for _, tc := range cases {
		if got := r.convertedFilename(tc.in, tc.t); got != tc.want {
			t.Errorf("convertedFilename(%q, %v) = %q, want %q", tc.in, tc.t, got, tc.want)
		}
	}
}
