package match

import "testing"

func TestPathMatcherRightAnchored(t *testing.T) {
	m, err := CompilePaths([]string{"skipdir", "subdir1/simple2.h", "subdir1/skipsubdir"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	t.Run("bare name matches any depth", func(t *testing.T) {
		for _, p := range []string{"skipdir", "a/skipdir", "a/b/skipdir"} {
			if !m.Match(p) {
				t.Errorf("expected %q to match", p)
			}
		}
	})

	t.Run("two components anchor from the right", func(t *testing.T) {
		if !m.Match("subdir1/simple2.h") {
			t.Error("exact path must match")
		}
		if !m.Match("root/subdir1/simple2.h") {
			t.Error("trailing components must match")
		}
		if m.Match("simple2.h") {
			t.Error("shorter path than pattern must not match")
		}
		if m.Match("subdir2/simple2.h") {
			t.Error("different directory must not match")
		}
	})
}

func TestPathMatcherStar(t *testing.T) {
	m, err := CompilePaths([]string{"subdir/*"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !m.Match("subdir/simple2.h") {
		t.Error("star must match a file inside subdir")
	}
	if !m.Match("root/subdir/simple2.h") {
		t.Error("right anchor applies to star patterns too")
	}
	if m.Match("subdir/nested/simple2.h") {
		t.Error("single star must not cross a directory boundary")
	}
}

func TestPathMatcherDoubleStar(t *testing.T) {
	m, err := CompilePaths([]string{"generated/**"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !m.Match("generated/a.h") {
		t.Error("double star must match direct child")
	}
	if !m.Match("generated/deep/nested/a.h") {
		t.Error("double star must cross directory boundaries")
	}
	if m.Match("other/a.h") {
		t.Error("unrelated path must not match")
	}
}

func TestPathMatcherNormalization(t *testing.T) {
	m, err := CompilePaths([]string{"./subdir/simple.h"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !m.Match("subdir\\simple.h") {
		t.Error("backslash paths must normalize before matching")
	}
}

func TestPathMatcherInvalidPattern(t *testing.T) {
	if _, err := CompilePaths([]string{"[unclosed"}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestNamePattern(t *testing.T) {
	star, err := CompileName("*")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !star.Match("foo.bar.baz") {
		t.Error("star must match dotted module names")
	}
	exact, err := CompileName("foo.bar")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !exact.Match("foo.bar") || exact.Match("foo.bar.baz") {
		t.Error("exact pattern must match only itself")
	}
}

func TestEmptyMatcher(t *testing.T) {
	m, err := CompilePaths(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if m.Match("anything") {
		t.Error("empty matcher must match nothing")
	}
	if !m.Empty() {
		t.Error("matcher must report empty")
	}
}
