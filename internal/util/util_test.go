package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	cases := map[string]string{
		"./subdir/file.h":   "subdir/file.h",
		"subdir\\file.h":    "subdir/file.h",
		" subdir/file.h ":   "subdir/file.h",
		".":                 "",
		"subdir//file.h":    "subdir/file.h",
		"subdir/../file.h":  "file.h",
	}
	for in, want := range cases {
		if got := NormalizePatternPath(in); got != want {
			t.Errorf("NormalizePatternPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasPathPrefix(t *testing.T) {
	if !HasPathPrefix("subdir/file.h", "subdir") {
		t.Error("expected subdir/file.h to be under subdir")
	}
	if HasPathPrefix("subdir2/file.h", "subdir") {
		t.Error("subdir2 must not match prefix subdir")
	}
	if !HasPathPrefix("subdir", "subdir") {
		t.Error("a path is under itself")
	}
}

func TestReplaceExt(t *testing.T) {
	if got := ReplaceExt("subdir/simple.h", ".cppm"); got != "subdir/simple.cppm" {
		t.Errorf("got %q", got)
	}
	if got := ReplaceExt("simple.cppm", ".h"); got != "simple.h" {
		t.Errorf("got %q", got)
	}
}

func TestStemPath(t *testing.T) {
	if got := StemPath("subdir/simple.h"); got != "subdir/simple" {
		t.Errorf("got %q", got)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "c.txt")
	if err := WriteStringWithDirs(target, "content", 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("got %q", string(data))
	}
}
