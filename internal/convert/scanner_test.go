// # internal/convert/scanner_test.go
package convert

import (
	"testing"
)

func kinds(dirs []Directive) []DirectiveKind {
	out := make([]DirectiveKind, len(dirs))
	for i, d := range dirs {
		out[i] = d.Kind
	}
	return out
}

func checkKinds(t *testing.T, got []Directive, want []DirectiveKind) {
	t.Helper()
	gotKinds := kinds(got)
	if len(gotKinds) != len(want) {
		t.Fatalf("directive kinds = %v, want %v", gotKinds, want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("directive %d = %v, want %v (all: %v)", i, gotKinds[i], want[i], gotKinds)
		}
	}
}

func TestScanUnit(t *testing.T) {
	t.Run("Classification", func(t *testing.T) {
		dirs := ScanUnit("#include <vector>\n#include \"local.h\"\n#pragma once\n#define X 1\n#ifdef FLAG\n#endif\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{
			DirIncludeSystem, DirIncludeLocal, DirPragmaOnce, DirPreproc,
			DirPreprocIf, DirPreprocEndif, DirContent,
		})
	})

	t.Run("IncludeGroups", func(t *testing.T) {
		dirs := ScanUnit(" # include \"local.h\"   // tail\n")
		if len(dirs) != 1 {
			t.Fatalf("expected 1 directive, got %d", len(dirs))
		}
		d := dirs[0]
		if d.Space != " " || d.Target != "local.h" || d.Tail != "   // tail" {
			t.Errorf("Space=%q Target=%q Tail=%q", d.Space, d.Target, d.Tail)
		}
	})

	t.Run("ContinuationJoined", func(t *testing.T) {
		dirs := ScanUnit("#define FLAG \\\n    1\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{DirPreproc, DirContent})
		if dirs[0].Raw != "#define FLAG \\\n    1" {
			t.Errorf("joined line = %q", dirs[0].Raw)
		}
	})

	t.Run("LeadingCommentBlock", func(t *testing.T) {
		dirs := ScanUnit("// copyright\n// second line\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{DirCopyright, DirCopyright, DirContent})
	})

	t.Run("BomCommentBlock", func(t *testing.T) {
		dirs := ScanUnit("\uFEFF// copyright\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{DirCopyright, DirContent})
	})

	t.Run("BlockCommentContinuation", func(t *testing.T) {
		dirs := ScanUnit("/* copyright\n * more\n */\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{DirCopyright, DirCopyright, DirCopyright, DirContent})
	})

	t.Run("GuardStripped", func(t *testing.T) {
		dirs := ScanUnit("#ifndef X_H\n#define X_H\nint x;\n#endif\n")
		checkKinds(t, dirs, []DirectiveKind{DirGuard, DirGuard, DirContent, DirGuard})
	})

	t.Run("GuardWithTrailingBlanks", func(t *testing.T) {
		dirs := ScanUnit("// copyright\n#ifndef X_H\n#define X_H\nint x;\n#endif // X_H\n\n")
		checkKinds(t, dirs, []DirectiveKind{DirCopyright, DirGuard, DirGuard, DirContent, DirGuard, DirPreproc})
	})

	t.Run("NotAGuardWithoutDefine", func(t *testing.T) {
		dirs := ScanUnit("#ifndef X_H\nint x;\n#endif\n")
		checkKinds(t, dirs, []DirectiveKind{DirPreprocIf, DirContent, DirPreprocEndif})
	})

	t.Run("NotAGuardWithContentAfterEndif", func(t *testing.T) {
		dirs := ScanUnit("#ifndef X_H\n#define X_H\n#endif\nint x;\n")
		checkKinds(t, dirs, []DirectiveKind{DirPreprocIf, DirPreproc, DirPreprocEndif, DirContent})
	})

	t.Run("NotAGuardWithMismatchedMacro", func(t *testing.T) {
		dirs := ScanUnit("#ifndef X_H\n#define OTHER\nint x;\n#endif\n")
		checkKinds(t, dirs, []DirectiveKind{DirPreprocIf, DirPreproc, DirContent, DirPreprocEndif})
	})

	t.Run("GuardWithNestedConditional", func(t *testing.T) {
		dirs := ScanUnit("#ifndef X_H\n#define X_H\n#ifdef FLAG\nint x;\n#endif\n#endif\n")
		checkKinds(t, dirs, []DirectiveKind{
			DirGuard, DirGuard, DirPreprocIf, DirContent, DirPreprocEndif, DirGuard,
		})
	})
}

func TestScanModule(t *testing.T) {
	t.Run("Classification", func(t *testing.T) {
		dirs := ScanModule("module;\n#include <vector>\nexport module foo.bar;\nimport foo.baz;\nexport import foo.qux;\nexport {\nclass Bar {};\n} // export\n")
		checkKinds(t, dirs, []DirectiveKind{
			DirGlobalModule, DirIncludeSystem, DirModuleDecl, DirImport, DirImport,
			DirExportOpen, DirContent, DirExportClose,
		})
		if !dirs[2].Export || dirs[2].Target != "foo.bar" {
			t.Errorf("module decl = %+v", dirs[2])
		}
		if dirs[3].Export || dirs[3].Target != "foo.baz" {
			t.Errorf("import = %+v", dirs[3])
		}
		if !dirs[4].Export || dirs[4].Target != "foo.qux" {
			t.Errorf("export import = %+v", dirs[4])
		}
	})

	t.Run("ImplementationDecl", func(t *testing.T) {
		dirs := ScanModule("module foo.bar;\n")
		checkKinds(t, dirs, []DirectiveKind{DirModuleDecl})
		if dirs[0].Export {
			t.Error("implementation decl must not be marked export")
		}
	})

	t.Run("ExternCxxWrappers", func(t *testing.T) {
		dirs := ScanModule("export module a;\nextern \"C++\" {\nint x;\n} // extern \"C++\"\n")
		checkKinds(t, dirs, []DirectiveKind{DirModuleDecl, DirExternOpen, DirContent, DirExternClose})
	})

	t.Run("CommentedModuleLineIsContent", func(t *testing.T) {
		dirs := ScanModule("int a;\n// module foo;\n")
		checkKinds(t, dirs, []DirectiveKind{DirContent, DirContent})
	})
}
