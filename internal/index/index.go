// Package index holds the write-once file index built in phase 1 of a run:
// the set of files visible to include resolution, and the mapping between
// relative paths and module names. Both are read-only once conversion starts
// and safe to share across workers without locking.
package index

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"cxxconv/internal/errors"
	"cxxconv/internal/util"
)

type node struct {
	children map[string]*node
	file     bool
}

// FileSet is a tree of relative slash paths, used to answer "does this
// include target exist anywhere under the resolution root".
type FileSet struct {
	root  node
	files []string
}

func NewFileSet() *FileSet {
	return &FileSet{root: node{children: make(map[string]*node)}}
}

// AddDirectoryTree walks dir and records every file and directory, keyed by
// path relative to dir.
func (s *FileSet) AddDirectoryTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		s.add(filepath.ToSlash(rel), !d.IsDir())
		return nil
	})
}

// AddFile records a single relative file path, for tests and incremental use.
func (s *FileSet) AddFile(relPath string) {
	s.add(util.NormalizePatternPath(relPath), true)
}

func (s *FileSet) add(relPath string, file bool) {
	if relPath == "" {
		return
	}
	cur := &s.root
	parts := strings.Split(relPath, "/")
	for i, part := range parts {
		next, ok := cur.children[part]
		if !ok {
			next = &node{children: make(map[string]*node)}
			cur.children[part] = next
		}
		cur = next
		if i == len(parts)-1 && file {
			cur.file = true
		}
	}
	if file {
		s.files = append(s.files, relPath)
	}
}

// Contains reports whether relPath names a known file or non-empty directory.
func (s *FileSet) Contains(relPath string) bool {
	p := util.NormalizePatternPath(relPath)
	if p == "" {
		return false
	}
	cur := &s.root
	for _, part := range strings.Split(p, "/") {
		next, ok := cur.children[part]
		if !ok {
			return false
		}
		cur = next
	}
	return cur.file || len(cur.children) > 0
}

// Files returns all recorded file paths in sorted order.
func (s *FileSet) Files() []string {
	out := append([]string(nil), s.files...)
	sort.Strings(out)
	return out
}

// Class separates interface-producing units from implementation units when
// checking module-name uniqueness: a header/source pair legitimately shares
// one module name, two headers never do.
type Class int

const (
	ClassInterface Class = iota
	ClassImpl
)

func (c Class) String() string {
	if c == ClassInterface {
		return "interface"
	}
	return "implementation"
}

// Modules is the path<->ModuleName bimap. Add detects duplicates; lookups
// never mutate.
type Modules struct {
	byModule map[Class]map[string]string
	byPath   map[string]string
}

func NewModules() *Modules {
	return &Modules{
		byModule: map[Class]map[string]string{
			ClassInterface: make(map[string]string),
			ClassImpl:      make(map[string]string),
		},
		byPath: make(map[string]string),
	}
}

// Add records a module name for a relative path. Two distinct paths resolving
// to the same name within one class is a ConflictError naming both paths.
func (m *Modules) Add(class Class, name, relPath string) error {
	relPath = util.NormalizePatternPath(relPath)
	if existing, ok := m.byModule[class][name]; ok && existing != relPath {
		return errors.Newf(errors.CodeConflict,
			"module %q resolved from both %q and %q (%s units)", name, existing, relPath, class)
	}
	m.byModule[class][name] = relPath
	m.byPath[relPath] = name
	return nil
}

// PathOf inverts a module name back to its originating path within a class.
func (m *Modules) PathOf(class Class, name string) (string, bool) {
	p, ok := m.byModule[class][name]
	return p, ok
}

// NameOf returns the module name recorded for a path.
func (m *Modules) NameOf(relPath string) (string, bool) {
	n, ok := m.byPath[util.NormalizePatternPath(relPath)]
	return n, ok
}

// Count returns the number of distinct module names in a class.
func (m *Modules) Count(class Class) int {
	return len(m.byModule[class])
}
