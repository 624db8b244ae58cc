package app

import (
	"bytes"
	"os"

	"cxxconv/internal/errors"
	"cxxconv/internal/util"
)

// writeIfDiff writes content only when the destination differs, so
// repeated runs leave timestamps of unchanged outputs alone.
func writeIfDiff(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		return false, nil
	}
	if err := util.WriteStringWithDirs(path, content, 0o644); err != nil {
		return false, errors.AddContext(
			errors.Wrap(err, errors.CodeWrite, "write destination file"), errors.CtxPath, path)
	}
	return true, nil
}

// copyIfDiff copies src to dst byte-identical, skipping the write when the
// destination already matches.
func copyIfDiff(src, dst string) (bool, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return false, errors.AddContext(
			errors.Wrap(err, errors.CodeWrite, "read file for copy"), errors.CtxPath, src)
	}
	existing, err := os.ReadFile(dst)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := util.WriteFileWithDirs(dst, data, 0o644); err != nil {
		return false, errors.AddContext(
			errors.Wrap(err, errors.CodeWrite, "copy file"), errors.CtxPath, dst)
	}
	return true, nil
}
