// Package ioutils provides file system utilities for the tidal-ripper.
//
// This package contains functions for:
//   - File writing with parent directory creation
//   - Filename sanitization
//   - Directory creation
//
// All functions that accept a context.Context check it before touching the
// file system, though file operations themselves are not interruptible.
package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are the characters that may not appear in a path segment
// on at least one supported platform.
const forbiddenChars = `<>:|"/\?*`

// WriteFile writes data to a file, creating the file and any missing parent
// directories.
//
// The file is created with mode 0644. If the file already exists, it is
// truncated before writing.
//
// Example:
//
//	err := WriteFile(ctx, "/music/Artist/(2019) Album/01. Song.flac", tagged)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName replaces characters that are invalid in file/folder names.
//
// Every occurrence of < > : | " / \ ? * is replaced by an underscore. Nothing
// else is touched, including bytes that are not valid UTF-8: the result has
// the same length as the input and sanitizing an already sanitized name
// returns it unchanged.
//
// Example:
//
//	SanitizeFileName("AC/DC: Live?") // Returns "AC_DC_ Live_"
//	SanitizeFileName("Track...")     // Returns "Track..."
func SanitizeFileName(name string) string {
	// The forbidden set is ASCII, which never occurs inside a multi-byte
	// UTF-8 sequence, so bytes can be replaced in place.
	if !strings.ContainsAny(name, forbiddenChars) {
		return name
	}
	b := []byte(name)
	for i, c := range b {
		if strings.IndexByte(forbiddenChars, c) >= 0 {
			b[i] = '_'
		}
	}
	return string(b)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/music/Artist/(2019) Album/Disc 2")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
