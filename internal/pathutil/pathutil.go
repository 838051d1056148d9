// Package pathutil resolves and relates the source, assets, and output
// paths of a conversion job.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath indicates an empty path was given where one is required.
	ErrEmptyPath = errors.New("empty path")

	// ErrCrossVolume indicates two paths share no common root and no
	// relative path exists between them.
	ErrCrossVolume = errors.New("paths are on different volumes")
)

// Resolver converts possibly-relative paths into absolute ones.
// The working directory is an explicit field so resolution never depends
// on process-global state.
type Resolver struct {
	Cwd string
}

// NewResolver creates a resolver rooted at cwd.
func NewResolver(cwd string) *Resolver {
	return &Resolver{Cwd: filepath.Clean(cwd)}
}

// Normalize resolves path against the resolver's working directory and
// returns it in cleaned absolute form.
func (r *Resolver) Normalize(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(r.Cwd, path), nil
}

// DefaultDestination derives a destination path from src by replacing its
// extension with ext (given without a leading dot).
func DefaultDestination(src, ext string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + "." + ext
}

// DirectoryOf returns the directory containing path.
func DirectoryOf(path string) string {
	return filepath.Dir(path)
}

// RelativeTo expresses path relative to base. Both arguments must already
// be absolute. Fails with ErrCrossVolume when the paths share no common
// root (e.g. different drives).
func RelativeTo(path, base string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s relative to %s", ErrCrossVolume, path, base)
	}
	return rel, nil
}

// StripExt returns path without its final extension, and the extension
// itself without the leading dot.
func StripExt(path string) (base, ext string) {
	ext = filepath.Ext(path)
	base = strings.TrimSuffix(path, ext)
	return base, strings.TrimPrefix(ext, ".")
}
