// Package fs provides file system adapters for walking, hashing, and
// verifying build inputs.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files under root in lexical order, skipping version
// control directories and names matched by the ignore patterns. A walk that
// fails partway yields the error as its final pair; a truncated file set is
// never silently reported as complete.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if skipAction := w.shouldSkipDir(d, ignores); skipAction != nil {
				return skipAction
			}

			if d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}

			return nil
		})
		if err != nil {
			yield("", zerr.With(zerr.Wrap(err, "walk failed"), "root", root))
		}
	}
}

// shouldSkipDir returns filepath.SkipDir when the directory should not be
// descended into, and nil otherwise.
func (w *Walker) shouldSkipDir(d fs.DirEntry, ignores []string) error {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return filepath.SkipDir
	}

	for _, ignore := range ignores {
		matched, _ := filepath.Match(ignore, name)
		if matched {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
	}

	return nil
}
