// Package writer is the only place generated artifacts touch the filesystem.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Writer writes artifacts beneath Root.
type Writer struct {
	Root string
	log  *zap.Logger
}

// Option adjusts a single Write call.
type Option func(*writeOptions)

type writeOptions struct {
	mode os.FileMode
}

// Executable marks the written file 0o755.
func Executable() Option {
	return func(o *writeOptions) { o.mode = 0o755 }
}

// New returns a Writer rooted at root. A nil logger discards progress lines.
func New(root string, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{Root: root, log: log}
}

// Write writes content to rel (slash-separated, relative to Root), creating
// parent directories as needed and overwriting any existing file. Trailing
// whitespace is replaced by exactly one newline.
func (w *Writer) Write(rel, content string, opts ...Option) error {
	o := writeOptions{mode: 0o644}
	for _, opt := range opts {
		opt(&o)
	}

	path := filepath.Join(w.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data := []byte(Normalize(content))
	if err := os.WriteFile(path, data, o.mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file and is subject to umask.
	if err := os.Chmod(path, o.mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	w.log.Info("wrote", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Normalize trims trailing whitespace and appends a single newline.
func Normalize(content string) string {
	return strings.TrimRightFunc(content, unicode.IsSpace) + "\n"
}

// Reset removes root and everything beneath it. It reports whether root
// existed beforehand.
func Reset(root string) (bool, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", root, err)
	}
	if err := os.RemoveAll(root); err != nil {
		return true, fmt.Errorf("remove %s: %w", root, err)
	}
	return true, nil
}
