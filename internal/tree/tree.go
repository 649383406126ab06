// Package tree snapshots a generated directory as a txtar archive so two
// runs can be compared byte for byte.
package tree

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"
)

// Snapshot reads every regular file beneath root, in lexical path order.
// File names are slash-separated and relative to root. The archive comment
// lists the permission bits of each file, one "<mode> <name>" line per file.
func Snapshot(root string) (*txtar.Archive, error) {
	var ar txtar.Archive
	var modes bytes.Buffer
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		fmt.Fprintf(&modes, "%04o %s\n", info.Mode().Perm(), name)
		ar.Files = append(ar.Files, txtar.File{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", root, err)
	}
	ar.Comment = modes.Bytes()
	return &ar, nil
}

// Diff lists the differences between want and got, one line per file:
// "missing <name>", "extra <name>", "changed <name>" or "mode <name>".
// An empty result means the trees are identical.
func Diff(want, got *txtar.Archive) []string {
	wantFiles := index(want)
	gotFiles := index(got)
	wantModes := modes(want)
	gotModes := modes(got)

	var out []string
	for name, data := range wantFiles {
		g, ok := gotFiles[name]
		switch {
		case !ok:
			out = append(out, "missing "+name)
		case !bytes.Equal(data, g):
			out = append(out, "changed "+name)
		case wantModes[name] != gotModes[name]:
			out = append(out, "mode "+name)
		}
	}
	for name := range gotFiles {
		if _, ok := wantFiles[name]; !ok {
			out = append(out, "extra "+name)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return fileOf(out[i]) < fileOf(out[j])
	})
	return out
}

func index(ar *txtar.Archive) map[string][]byte {
	m := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		m[f.Name] = f.Data
	}
	return m
}

func modes(ar *txtar.Archive) map[string]string {
	m := make(map[string]string)
	for _, line := range strings.Split(string(ar.Comment), "\n") {
		mode, name, ok := strings.Cut(line, " ")
		if ok {
			m[name] = mode
		}
	}
	return m
}

func fileOf(line string) string {
	_, name, _ := strings.Cut(line, " ")
	return name
}
