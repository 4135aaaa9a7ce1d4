package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Collect recursively enumerates all Markdown files (.md, case-insensitive)
// under root and reads their content. Paths are returned in lexicographic
// order so chunk indices are reproducible across runs on an unchanged tree.
func Collect(root string) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCollection, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCollection, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", ErrCollection, root, err)
	}

	// WalkDir visits entries in lexical order already; sorting the
	// slash-canonicalized paths pins the ordering contract down explicitly.
	sort.Slice(paths, func(i, j int) bool {
		return filepath.ToSlash(paths[i]) < filepath.ToSlash(paths[j])
	})

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrCollection, path, err)
		}
		docs = append(docs, Document{
			Path: filepath.ToSlash(path),
			Text: string(data),
		})
	}

	return docs, nil
}
