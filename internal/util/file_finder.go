package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// Finder finds artwork by name below a root directory.
type Finder struct {
	// Root folder to start search from.
	Root string
	// Skip lists directory names that are not descended into, eg "dist".
	Skip []string
}

// Find returns the absolute path of the shallowest file matching the first
// name, falling back to later names in turn.
//
// If path is empty then no file was found.
func (f Finder) Find(names ...string) (string, error) {
	found := make(map[string]string, len(names))
	depth := make(map[string]int, len(names))
	err := filepath.Walk(f.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != f.Root && f.skip(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, name := range names {
			if info.Name() != name {
				continue
			}
			d := depthOf(path)
			if prev, ok := depth[name]; !ok || d < prev {
				found[name], depth[name] = path, d
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking: %w", err)
	}
	for _, name := range names {
		if path, ok := found[name]; ok {
			abs, err := filepath.Abs(path)
			if err != nil {
				return "", fmt.Errorf("resolving absolute path: %w", err)
			}
			return abs, nil
		}
	}
	return "", nil
}

func (f Finder) skip(dir string) bool {
	for _, s := range f.Skip {
		if s == dir {
			return true
		}
	}
	return false
}

func depthOf(path string) int {
	n := 0
	for _, r := range filepath.ToSlash(filepath.Clean(path)) {
		if r == '/' {
			n++
		}
	}
	return n
}
