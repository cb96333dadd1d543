// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs lists directory names that never hold bundleable sources.
var skipDirs = map[string]bool{"testdata": true, "vendor": true, "node_modules": true}

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. Test files (`_test` before the extension),
// hidden or underscore-prefixed directories and conventional tool directories
// are skipped. The result is sorted so callers observe a stable order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, extension) && !strings.HasSuffix(name, "_test"+extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func skipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
