package emit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vk/gobundle/internal/ctxlog"
)

// Write stores data at path through a temporary file in the same directory
// followed by a rename, so readers never observe a partial bundle. On
// failure the temporary file and any directories Write created are removed.
func Write(ctx context.Context, path string, data []byte) (err error) {
	logger := ctxlog.FromContext(ctx)

	dir := filepath.Dir(path)
	created := missingDirs(dir)
	defer func() {
		if err != nil {
			for _, d := range created {
				_ = os.Remove(d)
			}
		}
	}()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	logger.Info("Write: Bundle written.", "path", path, "bytes", len(data))
	return nil
}

// missingDirs lists the ancestors of dir, dir included, that do not exist
// yet, deepest first.
func missingDirs(dir string) []string {
	var out []string
	for {
		if _, err := os.Stat(dir); err == nil || !os.IsNotExist(err) {
			return out
		}
		out = append(out, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}
		dir = parent
	}
}
