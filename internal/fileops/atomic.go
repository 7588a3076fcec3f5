package fileops

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
)

// writeAtomic replaces path with data: it writes a temp file in the same directory, syncs and closes it, then renames it over path. Readers see either
// the old content or the new, never a partial file. Missing parent directories are created. An existing file keeps its permissions.
func writeAtomic(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("create parent directory of %s: %w", path, err)
	}

	perm := defaultFileMode
	if info, err := fsys.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("write %s: is a directory", path)
		}
		perm = info.Mode().Perm()
	}

	f, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmp := f.Name()

	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
			_ = fsys.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := fsys.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	ok = true
	return nil
}
