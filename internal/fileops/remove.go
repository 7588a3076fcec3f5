package fileops

import (
	"fmt"

	"github.com/codalotl/filekit/internal/status"
)

// RemoveFile removes path, including a directory and its contents. A missing path is an error wrapping ErrInvalidPath unless flags.Force is set.
func (t *Toolkit) RemoveFile(path string, flags EditFlags) error {
	ok, err := t.exists(path)
	if err != nil {
		return err
	}
	if !ok && !flags.Force {
		return fmt.Errorf("%w: %s does not exist", ErrInvalidPath, path)
	}

	t.status.Report(status.Remove, path)
	if flags.Noop || !ok {
		return nil
	}
	if err := t.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
