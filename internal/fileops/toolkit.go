// Package fileops implements file operations that are safe to rerun: creating, copying, injecting into, replacing in, removing, diffing, and tailing
// files. Every operation reports a one-line status, and writes that would clobber different content go through a collision prompt.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/codalotl/filekit/internal/diff"
	"github.com/codalotl/filekit/internal/prompt"
	"github.com/codalotl/filekit/internal/status"
)

// Config configures a Toolkit. The zero value is usable: it works on the OS filesystem, prints nothing, and keeps existing files on collision.
type Config struct {
	Fs     afero.Fs         // Filesystem; nil means the OS filesystem.
	Out    io.Writer        // Diff previews shown at collision prompts; nil discards them.
	Status *status.Reporter // Status lines; nil is quiet.
	Prompt prompt.Policy    // Collision prompt; nil keeps the existing file.
	Diff   diff.Options     // Diff format, context and guards for previews and DiffFiles.
	Logger *zap.Logger      // Debug log; nil is a no-op logger.
}

// Toolkit performs file operations. It holds no per-call state, but operations on the same path must not run concurrently.
type Toolkit struct {
	fs     afero.Fs
	out    io.Writer
	status *status.Reporter
	prompt prompt.Policy
	diff   diff.Options
	log    *zap.Logger
}

// New returns a Toolkit for cfg.
func New(cfg Config) *Toolkit {
	t := &Toolkit{
		fs:     cfg.Fs,
		out:    cfg.Out,
		status: cfg.Status,
		prompt: cfg.Prompt,
		diff:   cfg.Diff,
		log:    cfg.Logger,
	}
	if t.fs == nil {
		t.fs = afero.NewOsFs()
	}
	if t.out == nil {
		t.out = io.Discard
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	return t
}

// Fs returns the filesystem t operates on.
func (t *Toolkit) Fs() afero.Fs {
	return t.fs
}

// readExisting reads path, mapping a missing file to ErrInvalidPath.
func (t *Toolkit) readExisting(path string) ([]byte, error) {
	data, err := afero.ReadFile(t.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidPath, path)
	}
	return data, err
}

// exists reports whether path exists. Errors other than "does not exist" are returned.
func (t *Toolkit) exists(path string) (bool, error) {
	ok, err := afero.Exists(t.fs, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}
