package fileops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/codalotl/filekit/internal/diff"
)

// DiffFiles compares the files at pathA and pathB using the Toolkit's diff options. Both files must exist. Binary or oversized files give a
// suppressed Result rather than an error, except that identical files always give NoDifferences. If the options leave the names empty, the
// paths are used in the header.
func (t *Toolkit) DiffFiles(pathA, pathB string) (res diff.Result, err error) {
	for _, p := range []string{pathA, pathB} {
		ok, err := t.exists(p)
		if err != nil {
			return diff.Result{}, err
		}
		if !ok {
			return diff.Result{}, fmt.Errorf("%w: %s does not exist", ErrInvalidPath, p)
		}
	}

	opts := t.diff
	if opts.NameA == "" && opts.NameB == "" {
		opts.NameA, opts.NameB = pathA, pathB
	}

	fa, err := t.fs.Open(pathA)
	if err != nil {
		return diff.Result{}, err
	}
	fb, err := t.fs.Open(pathB)
	if err != nil {
		_ = fa.Close()
		return diff.Result{}, err
	}
	defer func() {
		var merr *multierror.Error
		if cerr := fa.Close(); cerr != nil {
			merr = multierror.Append(merr, fmt.Errorf("close %s: %w", pathA, cerr))
		}
		if cerr := fb.Close(); cerr != nil {
			merr = multierror.Append(merr, fmt.Errorf("close %s: %w", pathB, cerr))
		}
		if cerrs := merr.ErrorOrNil(); cerrs != nil && err == nil {
			err = cerrs
		}
	}()

	if opts.MaxSize > 0 && opts.BlockLines <= 0 {
		ia, err := fa.Stat()
		if err != nil {
			return diff.Result{}, err
		}
		ib, err := fb.Stat()
		if err != nil {
			return diff.Result{}, err
		}
		if res, suppressed := diff.CheckSize(ia.Size(), ib.Size(), opts.MaxSize); suppressed {
			// Identical inputs are never too large to compare.
			if filepath.Clean(pathA) == filepath.Clean(pathB) || os.SameFile(ia, ib) {
				return diff.Result{NoDifferences: true}, nil
			}
			if ia.Size() == ib.Size() {
				same, err := sameContent(fa, fb)
				if err != nil {
					return diff.Result{}, err
				}
				if same {
					return diff.Result{NoDifferences: true}, nil
				}
			}
			return res, nil
		}
	}

	t.log.Debug("diff files", zap.String("a", pathA), zap.String("b", pathB), zap.Stringer("format", opts.Format), zap.Int("block_lines", opts.BlockLines))
	return diff.CompareReaders(fa, fb, opts)
}

// compareBufSize is the read size used by sameContent.
const compareBufSize = 32 * 1024

// sameContent reports whether ra and rb hold the same bytes, reading both in fixed-size pieces.
func sameContent(ra, rb io.Reader) (bool, error) {
	bufA := make([]byte, compareBufSize)
	bufB := make([]byte, compareBufSize)
	for {
		na, errA := io.ReadFull(ra, bufA)
		if errA != nil && !errors.Is(errA, io.ErrUnexpectedEOF) && !errors.Is(errA, io.EOF) {
			return false, errA
		}
		nb, errB := io.ReadFull(rb, bufB)
		if errB != nil && !errors.Is(errB, io.ErrUnexpectedEOF) && !errors.Is(errB, io.EOF) {
			return false, errB
		}
		if na != nb || !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA != nil || errB != nil {
			return errA != nil && errB != nil, nil
		}
	}
}

// DiffStrings compares two texts using the Toolkit's diff options.
func (t *Toolkit) DiffStrings(a, b string) diff.Result {
	return diff.CompareStrings(a, b, t.diff)
}
