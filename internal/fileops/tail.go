package fileops

import (
	"fmt"

	"github.com/codalotl/filekit/internal/tail"
)

// TailFile returns the last n lines of path, reading it backward chunkSize bytes at a time (0 means tail.DefaultChunkSize). If sink is non-nil, it
// receives each line in order. A missing path is an error wrapping ErrInvalidPath.
func (t *Toolkit) TailFile(path string, n, chunkSize int, sink func(line string)) ([]string, error) {
	ok, err := t.exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidPath, path)
	}
	return tail.File(t.fs, path, tail.Request{Lines: n, ChunkSize: chunkSize}, sink)
}
