// Package tail returns the last lines of a file without reading all of it, scanning backward in fixed-size chunks.
package tail

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Request asks for the last Lines lines, read ChunkSize bytes at a time. A ChunkSize of 0 means DefaultChunkSize.
type Request struct {
	Lines     int
	ChunkSize int
}

// Run returns the last req.Lines lines of r in file order (fewer if r has fewer lines). Line terminators ("\n" or "\r\n") are removed, and a final
// terminator does not start an extra empty line. If sink is non-nil, it is called with each line in order after the lines are assembled.
func (req Request) Run(r io.ReadSeeker, sink func(line string)) ([]string, error) {
	if req.Lines <= 0 {
		return nil, nil
	}
	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	var chunks [][]byte // Newest first.
	seps := 0
	atEnd := true
	err := EachChunkFromEnd(r, chunkSize, func(chunk []byte) bool {
		scan := chunk
		if atEnd {
			// The file's final newline terminates the last line; it does not separate it from a following one.
			atEnd = false
			scan = bytes.TrimSuffix(scan, []byte{'\n'})
		}
		for i := len(scan) - 1; i >= 0; i-- {
			if scan[i] != '\n' {
				continue
			}
			seps++
			if seps == req.Lines {
				// Everything up to and including this separator belongs to earlier lines.
				chunks = append(chunks, chunk[i+1:])
				return false
			}
		}
		chunks = append(chunks, chunk)
		return true
	})
	if err != nil {
		return nil, err
	}

	text := string(bytes.Join(lo.Reverse(chunks), nil))
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines = lo.Map(lines, func(ln string, _ int) string { return strings.TrimSuffix(ln, "\r") })

	if sink != nil {
		lo.ForEach(lines, func(ln string, _ int) { sink(ln) })
	}
	return lines, nil
}

// Lines returns the last n lines of r, reading chunkSize bytes at a time.
func Lines(r io.ReadSeeker, n, chunkSize int) ([]string, error) {
	return Request{Lines: n, ChunkSize: chunkSize}.Run(r, nil)
}

// File opens path on fs and runs req against it. The file is closed before File returns.
func File(fs afero.Fs, path string, req Request, sink func(line string)) (lines []string, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("tail: close %s: %w", path, cerr)
		}
	}()
	return req.Run(f, sink)
}
