package tail

import (
	"errors"
	"fmt"
	"io"
)

// DefaultChunkSize is the chunk size used when none is configured.
const DefaultChunkSize = 512

// ChunkReader reads a file back to front in fixed-size chunks. The first call to Next returns the last chunkSize bytes, the next call the chunkSize
// bytes before those, and so on. The chunk that reaches offset 0 may be shorter. Each byte is read exactly once, so a file of size n takes
// ceil(n/chunkSize) reads.
type ChunkReader struct {
	r         io.ReadSeeker
	chunkSize int64
	pos       int64 // Offset of the first byte already returned; -1 until the end has been located.
}

// NewChunkReader returns a ChunkReader over r. chunkSize must be at least 1.
func NewChunkReader(r io.ReadSeeker, chunkSize int) (*ChunkReader, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("tail: chunk size must be at least 1, got %d", chunkSize)
	}
	return &ChunkReader{r: r, chunkSize: int64(chunkSize), pos: -1}, nil
}

// Next returns the chunk immediately preceding the previously returned one. It returns io.EOF once the start of the file has been returned. The
// returned slice is owned by the caller.
func (c *ChunkReader) Next() ([]byte, error) {
	if c.pos < 0 {
		end, err := c.r.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, err
		}
		c.pos = end
	}
	if c.pos == 0 {
		return nil, io.EOF
	}

	n := min(c.chunkSize, c.pos)
	start := c.pos - n
	if _, err := c.r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("tail: file shrank while reading at offset %d: %w", start, io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	c.pos = start
	return buf, nil
}

// EachChunkFromEnd calls fn with each chunk of r from the end to the start, stopping early (without error) when fn returns false.
func EachChunkFromEnd(r io.ReadSeeker, chunkSize int, fn func(chunk []byte) bool) error {
	cr, err := NewChunkReader(r, chunkSize)
	if err != nil {
		return err
	}
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(chunk) {
			return nil
		}
	}
}
