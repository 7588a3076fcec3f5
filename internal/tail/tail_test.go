package tail

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader counts Read calls.
type countingReader struct {
	io.ReadSeeker
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.ReadSeeker.Read(p)
}

func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line%d\n", i)
	}
	return b.String()
}

func TestChunkReaderReconstructs(t *testing.T) {
	data := []byte(numberedLines(37))
	for _, size := range []int{0, 1, 5, 17, len(data)} {
		content := data[:size]
		for _, chunkSize := range []int{1, 2, 3, 8, 64, 1000} {
			r := &countingReader{ReadSeeker: bytes.NewReader(content)}
			var chunks [][]byte
			err := EachChunkFromEnd(r, chunkSize, func(chunk []byte) bool {
				chunks = append(chunks, chunk)
				return true
			})
			require.NoError(t, err)

			assert.Equal(t, string(content), string(bytes.Join(lo.Reverse(chunks), nil)), "size %d chunk %d", size, chunkSize)
			wantReads := (size + chunkSize - 1) / chunkSize
			assert.Equal(t, wantReads, r.reads, "size %d chunk %d", size, chunkSize)
			assert.Len(t, chunks, wantReads)
		}
	}
}

func TestChunkReaderOrder(t *testing.T) {
	cr, err := NewChunkReader(strings.NewReader("abcdefg"), 3)
	require.NoError(t, err)

	var got []string
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(chunk))
	}
	assert.Equal(t, []string{"efg", "bcd", "a"}, got)

	_, err = cr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNewChunkReaderRejectsSmallChunk(t *testing.T) {
	_, err := NewChunkReader(strings.NewReader("x"), 0)
	assert.Error(t, err)

	_, err = Lines(strings.NewReader("x"), 1, -1)
	assert.Error(t, err)
}

func TestLinesLastFive(t *testing.T) {
	content := numberedLines(20)
	want := []string{"line16", "line17", "line18", "line19", "line20"}
	for _, chunkSize := range []int{1, 2, 7, 8, len(content) - 1, len(content), len(content) + 1, 512} {
		got, err := Lines(strings.NewReader(content), 5, chunkSize)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size %d", chunkSize)
	}
}

func TestLinesEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		want    []string
	}{
		{"empty file", "", 3, nil},
		{"zero lines", "a\nb\n", 0, nil},
		{"fewer lines than asked", "a\nb\n", 10, []string{"a", "b"}},
		{"exact count", "a\nb\nc\n", 3, []string{"a", "b", "c"}},
		{"no trailing newline", "a\nb\nc", 2, []string{"b", "c"}},
		{"crlf", "a\r\nb\r\nc\r\n", 2, []string{"b", "c"}},
		{"blank last line", "a\n\n", 1, []string{""}},
		{"only newline", "\n", 4, []string{""}},
		{"single line", "hello", 1, []string{"hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, chunkSize := range []int{1, 2, 3, 512} {
				got, err := Lines(strings.NewReader(tt.content), tt.n, chunkSize)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, "chunk size %d", chunkSize)
			}
		})
	}
}

func TestLinesStopsEarly(t *testing.T) {
	content := numberedLines(1000)
	r := &countingReader{ReadSeeker: strings.NewReader(content)}
	got, err := Lines(r, 2, 16)
	require.NoError(t, err)
	assert.Equal(t, []string{"line999", "line1000"}, got)
	assert.LessOrEqual(t, r.reads, 2)
}

func TestRequestRunSink(t *testing.T) {
	var seen []string
	got, err := Request{Lines: 3}.Run(strings.NewReader(numberedLines(5)), func(line string) {
		seen = append(seen, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"line3", "line4", "line5"}, got)
	assert.Equal(t, got, seen)
}

func TestFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/log.txt", []byte(numberedLines(20)), 0o644))

	got, err := File(fs, "/log.txt", Request{Lines: 5, ChunkSize: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"line16", "line17", "line18", "line19", "line20"}, got)

	_, err = File(fs, "/missing.txt", Request{Lines: 5}, nil)
	assert.Error(t, err)
}
