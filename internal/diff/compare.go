package diff

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/codalotl/filekit/internal/termcolor"
)

// sniffLen is the number of leading bytes inspected by IsBinary.
const sniffLen = 512

// noDifferences is the message printed for a NoDifferences result.
const noDifferences = "No differences found\n"

// Options configure Compare and CompareReaders.
type Options struct {
	Format       Format
	ContextLines int
	Color        termcolor.ColorPolicy // nil means Plain.

	// NameA and NameB label the inputs in the file header. The header is omitted when both are empty.
	NameA string
	NameB string

	// MaxSize suppresses the diff when either input is larger, in bytes. 0 disables the check. It is not applied in block mode.
	MaxSize int64

	// BlockLines > 0 makes CompareReaders diff the inputs in pairs of blocks of this many lines instead of materializing them whole.
	BlockLines int
}

// Result is the outcome of comparing two inputs. Exactly one of NoDifferences, Suppressed != "", or len(Hunks) > 0 holds.
type Result struct {
	Header        string   // File header; may be empty.
	Hunks         []string // Rendered hunks in ascending line order.
	NoDifferences bool     // The inputs have identical lines.
	Suppressed    string   // Why the diff was not computed (binary or too large).
}

// String returns the printable form of r.
func (r Result) String() string {
	switch {
	case r.NoDifferences:
		return noDifferences
	case r.Suppressed != "":
		return r.Suppressed
	}
	return r.Header + strings.Join(r.Hunks, "")
}

// Compare diffs a against b. Binary or oversized inputs produce a Suppressed result.
func Compare(a, b []byte, opts Options) Result {
	if bytes.Equal(a, b) {
		return Result{NoDifferences: true}
	}
	if msg := sizeGuard(int64(len(a)), int64(len(b)), opts.MaxSize); msg != "" {
		return Result{Suppressed: msg}
	}
	if IsBinary(a) || IsBinary(b) {
		return Result{Suppressed: binaryMessage}
	}
	return compareLines(SplitLines(string(a)), SplitLines(string(b)), opts)
}

// CompareStrings diffs two texts that are already known to be text and within any size budget.
func CompareStrings(a, b string, opts Options) Result {
	if a == b {
		return Result{NoDifferences: true}
	}
	return compareLines(SplitLines(a), SplitLines(b), opts)
}

func compareLines(a, b []string, opts Options) Result {
	ops := Lines(a, b)
	if len(ops) == 0 {
		return Result{NoDifferences: true}
	}
	f := NewFormatter(opts.Format, opts.Color)
	return Result{Header: header(f, opts), Hunks: f.Render(BuildHunks(a, b, ops, contextFor(opts)))}
}

// contextFor returns the context width for opts. The Old format never shows context.
func contextFor(opts Options) int {
	if opts.Format == Old {
		return 0
	}
	return opts.ContextLines
}

func header(f Formatter, opts Options) string {
	if opts.NameA == "" && opts.NameB == "" {
		return ""
	}
	return f.Header(opts.NameA, opts.NameB)
}

// CompareReaders diffs the contents of ra and rb. With opts.BlockLines > 0, the inputs are read BlockLines lines at a time and each pair of blocks
// is diffed on its own; hunk line numbers stay absolute. A change that straddles a block edge may be reported as two hunks.
//
// The binary guard inspects the first 512 bytes of each input. The size guard needs whole inputs and is only applied when BlockLines == 0.
func CompareReaders(ra, rb io.Reader, opts Options) (Result, error) {
	if opts.BlockLines <= 0 {
		a, err := io.ReadAll(ra)
		if err != nil {
			return Result{}, err
		}
		b, err := io.ReadAll(rb)
		if err != nil {
			return Result{}, err
		}
		return Compare(a, b, opts), nil
	}

	ba := bufio.NewReaderSize(ra, 64*1024)
	bb := bufio.NewReaderSize(rb, 64*1024)
	for _, br := range []*bufio.Reader{ba, bb} {
		// Peek one extra byte so IsBinary can tell a cut rune at the prefix edge from a real one.
		prefix, err := br.Peek(sniffLen + 1)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return Result{}, err
		}
		if IsBinary(prefix) {
			return Result{Suppressed: binaryMessage}, nil
		}
	}

	f := NewFormatter(opts.Format, opts.Color)
	var hunks []Hunk
	var offA, offB int
	identical := true
	for {
		blockA, errA := readBlock(ba, opts.BlockLines)
		if errA != nil {
			return Result{}, errA
		}
		blockB, errB := readBlock(bb, opts.BlockLines)
		if errB != nil {
			return Result{}, errB
		}
		if len(blockA) == 0 && len(blockB) == 0 {
			break
		}
		if ops := Lines(blockA, blockB); len(ops) > 0 {
			identical = false
			for _, h := range BuildHunks(blockA, blockB, ops, contextFor(opts)) {
				hunks = append(hunks, h.shift(offA, offB))
			}
		}
		offA += len(blockA)
		offB += len(blockB)
	}
	if identical {
		return Result{NoDifferences: true}, nil
	}
	return Result{Header: header(f, opts), Hunks: f.Render(hunks)}, nil
}

// readBlock reads up to n lines from r. A short block means r is exhausted.
func readBlock(r *bufio.Reader, n int) ([]string, error) {
	var lines []string
	for len(lines) < n {
		s, err := r.ReadString('\n')
		if s != "" {
			lines = append(lines, strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

const binaryMessage = "Binary files differ, diff output suppressed\n"

// CheckSize returns a Suppressed result if either size exceeds maxSize. A maxSize of 0 disables the check.
func CheckSize(sizeA, sizeB, maxSize int64) (Result, bool) {
	if msg := sizeGuard(sizeA, sizeB, maxSize); msg != "" {
		return Result{Suppressed: msg}, true
	}
	return Result{}, false
}

func sizeGuard(lenA, lenB, maxSize int64) string {
	if maxSize <= 0 {
		return ""
	}
	if lenA <= maxSize && lenB <= maxSize {
		return ""
	}
	return fmt.Sprintf("Files too large to diff (%s vs %s, limit %s), diff output suppressed\n",
		humanize.Bytes(uint64(lenA)), humanize.Bytes(uint64(lenB)), humanize.Bytes(uint64(maxSize)))
}

// IsBinary reports whether data looks like non-text content: its first 512 bytes contain a NUL byte or invalid UTF-8. If data extends past 512
// bytes, a multi-byte rune cut by the prefix boundary is not held against it.
func IsBinary(data []byte) bool {
	prefix := data
	truncated := false
	if len(prefix) > sniffLen {
		prefix = prefix[:sniffLen]
		truncated = true
	}
	if bytes.IndexByte(prefix, 0) >= 0 {
		return true
	}
	for len(prefix) > 0 {
		r, size := utf8.DecodeRune(prefix)
		if r == utf8.RuneError && size == 1 {
			if truncated && len(prefix) < utf8.UTFMax && !utf8.FullRune(prefix) {
				return false
			}
			return true
		}
		prefix = prefix[size:]
	}
	return false
}
