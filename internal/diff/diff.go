package diff

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind is the kind of an EditOp.
type Kind int

// Kinds of edit operations.
const (
	Unchanged Kind = iota
	Deleted
	Inserted
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Deleted:
		return "deleted"
	case Inserted:
		return "inserted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Range is a half-open range [Start, End) of 0-based line indexes.
type Range struct {
	Start int
	End   int
}

// Len returns the number of lines in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// EditOp is a contiguous run of lines that share one Kind. See the package doc for how A and B are populated for each Kind.
type EditOp struct {
	Kind Kind
	A    Range // Range into the old lines.
	B    Range // Range into the new lines.
}

// Lines computes a minimal edit script transforming a into b. It returns nil if a and b are equal.
//
// When several minimal scripts exist, the deletions of a changed region are grouped before its insertions.
func Lines(a, b []string) []EditOp {
	if slices.Equal(a, b) {
		return nil
	}

	ra, rb, ok := encodeLines(a, b)
	if !ok {
		return replaceAll(len(a), len(b))
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // never trade minimality for speed
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(ra, rb, false))

	var ops []EditOp
	var ai, bi int
	// Sizes and start positions of the changed region being accumulated.
	var dels, ins int
	var regionA, regionB int

	flush := func() {
		if dels > 0 {
			ops = append(ops, EditOp{Kind: Deleted, A: Range{regionA, regionA + dels}, B: Range{regionB, regionB}})
		}
		if ins > 0 {
			ops = append(ops, EditOp{Kind: Inserted, A: Range{regionA + dels, regionA + dels}, B: Range{regionB, regionB + ins}})
		}
		dels, ins = 0, 0
	}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		if d.Type != diffmatchpatch.DiffEqual && dels == 0 && ins == 0 {
			regionA, regionB = ai, bi
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			if last := len(ops) - 1; last >= 0 && ops[last].Kind == Unchanged {
				ops[last].A.End += n
				ops[last].B.End += n
			} else {
				ops = append(ops, EditOp{Kind: Unchanged, A: Range{ai, ai + n}, B: Range{bi, bi + n}})
			}
			ai += n
			bi += n
		case diffmatchpatch.DiffDelete:
			dels += n
			ai += n
		case diffmatchpatch.DiffInsert:
			ins += n
			bi += n
		}
	}
	flush()

	if err := validateOps(ops, len(a), len(b)); err != nil {
		panic(fmt.Errorf("diff.Lines: validate failed with %v", err))
	}
	return ops
}

// Apply rebuilds the new lines from a and ops, taking unchanged lines from a and inserted lines from b. For any a and b, Apply(a, b, Lines(a, b))
// equals b.
func Apply(a, b []string, ops []EditOp) []string {
	if len(ops) == 0 {
		return slices.Clone(a)
	}
	var out []string
	for _, op := range ops {
		switch op.Kind {
		case Unchanged:
			out = append(out, a[op.A.Start:op.A.End]...)
		case Inserted:
			out = append(out, b[op.B.Start:op.B.End]...)
		}
	}
	return out
}

// encodeLines maps each distinct line to a rune so the line sequences can be diffed as rune slices. Surrogate code points are skipped because they do
// not survive conversion to string. ok is false if there are more distinct lines than usable runes.
func encodeLines(a, b []string) (ra, rb []rune, ok bool) {
	ids := make(map[string]rune, len(a)+len(b))
	next := 0
	encode := func(lines []string) []rune {
		out := make([]rune, len(lines))
		for i, ln := range lines {
			r, seen := ids[ln]
			if !seen {
				r = lineRune(next)
				next++
				ids[ln] = r
			}
			out[i] = r
		}
		return out
	}
	ra = encode(a)
	rb = encode(b)
	if next > 0 && lineRune(next-1) > utf8.MaxRune {
		return nil, nil, false
	}
	return ra, rb, true
}

func lineRune(i int) rune {
	r := rune(i)
	if r >= 0xD800 {
		r += 0x800 // skip U+D800..U+DFFF
	}
	return r
}

// replaceAll is the fallback edit script for inputs with too many distinct lines: delete everything, then insert everything.
func replaceAll(lenA, lenB int) []EditOp {
	var ops []EditOp
	if lenA > 0 {
		ops = append(ops, EditOp{Kind: Deleted, A: Range{0, lenA}, B: Range{0, 0}})
	}
	if lenB > 0 {
		ops = append(ops, EditOp{Kind: Inserted, A: Range{lenA, lenA}, B: Range{0, lenB}})
	}
	return ops
}
