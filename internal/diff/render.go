package diff

import (
	"fmt"
	"strings"

	"github.com/codalotl/filekit/internal/termcolor"
)

// Format is a diff output dialect.
type Format int

// Supported formats.
const (
	Unified Format = iota // diff -u
	Context               // diff -c
	Old                   // classic diff: ed-style NaM/NcM/NdM directives
)

func (f Format) String() string {
	switch f {
	case Unified:
		return "unified"
	case Context:
		return "context"
	case Old:
		return "old"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "unified", "context" or "old" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unified", "u":
		return Unified, nil
	case "context", "c":
		return Context, nil
	case "old", "normal":
		return Old, nil
	}
	return Unified, fmt.Errorf("unknown diff format %q (want unified, context or old)", s)
}

// Formatter renders hunks in one Format. Decoration is delegated to a ColorPolicy chosen at construction: inserted lines are green, deleted lines
// red, and hunk markers cyan.
type Formatter struct {
	format Format
	color  termcolor.ColorPolicy
}

// NewFormatter returns a Formatter. A nil color means no decoration.
func NewFormatter(format Format, color termcolor.ColorPolicy) Formatter {
	if color == nil {
		color = termcolor.Plain{}
	}
	return Formatter{format: format, color: color}
}

// Render returns one string per hunk, each made of "\n"-terminated lines. In the Old format, a blank line follows the last hunk.
func (f Formatter) Render(hunks []Hunk) []string {
	out := make([]string, 0, len(hunks))
	for _, h := range hunks {
		var b strings.Builder
		switch f.format {
		case Context:
			f.renderContext(&b, h)
		case Old:
			f.renderOld(&b, h)
		default:
			f.renderUnified(&b, h)
		}
		out = append(out, b.String())
	}
	if f.format == Old && len(out) > 0 {
		out[len(out)-1] += defaultEOL
	}
	return out
}

// Header returns the two-line file header for the format, or "" for Old, which has none.
func (f Formatter) Header(nameA, nameB string) string {
	switch f.format {
	case Unified:
		return "--- " + nameA + defaultEOL + "+++ " + nameB + defaultEOL
	case Context:
		// Same layout as diff -c: names only, no trailing stars or dashes.
		return "*** " + nameA + defaultEOL + "--- " + nameB + defaultEOL
	default:
		return ""
	}
}

func (f Formatter) line(b *strings.Builder, c termcolor.Color, s string) {
	b.WriteString(f.color.Paint(c, s))
	b.WriteString(defaultEOL)
}

func (f Formatter) renderUnified(b *strings.Builder, h Hunk) {
	f.line(b, termcolor.Cyan, fmt.Sprintf("@@ -%s +%s @@", unifiedRange(h.A), unifiedRange(h.B)))
	for _, op := range h.Ops {
		switch op.Kind {
		case Unchanged:
			for _, ln := range h.Old[op.A.Start-h.A.Start : op.A.End-h.A.Start] {
				f.line(b, termcolor.NoColor, " "+ln)
			}
		case Deleted:
			for _, ln := range h.Old[op.A.Start-h.A.Start : op.A.End-h.A.Start] {
				f.line(b, termcolor.Red, "-"+ln)
			}
		case Inserted:
			for _, ln := range h.New[op.B.Start-h.B.Start : op.B.End-h.B.Start] {
				f.line(b, termcolor.Green, "+"+ln)
			}
		}
	}
}

// unifiedRange formats r as "start,len" with a 1-based start. An empty range names the line before it, as diff -u does.
func unifiedRange(r Range) string {
	start := r.Start + 1
	if r.Len() == 0 {
		start = r.Start
	}
	return fmt.Sprintf("%d,%d", start, r.Len())
}

func (f Formatter) renderContext(b *strings.Builder, h Hunk) {
	regs := regions(h.Ops)
	var anyDeletes, anyInserts bool
	for _, r := range regs {
		anyDeletes = anyDeletes || r.hasDeletes()
		anyInserts = anyInserts || r.hasInserts()
	}

	// marker returns the prefix for changed lines of the region containing op.
	marker := func(op EditOp) string {
		for _, r := range regs {
			if op.A.Start >= r.A.Start && op.A.End <= r.A.End && op.B.Start >= r.B.Start && op.B.End <= r.B.End {
				switch {
				case r.hasDeletes() && r.hasInserts():
					return "! "
				case r.hasDeletes():
					return "- "
				}
				return "+ "
			}
		}
		return "  "
	}

	f.line(b, termcolor.Cyan, "***************")

	f.line(b, termcolor.Cyan, fmt.Sprintf("*** %s ****", contextRange(h.A)))
	if anyDeletes {
		for _, op := range h.Ops {
			if op.Kind == Inserted {
				continue
			}
			prefix, c := "  ", termcolor.NoColor
			if op.Kind == Deleted {
				prefix, c = marker(op), termcolor.Red
			}
			for _, ln := range h.Old[op.A.Start-h.A.Start : op.A.End-h.A.Start] {
				f.line(b, c, prefix+ln)
			}
		}
	}

	f.line(b, termcolor.Cyan, fmt.Sprintf("--- %s ----", contextRange(h.B)))
	if anyInserts {
		for _, op := range h.Ops {
			if op.Kind == Deleted {
				continue
			}
			prefix, c := "  ", termcolor.NoColor
			if op.Kind == Inserted {
				prefix, c = marker(op), termcolor.Green
			}
			for _, ln := range h.New[op.B.Start-h.B.Start : op.B.End-h.B.Start] {
				f.line(b, c, prefix+ln)
			}
		}
	}
}

// contextRange formats r as "first,last" (1-based, inclusive), collapsing single lines to "first". An empty range names the line before it.
func contextRange(r Range) string {
	switch r.Len() {
	case 0:
		return fmt.Sprintf("%d", r.Start)
	case 1:
		return fmt.Sprintf("%d", r.Start+1)
	}
	return fmt.Sprintf("%d,%d", r.Start+1, r.End)
}

func (f Formatter) renderOld(b *strings.Builder, h Hunk) {
	for _, r := range regions(h.Ops) {
		var directive string
		switch {
		case r.hasDeletes() && r.hasInserts():
			directive = fmt.Sprintf("%sc%s", normalRange(r.A), normalRange(r.B))
		case r.hasDeletes():
			directive = fmt.Sprintf("%sd%d", normalRange(r.A), r.B.Start)
		default:
			directive = fmt.Sprintf("%da%s", r.A.Start, normalRange(r.B))
		}
		f.line(b, termcolor.Cyan, directive)

		for _, ln := range h.Old[r.A.Start-h.A.Start : r.A.End-h.A.Start] {
			f.line(b, termcolor.Red, "< "+ln)
		}
		if r.hasDeletes() && r.hasInserts() {
			f.line(b, termcolor.NoColor, "---")
		}
		for _, ln := range h.New[r.B.Start-h.B.Start : r.B.End-h.B.Start] {
			f.line(b, termcolor.Green, "> "+ln)
		}
	}
}

// normalRange formats a non-empty r as "first,last" (1-based, inclusive), collapsing single lines to "first".
func normalRange(r Range) string {
	if r.Len() == 1 {
		return fmt.Sprintf("%d", r.Start+1)
	}
	return fmt.Sprintf("%d,%d", r.Start+1, r.End)
}
