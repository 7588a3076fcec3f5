package diff

// Hunk is a window over both line sequences: one or more changed regions plus up to contextLines unchanged lines on each side.
//
// Invariants:
//   - Ops are the edit ops clipped to the window, in order, and they cover A and B exactly.
//   - Old == oldLines[A.Start:A.End] and New == newLines[B.Start:B.End].
type Hunk struct {
	A   Range    // Window into the old lines.
	B   Range    // Window into the new lines.
	Ops []EditOp // Ops inside the window. Ranges are absolute, not relative to the window.
	Old []string // Old lines covered by A.
	New []string // New lines covered by B.
}

// BuildHunks groups ops (as returned by Lines(a, b)) into hunks, padding each changed region with up to contextLines unchanged lines before and after.
// Hunks whose padded windows touch or overlap are merged, so two changes separated by at most 2*contextLines unchanged lines share a hunk. Hunks are
// returned in ascending order and never overlap.
func BuildHunks(a, b []string, ops []EditOp, contextLines int) []Hunk {
	if contextLines < 0 {
		contextLines = 0
	}

	var hunks []Hunk
	for i := 0; i < len(ops); {
		if ops[i].Kind == Unchanged {
			i++
			continue
		}
		j := i
		for j < len(ops) && ops[j].Kind != Unchanged {
			j++
		}

		// ops[i:j] is one changed region. Its neighbors (if any) are Unchanged.
		pre, post := 0, 0
		if i > 0 {
			pre = min(contextLines, ops[i-1].A.Len())
		}
		if j < len(ops) {
			post = min(contextLines, ops[j].A.Len())
		}
		h := Hunk{
			A: Range{ops[i].A.Start - pre, ops[j-1].A.End + post},
			B: Range{ops[i].B.Start - pre, ops[j-1].B.End + post},
		}

		if n := len(hunks); n > 0 && h.A.Start <= hunks[n-1].A.End {
			hunks[n-1].A.End = h.A.End
			hunks[n-1].B.End = h.B.End
		} else {
			hunks = append(hunks, h)
		}
		i = j
	}

	for k := range hunks {
		h := &hunks[k]
		h.Ops = clipOps(ops, h.A, h.B)
		h.Old = a[h.A.Start:h.A.End]
		h.New = b[h.B.Start:h.B.End]
	}
	return hunks
}

// clipOps returns the parts of ops that fall inside the window (wa, wb). Changed ops are never split by a window; only Unchanged ops are trimmed.
func clipOps(ops []EditOp, wa, wb Range) []EditOp {
	var out []EditOp
	for _, op := range ops {
		if op.Kind != Unchanged {
			if op.A.Start >= wa.Start && op.A.End <= wa.End && op.B.Start >= wb.Start && op.B.End <= wb.End {
				out = append(out, op)
			}
			continue
		}
		start := max(op.A.Start, wa.Start)
		end := min(op.A.End, wa.End)
		if start >= end {
			continue
		}
		shift := op.B.Start - op.A.Start
		out = append(out, EditOp{Kind: Unchanged, A: Range{start, end}, B: Range{start + shift, end + shift}})
	}
	return out
}

// shift returns h with every range moved by da old lines and db new lines.
func (h Hunk) shift(da, db int) Hunk {
	h.A = Range{h.A.Start + da, h.A.End + da}
	h.B = Range{h.B.Start + db, h.B.End + db}
	ops := make([]EditOp, len(h.Ops))
	for i, op := range h.Ops {
		ops[i] = EditOp{
			Kind: op.Kind,
			A:    Range{op.A.Start + da, op.A.End + da},
			B:    Range{op.B.Start + db, op.B.End + db},
		}
	}
	h.Ops = ops
	return h
}

// region is a maximal run of changed ops inside a hunk.
type region struct {
	A   Range
	B   Range
	ops []EditOp
}

func (r region) hasDeletes() bool { return r.A.Len() > 0 }
func (r region) hasInserts() bool { return r.B.Len() > 0 }

// regions splits ops into changed regions, skipping Unchanged ops.
func regions(ops []EditOp) []region {
	var out []region
	for i := 0; i < len(ops); {
		if ops[i].Kind == Unchanged {
			i++
			continue
		}
		j := i
		for j < len(ops) && ops[j].Kind != Unchanged {
			j++
		}
		out = append(out, region{
			A:   Range{ops[i].A.Start, ops[j-1].A.End},
			B:   Range{ops[i].B.Start, ops[j-1].B.End},
			ops: ops[i:j],
		})
		i = j
	}
	return out
}
