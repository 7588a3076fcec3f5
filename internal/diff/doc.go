// Package diff computes line-oriented edit scripts between two texts and renders them as unified, context, or classic ("old", ed-style) diffs.
//
// The pipeline has three stages:
//
//	ops := diff.Lines(a, b)                      // minimal edit script (EditOps)
//	hunks := diff.BuildHunks(a, b, ops, 3)       // changed regions padded with context, overlapping windows merged
//	text := diff.NewFormatter(diff.Unified, p).Render(hunks)
//
// Compare and CompareReaders run the whole pipeline and wrap the output in a Result, which distinguishes "no differences" and "suppressed" (binary or
// oversized input) from a real diff.
//
// Representation: an EditOp covers a contiguous run of lines and has a Kind:
//   - Unchanged: A and B are ranges of equal length holding equal lines.
//   - Deleted: A holds lines present only in the old text; B is empty and positioned at the matching point in the new text.
//   - Inserted: B holds lines present only in the new text; A is empty and positioned at the insertion point in the old text.
//
// Invariants of a non-empty edit script:
//   - Ops cover both sequences exactly, in order: each op starts where the previous one ended on both sides.
//   - Within a changed region (a maximal run of non-Unchanged ops) there is at most one Deleted op and at most one Inserted op, and the Deleted op
//     comes first.
//
// Identical inputs produce an empty (nil) edit script.
//
// Complexity: Lines uses the Myers O((N+M)·D) algorithm from github.com/sergi/go-diff with the time limit disabled, so results are minimal. Memory is
// O(N+M) for the search plus the materialized line slices. Callers diffing very large files should use CompareReaders with Options.BlockLines, which
// diffs bounded blocks pairwise at the cost of possibly splitting a hunk that straddles a block edge.
//
// Newlines: '\n' separates lines. A trailing '\n' terminates the last line rather than starting an empty one, and a '\r' before '\n' is dropped.
package diff
