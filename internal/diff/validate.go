package diff

import "fmt"

// validateOps checks the edit script invariants (see package doc) against sequences of lenA and lenB lines, returning an error on the first violation.
func validateOps(ops []EditOp, lenA, lenB int) error {
	var a, b int
	prev := Unchanged
	for i, op := range ops {
		if op.A.Start != a || op.B.Start != b {
			return fmt.Errorf("op[%d]: starts at (%d,%d), want (%d,%d)", i, op.A.Start, op.B.Start, a, b)
		}
		if op.A.Len() < 0 || op.B.Len() < 0 {
			return fmt.Errorf("op[%d]: negative range", i)
		}
		switch op.Kind {
		case Unchanged:
			if op.A.Len() == 0 || op.A.Len() != op.B.Len() {
				return fmt.Errorf("op[%d]: Unchanged requires equal non-empty ranges", i)
			}
			if i > 0 && prev == Unchanged {
				return fmt.Errorf("op[%d]: adjacent Unchanged ops", i)
			}
		case Deleted:
			if op.A.Len() == 0 || op.B.Len() != 0 {
				return fmt.Errorf("op[%d]: Deleted requires non-empty A and empty B", i)
			}
			if i > 0 && prev != Unchanged {
				return fmt.Errorf("op[%d]: Deleted must start a changed region", i)
			}
		case Inserted:
			if op.B.Len() == 0 || op.A.Len() != 0 {
				return fmt.Errorf("op[%d]: Inserted requires empty A and non-empty B", i)
			}
			if i > 0 && prev == Inserted {
				return fmt.Errorf("op[%d]: adjacent Inserted ops", i)
			}
		default:
			return fmt.Errorf("op[%d]: unknown kind %v", i, op.Kind)
		}
		a, b = op.A.End, op.B.End
		prev = op.Kind
	}
	if len(ops) > 0 && (a != lenA || b != lenB) {
		return fmt.Errorf("ops cover (%d,%d) lines, want (%d,%d)", a, b, lenA, lenB)
	}
	return nil
}
