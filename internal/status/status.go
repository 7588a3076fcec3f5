// Package status prints one-line notifications of file operations: a right-aligned category label followed by the affected path.
//
//	      create docs/README.md
//	   identical go.mod
package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/codalotl/filekit/internal/termcolor"
)

// LabelWidth is the display width the category label is padded to.
const LabelWidth = 12

// Categories reported by file operations.
const (
	Create    = "create"
	Identical = "identical"
	Force     = "force"
	Skip      = "skip"
	Collision = "collision"
	Overwrite = "overwrite"
	Keep      = "keep"
	Abort     = "abort"
	Diff      = "diff"
	Inject    = "inject"
	Append    = "append"
	Prepend   = "prepend"
	Replace   = "replace"
	Remove    = "remove"
)

var categoryColors = map[string]termcolor.Color{
	Create:    termcolor.Green,
	Overwrite: termcolor.Green,
	Force:     termcolor.Yellow,
	Skip:      termcolor.Yellow,
	Keep:      termcolor.Yellow,
	Identical: termcolor.Cyan,
	Diff:      termcolor.Cyan,
	Collision: termcolor.Red,
	Remove:    termcolor.Red,
	Abort:     termcolor.Red,
	Inject:    termcolor.Green,
	Append:    termcolor.Green,
	Prepend:   termcolor.Green,
	Replace:   termcolor.Green,
}

// Reporter writes status lines. A nil *Reporter, or one with a nil writer, discards everything, so callers never have to check.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	color termcolor.ColorPolicy
}

// New returns a Reporter writing to w and coloring labels with color (nil means no color).
func New(w io.Writer, color termcolor.ColorPolicy) *Reporter {
	if color == nil {
		color = termcolor.Plain{}
	}
	return &Reporter{w: w, color: color}
}

// Report writes one line for category and path. Control characters in path are escaped so a hostile file name cannot move the cursor.
func (r *Reporter) Report(category, path string) {
	if r == nil || r.w == nil {
		return
	}
	label := runewidth.FillLeft(category, LabelWidth)
	label = r.color.Paint(categoryColors[category], label)

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "%s %s\n", label, termcolor.SanitizeLine(path))
}
