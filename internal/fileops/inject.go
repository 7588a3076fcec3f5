package fileops

import (
	"regexp"
	"strings"

	"github.com/codalotl/filekit/internal/status"
)

// Anchor is a place to inject content: before or after every match of a pattern.
type Anchor struct {
	Pattern *regexp.Regexp
	After   bool
}

// Before anchors before every occurrence of the literal text s.
func Before(s string) Anchor {
	return Anchor{Pattern: regexp.MustCompile(regexp.QuoteMeta(s))}
}

// After anchors after every occurrence of the literal text s.
func After(s string) Anchor {
	return Anchor{Pattern: regexp.MustCompile(regexp.QuoteMeta(s)), After: true}
}

var (
	startOfText = regexp.MustCompile(`\A`)
	endOfText   = regexp.MustCompile(`\z`)
)

// InjectIntoFile inserts content at the anchor. If content is already in the file, nothing happens unless flags.Force is set. A missing anchor is an
// error wrapping ErrNoMatch.
func (t *Toolkit) InjectIntoFile(path, content string, at Anchor, flags EditFlags) error {
	return t.inject(status.Inject, path, content, at, flags)
}

// AppendToFile adds content at the end of path.
func (t *Toolkit) AppendToFile(path, content string, flags EditFlags) error {
	return t.inject(status.Append, path, content, Anchor{Pattern: endOfText, After: true}, flags)
}

// PrependToFile adds content at the start of path.
func (t *Toolkit) PrependToFile(path, content string, flags EditFlags) error {
	return t.inject(status.Prepend, path, content, Anchor{Pattern: startOfText}, flags)
}

func (t *Toolkit) inject(category, path, content string, at Anchor, flags EditFlags) error {
	literal := strings.ReplaceAll(content, "$", "$$")
	replacement := literal + "${0}"
	if at.After {
		replacement = "${0}" + literal
	}
	return t.replaceInFile(category, path, at.Pattern, replacement, flags)
}
