package fileops

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/codalotl/filekit/internal/status"
)

// EditFlags control in-place edits.
type EditFlags struct {
	Force bool // Edit even if the new text is already in the file.
	Noop  bool // Report the edit but do not perform it.
}

// expansionRE matches template references such as $1, ${1} and ${name} in a regexp replacement.
var expansionRE = regexp.MustCompile(`\$(\{\w+\}|\w+)`)

// ReplaceInFile replaces every match of re in path with replacement, which may reference submatches as in regexp.Regexp.Expand. If the literal part
// of replacement (the text with all references removed) already occurs in the file, the file is left alone unless flags.Force is set; this keeps reruns
// idempotent. Otherwise, no match is an error wrapping ErrNoMatch.
func (t *Toolkit) ReplaceInFile(path string, re *regexp.Regexp, replacement string, flags EditFlags) error {
	return t.replaceInFile(status.Replace, path, re, replacement, flags)
}

func (t *Toolkit) replaceInFile(category, path string, re *regexp.Regexp, replacement string, flags EditFlags) error {
	data, err := t.readExisting(path)
	if err != nil {
		return err
	}

	t.status.Report(category, path)
	if flags.Noop {
		return nil
	}

	contents := string(data)
	if marker := literalPart(replacement); !flags.Force && marker != "" && strings.Contains(contents, marker) {
		t.log.Debug("replacement already present", zap.String("path", path), zap.String("op", category))
		return nil
	}
	if !re.MatchString(contents) {
		return fmt.Errorf("%w: %s in %s", ErrNoMatch, re, path)
	}
	return writeAtomic(t.fs, path, []byte(re.ReplaceAllString(contents, replacement)))
}

// literalPart returns replacement with submatch references removed and "$$" unescaped.
func literalPart(replacement string) string {
	parts := strings.Split(replacement, "$$")
	for i, p := range parts {
		parts[i] = expansionRE.ReplaceAllString(p, "")
	}
	return strings.Join(parts, "$")
}
