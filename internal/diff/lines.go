package diff

import "strings"

// defaultEOL is the line separator.
const defaultEOL = "\n"

// SplitLines splits text into lines without their terminators. A trailing "\n" does not produce an empty final line, and "\r\n" endings are
// normalized. The empty string has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, defaultEOL)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
