package termcolor

import "github.com/charmbracelet/x/ansi"

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
