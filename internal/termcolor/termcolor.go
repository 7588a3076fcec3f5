package termcolor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color is a named foreground color. The zero value means "no color".
type Color int

const (
	NoColor Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
)

// ansiCode is the basic ANSI palette index of c, as accepted by termenv.Profile.Color.
func (c Color) ansiCode() string {
	switch c {
	case Red:
		return "1"
	case Green:
		return "2"
	case Yellow:
		return "3"
	case Blue:
		return "4"
	case Magenta:
		return "5"
	case Cyan:
		return "6"
	default:
		return ""
	}
}

// ColorPolicy decorates text with a color. Implementations must only wrap s in non-printing sequences: Strip(Paint(c, s)) == s.
type ColorPolicy interface {
	Paint(c Color, s string) string
}

// Plain is a ColorPolicy that never decorates.
type Plain struct{}

// Paint returns s unchanged.
func (Plain) Paint(_ Color, s string) string { return s }

// ANSI is a ColorPolicy that emits SGR sequences using the basic 16-color palette.
type ANSI struct {
	profile termenv.Profile
}

// NewANSI returns an ANSI policy. The basic palette is used regardless of what the terminal supports so output is stable.
func NewANSI() ANSI {
	return ANSI{profile: termenv.ANSI}
}

// Paint wraps s in the sequence for c followed by a reset. Empty strings and NoColor are returned unchanged.
func (a ANSI) Paint(c Color, s string) string {
	code := c.ansiCode()
	if s == "" || code == "" {
		return s
	}
	return termenv.String(s).Foreground(a.profile.Color(code)).String()
}

// Mode selects when colors are emitted.
type Mode int

const (
	ModeAuto Mode = iota
	ModeAlways
	ModeNever
)

func (m Mode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode parses "auto", "always" or "never" (case-insensitive). The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "always", "on", "true":
		return ModeAlways, nil
	case "never", "off", "false":
		return ModeNever, nil
	}
	return ModeAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// ForWriter returns the ColorPolicy for output written to w. In ModeAuto, colors are used only if w is a terminal and NO_COLOR is not set.
func ForWriter(w io.Writer, mode Mode) ColorPolicy {
	switch mode {
	case ModeAlways:
		return NewANSI()
	case ModeNever:
		return Plain{}
	}
	if termenv.EnvNoColor() {
		return Plain{}
	}
	if IsTerminal(w) {
		return NewANSI()
	}
	return Plain{}
}

// IsTerminal reports whether v is an *os.File (or anything with an Fd) connected to a terminal.
func IsTerminal(v any) bool {
	if f, ok := v.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	if f, ok := v.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
