package termcolor

import (
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789ABCDEF"

// SanitizeLine makes s safe to print as a single terminal line, such as a file path in a status line.
//   - Control characters (<= 0x1F and 0x7F), including \t, \r and \n, are written as "\xXX".
//   - Invalid UTF-8 bytes are replaced by U+FFFD.
//
// Strings that need no changes are returned as-is without allocating.
func SanitizeLine(s string) string {
	if !needsSanitizing(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteRune(utf8.RuneError)
		case r < 0x20 || r == 0x7F:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[byte(r)>>4])
			b.WriteByte(hexDigits[byte(r)&0x0F])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7F })
}
