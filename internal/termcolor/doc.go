// Package termcolor decides whether and how terminal output is colored, and makes untrusted text safe to print.
//
// Colors are applied through a ColorPolicy chosen once at construction time (see ForWriter) and passed to whatever renders output. Decoration never
// changes content: Strip(policy.Paint(c, s)) == s for every policy in this package.
package termcolor
