// Package prompt asks the operator how to resolve a file collision: overwrite, keep, abort, or show a diff first.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/samber/lo"

	"github.com/codalotl/filekit/internal/termcolor"
)

// ErrNoAnswer is returned when input ends before a valid answer is read.
var ErrNoAnswer = errors.New("prompt: no answer")

// Choice is an answer to the collision question.
type Choice int

const (
	Overwrite Choice = iota // y
	Keep                    // n
	Abort                   // q
	ShowDiff                // d
)

func (c Choice) String() string {
	switch c {
	case Overwrite:
		return "overwrite"
	case Keep:
		return "keep"
	case Abort:
		return "abort"
	case ShowDiff:
		return "diff"
	default:
		return fmt.Sprintf("Choice(%d)", int(c))
	}
}

// Policy decides what to do about a collision at path. Implementations may block on user input.
type Policy interface {
	Ask(path string) (Choice, error)
}

// Help is printed when the operator asks for help or gives an unknown answer.
const Help = `Y - yes, overwrite
n - no, do not overwrite
q - quit, abort
d - diff, show the differences between the old and the new
h - help, show this help
`

// Question returns the question asked for path.
func Question(path string) string {
	return fmt.Sprintf("Overwrite %s? (enter \"h\" for help) [Ynqdh] ", termcolor.SanitizeLine(path))
}

// ParseAnswer maps an answer to a Choice. ok is false for help requests and unknown answers. An empty answer means Overwrite.
func ParseAnswer(answer string) (c Choice, ok bool) {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case lo.Contains([]string{"", "y", "yes"}, a):
		return Overwrite, true
	case lo.Contains([]string{"n", "no"}, a):
		return Keep, true
	case lo.Contains([]string{"q", "quit", "abort"}, a):
		return Abort, true
	case lo.Contains([]string{"d", "diff"}, a):
		return ShowDiff, true
	}
	return 0, false
}

// Reader is a Policy that reads answers line by line from an io.Reader and writes questions to an io.Writer. It suits non-terminal input and tests.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReader returns a Reader. A nil out discards questions.
func NewReader(in io.Reader, out io.Writer) *Reader {
	if out == nil {
		out = io.Discard
	}
	return &Reader{in: bufio.NewReader(in), out: out}
}

// Ask implements Policy. It repeats the question until it gets a valid answer.
func (r *Reader) Ask(path string) (Choice, error) {
	for {
		fmt.Fprint(r.out, Question(path))
		line, err := r.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return 0, ErrNoAnswer
			}
			return 0, err
		}
		if c, ok := ParseAnswer(line); ok {
			return c, nil
		}
		fmt.Fprint(r.out, Help)
	}
}

// Terminal is a Policy with line editing, for interactive terminals. The line editor is created on first use and must be released with Close.
type Terminal struct {
	out   io.Writer
	state *liner.State
}

// NewTerminal returns a Terminal that prints help to out. Questions are written by the line editor to standard output.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out}
}

// Ask implements Policy. Ctrl-C counts as Abort.
func (t *Terminal) Ask(path string) (Choice, error) {
	if t.state == nil {
		t.state = liner.NewLiner()
		t.state.SetCtrlCAborts(true)
	}
	for {
		line, err := t.state.Prompt(Question(path))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			return Abort, nil
		case errors.Is(err, io.EOF):
			return 0, ErrNoAnswer
		case err != nil:
			return 0, err
		}
		if c, ok := ParseAnswer(line); ok {
			return c, nil
		}
		fmt.Fprint(t.out, Help)
	}
}

// Close restores the terminal mode. It is safe to call on a Terminal that never asked.
func (t *Terminal) Close() error {
	if t.state == nil {
		return nil
	}
	err := t.state.Close()
	t.state = nil
	return err
}

// Auto returns a Terminal if in and out are both terminals, and a Reader otherwise.
func Auto(in io.Reader, out io.Writer) Policy {
	if termcolor.IsTerminal(in) && termcolor.IsTerminal(out) {
		return NewTerminal(out)
	}
	return NewReader(in, out)
}
