// Package cli implements the filekit command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codalotl/filekit/internal/fileops"
)

// Version is the filekit version. It is a var so build tooling can override it with -ldflags "-X".
var Version = "0.1.0"

// RunOptions override standard I/O. Nil fields use the process's standard streams. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code and an error, if any:
//   - 0 -> err == nil
//   - 1 -> the command failed or the operator aborted at a collision prompt.
//   - 2 -> args could not be parsed, or flags were misused.
//
// Run has already printed the error to opts.Err (or stderr) when it returns one. Callers may pass the code to os.Exit.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	s := &session{in: os.Stdin, out: os.Stdout, errW: os.Stderr}
	if opts != nil {
		if opts.In != nil {
			s.in = opts.In
		}
		if opts.Out != nil {
			s.out = opts.Out
		}
		if opts.Err != nil {
			s.errW = opts.Err
		}
	}
	defer s.close()

	root := newRootCommand(s)
	root.SetArgs(argv)
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.errW)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0, nil
	}

	switch {
	case isUsageError(err):
		fmt.Fprintf(s.errW, "Error: %v\n\n", err)
		if cmd != nil {
			fmt.Fprint(s.errW, cmd.UsageString())
		}
		return 2, err
	case errors.Is(err, fileops.ErrAborted):
		fmt.Fprintln(s.errW, "Aborted.")
		return 1, err
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		fmt.Fprintf(s.errW, "Error: %s\n", msg)
	}
	return 1, err
}
