package fileops

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/codalotl/filekit/internal/diff"
	"github.com/codalotl/filekit/internal/prompt"
	"github.com/codalotl/filekit/internal/status"
)

// Outcome is the terminal status of one write attempt.
type Outcome int

const (
	Created        Outcome = iota // The file did not exist and was written.
	Identical                     // The file already had the proposed content.
	Forced                        // The file differed and was overwritten because of WriteFlags.Force.
	Skipped                       // The file differed and was kept because of WriteFlags.Skip.
	Overwritten                   // The operator chose to overwrite.
	NotOverwritten                // The operator chose to keep the file, or there was nobody to ask.
	Aborted                       // The operator chose to abort.
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Identical:
		return "identical"
	case Forced:
		return "forced"
	case Skipped:
		return "skipped"
	case Overwritten:
		return "overwritten"
	case NotOverwritten:
		return "not overwritten"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Wrote reports whether the outcome replaces the file content (ignoring WriteFlags.Noop).
func (o Outcome) Wrote() bool {
	return o == Created || o == Forced || o == Overwritten
}

// WriteFlags control how a write resolves a collision with an existing, different file.
type WriteFlags struct {
	Force bool // Overwrite without asking.
	Skip  bool // Keep the existing file without asking. Force wins if both are set.
	Noop  bool // Report what would happen but never write.
}

// CreateFile writes content to path, creating parent directories. If path already exists with different content, flags and then the prompt decide
// whether it is overwritten. Content is written at most once, atomically.
//
// Each deciding transition reports exactly one status line. The existence and content checks that precede a decision report nothing.
//
// Choosing Abort at the prompt returns (Aborted, ErrAborted).
func (t *Toolkit) CreateFile(path string, content []byte, flags WriteFlags) (Outcome, error) {
	d := &writeDecision{t: t, path: path, content: content, flags: flags}
	return d.run()
}

// decisionState is a state of writeDecision.
type decisionState int

const (
	stateStart decisionState = iota
	stateExists
	stateDoesNotExist
	stateIdentical
	stateForced
	stateSkipped
	statePromptCollision
	stateShowDiff
	stateOverwritten
	stateNotOverwritten
	stateAborted
)

// terminalOutcomes maps each terminal state to its Outcome.
var terminalOutcomes = map[decisionState]Outcome{
	stateDoesNotExist:   Created,
	stateIdentical:      Identical,
	stateForced:         Forced,
	stateSkipped:        Skipped,
	stateOverwritten:    Overwritten,
	stateNotOverwritten: NotOverwritten,
	stateAborted:        Aborted,
}

// writeDecision resolves one CreateFile call. Each call to step makes one transition; states that decide something report one status line.
type writeDecision struct {
	t         *Toolkit
	path      string
	content   []byte
	flags     WriteFlags
	existing  []byte
	promptErr error // Set when the prompt failed; the file is kept.
}

func (d *writeDecision) run() (Outcome, error) {
	st := stateStart
	for {
		next, err := d.step(st)
		if err != nil {
			return NotOverwritten, err
		}
		if outcome, ok := terminalOutcomes[next]; ok {
			d.t.log.Debug("write decided", zap.String("path", d.path), zap.Stringer("outcome", outcome), zap.Bool("noop", d.flags.Noop))
			return outcome, d.finish(outcome)
		}
		st = next
	}
}

func (d *writeDecision) step(st decisionState) (decisionState, error) {
	switch st {
	case stateStart:
		ok, err := d.t.exists(d.path)
		if err != nil {
			return st, err
		}
		if !ok {
			d.t.status.Report(status.Create, d.path)
			return stateDoesNotExist, nil
		}
		return stateExists, nil

	case stateExists:
		existing, err := d.t.readExisting(d.path)
		if err != nil {
			return st, err
		}
		d.existing = existing
		switch {
		case bytes.Equal(existing, d.content):
			d.t.status.Report(status.Identical, d.path)
			return stateIdentical, nil
		case d.flags.Force:
			d.t.status.Report(status.Force, d.path)
			return stateForced, nil
		case d.flags.Skip:
			d.t.status.Report(status.Skip, d.path)
			return stateSkipped, nil
		}
		d.t.status.Report(status.Collision, d.path)
		return statePromptCollision, nil

	case statePromptCollision:
		if d.t.prompt == nil {
			d.t.status.Report(status.Keep, d.path)
			return stateNotOverwritten, nil
		}
		choice, err := d.t.prompt.Ask(d.path)
		if err != nil {
			d.promptErr = err
			d.t.status.Report(status.Keep, d.path)
			return stateNotOverwritten, nil
		}
		switch choice {
		case prompt.Overwrite:
			d.t.status.Report(status.Overwrite, d.path)
			return stateOverwritten, nil
		case prompt.Keep:
			d.t.status.Report(status.Keep, d.path)
			return stateNotOverwritten, nil
		case prompt.Abort:
			d.t.status.Report(status.Abort, d.path)
			return stateAborted, nil
		case prompt.ShowDiff:
			d.t.status.Report(status.Diff, d.path)
			return stateShowDiff, nil
		}
		return st, fmt.Errorf("collision at %s: unknown choice %v", d.path, choice)

	case stateShowDiff:
		if err := d.showDiff(); err != nil {
			return st, err
		}
		return statePromptCollision, nil
	}
	return st, fmt.Errorf("write decision for %s: no transition from state %d", d.path, st)
}

// finish performs the side effect of a terminal outcome.
func (d *writeDecision) finish(outcome Outcome) error {
	switch {
	case outcome == Aborted:
		return fmt.Errorf("%s: %w", d.path, ErrAborted)
	case d.promptErr != nil:
		return fmt.Errorf("collision at %s: %w", d.path, d.promptErr)
	case !outcome.Wrote() || d.flags.Noop:
		return nil
	}
	return writeAtomic(d.t.fs, d.path, d.content)
}

// showDiff writes the differences between the existing file and the proposed content.
func (d *writeDecision) showDiff() error {
	opts := d.t.diff
	opts.NameA = d.path
	opts.NameB = d.path + " (new)"
	res := diff.Compare(d.existing, d.content, opts)
	_, err := io.WriteString(d.t.out, res.String())
	return err
}
