package cli

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codalotl/filekit/internal/config"
	"github.com/codalotl/filekit/internal/fileops"
	"github.com/codalotl/filekit/internal/prompt"
	"github.com/codalotl/filekit/internal/simplelogger"
	"github.com/codalotl/filekit/internal/status"
	"github.com/codalotl/filekit/internal/termcolor"
)

// session is the state of one Run: I/O streams, resolved configuration, and the toolkit built from it.
type session struct {
	in   io.Reader
	out  io.Writer
	errW io.Writer

	// Global flags.
	configFile string
	quiet      bool

	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	prompt   prompt.Policy
	tk       *fileops.Toolkit
}

// setup resolves configuration for cmd and builds the toolkit.
func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{File: s.configFile, Flags: cmd.Flags()})
	if err != nil {
		return usageError{err: err}
	}
	s.cfg = cfg

	s.log, s.closeLog = simplelogger.New(cfg.LogFile)
	s.log.Debug("start", zap.String("command", cmd.CommandPath()), zap.String("version", Version))

	color := termcolor.ForWriter(s.out, cfg.ColorMode())
	var reporter *status.Reporter
	if cfg.Verbose && !s.quiet {
		reporter = status.New(s.out, color)
	}
	s.prompt = prompt.Auto(s.in, s.out)

	s.tk = fileops.New(fileops.Config{
		Fs:     afero.NewOsFs(),
		Out:    s.out,
		Status: reporter,
		Prompt: s.prompt,
		Diff:   cfg.DiffOptions(color),
		Logger: s.log,
	})
	return nil
}

func (s *session) close() {
	if t, ok := s.prompt.(*prompt.Terminal); ok {
		_ = t.Close()
	}
	if s.closeLog != nil {
		s.closeLog()
	}
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "filekit",
		Short:         "Idempotent file generation, editing, diffing and tailing",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageErrorf("missing command")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&s.configFile, "config", "", "config file (default: ~/.filekit/config.yaml and ./.filekit/config.yaml)")
	pf.BoolVarP(&s.quiet, "quiet", "q", false, "do not print status lines")
	pf.String("format", "unified", "diff format: unified, context or old")
	pf.IntP("context", "C", 3, "unchanged lines shown around each change")
	pf.String("color", "auto", "colorize output: auto, always or never")
	pf.String("log-file", "", "append debug logs to this file")

	root.AddCommand(
		newCreateCommand(s),
		newCopyCommand(s),
		newInjectCommand(s),
		newAppendCommand(s),
		newPrependCommand(s),
		newReplaceCommand(s),
		newRemoveCommand(s),
		newDiffCommand(s),
		newTailCommand(s),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

// rangeArgs is cobra.RangeArgs reporting a usage error.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return wrapArgs(cobra.RangeArgs(lo, hi))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func addWriteFlags(cmd *cobra.Command, flags *fileops.WriteFlags) {
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "overwrite files that differ without asking")
	cmd.Flags().BoolVarP(&flags.Skip, "skip", "s", false, "keep files that differ without asking")
	cmd.Flags().BoolVarP(&flags.Noop, "noop", "n", false, "report what would happen without changing anything")
}

func addEditFlags(cmd *cobra.Command, flags *fileops.EditFlags) {
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "edit even if the new text is already present")
	cmd.Flags().BoolVarP(&flags.Noop, "noop", "n", false, "report what would happen without changing anything")
}
