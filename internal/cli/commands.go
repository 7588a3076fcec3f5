package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codalotl/filekit/internal/diff"
	"github.com/codalotl/filekit/internal/fileops"
)

func newCreateCommand(s *session) *cobra.Command {
	var flags fileops.WriteFlags
	cmd := &cobra.Command{
		Use:   "create PATH [CONTENT]",
		Short: "Create a file, asking before overwriting a different one",
		Long:  "Create PATH with CONTENT, or with standard input if CONTENT is omitted. Parent directories are created as needed.",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			if len(args) == 2 {
				content = []byte(args[1])
			} else {
				b, err := io.ReadAll(s.in)
				if err != nil {
					return fmt.Errorf("read standard input: %w", err)
				}
				content = b
			}
			_, err := s.tk.CreateFile(args[0], content, flags)
			return err
		},
	}
	addWriteFlags(cmd, &flags)
	return cmd
}

func newCopyCommand(s *session) *cobra.Command {
	var (
		opts     fileops.CopyOptions
		data     map[string]string
		dataFile string
	)
	cmd := &cobra.Command{
		Use:   "copy SRC [DST]",
		Short: "Render a template file and write it to DST",
		Long: "Render SRC as a Go text/template (with sprig functions) and write it to DST. Without DST, the result is written next to SRC " +
			"with a trailing .tmpl removed. Template data comes from --data-file (YAML or JSON) and --data key=value pairs, which take precedence.",
		Args: rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := loadTemplateData(dataFile, data)
			if err != nil {
				return err
			}
			opts.Data = values
			dst := ""
			if len(args) == 2 {
				dst = args[1]
			}
			_, err = s.tk.CopyFile(args[0], dst, opts)
			return err
		},
	}
	addWriteFlags(cmd, &opts.WriteFlags)
	cmd.Flags().StringToStringVar(&data, "data", nil, "template values as key=value pairs")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "YAML or JSON file with template values")
	cmd.Flags().BoolVarP(&opts.Preserve, "preserve", "p", false, "copy permissions and modification time from SRC")
	return cmd
}

// loadTemplateData merges the values in path (if any) with pairs, which win.
func loadTemplateData(path string, pairs map[string]string) (map[string]any, error) {
	values := map[string]any{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, usageErrorf("read data file: %v", err)
		}
		if err := yaml.Unmarshal(b, &values); err != nil {
			return nil, usageErrorf("parse data file %s: %v", path, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}
	for k, v := range pairs {
		values[k] = v
	}
	return values, nil
}

func newInjectCommand(s *session) *cobra.Command {
	var (
		flags         fileops.EditFlags
		before, after string
		isRegexp      bool
	)
	cmd := &cobra.Command{
		Use:   "inject PATH CONTENT (--before TEXT | --after TEXT)",
		Short: "Insert content before or after every occurrence of an anchor",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (before == "") == (after == "") {
				return usageErrorf("exactly one of --before and --after is required")
			}
			text := before
			if after != "" {
				text = after
			}
			if !isRegexp {
				text = regexp.QuoteMeta(text)
			}
			re, err := regexp.Compile(text)
			if err != nil {
				return usageErrorf("invalid anchor: %v", err)
			}
			return s.tk.InjectIntoFile(args[0], args[1], fileops.Anchor{Pattern: re, After: after != ""}, flags)
		},
	}
	addEditFlags(cmd, &flags)
	cmd.Flags().StringVar(&before, "before", "", "insert before this text")
	cmd.Flags().StringVar(&after, "after", "", "insert after this text")
	cmd.Flags().BoolVarP(&isRegexp, "regexp", "E", false, "treat the anchor as a regular expression")
	return cmd
}

func newAppendCommand(s *session) *cobra.Command {
	var flags fileops.EditFlags
	cmd := &cobra.Command{
		Use:   "append PATH CONTENT",
		Short: "Add content at the end of a file unless it is already there",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.tk.AppendToFile(args[0], args[1], flags)
		},
	}
	addEditFlags(cmd, &flags)
	return cmd
}

func newPrependCommand(s *session) *cobra.Command {
	var flags fileops.EditFlags
	cmd := &cobra.Command{
		Use:   "prepend PATH CONTENT",
		Short: "Add content at the start of a file unless it is already there",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.tk.PrependToFile(args[0], args[1], flags)
		},
	}
	addEditFlags(cmd, &flags)
	return cmd
}

func newReplaceCommand(s *session) *cobra.Command {
	var flags fileops.EditFlags
	cmd := &cobra.Command{
		Use:   "replace PATH PATTERN REPLACEMENT",
		Short: "Replace every match of a regular expression",
		Long:  "Replace every match of PATTERN (RE2 syntax) in PATH. REPLACEMENT may refer to submatches as $1 or ${name}.",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := regexp.Compile(args[1])
			if err != nil {
				return usageErrorf("invalid pattern: %v", err)
			}
			return s.tk.ReplaceInFile(args[0], re, args[2], flags)
		},
	}
	addEditFlags(cmd, &flags)
	return cmd
}

func newRemoveCommand(s *session) *cobra.Command {
	var flags fileops.EditFlags
	cmd := &cobra.Command{
		Use:   "remove PATH",
		Short: "Remove a file or directory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.tk.RemoveFile(args[0], flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "do not fail if PATH does not exist")
	cmd.Flags().BoolVarP(&flags.Noop, "noop", "n", false, "report what would happen without changing anything")
	return cmd
}

func newDiffCommand(s *session) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "diff A B",
		Short: "Show the differences between two files",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res diff.Result
			if text {
				res = s.tk.DiffStrings(args[0], args[1])
			} else {
				r, err := s.tk.DiffFiles(args[0], args[1])
				if err != nil {
					return err
				}
				res = r
			}
			_, err := io.WriteString(s.out, res.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "compare A and B as literal strings instead of file paths")
	cmd.Flags().String("max-size", "", fmt.Sprintf("do not diff files larger than this, e.g. 10MB (default %s)", humanize.Bytes(10_000_000)))
	cmd.Flags().Int("block-lines", 0, "diff files in blocks of this many lines (0 diffs whole files)")
	return cmd
}

func newTailCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail PATH",
		Short: "Print the last lines of a file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var werr error
			_, err := s.tk.TailFile(args[0], s.cfg.TailLines, s.cfg.ChunkSize, func(line string) {
				if werr == nil {
					_, werr = fmt.Fprintln(s.out, line)
				}
			})
			if err != nil {
				return err
			}
			return werr
		},
	}
	cmd.Flags().IntP("lines", "n", 10, "number of lines")
	cmd.Flags().Int("chunk-size", 512, "bytes read per step")
	return cmd
}
