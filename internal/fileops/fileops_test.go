package fileops

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/filekit/internal/diff"
	"github.com/codalotl/filekit/internal/prompt"
	"github.com/codalotl/filekit/internal/status"
)

// fixture is a Toolkit over an in-memory filesystem with captured output.
type fixture struct {
	tk     *Toolkit
	fs     afero.Fs
	status *bytes.Buffer
	out    *bytes.Buffer
}

// newFixture returns a fixture whose collision prompt reads answers, one per line. An empty answers string means there is no prompt.
func newFixture(t *testing.T, answers string) *fixture {
	t.Helper()
	f := &fixture{fs: afero.NewMemMapFs(), status: &bytes.Buffer{}, out: &bytes.Buffer{}}
	cfg := Config{
		Fs:     f.fs,
		Out:    f.out,
		Status: status.New(f.status, nil),
		Diff:   diff.Options{Format: diff.Unified, ContextLines: 3},
	}
	if answers != "" {
		cfg.Prompt = prompt.NewReader(strings.NewReader(answers), f.out)
	}
	f.tk = New(cfg)
	return f
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(content), 0o644))
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	b, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	return string(b)
}

// statusLines returns the reported status lines with the label padding removed, e.g. "create a.txt".
func (f *fixture) statusLines() []string {
	var out []string
	for _, ln := range strings.Split(strings.TrimSuffix(f.status.String(), "\n"), "\n") {
		if ln != "" {
			out = append(out, strings.TrimLeft(ln, " "))
		}
	}
	return out
}
