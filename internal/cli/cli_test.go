package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	err    error
	stdout string
	stderr string
}

// run runs the CLI in a fresh working directory with an empty home, so no real config is picked up.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FILEKIT_LOG_FILE", "")
	var out, errOut bytes.Buffer
	code, err := Run(append([]string{"filekit"}, args...), &RunOptions{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return result{code: code, err: err, stdout: out.String(), stderr: errOut.String()}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_Help(t *testing.T) {
	r := run(t, "", "-h")
	if r.err != nil {
		t.Fatalf("expected nil error, got %v", r.err)
	}
	if r.code != 0 {
		t.Fatalf("expected exit code 0, got %d", r.code)
	}
	if !strings.Contains(r.stdout, "create") || !strings.Contains(r.stdout, "tail") {
		t.Fatalf("expected help to list commands, got:\n%s", r.stdout)
	}
	if r.stderr != "" {
		t.Fatalf("expected empty stderr, got: %q", r.stderr)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"frobnicate"}},
		{"missing arg", []string{"remove"}},
		{"extra arg", []string{"tail", "a", "b"}},
		{"unknown flag", []string{"remove", "--bogus", "x"}},
		{"bad format", []string{"diff", "--format", "sideways", "a", "b"}},
		{"bad regexp", []string{"replace", filepath.Join(dir, "x"), "(", "y"}},
		{"inject without anchor", []string{"inject", filepath.Join(dir, "x"), "y"}},
		{"inject with both anchors", []string{"inject", "--before", "a", "--after", "b", filepath.Join(dir, "x"), "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, "", tt.args...)
			assert.Equal(t, 2, r.code, "stderr=%q", r.stderr)
			assert.Error(t, r.err)
			assert.Contains(t, r.stderr, "Error: ")
			assert.Contains(t, r.stderr, "Usage:")
		})
	}
}

func TestRun_Create(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "hello.txt")

	r := run(t, "", "create", path, "hello\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "      create "+path+"\n", r.stdout)
	assert.Equal(t, "hello\n", readFile(t, path))

	r = run(t, "", "create", path, "hello\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "   identical "+path+"\n", r.stdout)

	r = run(t, "", "--quiet", "create", "--force", path, "bye\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, r.stdout)
	assert.Equal(t, "bye\n", readFile(t, path))
}

func TestRun_CreateFromStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.txt")
	r := run(t, "from stdin\n", "create", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "from stdin\n", readFile(t, path))
}

func TestRun_CreateCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "aaa\nbbb\nccc\n")

	r := run(t, "d\nn\n", "create", path, "aaa\nxxx\nccc\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "   collision "+path+"\n")
	assert.Contains(t, r.stdout, "Overwrite "+path+"?")
	assert.Contains(t, r.stdout, "@@ -1,3 +1,3 @@\n aaa\n-bbb\n+xxx\n ccc\n")
	assert.Contains(t, r.stdout, "        keep "+path+"\n")
	assert.Equal(t, "aaa\nbbb\nccc\n", readFile(t, path))

	r = run(t, "y\n", "create", path, "new\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "new\n", readFile(t, path))
}

func TestRun_CreateAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "old\n")

	r := run(t, "q\n", "create", path, "new\n")
	assert.Equal(t, 1, r.code)
	assert.Error(t, r.err)
	assert.Contains(t, r.stderr, "Aborted.")
	assert.Equal(t, "old\n", readFile(t, path))
}

func TestRun_CreateSkipAndNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "old\n")

	r := run(t, "", "create", "--skip", path, "new\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "        skip "+path+"\n", r.stdout)

	r = run(t, "", "create", "--noop", "--force", path, "new\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "       force "+path+"\n", r.stdout)
	assert.Equal(t, "old\n", readFile(t, path))
}

func TestRun_Copy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "greeting.txt.tmpl")
	writeFile(t, src, "Hello {{ .name }} from {{ .team | upper }}\n")
	dataFile := filepath.Join(dir, "data.yaml")
	writeFile(t, dataFile, "name: nobody\nteam: infra\n")

	r := run(t, "", "copy", "--data-file", dataFile, "--data", "name=Ada", src)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "Hello Ada from INFRA\n", readFile(t, filepath.Join(dir, "greeting.txt")))

	r = run(t, "", "copy", "--data-file", filepath.Join(dir, "missing.yaml"), src)
	assert.Equal(t, 2, r.code)

	r = run(t, "", "copy", filepath.Join(dir, "missing.tmpl"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "does not exist")
}

func TestRun_Edits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Gemfile")
	writeFile(t, path, "gem 'rack'\n")

	r := run(t, "", "inject", "--after", "gem 'rack'\n", path, "gem 'tty'\n")
	require.Equal(t, 0, r.code, r.stderr)
	r = run(t, "", "append", path, "gem 'last'\n")
	require.Equal(t, 0, r.code, r.stderr)
	r = run(t, "", "prepend", path, "source 'x'\n")
	require.Equal(t, 0, r.code, r.stderr)
	r = run(t, "", "replace", path, `gem '(\w+)'`, "gem '${1}!'")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "     replace "+path+"\n", r.stdout)

	assert.Equal(t, "source 'x'\ngem 'rack!'\ngem 'tty!'\ngem 'last!'\n", readFile(t, path))

	r = run(t, "", "replace", path, "nothing-here", "zzz")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "pattern not found")

	r = run(t, "", "inject", "-E", "--before", `^source`, path, "# top\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(readFile(t, path), "# top\nsource 'x'\n"))
}

func TestRun_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "x")

	r := run(t, "", "remove", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "      remove "+path+"\n", r.stdout)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	r = run(t, "", "remove", path)
	assert.Equal(t, 1, r.code)

	r = run(t, "", "remove", "--force", path)
	assert.Equal(t, 0, r.code, r.stderr)
}

func TestRun_Diff(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "aaa\nbbb\nccc\n")
	writeFile(t, b, "aaa\nxxx\nccc\n")

	r := run(t, "", "diff", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "--- "+a+"\n+++ "+b+"\n@@ -1,3 +1,3 @@\n aaa\n-bbb\n+xxx\n ccc\n", r.stdout)

	r = run(t, "", "diff", "--format", "old", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "2c2\n< bbb\n---\n> xxx\n\n", r.stdout)

	r = run(t, "", "diff", "--color", "always", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\x1b[32m+xxx\x1b[0m")

	r = run(t, "", "diff", a, a)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "No differences found\n", r.stdout)

	r = run(t, "", "diff", "--text", "one\n", "two\n")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "@@ -1,1 +1,1 @@\n-one\n+two\n", r.stdout)

	r = run(t, "", "diff", "--max-size", "4B", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "too large")

	r = run(t, "", "diff", a, filepath.Join(dir, "missing"))
	assert.Equal(t, 1, r.code)
}

func TestRun_Tail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "line%d\n", i)
	}
	writeFile(t, path, b.String())

	r := run(t, "", "tail", "-n", "5", "--chunk-size", "7", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "line16\nline17\nline18\nline19\nline20\n", r.stdout)

	r = run(t, "", "tail", path)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, 10, strings.Count(r.stdout, "\n"))

	r = run(t, "", "tail", "--chunk-size", "0", path)
	assert.Equal(t, 2, r.code)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "filekit.yaml")
	writeFile(t, cfg, "format: context\ncontext_lines: 0\n")
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "x\n")
	writeFile(t, b, "y\n")

	r := run(t, "", "--config", cfg, "diff", a, b)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "*** "+a+"\n--- "+b+"\n***************\n*** 1 ****\n! x\n--- 1 ----\n! y\n", r.stdout)
}
