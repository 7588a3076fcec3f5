package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want Choice
		ok   bool
	}{
		{"", Overwrite, true},
		{"y\n", Overwrite, true},
		{" YES ", Overwrite, true},
		{"n", Keep, true},
		{"no\r\n", Keep, true},
		{"q", Abort, true},
		{"d", ShowDiff, true},
		{"diff", ShowDiff, true},
		{"h", 0, false},
		{"maybe", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAnswer(tt.in)
		assert.Equal(t, tt.ok, ok, "%q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%q", tt.in)
		}
	}
}

func TestReaderAsk(t *testing.T) {
	var out bytes.Buffer
	r := NewReader(strings.NewReader("d\nn\n"), &out)

	c, err := r.Ask("a.txt")
	require.NoError(t, err)
	assert.Equal(t, ShowDiff, c)

	c, err = r.Ask("a.txt")
	require.NoError(t, err)
	assert.Equal(t, Keep, c)

	assert.Equal(t, 2, strings.Count(out.String(), Question("a.txt")))
}

func TestReaderAskHelpThenAnswer(t *testing.T) {
	var out bytes.Buffer
	r := NewReader(strings.NewReader("h\nwhat\nq"), &out)

	c, err := r.Ask("a.txt")
	require.NoError(t, err)
	assert.Equal(t, Abort, c)
	assert.Equal(t, 2, strings.Count(out.String(), Help))
	assert.Equal(t, 3, strings.Count(out.String(), "Overwrite a.txt?"))
}

func TestReaderAskEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""), nil)
	_, err := r.Ask("a.txt")
	assert.ErrorIs(t, err, ErrNoAnswer)

	r = NewReader(strings.NewReader("h\n"), nil)
	_, err = r.Ask("a.txt")
	assert.ErrorIs(t, err, ErrNoAnswer)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReaderAskReadError(t *testing.T) {
	_, err := NewReader(failingReader{}, nil).Ask("a.txt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAnswer)
}

func TestAutoWithoutTerminal(t *testing.T) {
	p := Auto(strings.NewReader("y\n"), &bytes.Buffer{})
	_, isReader := p.(*Reader)
	assert.True(t, isReader)
}

func TestTerminalCloseUnused(t *testing.T) {
	assert.NoError(t, NewTerminal(nil).Close())
}

func TestQuestionSanitizesPath(t *testing.T) {
	assert.NotContains(t, Question("a\x1bb"), "\x1b")
	assert.Equal(t, "overwrite", Overwrite.String())
}
