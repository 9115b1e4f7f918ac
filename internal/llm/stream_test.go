package llm

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectLines(t *testing.T, input string) []string {
	t.Helper()
	var lines []string
	err := readLines(iotest.OneByteReader(strings.NewReader(input)), func(line []byte) {
		lines = append(lines, string(line))
	})
	require.NoError(t, err)
	return lines
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, collectLines(t, "a\nb\n"))
	assert.Equal(t, []string{"a", "tail"}, collectLines(t, "a\n\n  \ntail"))
	assert.Empty(t, collectLines(t, ""))
	assert.Equal(t, []string{`{"x":1}`}, collectLines(t, "  {\"x\":1}  \r\n"))
}

func TestReadLines_PropagatesReadErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := readLines(iotest.ErrReader(boom), func([]byte) {})
	assert.ErrorIs(t, err, boom)
}
