package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"line1\nline2", `line1\nline2`},
		{"tab\there", `tab\there`},
		{"crlf\r\n", `crlf\r\n`},
		{`say "hi"`, `say \"hi\"`},
		{`C:\path`, `C:\\path`},
		{"bell\x07 null\x00 del\x7f", "bell null del"},
		{"héllo ✓", "héllo ✓"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePrompt(tt.in), "SanitizePrompt(%q)", tt.in)
	}
}

func TestSanitizePrompt_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePrompt(strings.Repeat("é", MaxPromptLength+50))
	assert.Equal(t, MaxPromptLength, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestSanitizePrompt_TruncationKeepsEscapesWhole(t *testing.T) {
	t.Parallel()

	got := SanitizePrompt(strings.Repeat("a", MaxPromptLength-1) + "\n")
	assert.Equal(t, strings.Repeat("a", MaxPromptLength-1), got)
	assert.False(t, strings.HasSuffix(got, `\`))

	got = SanitizePrompt(strings.Repeat(`"`, MaxPromptLength))
	assert.Equal(t, MaxPromptLength, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat(`\"`, MaxPromptLength/2), got)
}
