package llm

import (
	"strings"
	"unicode"
)

// MaxPromptLength bounds the size of any prompt or message sent to a model.
const MaxPromptLength = 100000

// SanitizePrompt strips control characters, escapes backslashes, quotes and
// whitespace controls, and truncates the result to MaxPromptLength runes.
// An escape pair is never split by the cut.
func SanitizePrompt(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		var esc string
		switch r {
		case '\\':
			esc = `\\`
		case '"':
			esc = `\"`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			if unicode.IsControl(r) {
				continue
			}
			if n+1 > MaxPromptLength {
				return b.String()
			}
			b.WriteRune(r)
			n++
			continue
		}
		if n+2 > MaxPromptLength {
			return b.String()
		}
		b.WriteString(esc)
		n += 2
	}
	return b.String()
}
