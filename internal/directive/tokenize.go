package directive

import (
	"strings"
	"unicode"

	shellquote "github.com/kballard/go-shellquote"
)

// tokenize splits the directive portion into words, honouring single and
// double quotes. When a quote is left open the words before it are kept and
// the unterminated remainder is dropped. Backslashes are literal.
func tokenize(s string) []string {
	s = literalBackslashes(s)
	words, err := shellquote.Split(s)
	if err == nil {
		return words
	}

	starts := wordStarts(s)
	for i := len(starts) - 1; i >= 0; i-- {
		words, err := shellquote.Split(s[:starts[i]])
		if err == nil {
			return words
		}
	}
	return nil
}

// wordStarts returns the byte offsets where a whitespace-separated word begins.
func wordStarts(s string) []int {
	var starts []int
	inWord := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			starts = append(starts, i)
		}
		inWord = !space
	}
	return starts
}

// literalBackslashes doubles every backslash shellquote would treat as an
// escape. Inside single quotes it already keeps them as written.
func literalBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	single, double := false, false
	for _, r := range s {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
