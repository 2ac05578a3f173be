package matcher

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

const minTokenLength = 2

func normalizeText(q string, stem bool) string {
	return strings.Join(tokenize(q, stem), " ")
}

// tokenize lowercases the input, treats punctuation as whitespace and drops
// tokens shorter than minTokenLength. With stem enabled each surviving token
// is reduced to its Porter2 stem.
func tokenize(q string, stem bool) []string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both separate tokens
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}

	fields := strings.Fields(builder.String())
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if stem {
			tok = porter2.Stem(tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
