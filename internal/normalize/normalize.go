// Package normalize turns raw utterances into whitespace-separated word tokens.
//
// Tokenization is language-agnostic: words are runs of letters, digits and
// combining marks, so romanized and native-script input are treated alike.
// Punctuation and symbols are dropped. Output is idempotent: normalizing an
// already normalized string returns it unchanged.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text normalizes s into single-space separated word tokens.
// Empty or punctuation-only input yields "".
func Text(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens splits s into word tokens after NFC composition.
func Tokens(s string) []string {
	s = norm.NFC.String(s)

	var tokens []string
	for _, field := range strings.Fields(s) {
		tokens = appendWords(tokens, []rune(field))
	}
	return tokens
}

// Fold lowercases s and strips combining marks so "Llévame" and "llevame"
// compare equal. It is used for keyword matching only, never for output.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// FoldedTokens is Tokens applied to Fold(s).
func FoldedTokens(s string) []string {
	return Tokens(Fold(s))
}

func appendWords(dst []string, rs []rune) []string {
	start := -1
	for i, r := range rs {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && isConnector(rs, i) {
			continue
		}
		if start >= 0 {
			dst = append(dst, string(rs[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		dst = append(dst, string(rs[start:]))
	}
	return dst
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// isConnector reports whether rs[i] joins two halves of one word:
// apostrophes and hyphens between word runes, and decimal separators
// between digits ("24.5", "1,000").
func isConnector(rs []rune, i int) bool {
	if i == 0 || i == len(rs)-1 {
		return false
	}
	prev, next := rs[i-1], rs[i+1]
	switch rs[i] {
	case '\'', '’', '-':
		return isWord(prev) && isWord(next)
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}
