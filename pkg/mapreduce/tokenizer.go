package mapreduce

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// asciiPunctuation mirrors the classic ASCII punctuation set. Several of these
// ($, +, <, =, >, ^, `, |, ~) are symbols rather than punctuation in Unicode.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Allowlist restricts tokenization to an exact set of words.
// A nil or empty Allowlist keeps every token.
type Allowlist map[string]struct{}

// NewAllowlist builds an Allowlist from user-supplied search words.
// Returns nil when no words are given.
func NewAllowlist(words []string) (Allowlist, error) {
	if len(words) == 0 {
		return nil, nil
	}

	allow := make(Allowlist, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return nil, fmt.Errorf("%w: empty search word", ErrInvalidArgument)
		}
		if strings.IndexFunc(w, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: search word %q contains whitespace", ErrInvalidArgument, w)
		}
		// Tokens never carry punctuation, so such a word could never match.
		if strings.IndexFunc(w, isPunctuation) >= 0 {
			return nil, fmt.Errorf("%w: search word %q contains punctuation", ErrInvalidArgument, w)
		}
		allow[w] = struct{}{}
	}

	return allow, nil
}

// Contains reports whether word is in the allowlist.
func (a Allowlist) Contains(word string) bool {
	_, ok := a[word]
	return ok
}

func isPunctuation(r rune) bool {
	if r < utf8.RuneSelf && strings.ContainsRune(asciiPunctuation, r) {
		return true
	}
	return unicode.IsPunct(r)
}

// StripPunctuation removes punctuation runes from text without inserting
// separators, so "don't" becomes "dont".
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if isPunctuation(r) {
			return -1
		}
		return r
	}, text)
}

// Tokenize splits text into case-sensitive word tokens.
// Punctuation is stripped first, then the text is split on whitespace runs.
// When allowlist is non-empty only exact matches are kept.
func Tokenize(text string, allowlist Allowlist) []string {
	words := strings.Fields(StripPunctuation(text))
	if len(allowlist) == 0 {
		return words
	}

	kept := words[:0]
	for _, w := range words {
		if allowlist.Contains(w) {
			kept = append(kept, w)
		}
	}
	return kept
}
