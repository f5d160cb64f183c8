// Package tokenizer turns arbitrary text into the set of distinct words it
// contains. A word is a maximal run of letters: digits, underscores,
// whitespace, and punctuation all act as separators and never survive into
// a word. Case is preserved and no positional or frequency information is
// kept.
package tokenizer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WordSet is an unordered set of words.
type WordSet map[string]struct{}

// NewWordSet returns a set containing the given words.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is in the set.
func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the words in lexical order. It exists for diagnostics and
// tests; persisted glossaries are never written in this order.
func (s WordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// ExtractWords returns the unique words in text.
//
// The reduction is: non-word characters become spaces, then digits become
// spaces, then underscore runs become spaces, then the result is split on
// whitespace. Every rune that is not a letter therefore ends up as a
// separator, so splitting directly on non-letters yields the same set.
func ExtractWords(text string) WordSet {
	fields := strings.FieldsFunc(text, isSeparator)
	words := make(WordSet, len(fields)/2)
	for _, field := range fields {
		words[field] = struct{}{}
	}
	return words
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r)
}

// Normalization forms accepted by New.
const (
	FormNone = "none"
	FormNFC  = "nfc"
	FormNFKC = "nfkc"
)

// Tokenizer applies an optional Unicode normalization pass before word
// extraction. The zero value performs no normalization.
type Tokenizer struct {
	form *norm.Form
}

// New returns a Tokenizer for the named normalization form. An empty form
// is the same as FormNone.
func New(form string) (*Tokenizer, error) {
	switch strings.ToLower(form) {
	case "", FormNone:
		return &Tokenizer{}, nil
	case FormNFC:
		f := norm.NFC
		return &Tokenizer{form: &f}, nil
	case FormNFKC:
		f := norm.NFKC
		return &Tokenizer{form: &f}, nil
	default:
		return nil, fmt.Errorf("unknown normalization form %q", form)
	}
}

// Extract normalizes text (if configured) and returns its unique words.
func (t *Tokenizer) Extract(text string) WordSet {
	if t.form != nil {
		text = t.form.String(text)
	}
	return ExtractWords(text)
}
