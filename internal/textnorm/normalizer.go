// Package textnorm turns raw job text into the token sequence used for indexing
// and querying. The same Normalizer must be used on both sides.
package textnorm

import (
	"strings"
	"unicode"
)

// DefaultMinTokenLength is the shortest token kept. Tokens of two characters
// or fewer are dropped.
const DefaultMinTokenLength = 3

// Normalizer is a deterministic, stateless text-to-token pipeline:
// lowercase, strip everything except ASCII letters and whitespace,
// split on whitespace, drop stopwords and short tokens.
type Normalizer struct {
	stopwords map[string]struct{}
	minLen    int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStopwords replaces the default English stopword list.
func WithStopwords(words []string) Option {
	return func(n *Normalizer) {
		n.stopwords = toSet(words)
	}
}

// WithMinTokenLength overrides the minimum kept token length.
func WithMinTokenLength(l int) Option {
	return func(n *Normalizer) {
		n.minLen = l
	}
}

// New creates a Normalizer with the English stopword list.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopwords: defaultStopwords,
		minLen:    DefaultMinTokenLength,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Tokens returns the normalized tokens of raw in input order.
// Empty input yields an empty (nil) slice.
func (n *Normalizer) Tokens(raw string) []string {
	if raw == "" {
		return nil
	}
	cleaned := strings.Map(keepRune, strings.ToLower(raw))

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < n.minLen {
			continue
		}
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Normalize returns the tokens of raw joined by single spaces.
func (n *Normalizer) Normalize(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// IsStopword reports whether w is in the stopword list.
func (n *Normalizer) IsStopword(w string) bool {
	_, ok := n.stopwords[w]
	return ok
}

// keepRune deletes (not replaces) anything that is neither a-z nor whitespace,
// so "C++/Java" becomes "cjava".
func keepRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r
	}
	if unicode.IsSpace(r) {
		return ' '
	}
	return -1
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
