// Package text provides tokenization and vocabulary construction for
// turning raw sentences into padded index sequences.
package text

import (
	"strings"
	"unicode"
)

// Tokenizer splits raw text into string tokens.
//
// Implementations must be safe for concurrent use: tokenization happens
// both during dataset preparation and at inference time.
type Tokenizer interface {
	// Tokenize splits text into tokens. An empty or all-whitespace
	// input yields an empty slice.
	Tokenize(text string) []string
}

// WordTokenizer lowercases text and splits it into word and punctuation
// tokens: runs of letters/digits become one token, each punctuation rune
// becomes its own token.
//
// "Don't stop!" -> ["don", "'", "t", "stop", "!"]
type WordTokenizer struct{}

// NewWordTokenizer creates a word-level tokenizer.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Tokenize implements Tokenizer.
func (w *WordTokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}
