package text

import (
	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
)

// SubwordTokenizer splits text into BPE subword tokens using an OpenAI
// tiktoken encoding. Each token ID is decoded back to its surface string
// so the tokens can feed the same Vocabulary pipeline as word tokens.
//
// Supported encodings include "cl100k_base" (GPT-4) and "p50k_base"
// (GPT-3).
type SubwordTokenizer struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewSubwordTokenizer creates a subword tokenizer with the given
// tiktoken encoding name.
func NewSubwordTokenizer(encodingName string) (*SubwordTokenizer, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, errors.Wrapf(err, "load tiktoken encoding %q", encodingName)
	}
	return &SubwordTokenizer{encoding: encoding, name: encodingName}, nil
}

// Tokenize implements Tokenizer. Subword boundaries follow the BPE
// merges of the encoding; leading spaces stay attached to their token.
func (s *SubwordTokenizer) Tokenize(text string) []string {
	ids := s.encoding.Encode(text, nil, nil)
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		tokens = append(tokens, s.encoding.Decode([]int{id}))
	}
	return tokens
}

// Name returns the encoding name.
func (s *SubwordTokenizer) Name() string {
	return s.name
}
