package text

import (
	"sort"
)

// Special tokens present in every vocabulary.
const (
	UnkToken = "<unk>"
	PadToken = "<pad>"

	// UnkIndex and PadIndex are fixed: unknown-word lookups return
	// UnkIndex, and batches are padded with PadIndex.
	UnkIndex = 0
	PadIndex = 1
)

// Vocabulary maps string tokens to dense int32 indices.
//
// Index 0 is always <unk> and index 1 is always <pad>. Remaining indices
// are assigned to corpus tokens by descending frequency, ties broken
// lexicographically, so a vocabulary built from the same corpus is
// always identical.
type Vocabulary struct {
	stoi map[string]int32
	itos []string
}

// VocabConfig controls vocabulary construction.
type VocabConfig struct {
	// MaxSize caps the total vocabulary size including the two special
	// tokens. 0 means unlimited.
	MaxSize int
	// MinFreq drops tokens seen fewer than MinFreq times. Values < 1
	// are treated as 1.
	MinFreq int
}

// BuildVocabulary constructs a vocabulary from tokenized documents.
//
// Only the training split should be passed in: building over validation
// or test text leaks information into the model.
func BuildVocabulary(documents [][]string, config VocabConfig) *Vocabulary {
	counts := make(map[string]int)
	for _, doc := range documents {
		for _, tok := range doc {
			counts[tok]++
		}
	}
	return buildFromCounts(counts, config)
}

func buildFromCounts(counts map[string]int, config VocabConfig) *Vocabulary {
	minFreq := config.MinFreq
	if minFreq < 1 {
		minFreq = 1
	}

	candidates := make([]string, 0, len(counts))
	for tok, n := range counts {
		if n >= minFreq && tok != UnkToken && tok != PadToken {
			candidates = append(candidates, tok)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i]] != counts[candidates[j]] {
			return counts[candidates[i]] > counts[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if config.MaxSize > 0 {
		keep := config.MaxSize - 2 // specials always fit
		if keep < 0 {
			keep = 0
		}
		if len(candidates) > keep {
			candidates = candidates[:keep]
		}
	}

	v := &Vocabulary{
		stoi: make(map[string]int32, len(candidates)+2),
		itos: make([]string, 0, len(candidates)+2),
	}
	v.itos = append(v.itos, UnkToken, PadToken)
	v.stoi[UnkToken] = UnkIndex
	v.stoi[PadToken] = PadIndex
	for _, tok := range candidates {
		v.stoi[tok] = int32(len(v.itos))
		v.itos = append(v.itos, tok)
	}
	return v
}

// Size returns the number of entries including the special tokens.
func (v *Vocabulary) Size() int {
	return len(v.itos)
}

// Index returns the index for a token, or UnkIndex for out-of-vocabulary
// tokens.
func (v *Vocabulary) Index(token string) int32 {
	if idx, ok := v.stoi[token]; ok {
		return idx
	}
	return UnkIndex
}

// Token returns the token at an index. Panics if the index is out of
// range.
func (v *Vocabulary) Token(index int32) string {
	return v.itos[index]
}

// Encode maps every token to its index, with out-of-vocabulary tokens
// mapping to UnkIndex.
func (v *Vocabulary) Encode(tokens []string) []int32 {
	indices := make([]int32, len(tokens))
	for i, tok := range tokens {
		indices[i] = v.Index(tok)
	}
	return indices
}
