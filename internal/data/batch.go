package data

import (
	"math/rand"
	"sort"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/text"
)

// Batch is one rectangular training batch.
//
// Indices is time-major: shape [T, B] int32, where row t holds the t-th
// token of every sequence in the batch, padded with text.PadIndex past
// each sequence's end. Labels is [B, 1] float32, aligned with the logits
// the classifier head produces.
type Batch struct {
	Indices *tensor.Tensor // [T, B] int32
	Labels  *tensor.Tensor // [B, 1] float32
	Size    int            // number of examples B
}

// SeqLen returns T, the padded sequence length of this batch.
func (b *Batch) SeqLen() int {
	return b.Indices.Shape()[0]
}

type encoded struct {
	indices []int32
	label   float32
}

// MakeBatches tokenizes and encodes every example and groups the results
// into padded batches of at most batchSize examples.
//
// Examples are bucketed by length (sorted ascending) before grouping, so
// sequences in the same batch have similar lengths and padding waste
// stays small. The final batch may be smaller than batchSize. Batch
// order is then shuffled with rng so bucketing does not impose a
// length-based curriculum; a nil rng keeps the sorted order.
//
// An example whose text tokenizes to nothing is encoded as a single
// <pad> token so every sequence has at least one timestep.
func MakeBatches(ds *Dataset, tok text.Tokenizer, vocab *text.Vocabulary, batchSize int, rng *rand.Rand) []*Batch {
	if batchSize < 1 {
		panic("data.MakeBatches: batchSize must be >= 1")
	}

	seqs := make([]encoded, 0, ds.Len())
	for _, ex := range ds.Examples {
		indices := vocab.Encode(tok.Tokenize(ex.Text))
		if len(indices) == 0 {
			indices = []int32{text.PadIndex}
		}
		seqs = append(seqs, encoded{indices: indices, label: ex.Label})
	}

	sort.SliceStable(seqs, func(i, j int) bool {
		return len(seqs[i].indices) < len(seqs[j].indices)
	})

	batches := make([]*Batch, 0, (len(seqs)+batchSize-1)/batchSize)
	for start := 0; start < len(seqs); start += batchSize {
		end := start + batchSize
		if end > len(seqs) {
			end = len(seqs)
		}
		batches = append(batches, buildBatch(seqs[start:end]))
	}

	if rng != nil {
		rng.Shuffle(len(batches), func(i, j int) {
			batches[i], batches[j] = batches[j], batches[i]
		})
	}
	return batches
}

func buildBatch(seqs []encoded) *Batch {
	B := len(seqs)
	T := 0
	for _, s := range seqs {
		if len(s.indices) > T {
			T = len(s.indices)
		}
	}

	indices := make([]int32, T*B)
	for i := range indices {
		indices[i] = text.PadIndex
	}
	labels := make([]float32, B)

	for b, s := range seqs {
		for t, idx := range s.indices {
			indices[t*B+b] = idx
		}
		labels[b] = s.label
	}

	idxTensor, err := tensor.FromInt32(indices, tensor.Shape{T, B}, tensor.CPU)
	if err != nil {
		panic("data.buildBatch: " + err.Error())
	}
	labelTensor, err := tensor.FromFloat32(labels, tensor.Shape{B, 1}, tensor.CPU)
	if err != nil {
		panic("data.buildBatch: " + err.Error())
	}
	return &Batch{Indices: idxTensor, Labels: labelTensor, Size: B}
}
