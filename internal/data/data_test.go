package data

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/text"
)

func writeTSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTSV(t *testing.T) {
	path := writeTSV(t, "1\tgreat movie\n0\tterrible film\n\npos\tloved it\n")

	ds, err := LoadTSV(path)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.Equal(t, float32(1), ds.Examples[0].Label)
	assert.Equal(t, "great movie", ds.Examples[0].Text)
	assert.Equal(t, float32(0), ds.Examples[1].Label)
	assert.Equal(t, float32(1), ds.Examples[2].Label)
}

func TestLoadTSVBadLabel(t *testing.T) {
	path := writeTSV(t, "1\tfine\nmaybe\tbroken\n")

	_, err := LoadTSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadTSVMissingTab(t *testing.T) {
	path := writeTSV(t, "no tab here\n")

	_, err := LoadTSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label<TAB>text")
}

func TestLoadTSVMissingFile(t *testing.T) {
	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestSplitDeterministicAndDisjoint(t *testing.T) {
	ds := &Dataset{}
	for i := 0; i < 100; i++ {
		label := float32(i % 2)
		ds.Examples = append(ds.Examples, Example{Label: label, Text: string(rune('a' + i%26))})
	}

	train1, valid1, test1, err := ds.Split(0.7, 0.15, 42)
	require.NoError(t, err)
	train2, valid2, test2, err := ds.Split(0.7, 0.15, 42)
	require.NoError(t, err)

	assert.Equal(t, 70, train1.Len())
	assert.Equal(t, 15, valid1.Len())
	assert.Equal(t, 15, test1.Len())
	assert.Equal(t, train1.Examples, train2.Examples)
	assert.Equal(t, valid1.Examples, valid2.Examples)
	assert.Equal(t, test1.Examples, test2.Examples)

	other, _, _, err := ds.Split(0.7, 0.15, 7)
	require.NoError(t, err)
	assert.NotEqual(t, train1.Examples, other.Examples)
}

func TestSplitInvalidFractions(t *testing.T) {
	ds := &Dataset{Examples: make([]Example, 10)}

	_, _, _, err := ds.Split(0.9, 0.2, 1)
	assert.Error(t, err)
	_, _, _, err = ds.Split(0, 0.2, 1)
	assert.Error(t, err)
}

func testVocab() (*text.WordTokenizer, *text.Vocabulary) {
	tok := text.NewWordTokenizer()
	docs := [][]string{
		tok.Tokenize("good movie"),
		tok.Tokenize("bad movie"),
		tok.Tokenize("great long wonderful film"),
	}
	return tok, text.BuildVocabulary(docs, text.VocabConfig{})
}

func TestMakeBatchesPadsAndShapes(t *testing.T) {
	tok, vocab := testVocab()
	ds := &Dataset{Examples: []Example{
		{Label: 1, Text: "good movie"},
		{Label: 0, Text: "bad movie"},
		{Label: 1, Text: "great long wonderful film"},
	}}

	batches := MakeBatches(ds, tok, vocab, 2, nil)
	require.Len(t, batches, 2)

	// Length-sorted: the two 2-token reviews batch together.
	first := batches[0]
	assert.Equal(t, 2, first.Size)
	assert.Equal(t, 2, first.SeqLen())
	assert.Equal(t, tensor.Shape{2, 2}, first.Indices.Shape())
	assert.Equal(t, tensor.Shape{2, 1}, first.Labels.Shape())

	second := batches[1]
	assert.Equal(t, 1, second.Size)
	assert.Equal(t, 4, second.SeqLen())
}

func TestMakeBatchesTimeMajorLayout(t *testing.T) {
	tok, vocab := testVocab()
	ds := &Dataset{Examples: []Example{
		{Label: 1, Text: "good movie"},
		{Label: 0, Text: "bad"},
	}}

	batches := MakeBatches(ds, tok, vocab, 2, nil)
	require.Len(t, batches, 1)

	batch := batches[0]
	require.Equal(t, tensor.Shape{2, 2}, batch.Indices.Shape())

	idx := batch.Indices.AsInt32()
	// Column 0 is the shorter review ("bad"), padded at t=1.
	assert.Equal(t, vocab.Index("bad"), idx[0*2+0])
	assert.Equal(t, int32(text.PadIndex), idx[1*2+0])
	// Column 1 is "good movie".
	assert.Equal(t, vocab.Index("good"), idx[0*2+1])
	assert.Equal(t, vocab.Index("movie"), idx[1*2+1])

	labels := batch.Labels.AsFloat32()
	assert.Equal(t, []float32{0, 1}, labels)
}

func TestMakeBatchesEmptyTextGetsPadToken(t *testing.T) {
	tok, vocab := testVocab()
	ds := &Dataset{Examples: []Example{{Label: 0, Text: "   "}}}

	batches := MakeBatches(ds, tok, vocab, 4, nil)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].SeqLen())
	assert.Equal(t, int32(text.PadIndex), batches[0].Indices.AsInt32()[0])
}

func TestMakeBatchesShuffleKeepsContent(t *testing.T) {
	tok, vocab := testVocab()
	ds := &Dataset{}
	for i := 0; i < 20; i++ {
		ds.Examples = append(ds.Examples, Example{Label: float32(i % 2), Text: "good movie"})
	}

	batches := MakeBatches(ds, tok, vocab, 3, rand.New(rand.NewSource(1)))
	require.Len(t, batches, 7)

	total := 0
	for _, b := range batches {
		total += b.Size
	}
	assert.Equal(t, 20, total)
}
