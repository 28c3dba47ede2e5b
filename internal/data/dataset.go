// Package data loads labeled review datasets and turns them into padded,
// bucketed training batches.
package data

import (
	"bufio"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Example is a single labeled review.
type Example struct {
	Label float32 // 0 = negative, 1 = positive
	Text  string
}

// Dataset is an ordered collection of labeled examples.
type Dataset struct {
	Examples []Example
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// LoadTSV reads a dataset from a tab-separated file with one example per
// line: `label<TAB>text`. Labels may be "0"/"1" or "neg"/"pos". Blank
// lines are skipped.
func LoadTSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	ds := &Dataset{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		label, text, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, errors.Errorf("line %d: expected label<TAB>text", lineNo)
		}

		value, err := parseLabel(label)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		ds.Examples = append(ds.Examples, Example{Label: value, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read dataset")
	}
	return ds, nil
}

func parseLabel(s string) (float32, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "neg", "negative":
		return 0, nil
	case "1", "pos", "positive":
		return 1, nil
	default:
		return 0, errors.Errorf("unknown label %q", s)
	}
}

// Split partitions the dataset into train/validation/test subsets.
//
// Examples are shuffled with the given seed before splitting, so the
// same seed always yields the same partition. trainFrac and validFrac
// must be positive and sum to less than 1; the remainder becomes the
// test set.
func (d *Dataset) Split(trainFrac, validFrac float64, seed int64) (train, valid, test *Dataset, err error) {
	if trainFrac <= 0 || validFrac <= 0 || trainFrac+validFrac >= 1 {
		return nil, nil, nil, errors.Errorf(
			"invalid split fractions train=%.2f valid=%.2f", trainFrac, validFrac)
	}

	shuffled := make([]Example, len(d.Examples))
	copy(shuffled, d.Examples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTrain := int(float64(len(shuffled)) * trainFrac)
	nValid := int(float64(len(shuffled)) * validFrac)

	train = &Dataset{Examples: shuffled[:nTrain]}
	valid = &Dataset{Examples: shuffled[nTrain : nTrain+nValid]}
	test = &Dataset{Examples: shuffled[nTrain+nValid:]}
	return train, valid, test, nil
}
