package train

import (
	"math"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/text"
)

// Predictor runs single-sentence inference against a trained model.
//
// Tokens absent from the vocabulary map to the reserved <unk> index. An
// empty or all-whitespace sentence is encoded as a single <pad> token,
// so it still produces a finite probability.
type Predictor struct {
	model     Model
	tokenizer text.Tokenizer
	vocab     *text.Vocabulary
	backend   *autodiff.Backend
}

// NewPredictor creates a predictor over a trained model and the
// vocabulary it was trained with.
func NewPredictor(model Model, tokenizer text.Tokenizer, vocab *text.Vocabulary, backend *autodiff.Backend) *Predictor {
	return &Predictor{
		model:     model,
		tokenizer: tokenizer,
		vocab:     vocab,
		backend:   backend,
	}
}

// Predict returns the probability in [0, 1] that the sentence carries
// positive sentiment. Runs in eval mode with tape recording suspended;
// the prior recording state is restored on exit.
func (p *Predictor) Predict(sentence string) float32 {
	indices := p.vocab.Encode(p.tokenizer.Tokenize(sentence))
	if len(indices) == 0 {
		indices = []int32{text.PadIndex}
	}

	tape := p.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	input, err := tensor.FromInt32(indices, tensor.Shape{len(indices), 1}, p.backend.Device())
	if err != nil {
		panic("Predictor.Predict: " + err.Error())
	}

	logit := p.model.Forward(input, nn.ModeEval).AsFloat32()[0]
	return float32(1 / (1 + math.Exp(-float64(logit))))
}
