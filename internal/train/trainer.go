// Package train drives training and evaluation epochs over prepared
// batches and exposes single-sentence inference.
package train

import (
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/data"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/nn"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/optim"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// Model is the forward surface the driver needs. *model.Classifier
// satisfies it; tests substitute fixed-logit stubs to pin down the
// metric arithmetic.
type Model interface {
	Forward(indices *tensor.Tensor, mode nn.Mode) *tensor.Tensor
	Parameters() []*nn.Parameter
}

// Metrics are the per-epoch averages: the sums of per-batch loss and
// accuracy divided by the number of batches. Batches are weighted
// equally regardless of size, so a smaller trailing batch counts as
// much as a full one.
type Metrics struct {
	Loss     float32
	Accuracy float32
}

// Trainer runs training and evaluation passes over one model.
//
// The backend must be the autodiff decorator the model was built over:
// the trainer owns its tape for the duration of each pass and restores
// the previous recording state when the pass exits, panic included.
type Trainer struct {
	model     Model
	loss      *nn.BCEWithLogitsLoss
	optimizer optim.Optimizer
	backend   *autodiff.Backend
}

// NewTrainer creates a trainer over the given model and optimizer.
func NewTrainer(model Model, optimizer optim.Optimizer, backend *autodiff.Backend) *Trainer {
	return &Trainer{
		model:     model,
		loss:      nn.NewBCEWithLogitsLoss(backend),
		optimizer: optimizer,
		backend:   backend,
	}
}

// TrainEpoch runs one pass over the batches with gradient updates.
//
// Per batch: zero the gradients, record the forward pass and loss,
// backpropagate, step the optimizer, and accumulate loss and accuracy.
// A panic anywhere in the batch computation aborts the pass; there is
// no retry or skip. Panics on an empty batch list.
func (t *Trainer) TrainEpoch(batches []*data.Batch) Metrics {
	if len(batches) == 0 {
		panic("train.TrainEpoch: no batches")
	}

	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		} else {
			tape.StopRecording()
		}
		tape.Clear()
	}()

	var lossSum, accSum float32
	for _, batch := range batches {
		t.optimizer.ZeroGrad()
		tape.Clear()
		tape.StartRecording()

		logits := t.model.Forward(batch.Indices, nn.ModeTrain)
		loss := t.loss.Forward(logits, batch.Labels)

		tape.StopRecording()
		grads := tape.Backward(tensor.Scalar(1, t.backend.Device()), t.backend.Inner())
		t.optimizer.Step(grads)

		lossSum += loss.AsFloat32()[0]
		accSum += nn.BinaryAccuracy(logits, batch.Labels)
	}

	n := float32(len(batches))
	return Metrics{Loss: lossSum / n, Accuracy: accSum / n}
}

// Evaluate runs one pass over the batches without touching parameters:
// no tape recording, no optimizer step, dropout off. The recording
// state in effect at entry is restored on exit, including on panic.
// Panics on an empty batch list.
func (t *Trainer) Evaluate(batches []*data.Batch) Metrics {
	if len(batches) == 0 {
		panic("train.Evaluate: no batches")
	}

	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	var lossSum, accSum float32
	for _, batch := range batches {
		logits := t.model.Forward(batch.Indices, nn.ModeEval)
		loss := t.loss.Forward(logits, batch.Labels)

		lossSum += loss.AsFloat32()[0]
		accSum += nn.BinaryAccuracy(logits, batch.Labels)
	}

	n := float32(len(batches))
	return Metrics{Loss: lossSum / n, Accuracy: accSum / n}
}
