package nn

import (
	"fmt"
	"math/rand"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
)

// LSTM implements a multi-layer, optionally bidirectional long short-term
// memory sequence encoder.
//
// The input is a sequence of T timestep tensors, each [batch, in_features].
// Each layer runs an independent cell per direction; a bidirectional layer
// concatenates the forward and backward cell outputs at every timestep, so
// subsequent layers see inputs of width 2*hidden. When dropout > 0 it is
// applied between layers (never after the last layer), matching the usual
// stacked-LSTM convention.
//
// Final returns the concatenation of the last forward hidden state (after
// timestep T-1) and the last backward hidden state (after timestep 0),
// both from the top layer: shape [batch, directions*hidden].
type LSTM struct {
	inputSize     int
	hiddenSize    int
	numLayers     int
	bidirectional bool
	dropout       *Dropout // nil when dropout probability is 0
	cells         [][]*lstmCell
	backend       tensor.Backend
}

// lstmCell holds the weights for one direction of one layer.
//
// Gates use separate weight matrices rather than a fused [4H, in] block:
// gate = act(x @ Wx.T + h @ Wh.T + b), with sigmoid for the input, forget
// and output gates and tanh for the candidate.
type lstmCell struct {
	hiddenSize int
	wx         [4]*Parameter // [hidden, in] per gate: input, forget, candidate, output
	wh         [4]*Parameter // [hidden, hidden] per gate
	bias       [4]*Parameter // [1, hidden] per gate
	backend    tensor.Backend
}

const (
	gateInput = iota
	gateForget
	gateCandidate
	gateOutput
	numGates
)

var gateNames = [numGates]string{"i", "f", "g", "o"}

func newLSTMCell(name string, inputSize, hiddenSize int, rng *rand.Rand, backend tensor.Backend) *lstmCell {
	c := &lstmCell{hiddenSize: hiddenSize, backend: backend}
	device := backend.Device()
	for g := 0; g < numGates; g++ {
		c.wx[g] = NewParameter(
			fmt.Sprintf("%s.wx_%s", name, gateNames[g]),
			Xavier(inputSize, hiddenSize, tensor.Shape{hiddenSize, inputSize}, rng, device),
		)
		c.wh[g] = NewParameter(
			fmt.Sprintf("%s.wh_%s", name, gateNames[g]),
			Xavier(hiddenSize, hiddenSize, tensor.Shape{hiddenSize, hiddenSize}, rng, device),
		)
		c.bias[g] = NewParameter(
			fmt.Sprintf("%s.b_%s", name, gateNames[g]),
			Zeros(tensor.Shape{1, hiddenSize}, device),
		)
	}
	return c
}

// step advances the cell by one timestep.
//
// x: [batch, in], h and cell: [batch, hidden].
// Returns the new hidden and cell states, both [batch, hidden].
func (c *lstmCell) step(x, h, cell *tensor.Tensor) (*tensor.Tensor, *tensor.Tensor) {
	b := c.backend

	pre := func(g int) *tensor.Tensor {
		xw := b.MatMul(x, b.Transpose(c.wx[g].Tensor()))
		hw := b.MatMul(h, b.Transpose(c.wh[g].Tensor()))
		return b.Add(b.Add(xw, hw), c.bias[g].Tensor())
	}

	i := b.Sigmoid(pre(gateInput))
	f := b.Sigmoid(pre(gateForget))
	g := b.Tanh(pre(gateCandidate))
	o := b.Sigmoid(pre(gateOutput))

	cellNew := b.Add(b.Mul(f, cell), b.Mul(i, g))
	hNew := b.Mul(o, b.Tanh(cellNew))
	return hNew, cellNew
}

func (c *lstmCell) parameters() []*Parameter {
	params := make([]*Parameter, 0, 3*numGates)
	for g := 0; g < numGates; g++ {
		params = append(params, c.wx[g], c.wh[g], c.bias[g])
	}
	return params
}

// NewLSTM creates a stacked LSTM encoder.
//
// inputSize is the width of the timestep inputs to the first layer,
// hiddenSize the per-direction hidden width. dropout is the drop
// probability applied between layers (0 disables it).
func NewLSTM(inputSize, hiddenSize, numLayers int, bidirectional bool, dropout float32, rng *rand.Rand, backend tensor.Backend) *LSTM {
	if numLayers < 1 {
		panic(fmt.Sprintf("NewLSTM: numLayers must be >= 1, got %d", numLayers))
	}

	directions := 1
	if bidirectional {
		directions = 2
	}

	l := &LSTM{
		inputSize:     inputSize,
		hiddenSize:    hiddenSize,
		numLayers:     numLayers,
		bidirectional: bidirectional,
		cells:         make([][]*lstmCell, numLayers),
		backend:       backend,
	}
	if dropout > 0 && numLayers > 1 {
		l.dropout = NewDropout(dropout, rng, backend)
	}

	for layer := 0; layer < numLayers; layer++ {
		in := inputSize
		if layer > 0 {
			in = directions * hiddenSize
		}
		l.cells[layer] = make([]*lstmCell, directions)
		for dir := 0; dir < directions; dir++ {
			name := fmt.Sprintf("lstm.l%d.d%d", layer, dir)
			l.cells[layer][dir] = newLSTMCell(name, in, hiddenSize, rng, backend)
		}
	}
	return l
}

// OutputDim returns the width of the encoder output: hidden for a
// unidirectional encoder, 2*hidden for a bidirectional one.
func (l *LSTM) OutputDim() int {
	if l.bidirectional {
		return 2 * l.hiddenSize
	}
	return l.hiddenSize
}

// runDirection unrolls one cell over the sequence. reverse selects the
// backward direction (timesteps visited T-1..0, outputs returned in
// original time order). The second return value is the hidden state after
// the direction's last visited timestep.
func (l *LSTM) runDirection(cell *lstmCell, inputs []*tensor.Tensor, reverse bool) ([]*tensor.Tensor, *tensor.Tensor) {
	T := len(inputs)
	batch := inputs[0].Shape()[0]
	device := l.backend.Device()

	h := tensor.Zeros(tensor.Shape{batch, l.hiddenSize}, device)
	c := tensor.Zeros(tensor.Shape{batch, l.hiddenSize}, device)

	outputs := make([]*tensor.Tensor, T)
	for step := 0; step < T; step++ {
		t := step
		if reverse {
			t = T - 1 - step
		}
		h, c = cell.step(inputs[t], h, c)
		outputs[t] = h
	}
	return outputs, h
}

// Encode runs the full stack over a sequence of timestep inputs.
//
// inputs: T tensors of shape [batch, in_features].
// Returns the top layer's per-timestep outputs (T tensors of shape
// [batch, directions*hidden]) and the final hidden state
// [batch, directions*hidden].
//
// Panics on an empty sequence.
func (l *LSTM) Encode(inputs []*tensor.Tensor, mode Mode) ([]*tensor.Tensor, *tensor.Tensor) {
	if len(inputs) == 0 {
		panic("LSTM.Encode: empty input sequence")
	}

	layerIn := inputs
	var final *tensor.Tensor

	for layer := 0; layer < l.numLayers; layer++ {
		if layer > 0 && l.dropout != nil {
			dropped := make([]*tensor.Tensor, len(layerIn))
			for t, x := range layerIn {
				dropped[t] = l.dropout.Forward(x, mode)
			}
			layerIn = dropped
		}

		fwdOut, fwdLast := l.runDirection(l.cells[layer][0], layerIn, false)
		if !l.bidirectional {
			layerIn = fwdOut
			final = fwdLast
			continue
		}

		bwdOut, bwdLast := l.runDirection(l.cells[layer][1], layerIn, true)
		merged := make([]*tensor.Tensor, len(layerIn))
		for t := range layerIn {
			merged[t] = l.backend.Cat([]*tensor.Tensor{fwdOut[t], bwdOut[t]}, 1)
		}
		layerIn = merged
		final = l.backend.Cat([]*tensor.Tensor{fwdLast, bwdLast}, 1)
	}

	return layerIn, final
}

// Parameters returns every gate weight and bias across all layers and
// directions.
func (l *LSTM) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range l.cells {
		for _, cell := range layer {
			params = append(params, cell.parameters()...)
		}
	}
	return params
}
