package rnn

import (
	"math"
	"math/rand"

	"github.com/loquilabs/loqui/vocab"
)

// Model is the full network. All fields are exported for gob encoding; treat
// them as read-only outside this package.
type Model struct {
	HParams HParams
	Embed   *Embedding
	LSTM1   *LSTM
	LSTM2   *LSTM
	Dense1  *Dense
	Out     *Dense
}

// NewModel builds a network with freshly initialized weights. The same
// hyperparameters and seed always produce the same weights: embeddings are
// uniform(-0.05, 0.05), kernels Glorot-uniform, biases zero except the LSTM
// forget gates which start at 1.
func NewModel(hp HParams, seed int64) (*Model, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	return &Model{
		HParams: hp,
		Embed:   newEmbedding(rng, hp.VocabSize, hp.EmbeddingSize),
		LSTM1:   newLSTM(rng, hp.EmbeddingSize, hp.LSTMSize1),
		LSTM2:   newLSTM(rng, hp.LSTMSize1, hp.LSTMSize2),
		Dense1:  newDense(rng, hp.LSTMSize2, hp.DenseSize),
		Out:     newDense(rng, hp.DenseSize, hp.NumClasses),
	}, nil
}

// Predict returns class probabilities for an id sequence, dropout disabled.
// The sequence is padded or truncated to the model's context size first, the
// same shaping the training data gets.
func (m *Model) Predict(seq []int) []float64 {
	return softmax(m.logits(seq))
}

func (m *Model) logits(seq []int) []float64 {
	if len(seq) != m.HParams.ContextSize {
		seq = vocab.PadSequence(seq, m.HParams.ContextSize)
	}
	xs := m.Embed.Forward(seq)
	t1 := m.LSTM1.Forward(xs)
	t2 := m.LSTM2.Forward(t1.Outputs())
	a := relu(m.Dense1.Forward(t2.Last()))
	return m.Out.Forward(a)
}

// grads pairs a gradient buffer with every parameter tensor of a model.
type grads struct {
	embed  [][]float64
	lstm1  *lstmGrads
	lstm2  *lstmGrads
	dense1 *denseGrads
	out    *denseGrads
}

func newGrads(m *Model) *grads {
	return &grads{
		embed:  mat(len(m.Embed.Table), len(m.Embed.Table[0])),
		lstm1:  newLSTMGrads(m.LSTM1),
		lstm2:  newLSTMGrads(m.LSTM2),
		dense1: newDenseGrads(m.Dense1),
		out:    newDenseGrads(m.Out),
	}
}

// rows returns every parameter row in a fixed order. grads.rows uses the same
// order, which is what lets the optimizer walk them in lockstep.
func (m *Model) rows() [][]float64 {
	var rows [][]float64
	rows = append(rows, m.Embed.Table...)
	rows = append(rows, m.LSTM1.W...)
	rows = append(rows, m.LSTM1.U...)
	rows = append(rows, m.LSTM1.B)
	rows = append(rows, m.LSTM2.W...)
	rows = append(rows, m.LSTM2.U...)
	rows = append(rows, m.LSTM2.B)
	rows = append(rows, m.Dense1.W...)
	rows = append(rows, m.Dense1.B)
	rows = append(rows, m.Out.W...)
	rows = append(rows, m.Out.B)
	return rows
}

func (g *grads) rows() [][]float64 {
	var rows [][]float64
	rows = append(rows, g.embed...)
	rows = append(rows, g.lstm1.w...)
	rows = append(rows, g.lstm1.u...)
	rows = append(rows, g.lstm1.b)
	rows = append(rows, g.lstm2.w...)
	rows = append(rows, g.lstm2.u...)
	rows = append(rows, g.lstm2.b)
	rows = append(rows, g.dense1.w...)
	rows = append(rows, g.dense1.b)
	rows = append(rows, g.out.w...)
	rows = append(rows, g.out.b)
	return rows
}

// TrainBatch runs forward and backward over one minibatch and applies a
// single optimizer update. Each xs row is a padded id sequence of context
// length, each ys row a one-hot target. The rng drives dropout masks; nil
// disables dropout. Returns the mean cross-entropy loss at the pre-update
// weights.
func (m *Model) TrainBatch(opt *Adam, xs [][]int, ys [][]float64, rng *rand.Rand) float64 {
	g := newGrads(m)
	var loss float64
	for b := range xs {
		loss += m.backprop(xs[b], ys[b], rng, g)
	}

	inv := 1 / float64(len(xs))
	for _, row := range g.rows() {
		for j := range row {
			row[j] *= inv
		}
	}
	opt.Step(m.rows(), g.rows())
	return loss * inv
}

// backprop accumulates one example's gradients into g and returns its loss.
func (m *Model) backprop(seq []int, y []float64, rng *rand.Rand, g *grads) float64 {
	xs := m.Embed.Forward(seq)
	t1 := m.LSTM1.Forward(xs)
	t2 := m.LSTM2.Forward(t1.Outputs())
	h := t2.Last()
	z1 := m.Dense1.Forward(h)
	a1 := relu(z1)
	dropped, mask := dropoutMask(a1, m.HParams.Dropout, rng)
	z2 := m.Out.Forward(dropped)

	// Cross-entropy straight from the logits; the combined softmax gradient
	// is p - y.
	lse := logSumExp(z2)
	var loss float64
	dz2 := make([]float64, len(z2))
	for k, zk := range z2 {
		dz2[k] = math.Exp(zk-lse) - y[k]
		if y[k] != 0 {
			loss += y[k] * (lse - zk)
		}
	}

	dDropped := m.Out.Backward(dropped, dz2, g.out)
	dz1 := make([]float64, len(dDropped))
	for u, v := range dDropped {
		if mask != nil {
			v *= mask[u]
		}
		if z1[u] > 0 {
			dz1[u] = v
		}
	}
	dh := m.Dense1.Backward(h, dz1, g.dense1)

	dh2 := make([][]float64, len(t2.steps))
	dh2[len(dh2)-1] = dh
	dx2 := m.LSTM2.Backward(t2, dh2, g.lstm2)
	dx1 := m.LSTM1.Backward(t1, dx2, g.lstm1)
	m.Embed.Backward(seq, dx1, g.embed)
	return loss
}

// dropoutMask applies inverted dropout: kept units are scaled by 1/(1-p) so
// the expected activation is unchanged. A nil rng or zero rate disables
// dropout, returning the input unchanged with a nil mask.
func dropoutMask(a []float64, p float64, rng *rand.Rand) (out, mask []float64) {
	if p == 0 || rng == nil {
		return a, nil
	}
	out = make([]float64, len(a))
	mask = make([]float64, len(a))
	scale := 1 / (1 - p)
	for u, v := range a {
		if rng.Float64() >= p {
			mask[u] = scale
			out[u] = v * scale
		}
	}
	return out, mask
}
