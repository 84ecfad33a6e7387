package rnn

import (
	"math"
	"math/rand"
)

// Embedding maps word ids to dense vectors. Row 0 belongs to the padding id
// and is trained like any other row.
type Embedding struct {
	Table [][]float64 // VocabSize x EmbeddingSize
}

func newEmbedding(rng *rand.Rand, vocabSize, dim int) *Embedding {
	return &Embedding{Table: uniform(rng, vocabSize, dim, 0.05)}
}

// Forward gathers the table rows for the given ids. The rows are shared with
// the table and must not be mutated.
func (e *Embedding) Forward(ids []int) [][]float64 {
	xs := make([][]float64, len(ids))
	for t, id := range ids {
		xs[t] = e.Table[id]
	}
	return xs
}

// Backward scatters per-timestep input gradients back onto the gathered rows.
func (e *Embedding) Backward(ids []int, dx [][]float64, grad [][]float64) {
	for t, id := range ids {
		row := grad[id]
		for j, v := range dx[t] {
			row[j] += v
		}
	}
}

// Dense is a fully connected layer computing W*x + B. Activations are applied
// by the caller.
type Dense struct {
	W [][]float64 // Units x InputSize
	B []float64   // Units
}

func newDense(rng *rand.Rand, inputSize, units int) *Dense {
	return &Dense{
		W: glorotUniform(rng, units, inputSize, inputSize, units),
		B: make([]float64, units),
	}
}

// Forward returns W*x + B.
func (d *Dense) Forward(x []float64) []float64 {
	z := make([]float64, len(d.B))
	for u, row := range d.W {
		sum := d.B[u]
		for j, w := range row {
			sum += w * x[j]
		}
		z[u] = sum
	}
	return z
}

type denseGrads struct {
	w [][]float64
	b []float64
}

func newDenseGrads(d *Dense) *denseGrads {
	return &denseGrads{w: mat(len(d.W), len(d.W[0])), b: make([]float64, len(d.B))}
}

// Backward accumulates weight gradients for one example and returns the
// gradient with respect to the input x.
func (d *Dense) Backward(x, dz []float64, g *denseGrads) []float64 {
	dx := make([]float64, len(x))
	for u, row := range d.W {
		gu := dz[u]
		g.b[u] += gu
		grow := g.w[u]
		for j, w := range row {
			grow[j] += gu * x[j]
			dx[j] += gu * w
		}
	}
	return dx
}

// LSTM is a standard long short-term memory layer. The stacked weight rows
// hold the four gates in the order input, forget, candidate, output, so row
// blocks [0,U), [U,2U), [2U,3U), [3U,4U) belong to gates i, f, g, o.
type LSTM struct {
	Units int
	W     [][]float64 // 4*Units x InputSize
	U     [][]float64 // 4*Units x Units
	B     []float64   // 4*Units, forget block initialized to 1
}

func newLSTM(rng *rand.Rand, inputSize, units int) *LSTM {
	l := &LSTM{
		Units: units,
		W:     glorotUniform(rng, 4*units, inputSize, inputSize, 4*units),
		U:     glorotUniform(rng, 4*units, units, units, 4*units),
		B:     make([]float64, 4*units),
	}
	for u := units; u < 2*units; u++ {
		l.B[u] = 1
	}
	return l
}

// lstmStep caches one timestep's forward values for backpropagation.
type lstmStep struct {
	x, hPrev, cPrev []float64
	i, f, g, o      []float64
	c, tanhC        []float64
	h               []float64
}

// lstmTape is the forward pass over a full sequence.
type lstmTape struct {
	steps []lstmStep
}

// Outputs returns h_t for every timestep.
func (t *lstmTape) Outputs() [][]float64 {
	hs := make([][]float64, len(t.steps))
	for i := range t.steps {
		hs[i] = t.steps[i].h
	}
	return hs
}

// Last returns the final hidden state.
func (t *lstmTape) Last() []float64 {
	return t.steps[len(t.steps)-1].h
}

// Forward runs the cell over the sequence of input vectors, starting from
// zero hidden and cell state.
func (l *LSTM) Forward(xs [][]float64) *lstmTape {
	n := l.Units
	hPrev := make([]float64, n)
	cPrev := make([]float64, n)

	tape := &lstmTape{steps: make([]lstmStep, len(xs))}
	for t, x := range xs {
		// z = W*x + U*hPrev + B, all four gate blocks at once.
		z := make([]float64, 4*n)
		for u := range z {
			sum := l.B[u]
			for j, w := range l.W[u] {
				sum += w * x[j]
			}
			for j, w := range l.U[u] {
				sum += w * hPrev[j]
			}
			z[u] = sum
		}

		step := lstmStep{
			x:     x,
			hPrev: hPrev,
			cPrev: cPrev,
			i:     make([]float64, n),
			f:     make([]float64, n),
			g:     make([]float64, n),
			o:     make([]float64, n),
			c:     make([]float64, n),
			tanhC: make([]float64, n),
			h:     make([]float64, n),
		}
		for u := 0; u < n; u++ {
			step.i[u] = sigmoid(z[u])
			step.f[u] = sigmoid(z[n+u])
			step.g[u] = math.Tanh(z[2*n+u])
			step.o[u] = sigmoid(z[3*n+u])
			step.c[u] = step.f[u]*cPrev[u] + step.i[u]*step.g[u]
			step.tanhC[u] = math.Tanh(step.c[u])
			step.h[u] = step.o[u] * step.tanhC[u]
		}
		tape.steps[t] = step
		hPrev = step.h
		cPrev = step.c
	}
	return tape
}

type lstmGrads struct {
	w, u [][]float64
	b    []float64
}

func newLSTMGrads(l *LSTM) *lstmGrads {
	return &lstmGrads{
		w: mat(len(l.W), len(l.W[0])),
		u: mat(len(l.U), len(l.U[0])),
		b: make([]float64, len(l.B)),
	}
}

// Backward runs backpropagation through time. dh holds the gradient flowing
// into each timestep's output; a nil entry means no gradient at that step.
// Weight gradients accumulate into g and the per-timestep input gradients are
// returned.
func (l *LSTM) Backward(tape *lstmTape, dh [][]float64, g *lstmGrads) [][]float64 {
	n := l.Units
	T := len(tape.steps)
	dxs := make([][]float64, T)

	dhNext := make([]float64, n)
	dcNext := make([]float64, n)
	for t := T - 1; t >= 0; t-- {
		step := &tape.steps[t]

		dhT := make([]float64, n)
		copy(dhT, dhNext)
		if dh[t] != nil {
			for u, v := range dh[t] {
				dhT[u] += v
			}
		}

		// Gate pre-activation gradients, stacked like the weights.
		dz := make([]float64, 4*n)
		dcPrev := make([]float64, n)
		for u := 0; u < n; u++ {
			do := dhT[u] * step.tanhC[u]
			dc := dcNext[u] + dhT[u]*step.o[u]*(1-step.tanhC[u]*step.tanhC[u])
			di := dc * step.g[u]
			df := dc * step.cPrev[u]
			dg := dc * step.i[u]

			dz[u] = di * step.i[u] * (1 - step.i[u])
			dz[n+u] = df * step.f[u] * (1 - step.f[u])
			dz[2*n+u] = dg * (1 - step.g[u]*step.g[u])
			dz[3*n+u] = do * step.o[u] * (1 - step.o[u])

			dcPrev[u] = dc * step.f[u]
		}

		dx := make([]float64, len(step.x))
		dhPrev := make([]float64, n)
		for u, gu := range dz {
			if gu == 0 {
				continue
			}
			g.b[u] += gu
			gw := g.w[u]
			for j, x := range step.x {
				gw[j] += gu * x
				dx[j] += gu * l.W[u][j]
			}
			gu2 := g.u[u]
			for j, h := range step.hPrev {
				gu2[j] += gu * h
				dhPrev[j] += gu * l.U[u][j]
			}
		}

		dxs[t] = dx
		dhNext = dhPrev
		dcNext = dcPrev
	}
	return dxs
}
