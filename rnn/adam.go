package rnn

import "math"

// Adam holds the optimizer state: exponential moving averages of gradients
// and squared gradients for every parameter row.
type Adam struct {
	LR      float64
	Beta1   float64
	Beta2   float64
	Epsilon float64

	t    int
	m, v [][]float64
}

// NewAdam returns an optimizer with the standard moment decay rates
// (0.9, 0.999) and epsilon 1e-7.
func NewAdam(lr float64) *Adam {
	return &Adam{LR: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

// Step applies one bias-corrected update to params in place. grads must be
// row-aligned with params; moment buffers are sized on first use, so an Adam
// value must stay with one model.
func (a *Adam) Step(params, grads [][]float64) {
	if a.m == nil {
		a.m = make([][]float64, len(params))
		a.v = make([][]float64, len(params))
		for i, row := range params {
			a.m[i] = make([]float64, len(row))
			a.v[i] = make([]float64, len(row))
		}
	}

	a.t++
	c1 := 1 - math.Pow(a.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.Beta2, float64(a.t))
	for i, row := range params {
		m, v, g := a.m[i], a.v[i], grads[i]
		for j := range row {
			m[j] = a.Beta1*m[j] + (1-a.Beta1)*g[j]
			v[j] = a.Beta2*v[j] + (1-a.Beta2)*g[j]*g[j]
			row[j] -= a.LR * (m[j] / c1) / (math.Sqrt(v[j]/c2) + a.Epsilon)
		}
	}
}
