package rnn

import (
	"math"
	"math/rand"
)

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax returns the normalized exponentials of z, shifted by the max for
// stability.
func softmax(z []float64) []float64 {
	max := z[0]
	for _, v := range z {
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		e := math.Exp(v - max)
		out[i] = e
		sum += e
	}

	invSum := 1 / sum
	for i := range out {
		out[i] *= invSum
	}
	return out
}

// logSumExp computes log(sum(exp(z))) without overflow.
func logSumExp(z []float64) float64 {
	max := z[0]
	for _, v := range z {
		if v > max {
			max = v
		}
	}
	var sum float64
	for _, v := range z {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum)
}

// relu returns max(0, z) elementwise.
func relu(z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// mat allocates a zeroed rows x cols matrix.
func mat(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// glorotUniform fills a rows x cols matrix with draws from
// uniform(-limit, limit) where limit = sqrt(6 / (fanIn + fanOut)).
func glorotUniform(rng *rand.Rand, rows, cols, fanIn, fanOut int) [][]float64 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	m := mat(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = rng.Float64()*2*limit - limit
		}
	}
	return m
}

// uniform fills a rows x cols matrix with draws from uniform(-scale, scale).
func uniform(rng *rand.Rand, rows, cols int, scale float64) [][]float64 {
	m := mat(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = rng.Float64()*2*scale - scale
		}
	}
	return m
}
