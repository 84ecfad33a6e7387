package training

import (
	"math"
	"runtime"

	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/labels"
	"github.com/loquilabs/loqui/rnn"
	"github.com/loquilabs/loqui/workerpool"
)

// Evaluation summarizes model performance on a labeled set.
type Evaluation struct {
	Loss     float64
	Accuracy float64
	Correct  int
	Total    int
	// Confusion counts predictions, actual tag → predicted tag → count.
	Confusion map[string]map[string]int
}

// Evaluate scores the model on padded sequences with known label ids. The
// forward passes fan out over a worker pool (workers <= 0 means NumCPU);
// aggregation happens on the calling goroutine afterwards, so the result is
// deterministic.
func Evaluate(m *rnn.Model, enc *labels.Encoder, xs [][]int, ids []int, workers int) (Evaluation, error) {
	if len(xs) != len(ids) {
		return Evaluation{}, errors.New("got %d sequences for %d labels", len(xs), len(ids))
	}
	if len(xs) == 0 {
		return Evaluation{}, errors.New("nothing to evaluate")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	predicted := make([]int, len(xs))
	losses := make([]float64, len(xs))

	pool := workerpool.New(workers)
	defer pool.Stop()

	const chunkSize = 64
	var jobs []workerpool.Job
	for at := 0; at < len(xs); at += chunkSize {
		at := at
		end := at + chunkSize
		if end > len(xs) {
			end = len(xs)
		}
		jobs = append(jobs, func() error {
			for i := at; i < end; i++ {
				probs := m.Predict(xs[i])
				predicted[i] = argmax(probs)
				losses[i] = crossEntropy(probs, ids[i])
			}
			return nil
		})
	}
	pool.Add(jobs)
	if err := pool.Wait(); err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{Total: len(xs), Confusion: make(map[string]map[string]int)}
	for i := range xs {
		ev.Loss += losses[i]
		actual := enc.Class(ids[i])
		row := ev.Confusion[actual]
		if row == nil {
			row = make(map[string]int)
			ev.Confusion[actual] = row
		}
		row[enc.Class(predicted[i])]++
		if predicted[i] == ids[i] {
			ev.Correct++
		}
	}
	ev.Loss /= float64(ev.Total)
	ev.Accuracy = float64(ev.Correct) / float64(ev.Total)
	return ev, nil
}

// argmax returns the index of the largest value, lowest index winning ties.
func argmax(probs []float64) int {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best
}

// crossEntropy is -log of the probability assigned to the true class.
func crossEntropy(probs []float64, id int) float64 {
	return -math.Log(probs[id])
}
