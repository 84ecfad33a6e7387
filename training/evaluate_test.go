package training

import (
	"testing"

	"github.com/loquilabs/loqui/labels"
	"github.com/loquilabs/loqui/rnn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalFixture(t *testing.T) (*rnn.Model, *labels.Encoder, [][]int, []int) {
	hp := rnn.HParams{
		VocabSize:     10,
		EmbeddingSize: 6,
		ContextSize:   4,
		LSTMSize1:     5,
		LSTMSize2:     4,
		DenseSize:     4,
		NumClasses:    3,
	}
	m, err := rnn.NewModel(hp, 21)
	require.NoError(t, err)
	enc := labels.NewEncoder([]string{"a", "b", "c"})

	var xs [][]int
	var ids []int
	for i := 0; i < 150; i++ {
		xs = append(xs, []int{i % 10, (i * 3) % 10, (i * 7) % 10, 0})
		ids = append(ids, i%3)
	}
	return m, enc, xs, ids
}

func TestEvaluate(t *testing.T) {
	m, enc, xs, ids := evalFixture(t)

	ev, err := Evaluate(m, enc, xs, ids, 4)
	require.NoError(t, err)

	assert.Equal(t, len(xs), ev.Total)
	assert.True(t, ev.Accuracy >= 0 && ev.Accuracy <= 1)
	assert.Equal(t, float64(ev.Correct)/float64(ev.Total), ev.Accuracy)
	assert.Greater(t, ev.Loss, 0.0)

	// The confusion matrix accounts for every example.
	var counted int
	for _, row := range ev.Confusion {
		for _, c := range row {
			counted += c
		}
	}
	assert.Equal(t, ev.Total, counted)

	// Matches a serial pass exactly.
	loss, acc := scoreSet(m, xs, ids)
	assert.Equal(t, loss, ev.Loss)
	assert.Equal(t, acc, ev.Accuracy)
}

func TestEvaluate_WorkerCountIrrelevant(t *testing.T) {
	m, enc, xs, ids := evalFixture(t)

	one, err := Evaluate(m, enc, xs, ids, 1)
	require.NoError(t, err)
	many, err := Evaluate(m, enc, xs, ids, 8)
	require.NoError(t, err)

	assert.Equal(t, one, many)
}

func TestEvaluate_Errors(t *testing.T) {
	m, enc, xs, ids := evalFixture(t)

	_, err := Evaluate(m, enc, xs, ids[:10], 1)
	assert.Error(t, err)

	_, err = Evaluate(m, enc, nil, nil, 1)
	assert.Error(t, err)
}
