// Package rnn implements the intent classification network: an embedding
// table feeding two stacked LSTM layers, a relu dense layer with dropout, and
// a softmax output over the intent classes. Training is full backpropagation
// through time with Adam updates.
//
// All arithmetic is float64 and all randomness flows through explicit seeded
// sources, so a given (HParams, seed, data) triple always produces the same
// weights.
package rnn

import (
	"github.com/loquilabs/loqui/errors"
)

// HParams holds the hyperparameters that fix the network shape.
type HParams struct {
	VocabSize     int     `json:"n_vocab"`
	EmbeddingSize int     `json:"n_embd"`
	ContextSize   int     `json:"n_ctx"`
	LSTMSize1     int     `json:"n_lstm_1"`
	LSTMSize2     int     `json:"n_lstm_2"`
	DenseSize     int     `json:"n_dense"`
	NumClasses    int     `json:"n_classes"`
	Dropout       float64 `json:"p_dropout"`
}

// NewHParams returns hyperparameters for a dataset with the given vocabulary
// size, padded sequence length and class count, and default layer sizes.
func NewHParams(vocabSize, contextSize, numClasses int) HParams {
	return HParams{
		VocabSize:     vocabSize,
		EmbeddingSize: 64,
		ContextSize:   contextSize,
		LSTMSize1:     64,
		LSTMSize2:     32,
		DenseSize:     32,
		NumClasses:    numClasses,
		Dropout:       0.5,
	}
}

// Validate checks that the hyperparameters describe a buildable network.
func (p HParams) Validate() error {
	if p.VocabSize < 2 {
		return errors.New("vocab size must be at least 2 (padding + oov), got %d", p.VocabSize)
	}
	if p.ContextSize < 1 {
		return errors.New("context size must be positive, got %d", p.ContextSize)
	}
	if p.EmbeddingSize < 1 || p.LSTMSize1 < 1 || p.LSTMSize2 < 1 || p.DenseSize < 1 {
		return errors.New("layer sizes must be positive: embd=%d lstm1=%d lstm2=%d dense=%d",
			p.EmbeddingSize, p.LSTMSize1, p.LSTMSize2, p.DenseSize)
	}
	if p.NumClasses < 2 {
		return errors.New("need at least 2 classes, got %d", p.NumClasses)
	}
	if p.Dropout < 0 || p.Dropout >= 1 {
		return errors.New("dropout must be in [0, 1), got %v", p.Dropout)
	}
	return nil
}
