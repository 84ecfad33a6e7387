// Package training orchestrates a full run: preprocess the dataset, fit the
// vocabulary and label encoder, train the network, and evaluate the result
// against a counting baseline.
package training

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/loquilabs/loqui/bayes"
	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/intent"
	"github.com/loquilabs/loqui/labels"
	"github.com/loquilabs/loqui/rnn"
	"github.com/loquilabs/loqui/text"
	"github.com/loquilabs/loqui/vocab"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
)

// Params ...
type Params struct {
	Epochs        int
	BatchSize     int
	LearningRate  float64
	Dropout       float64
	Seed          int64
	ValidateRatio float64
	LogEvery      int
	Quiet         bool
}

// DefaultParams returns the parameters a plain training run uses.
func DefaultParams() Params {
	return Params{
		Epochs:       200,
		BatchSize:    32,
		LearningRate: 0.001,
		Dropout:      0.5,
		Seed:         1,
		LogEvery:     20,
	}
}

// Validate checks the parameters for a runnable configuration.
func (p Params) Validate() error {
	if p.Epochs < 1 {
		return errors.New("epochs must be positive, got %d", p.Epochs)
	}
	if p.BatchSize < 1 {
		return errors.New("batch size must be positive, got %d", p.BatchSize)
	}
	if p.LearningRate <= 0 {
		return errors.New("learning rate must be positive, got %v", p.LearningRate)
	}
	if p.Dropout < 0 || p.Dropout >= 1 {
		return errors.New("dropout must be in [0, 1), got %v", p.Dropout)
	}
	if p.ValidateRatio < 0 || p.ValidateRatio > 0.9 {
		return errors.New("validate ratio must be in [0, 0.9], got %v", p.ValidateRatio)
	}
	return nil
}

// Inputs ...
type Inputs struct {
	Dataset intent.Dataset

	// HParams optionally overrides the layer sizes (fields > 0 win).
	// Vocabulary size and class count always come from the data, dropout from
	// Params.
	HParams *rnn.HParams
}

// Epoch is one entry of the training history.
type Epoch struct {
	Epoch       int
	Loss        float64
	Accuracy    float64
	ValLoss     float64
	ValAccuracy float64
}

// History is the per-epoch metric record of a run.
type History []Epoch

// Final returns the last epoch's entry.
func (h History) Final() Epoch {
	return h[len(h)-1]
}

// Results bundles everything a run produces.
type Results struct {
	Model  *rnn.Model
	Vocab  *vocab.Vocabulary
	Labels *labels.Encoder

	History  History
	Train    Evaluation
	Validate *Evaluation // nil unless ValidateRatio > 0

	// BaselineAccuracy is the bayes scorer's accuracy on the same training
	// pairs, a floor the network should clear.
	BaselineAccuracy float64

	Duration time.Duration
}

// Trainer holds the preprocessed dataset, ready to train.
type Trainer struct {
	params Params
	in     Inputs

	hp     rnn.HParams
	vocab  *vocab.Vocabulary
	labels *labels.Encoder

	trainTexts []string
	trainTags  []string
	trainX     [][]int
	trainY     [][]float64
	trainIDs   []int

	valX   [][]int
	valIDs []int
}

// NewTrainer validates the dataset, fits the vocabulary and label encoder on
// the full corpus, pads every sequence, one-hots the targets, and splits off
// a validation set when asked to.
func NewTrainer(params Params, in Inputs) (Trainer, error) {
	if err := params.Validate(); err != nil {
		return Trainer{}, err
	}
	if err := in.Dataset.Validate(); err != nil {
		return Trainer{}, errors.Wrapf(err, "invalid dataset")
	}

	texts, tags := in.Dataset.Pairs()
	tokenized := make([]text.Tokens, len(texts))
	for i, s := range texts {
		tokenized[i] = text.Lower(text.Tokenize(s))
	}

	v := vocab.NewVocabulary("")
	v.Fit(tokenized)
	if v.MaxSequenceLength() == 0 {
		return Trainer{}, errors.New("no pattern produced any tokens")
	}

	enc := labels.NewEncoder(tags)

	hp, err := deriveHParams(params, in, v, enc)
	if err != nil {
		return Trainer{}, err
	}

	padded := vocab.Pad(v.Sequences(tokenized), hp.ContextSize)
	ids, err := enc.Transform(tags)
	if err != nil {
		return Trainer{}, err
	}

	t := Trainer{
		params: params,
		in:     in,
		hp:     hp,
		vocab:  v,
		labels: enc,
	}

	order := rand.New(rand.NewSource(params.Seed)).Perm(len(texts))
	nVal := int(params.ValidateRatio * float64(len(texts)))
	for at, i := range order {
		if at < nVal {
			t.valX = append(t.valX, padded[i])
			t.valIDs = append(t.valIDs, ids[i])
			continue
		}
		t.trainTexts = append(t.trainTexts, texts[i])
		t.trainTags = append(t.trainTags, tags[i])
		t.trainX = append(t.trainX, padded[i])
		t.trainY = append(t.trainY, oneHot(ids[i], enc.Size()))
		t.trainIDs = append(t.trainIDs, ids[i])
	}
	if len(t.trainX) == 0 {
		return Trainer{}, errors.New("validation split left no training examples")
	}
	return t, nil
}

// HParams returns the resolved network shape.
func (t Trainer) HParams() rnn.HParams {
	return t.hp
}

// TrainSize and ValidateSize report the split sizes.
func (t Trainer) TrainSize() int { return len(t.trainX) }

// ValidateSize ...
func (t Trainer) ValidateSize() int { return len(t.valX) }

func deriveHParams(params Params, in Inputs, v *vocab.Vocabulary, enc *labels.Encoder) (rnn.HParams, error) {
	hp := rnn.NewHParams(v.Size(), v.MaxSequenceLength(), enc.Size())
	hp.Dropout = params.Dropout
	if o := in.HParams; o != nil {
		if o.EmbeddingSize > 0 {
			hp.EmbeddingSize = o.EmbeddingSize
		}
		if o.LSTMSize1 > 0 {
			hp.LSTMSize1 = o.LSTMSize1
		}
		if o.LSTMSize2 > 0 {
			hp.LSTMSize2 = o.LSTMSize2
		}
		if o.DenseSize > 0 {
			hp.DenseSize = o.DenseSize
		}
		if o.ContextSize > 0 {
			hp.ContextSize = o.ContextSize
		}
	}
	return hp, hp.Validate()
}

func oneHot(id, size int) []float64 {
	vec := make([]float64, size)
	vec[id] = 1
	return vec
}

// Train runs the epoch loop and returns the trained model with its metrics.
// The context is checked between epochs, so cancellation loses at most one
// epoch of work.
func (t Trainer) Train(ctx context.Context) (Results, error) {
	start := time.Now()

	model, err := rnn.NewModel(t.hp, t.params.Seed)
	if err != nil {
		return Results{}, err
	}
	opt := rnn.NewAdam(t.params.LearningRate)
	rng := rand.New(rand.NewSource(t.params.Seed))

	n := len(t.trainX)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	bx := make([][]int, 0, t.params.BatchSize)
	by := make([][]float64, 0, t.params.BatchSize)

	history := make(History, 0, t.params.Epochs)
	runEpoch := func(epoch int) {
		rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		var lossSum float64
		var batches int
		for at := 0; at < n; at += t.params.BatchSize {
			end := at + t.params.BatchSize
			if end > n {
				end = n
			}
			bx, by = bx[:0], by[:0]
			for _, i := range idx[at:end] {
				bx = append(bx, t.trainX[i])
				by = append(by, t.trainY[i])
			}
			lossSum += model.TrainBatch(opt, bx, by, rng)
			batches++
		}

		ep := Epoch{Epoch: epoch, Loss: lossSum / float64(batches)}
		_, ep.Accuracy = scoreSet(model, t.trainX, t.trainIDs)
		if len(t.valX) > 0 {
			ep.ValLoss, ep.ValAccuracy = scoreSet(model, t.valX, t.valIDs)
		}
		history = append(history, ep)

		if !t.params.Quiet && t.params.LogEvery > 0 &&
			(epoch%t.params.LogEvery == 0 || epoch == t.params.Epochs) {
			if len(t.valX) > 0 {
				log.Printf("epoch %d/%d: loss=%.4f acc=%.3f val_loss=%.4f val_acc=%.3f",
					epoch, t.params.Epochs, ep.Loss, ep.Accuracy, ep.ValLoss, ep.ValAccuracy)
			} else {
				log.Printf("epoch %d/%d: loss=%.4f acc=%.3f", epoch, t.params.Epochs, ep.Loss, ep.Accuracy)
			}
		}
	}

	if t.params.Quiet {
		for epoch := 1; epoch <= t.params.Epochs && ctx.Err() == nil; epoch++ {
			runEpoch(epoch)
		}
	} else {
		err := tqdm.With(iterators.Interval(0, t.params.Epochs), "Training", func(v interface{}) (brk bool) {
			runEpoch(v.(int) + 1)
			return ctx.Err() != nil
		})
		if err != nil && ctx.Err() == nil {
			return Results{}, errors.Wrapf(err, "epoch loop")
		}
	}
	if err := ctx.Err(); err != nil {
		return Results{}, errors.Wrapf(err, "training interrupted after epoch %d", len(history))
	}

	baseline, err := t.baselineAccuracy()
	if err != nil {
		return Results{}, err
	}

	trainEval, err := Evaluate(model, t.labels, t.trainX, t.trainIDs, 0)
	if err != nil {
		return Results{}, errors.Wrapf(err, "evaluating on training set")
	}
	results := Results{
		Model:            model,
		Vocab:            t.vocab,
		Labels:           t.labels,
		History:          history,
		Train:            trainEval,
		BaselineAccuracy: baseline,
		Duration:         time.Since(start),
	}
	if len(t.valX) > 0 {
		valEval, err := Evaluate(model, t.labels, t.valX, t.valIDs, 0)
		if err != nil {
			return Results{}, errors.Wrapf(err, "evaluating on validation set")
		}
		results.Validate = &valEval
	}
	return results, nil
}

// baselineAccuracy trains the bayes scorer on the training pairs and scores
// it on the same pairs.
func (t Trainer) baselineAccuracy() (float64, error) {
	scorer, err := bayes.TrainScorer(t.trainTexts, t.trainTags, text.Tokenize)
	if err != nil {
		return 0, errors.Wrapf(err, "training baseline scorer")
	}
	var correct int
	for i, txt := range t.trainTexts {
		if tag, _ := scorer.Classify(txt); tag == t.trainTags[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(t.trainTexts)), nil
}

// scoreSet computes mean cross-entropy and accuracy in a single pass.
func scoreSet(m *rnn.Model, xs [][]int, ids []int) (loss, accuracy float64) {
	var correct int
	for i, seq := range xs {
		probs := m.Predict(seq)
		loss += crossEntropy(probs, ids[i])
		if argmax(probs) == ids[i] {
			correct++
		}
	}
	return loss / float64(len(xs)), float64(correct) / float64(len(xs))
}
