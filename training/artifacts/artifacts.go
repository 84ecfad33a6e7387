// Package artifacts reads and writes the three files a training run leaves
// behind for the serving side: the model weights, the vocabulary, and the
// label encoder. The trio lives at fixed names inside one directory and is
// only meaningful together.
package artifacts

import (
	"os"
	"path/filepath"

	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/labels"
	"github.com/loquilabs/loqui/rnn"
	"github.com/loquilabs/loqui/serialization"
	"github.com/loquilabs/loqui/text"
	"github.com/loquilabs/loqui/vocab"
)

// Artifact file names inside the directory.
const (
	ModelFile  = "intent-model.gob.gz"
	VocabFile  = "vocab.json"
	LabelsFile = "labels.json"
)

// DefaultDir is where training writes unless told otherwise.
const DefaultDir = "models"

// Artifacts is the serving trio.
type Artifacts struct {
	Model  *rnn.Model
	Vocab  *vocab.Vocabulary
	Labels *labels.Encoder
}

// Save writes all three artifacts under dir, creating it if needed. Each
// artifact is attempted even if an earlier one fails, and every failure is
// reported.
func Save(dir string, a Artifacts) error {
	if a.Model == nil || a.Vocab == nil || a.Labels == nil {
		return errors.New("artifacts are incomplete")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return errors.Wrapf(err, "creating artifact dir %s", dir)
	}

	var errs errors.Errors
	save := func(name string, obj interface{}) {
		if err := serialization.Encode(filepath.Join(dir, name), obj); err != nil {
			errs = errors.Append(errs, errors.Wrapf(err, "writing %s", name))
		}
	}
	save(ModelFile, a.Model)
	save(VocabFile, a.Vocab)
	save(LabelsFile, a.Labels)
	if errs != nil {
		return errs
	}
	return nil
}

// Load restores the trio from dir and checks that the three files belong to
// the same training run.
func Load(dir string) (Artifacts, error) {
	a := Artifacts{
		Model:  &rnn.Model{},
		Vocab:  &vocab.Vocabulary{},
		Labels: &labels.Encoder{},
	}
	if err := serialization.Decode(filepath.Join(dir, ModelFile), a.Model); err != nil {
		return Artifacts{}, errors.Wrapf(err, "reading %s", ModelFile)
	}
	if err := serialization.Decode(filepath.Join(dir, VocabFile), a.Vocab); err != nil {
		return Artifacts{}, errors.Wrapf(err, "reading %s", VocabFile)
	}
	if err := serialization.Decode(filepath.Join(dir, LabelsFile), a.Labels); err != nil {
		return Artifacts{}, errors.Wrapf(err, "reading %s", LabelsFile)
	}

	if got := a.Vocab.Size(); a.Model.HParams.VocabSize != got {
		return Artifacts{}, errors.New("model expects a vocabulary of %d ids but %s holds %d",
			a.Model.HParams.VocabSize, VocabFile, got)
	}
	if got := a.Labels.Size(); a.Model.HParams.NumClasses != got {
		return Artifacts{}, errors.New("model predicts %d classes but %s holds %d",
			a.Model.HParams.NumClasses, LabelsFile, got)
	}
	return a, nil
}

// Classify runs the inference pipeline on one phrase: tokenize and lowercase
// exactly as training did, map words to ids, and return the most probable tag
// with its probability.
func (a Artifacts) Classify(phrase string) (string, float64) {
	toks := text.Lower(text.Tokenize(phrase))
	probs := a.Model.Predict(a.Vocab.Sequence(toks))

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return a.Labels.Class(best), probs[best]
}
