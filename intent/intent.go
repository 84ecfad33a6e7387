// Package intent models the labeled training data: intents identified by a
// tag, each with example phrasings the model should learn to recognize.
package intent

import (
	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/serialization"
)

// Intent is one category of user request.
type Intent struct {
	Tag      string   `json:"tag"`
	Patterns []string `json:"patterns"`
	// Responses are carried for the serving side and ignored by training.
	Responses []string `json:"responses,omitempty"`
}

// Dataset is the top-level collection read from an intents file.
type Dataset struct {
	Intents []Intent `json:"intents"`
}

// LoadDataset reads a dataset from a .json (optionally .gz) file.
func LoadDataset(path string) (Dataset, error) {
	var ds Dataset
	if err := serialization.Decode(path, &ds); err != nil {
		return Dataset{}, errors.Wrapf(err, "error loading intents from %s", path)
	}
	return ds, nil
}

// Validate checks that the dataset is trainable.
func (ds Dataset) Validate() error {
	if len(ds.Intents) == 0 {
		return errors.New("dataset contains no intents")
	}
	tags := make(map[string]struct{})
	for i, in := range ds.Intents {
		if in.Tag == "" {
			return errors.New("intent %d has an empty tag", i)
		}
		if len(in.Patterns) == 0 {
			return errors.New("intent %q has no patterns", in.Tag)
		}
		tags[in.Tag] = struct{}{}
	}
	if len(tags) < 2 {
		return errors.New("dataset needs at least 2 distinct tags, got %d", len(tags))
	}
	return nil
}

// Pairs flattens the dataset into parallel (pattern, tag) slices, preserving
// dataset order.
func (ds Dataset) Pairs() (texts, tags []string) {
	for _, in := range ds.Intents {
		for _, p := range in.Patterns {
			texts = append(texts, p)
			tags = append(tags, in.Tag)
		}
	}
	return texts, tags
}

// Tags returns the distinct tags in dataset order.
func (ds Dataset) Tags() []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, in := range ds.Intents {
		if _, ok := seen[in.Tag]; ok {
			continue
		}
		seen[in.Tag] = struct{}{}
		tags = append(tags, in.Tag)
	}
	return tags
}
