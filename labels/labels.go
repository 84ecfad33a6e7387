// Package labels encodes class tags as dense integer ids.
//
// Classes are ordered lexicographically, so the id assignment is a pure
// function of the set of tags and is stable across runs and machines.
package labels

import (
	"encoding/json"
	"sort"

	"github.com/loquilabs/loqui/errors"
)

// Encoder maps tags to ids and back.
type Encoder struct {
	classes []string
	ids     map[string]int
}

// NewEncoder returns an encoder fitted on the distinct tags in the input.
func NewEncoder(tags []string) *Encoder {
	seen := make(map[string]struct{}, len(tags))
	var classes []string
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		classes = append(classes, tag)
	}
	sort.Strings(classes)

	e := &Encoder{classes: classes, ids: make(map[string]int, len(classes))}
	for i, c := range classes {
		e.ids[c] = i
	}
	return e
}

// ID returns the id for a tag.
func (e *Encoder) ID(tag string) (int, error) {
	id, ok := e.ids[tag]
	if !ok {
		return 0, errors.New("unknown tag %q", tag)
	}
	return id, nil
}

// Transform converts tags to ids, failing on the first unknown tag.
func (e *Encoder) Transform(tags []string) ([]int, error) {
	ids := make([]int, 0, len(tags))
	for _, tag := range tags {
		id, err := e.ID(tag)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Class returns the tag for an id, or "" if out of range.
func (e *Encoder) Class(id int) string {
	if id < 0 || id >= len(e.classes) {
		return ""
	}
	return e.classes[id]
}

// Classes returns the tags in id order. Callers must not mutate the result.
func (e *Encoder) Classes() []string {
	return e.classes
}

// Size is the number of classes.
func (e *Encoder) Size() int {
	return len(e.classes)
}

// OneHot returns a Size()-long vector with a one at the tag's id.
func (e *Encoder) OneHot(tag string) ([]float64, error) {
	id, err := e.ID(tag)
	if err != nil {
		return nil, err
	}
	vec := make([]float64, len(e.classes))
	vec[id] = 1
	return vec, nil
}

type encoderJSON struct {
	Classes []string `json:"classes"`
}

// MarshalJSON implements json.Marshaler.
func (e *Encoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(encoderJSON{Classes: e.classes})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Encoder) UnmarshalJSON(buf []byte) error {
	var ej encoderJSON
	if err := json.Unmarshal(buf, &ej); err != nil {
		return err
	}
	if len(ej.Classes) == 0 {
		return errors.New("label encoder has no classes")
	}
	e.classes = ej.Classes
	e.ids = make(map[string]int, len(ej.Classes))
	for i, c := range ej.Classes {
		e.ids[c] = i
	}
	return nil
}
