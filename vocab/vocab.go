// Package vocab maps words to small integer ids for the embedding layer.
//
// Id 0 is reserved for padding and is never assigned to a word. Id 1 is the
// out-of-vocabulary token. Real words start at 2, ordered by descending corpus
// frequency with ties broken by first appearance, so the most common words get
// the smallest ids.
package vocab

import (
	"encoding/json"
	"sort"

	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/text"
)

const (
	// PadID is the reserved padding id.
	PadID = 0
	// OOVID is the id assigned to words not seen during Fit.
	OOVID = 1
	// DefaultOOVToken is the conventional spelling of the OOV pseudo-word.
	DefaultOOVToken = "<OOV>"
)

// Vocabulary is a fitted word index.
type Vocabulary struct {
	oov    string
	words  []string // words[i] has id i+2
	ids    map[string]int
	maxLen int
}

// NewVocabulary returns an empty vocabulary using the provided OOV token, or
// DefaultOOVToken if empty.
func NewVocabulary(oovToken string) *Vocabulary {
	if oovToken == "" {
		oovToken = DefaultOOVToken
	}
	return &Vocabulary{
		oov: oovToken,
		ids: make(map[string]int),
	}
}

// Fit builds the word index from tokenized texts, replacing any previous fit.
func (v *Vocabulary) Fit(texts []text.Tokens) {
	counts := make(map[string]int)
	var order []string
	v.maxLen = 0
	for _, toks := range texts {
		if len(toks) > v.maxLen {
			v.maxLen = len(toks)
		}
		for _, w := range toks {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	// Stable sort keeps first-appearance order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	v.words = order
	v.ids = make(map[string]int, len(order))
	for i, w := range order {
		v.ids[w] = i + 2
	}
}

// ID returns the id for a word, or OOVID if the word was not seen during Fit.
func (v *Vocabulary) ID(word string) int {
	if id, ok := v.ids[word]; ok {
		return id
	}
	return OOVID
}

// Word returns the word for an id, the OOV token for OOVID, and "" for PadID
// or any unassigned id.
func (v *Vocabulary) Word(id int) string {
	switch {
	case id == OOVID:
		return v.oov
	case id >= 2 && id-2 < len(v.words):
		return v.words[id-2]
	}
	return ""
}

// OOVToken returns the spelling of the OOV pseudo-word.
func (v *Vocabulary) OOVToken() string {
	return v.oov
}

// Sequence converts tokens to ids.
func (v *Vocabulary) Sequence(toks text.Tokens) []int {
	seq := make([]int, 0, len(toks))
	for _, w := range toks {
		seq = append(seq, v.ID(w))
	}
	return seq
}

// Sequences converts a batch of tokenized texts to ids.
func (v *Vocabulary) Sequences(texts []text.Tokens) [][]int {
	seqs := make([][]int, 0, len(texts))
	for _, toks := range texts {
		seqs = append(seqs, v.Sequence(toks))
	}
	return seqs
}

// Size is the number of distinct ids, including the padding and OOV reserves.
// It is the required embedding table height.
func (v *Vocabulary) Size() int {
	return len(v.words) + 2
}

// MaxSequenceLength is the token count of the longest text seen during Fit.
func (v *Vocabulary) MaxSequenceLength() int {
	return v.maxLen
}

type vocabJSON struct {
	OOVToken          string   `json:"oov_token"`
	MaxSequenceLength int      `json:"max_sequence_length"`
	Words             []string `json:"words"`
}

// MarshalJSON implements json.Marshaler.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(vocabJSON{
		OOVToken:          v.oov,
		MaxSequenceLength: v.maxLen,
		Words:             v.words,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vocabulary) UnmarshalJSON(buf []byte) error {
	var vj vocabJSON
	if err := json.Unmarshal(buf, &vj); err != nil {
		return err
	}
	if vj.OOVToken == "" {
		return errors.New("vocabulary is missing an oov_token")
	}
	v.oov = vj.OOVToken
	v.maxLen = vj.MaxSequenceLength
	v.words = vj.Words
	v.ids = make(map[string]int, len(vj.Words))
	for i, w := range vj.Words {
		v.ids[w] = i + 2
	}
	return nil
}
