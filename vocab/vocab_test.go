package vocab

import (
	"encoding/json"
	"testing"

	"github.com/loquilabs/loqui/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(texts ...string) []text.Tokens {
	var out []text.Tokens
	for _, s := range texts {
		out = append(out, text.Tokenize(s))
	}
	return out
}

func TestFit_FrequencyOrder(t *testing.T) {
	v := NewVocabulary("")
	v.Fit(tokenize(
		"the cat sat",
		"the cat ran",
		"the dog sat",
	))

	// "the" x3, "cat" x2, "sat" x2, then "ran", "dog" by first appearance.
	assert.Equal(t, 2, v.ID("the"))
	assert.Equal(t, 3, v.ID("cat"))
	assert.Equal(t, 4, v.ID("sat"))
	assert.Equal(t, 5, v.ID("ran"))
	assert.Equal(t, 6, v.ID("dog"))

	assert.Equal(t, 7, v.Size()) // 5 words + pad + oov
	assert.Equal(t, 3, v.MaxSequenceLength())
}

func TestFit_TiesByFirstAppearance(t *testing.T) {
	v := NewVocabulary("")
	v.Fit(tokenize("b a", "a b", "c"))

	// b appears before a in the corpus; both have count 2.
	assert.Equal(t, 2, v.ID("b"))
	assert.Equal(t, 3, v.ID("a"))
	assert.Equal(t, 4, v.ID("c"))
}

func TestSequence_OOV(t *testing.T) {
	v := NewVocabulary("")
	v.Fit(tokenize("hello there"))

	seq := v.Sequence(text.Tokenize("hello stranger"))
	assert.Equal(t, []int{v.ID("hello"), OOVID}, seq)
	assert.Equal(t, "<OOV>", v.Word(OOVID))
	assert.Equal(t, "", v.Word(PadID))
}

func TestRefitReplaces(t *testing.T) {
	v := NewVocabulary("")
	v.Fit(tokenize("one two three"))
	v.Fit(tokenize("four"))

	assert.Equal(t, OOVID, v.ID("one"))
	assert.Equal(t, 2, v.ID("four"))
	assert.Equal(t, 3, v.Size())
	assert.Equal(t, 1, v.MaxSequenceLength())
}

func TestJSONRoundTrip(t *testing.T) {
	v := NewVocabulary("<unk>")
	v.Fit(tokenize("to be or not to be"))

	buf, err := json.Marshal(v)
	require.NoError(t, err)

	var got Vocabulary
	require.NoError(t, json.Unmarshal(buf, &got))

	assert.Equal(t, v.Size(), got.Size())
	assert.Equal(t, v.MaxSequenceLength(), got.MaxSequenceLength())
	assert.Equal(t, "<unk>", got.OOVToken())
	for _, w := range []string{"to", "be", "or", "not"} {
		assert.Equal(t, v.ID(w), got.ID(w), w)
	}
	assert.Equal(t, OOVID, got.ID("never-seen"))
}

func TestUnmarshal_MissingOOV(t *testing.T) {
	var v Vocabulary
	assert.Error(t, json.Unmarshal([]byte(`{"words":["a"]}`), &v))
}

func TestPad(t *testing.T) {
	type tc struct {
		seq    []int
		length int
		want   []int
	}
	tcs := []tc{
		{seq: []int{5, 6}, length: 4, want: []int{5, 6, 0, 0}},
		{seq: []int{5, 6, 7, 8, 9}, length: 3, want: []int{5, 6, 7}},
		{seq: []int{5, 6, 7}, length: 3, want: []int{5, 6, 7}},
		{seq: nil, length: 2, want: []int{0, 0}},
	}
	for _, c := range tcs {
		assert.Equal(t, c.want, PadSequence(c.seq, c.length))
	}

	padded := Pad([][]int{{1}, {2, 3, 4}}, 2)
	assert.Equal(t, [][]int{{1, 0}, {2, 3}}, padded)
}
