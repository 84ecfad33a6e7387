package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	type tc struct {
		desc     string
		in       string
		expected Tokens
	}
	tcs := []tc{
		{
			desc:     "plain words",
			in:       "open the pod bay doors",
			expected: Tokens{"open", "the", "pod", "bay", "doors"},
		},
		{
			desc:     "punctuation is a separator",
			in:       "Hello, there! How are you?",
			expected: Tokens{"Hello", "there", "How", "are", "you"},
		},
		{
			desc:     "apostrophes survive",
			in:       "what's my account's balance?",
			expected: Tokens{"what's", "my", "account's", "balance"},
		},
		{
			desc:     "tabs and newlines split",
			in:       "first\tsecond\nthird",
			expected: Tokens{"first", "second", "third"},
		},
		{
			desc:     "only punctuation",
			in:       "?!...",
			expected: nil,
		},
		{
			desc:     "empty",
			in:       "",
			expected: nil,
		},
	}
	for _, c := range tcs {
		assert.Equal(t, c.expected, Tokenize(c.in), c.desc)
	}
}

func TestLower(t *testing.T) {
	assert.Equal(t, Tokens{"hi", "there"}, Lower(Tokens{"Hi", "THERE"}))
}

func TestRemoveStopWords(t *testing.T) {
	got := RemoveStopWords(Tokens{"show", "me", "the", "weather", "please"})
	assert.Equal(t, Tokens{"show", "me", "weather"}, got)
}

func TestUniquify(t *testing.T) {
	got := Uniquify(Tokens{"b", "a", "b", "c", "a"})
	assert.Equal(t, Tokens{"b", "a", "c"}, got)
}

func TestProcessorApply(t *testing.T) {
	p := NewProcessor(Lower, Uniquify)
	got := p.Apply(Tokens{"Hot", "hot", "Cold"})
	assert.Equal(t, Tokens{"hot", "cold"}, got)
}

func TestClassifierProcessor(t *testing.T) {
	got := ClassifierProcessor.Apply(Tokenize("Are you opening the stores today?"))
	// "are" and "the" are stop words; remaining tokens are stemmed.
	assert.Equal(t, Tokens{"you", "open", "store", "todai"}, got)
}
