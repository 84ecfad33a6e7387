package bayes

import (
	"math"
	"testing"

	"github.com/loquilabs/loqui/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainTestScorer(t *testing.T) *Scorer {
	texts := []string{
		"hello hey howdy",
		"hello hi",
		"bye farewell",
		"goodbye bye",
		"what time open",
		"when open close",
	}
	tags := []string{
		"greeting", "greeting",
		"goodbye", "goodbye",
		"hours", "hours",
	}
	s, err := TrainScorer(texts, tags, text.Tokenize)
	require.NoError(t, err)
	return s
}

func TestTrainScorer_Mismatch(t *testing.T) {
	_, err := TrainScorer([]string{"a"}, []string{"x", "y"}, text.Tokenize)
	assert.Error(t, err)

	_, err = TrainScorer(nil, nil, text.Tokenize)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	s := trainTestScorer(t)

	type tc struct {
		phrase string
		want   string
	}
	tcs := []tc{
		{phrase: "hello!", want: "greeting"},
		{phrase: "Bye bye", want: "goodbye"},
		{phrase: "when do you open?", want: "hours"},
	}
	for _, c := range tcs {
		tag, p := s.Classify(c.phrase)
		assert.Equal(t, c.want, tag, c.phrase)
		assert.True(t, p > 1.0/3, c.phrase)
	}
}

func TestPosterior_Normalized(t *testing.T) {
	s := trainTestScorer(t)

	for _, phrase := range []string{"hello", "zebra quantum", ""} {
		posterior := s.Posterior(s.process(phrase))
		require.Len(t, posterior, 3)
		var sum float64
		for _, p := range posterior {
			assert.False(t, math.IsNaN(p))
			sum += p
		}
		assert.InDelta(t, 1, sum, 1e-9, phrase)
	}
}

func TestPosterior_NoTokensFallsToPriors(t *testing.T) {
	s := trainTestScorer(t)

	// With nothing to score, only the priors remain, and every class saw the
	// same number of phrases.
	posterior := s.Posterior(nil)
	for _, p := range posterior {
		assert.InDelta(t, 1.0/3, p, 1e-9)
	}
}
