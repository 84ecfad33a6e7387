package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset("testdata/intents.json")
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Len(t, ds.Intents, 4)
	assert.Equal(t, "greeting", ds.Intents[0].Tag)
	assert.Len(t, ds.Intents[0].Patterns, 5)
	assert.Equal(t, []string{"greeting", "goodbye", "thanks", "hours"}, ds.Tags())
}

func TestLoadDataset_Missing(t *testing.T) {
	_, err := LoadDataset("testdata/nope.json")
	assert.Error(t, err)
}

func TestPairs(t *testing.T) {
	ds := Dataset{Intents: []Intent{
		{Tag: "a", Patterns: []string{"one", "two"}},
		{Tag: "b", Patterns: []string{"three"}},
	}}
	texts, tags := ds.Pairs()
	assert.Equal(t, []string{"one", "two", "three"}, texts)
	assert.Equal(t, []string{"a", "a", "b"}, tags)
}

func TestValidate(t *testing.T) {
	type tc struct {
		name string
		ds   Dataset
		ok   bool
	}
	tcs := []tc{
		{
			name: "valid",
			ds: Dataset{Intents: []Intent{
				{Tag: "a", Patterns: []string{"x"}},
				{Tag: "b", Patterns: []string{"y"}},
			}},
			ok: true,
		},
		{name: "empty", ds: Dataset{}},
		{
			name: "empty tag",
			ds: Dataset{Intents: []Intent{
				{Tag: "", Patterns: []string{"x"}},
				{Tag: "b", Patterns: []string{"y"}},
			}},
		},
		{
			name: "no patterns",
			ds: Dataset{Intents: []Intent{
				{Tag: "a"},
				{Tag: "b", Patterns: []string{"y"}},
			}},
		},
		{
			name: "single tag",
			ds: Dataset{Intents: []Intent{
				{Tag: "a", Patterns: []string{"x", "y"}},
			}},
		},
	}

	for _, c := range tcs {
		err := c.ds.Validate()
		if c.ok {
			assert.NoError(t, err, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestComputeStats(t *testing.T) {
	ds := Dataset{Intents: []Intent{
		{Tag: "a", Patterns: []string{"hello there", "hi"}},
		{Tag: "b", Patterns: []string{"see you later alligator", "???"}},
	}}
	s := ComputeStats(ds)
	assert.Equal(t, 2, s.Intents)
	assert.Equal(t, 4, s.Patterns)
	assert.Equal(t, 4, s.TokensMax)
	assert.Equal(t, 1, s.EmptyTokens)
	assert.InDelta(t, 1.75, s.TokensMean, 1e-9)
}
