package artifacts

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/loquilabs/loqui/labels"
	"github.com/loquilabs/loqui/rnn"
	"github.com/loquilabs/loqui/serialization"
	"github.com/loquilabs/loqui/text"
	"github.com/loquilabs/loqui/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTrio(t *testing.T) Artifacts {
	v := vocab.NewVocabulary("")
	v.Fit([]text.Tokens{
		text.Tokenize("hello there friend"),
		text.Tokenize("goodbye for now"),
		text.Tokenize("what are your hours"),
	})
	enc := labels.NewEncoder([]string{"greeting", "goodbye", "hours"})

	hp := rnn.NewHParams(v.Size(), v.MaxSequenceLength(), enc.Size())
	hp.EmbeddingSize = 8
	hp.LSTMSize1 = 6
	hp.LSTMSize2 = 4
	hp.DenseSize = 4
	m, err := rnn.NewModel(hp, 17)
	require.NoError(t, err)

	return Artifacts{Model: m, Vocab: v, Labels: enc}
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "artifacts-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := buildTrio(t)
	dir := filepath.Join(tempDir(t), "models")

	require.NoError(t, Save(dir, a))
	for _, name := range []string{ModelFile, VocabFile, LabelsFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, info.Size() > 0, name)
	}

	got, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, a.Model.HParams, got.Model.HParams)
	assert.Equal(t, a.Vocab.Size(), got.Vocab.Size())
	assert.Equal(t, a.Labels.Classes(), got.Labels.Classes())

	for _, phrase := range []string{"hello friend", "goodbye", "what hours", "unseen words here"} {
		wantTag, wantProb := a.Classify(phrase)
		gotTag, gotProb := got.Classify(phrase)
		assert.Equal(t, wantTag, gotTag, phrase)
		assert.Equal(t, wantProb, gotProb, phrase)
	}
}

func TestSave_Incomplete(t *testing.T) {
	assert.Error(t, Save(tempDir(t), Artifacts{}))
}

func TestSave_DirIsFile(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "occupied")
	require.NoError(t, ioutil.WriteFile(path, []byte("x"), 0666))

	err := Save(path, buildTrio(t))
	assert.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(tempDir(t), "nope"))
	assert.Error(t, err)
}

func TestLoad_MismatchedTrio(t *testing.T) {
	a := buildTrio(t)
	dir := filepath.Join(tempDir(t), "models")
	require.NoError(t, Save(dir, a))

	// Overwrite the label encoder with one from a different run.
	other := labels.NewEncoder([]string{"a", "b", "c", "d", "e"})
	require.NoError(t, serialization.Encode(filepath.Join(dir, LabelsFile), other))

	_, err := Load(dir)
	assert.Error(t, err)
}
