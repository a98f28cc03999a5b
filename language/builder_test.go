package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSentenceCounts(t *testing.T) {
	assert := assert.New(t)
	m := testModel()

	assert.Equal(3, m.Count(nil))
	assert.Equal(2, m.Count([]string{BOS}))
	assert.Equal(2, m.Count([]string{"a"}))
	assert.Equal(1, m.Count([]string{"b"}))
	assert.Equal(2, m.Count([]string{EOS}))
	assert.Equal(2, m.Count([]string{BOS, "a"}))
	assert.Equal(1, m.Count([]string{"a", "b"}))
	assert.Equal(1, m.Count([]string{"b", EOS}))
	assert.Equal(1, m.Count([]string{"a", EOS}))
	assert.Equal(0, m.Count([]string{BOS, "a", "b"}))
	assert.Equal(8, m.Len())
}

func TestAddSentenceEmpty(t *testing.T) {
	m := NewNGramModel(3)
	m.AddSentence(nil)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Count(nil))
}

func TestAddSentencePrefixCounts(t *testing.T) {
	m := NewNGramModel(3)
	for _, s := range []string{"the cat sat", "the dog sat down", "a cat", "the the the"} {
		m.AddSentence(strings.Fields(s))
	}
	require.NoError(t, m.checkPrefixes())
	for k, c := range m.counts {
		if k == "" {
			continue
		}
		words := strings.Fields(k)
		assert.LessOrEqual(t, c, m.Count(words[:len(words)-1]), k)
	}
}

func TestTrain(t *testing.T) {
	m, err := Train(strings.NewReader("a b\n\na\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Order)
	assert.Equal(t, testModel().counts, m.counts)
}

func TestAddCorpusAccumulates(t *testing.T) {
	m := NewNGramModel(2)
	n, err := m.AddCorpus(strings.NewReader("a b\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = m.AddCorpus(strings.NewReader("a\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, testModel().counts, m.counts)
}
