package decoder

import (
	"math"
	"strings"
	"testing"

	"github.com/ieee0824/textrestore/language"
	"github.com/ieee0824/textrestore/phrase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainLM(order int, sentences ...string) *language.NGramModel {
	lm := language.NewNGramModel(order)
	for _, s := range sentences {
		lm.AddSentence(strings.Fields(s))
	}
	return lm
}

// ambiguousModels returns a recasing table with several options per span.
func ambiguousModels() (*phrase.Table, *language.NGramModel) {
	tm := phrase.NewTable()
	tm.IncreaseCount("a", "A", 2)
	tm.IncreaseCount("a", "a", 1)
	tm.IncreaseCount("b", "B", 1)
	tm.IncreaseCount("b", "b", 1)
	tm.IncreaseCount("a b", "AB", 1)
	tm.IncreaseCount("c", "C", 1)
	tm.IncreaseCount("c", "c", 3)
	lm := trainLM(2, "A b c", "AB c AB", "a B C a b")
	return tm, lm
}

func TestWeights(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(DefaultWeights(), NewWeights(nil))
	assert.Equal(DefaultWeights(), NewWeights([]float64{1, 2}))
	assert.Equal(Weights{TM: 1, PhrasePenalty: 2, WordPenalty: 3, LM: 4}, NewWeights([]float64{1, 2, 3, 4}))
	assert.Equal([]float64{1, 2, 3, 4}, NewWeights([]float64{1, 2, 3, 4}).Slice())
	assert.Equal("1,0.5,1,2", Weights{1, 0.5, 1, 2}.String())
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		in   string
		want Weights
	}{
		{"1,2,3,4", Weights{1, 2, 3, 4}},
		{"1 2 3 4", Weights{1, 2, 3, 4}},
		{"0.5, 1, 1, 2", Weights{0.5, 1, 1, 2}},
	}
	for _, tt := range tests {
		got, err := ParseWeights(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"1,x,1,1", "1,2", "", "1,2,3,4,5"} {
		_, err := ParseWeights(in)
		assert.Error(t, err, in)
	}
}

func TestExpandScore(t *testing.T) {
	tm := phrase.NewTable()
	tm.IncreaseCount("a", "A", 1)
	lm := trainLM(2, "A")

	d := New(tm, lm, DefaultConfig(), nil)
	root := newRoot(lm.History(nil))
	children := d.Expand([]string{"a"}, root)
	require.Len(t, children, 1)

	// tm log(1-floor), phrase penalty -1, word penalty -1, LM terms log(1).
	want := math.Log(1-phrase.DefaultFloor) - 2
	assert.InDelta(t, want, children[0].Score, 1e-9)
	assert.Equal(t, "A", children[0].Text())
	assert.Equal(t, []string{"A"}, children[0].history)

	cfg := DefaultConfig()
	cfg.Weights = Weights{TM: 2}
	d = New(tm, lm, cfg, nil)
	children = d.Expand([]string{"a"}, root)
	require.Len(t, children, 1)
	assert.InDelta(t, 2*math.Log(1-phrase.DefaultFloor), children[0].Score, 1e-9)
}

func TestExpandMaxSpan(t *testing.T) {
	tm := phrase.NewTable()
	tm.IncreaseCount("a b", "AB", 1)
	tm.IncreaseCount("a b c", "ABC", 1)
	lm := trainLM(2, "AB c")

	cfg := DefaultConfig()
	cfg.MaxSpan = 2
	d := New(tm, lm, cfg, nil)
	children := d.Expand([]string{"a", "b", "c"}, newRoot(lm.History(nil)))

	var ends []int
	for _, c := range children {
		ends = append(ends, c.Last())
	}
	// identity for "a", then "a b"; "a b c" is beyond the span limit.
	assert.Equal(t, []int{0, 1}, ends)
}

func TestExpandNoFallbackForMultiToken(t *testing.T) {
	d := New(phrase.NewTable(), trainLM(2, "x"), DefaultConfig(), nil)
	children := d.Expand([]string{"p", "q"}, newRoot([]string{language.BOS}))
	require.Len(t, children, 1)
	assert.Equal(t, "p", children[0].Text())
}
