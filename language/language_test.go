package language

import (
	"math"
	"testing"

	"github.com/ieee0824/textrestore/internal/mathutil"
)

// testModel returns a bigram model trained on "a b" and "a".
func testModel() *NGramModel {
	m := NewNGramModel(2)
	m.AddSentence([]string{"a", "b"})
	m.AddSentence([]string{"a"})
	return m
}

func TestSetInterpolationClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{5, 0.99},
		{0.3, 0.3},
		{0, 0},
		{0.99, 0.99},
		{math.NaN(), 0},
	}
	m := NewNGramModel(2)
	if m.Interpolation() != DefaultInterpolation {
		t.Errorf("default Interpolation = %v, want %v", m.Interpolation(), DefaultInterpolation)
	}
	for _, tt := range tests {
		m.SetInterpolation(tt.in)
		if got := m.Interpolation(); got != tt.want {
			t.Errorf("SetInterpolation(%v): Interpolation = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRawProb(t *testing.T) {
	m := testModel()
	tests := []struct {
		ngram []string
		want  float64
	}{
		{nil, 1.0 / 3},
		{[]string{"a"}, 2.0 / 3},
		{[]string{"a", "b"}, 0.5},
		{[]string{"b", "a"}, 0},
		{[]string{"c", "a"}, 0},
	}
	for _, tt := range tests {
		if got := m.RawProb(tt.ngram); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RawProb(%v) = %v, want %v", tt.ngram, got, tt.want)
		}
	}
}

func TestInterpProb(t *testing.T) {
	m := testModel()
	tests := []struct {
		ngram []string
		want  float64
	}{
		{[]string{"b"}, 1.0 / 3},
		{[]string{"a"}, 0.5},
		{[]string{"a", "b"}, 5.0 / 12},
		{[]string{BOS, "a"}, 0.75},
		{[]string{"a", "z"}, 1.0 / 12},
	}
	for _, tt := range tests {
		if got := m.InterpProb(tt.ngram); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("InterpProb(%v) = %v, want %v", tt.ngram, got, tt.want)
		}
	}
}

func TestLogProb(t *testing.T) {
	m := testModel()

	lp := m.LogProb([]string{BOS}, "a")
	if want := math.Log(0.75); math.Abs(lp-want) > 1e-12 {
		t.Errorf("LogProb(<bos>, a) = %f, want %f", lp, want)
	}

	// Only the last Order-1 words of the history are used.
	if got, want := m.LogProb([]string{"x", "y", "a"}, "b"), math.Log(5.0/12); math.Abs(got-want) > 1e-12 {
		t.Errorf("LogProb(x y a, b) = %f, want %f", got, want)
	}

	// Unseen words keep a positive probability through the zero-gram.
	if lp := m.LogProb([]string{"a"}, "z"); lp <= mathutil.LogZero || math.IsInf(lp, 0) {
		t.Errorf("LogProb(a, z) = %f, want finite", lp)
	}

	empty := NewNGramModel(2)
	if lp := empty.LogProb(nil, "a"); lp != mathutil.LogZero {
		t.Errorf("empty model LogProb = %f, want LogZero", lp)
	}
}

func TestHistory(t *testing.T) {
	m2 := NewNGramModel(2)
	m3 := NewNGramModel(3)
	m1 := NewNGramModel(1)

	tests := []struct {
		name  string
		m     *NGramModel
		words []string
		want  []string
	}{
		{"bigram_root", m2, nil, []string{BOS}},
		{"bigram", m2, []string{"a", "b"}, []string{"b"}},
		{"trigram_short", m3, []string{"a"}, []string{BOS, "a"}},
		{"trigram", m3, []string{"a", "b", "c"}, []string{"b", "c"}},
		{"unigram", m1, []string{"a"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.History(tt.words)
			if len(got) != len(tt.want) {
				t.Fatalf("History(%v) = %v, want %v", tt.words, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("History(%v) = %v, want %v", tt.words, got, tt.want)
				}
			}
		})
	}
}

func TestExtendDoesNotModifyInput(t *testing.T) {
	m := NewNGramModel(3)
	h := []string{BOS, "a"}
	got := m.Extend(h, "b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Extend = %v, want [a b]", got)
	}
	if h[0] != BOS || h[1] != "a" {
		t.Errorf("input modified: %v", h)
	}
}

func TestSentenceLogProb(t *testing.T) {
	m := testModel()
	got := m.SentenceLogProb([]string{"a"})
	want := math.Log(0.75) + math.Log(0.5)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("SentenceLogProb(a) = %f, want %f", got, want)
	}

	// A seen sentence scores higher than a scrambled one.
	if m.SentenceLogProb([]string{"a", "b"}) <= m.SentenceLogProb([]string{"b", "a"}) {
		t.Error("expected 'a b' to score higher than 'b a'")
	}
}

func TestVocab(t *testing.T) {
	got := testModel().Vocab()
	want := []string{BOS, EOS, "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Vocab = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vocab = %v, want %v", got, want)
		}
	}
}

func TestWithInterpolation(t *testing.T) {
	m := testModel()
	c := m.WithInterpolation(2)
	if c.Interpolation() != MaxInterpolation {
		t.Errorf("copy Interpolation = %v, want %v", c.Interpolation(), MaxInterpolation)
	}
	if m.Interpolation() != DefaultInterpolation {
		t.Errorf("original Interpolation = %v, want %v", m.Interpolation(), DefaultInterpolation)
	}
	if got, want := c.Count([]string{"a"}), m.Count([]string{"a"}); got != want {
		t.Errorf("copy Count(a) = %d, want %d", got, want)
	}
}
