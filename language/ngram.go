package language

import (
	"math"
	"sort"
	"strings"

	"github.com/ieee0824/textrestore/internal/mathutil"
)

// Sentence boundary markers.
const (
	BOS = "<bos>"
	EOS = "<eos>"
)

const (
	// DefaultInterpolation is the weight given to the higher-order estimate.
	DefaultInterpolation = 0.5
	// MaxInterpolation keeps some mass for the lower orders.
	MaxInterpolation = 0.99
)

// NGramModel is a count-based n-gram language model. Probabilities are
// ratios of counts, linearly interpolated with lower orders down to the
// zero-gram. It is safe for concurrent reads once trained or loaded.
type NGramModel struct {
	Order int // 2 for bigram, 3 for trigram
	BOS   string
	EOS   string

	counts map[string]int // space-joined n-gram -> count; "" is the zero-gram
	interp float64
}

// NewNGramModel creates an empty model of the given order.
func NewNGramModel(order int) *NGramModel {
	if order < 1 {
		order = 1
	}
	return &NGramModel{
		Order:  order,
		BOS:    BOS,
		EOS:    EOS,
		counts: make(map[string]int),
		interp: DefaultInterpolation,
	}
}

// SetInterpolation sets the interpolation weight, clamped into [0, MaxInterpolation].
func (m *NGramModel) SetInterpolation(l float64) {
	switch {
	case math.IsNaN(l) || l < 0:
		l = 0
	case l > MaxInterpolation:
		l = MaxInterpolation
	}
	m.interp = l
}

// Interpolation returns the interpolation weight.
func (m *NGramModel) Interpolation() float64 {
	return m.interp
}

// Count returns the count of an n-gram. The empty n-gram holds the number
// of training tokens.
func (m *NGramModel) Count(ngram []string) int {
	return m.counts[strings.Join(ngram, " ")]
}

// AddCount adds c to the count of an n-gram.
func (m *NGramModel) AddCount(ngram []string, c int) {
	m.counts[strings.Join(ngram, " ")] += c
}

// Len returns the number of stored n-grams, not counting the zero-gram.
func (m *NGramModel) Len() int {
	if _, ok := m.counts[""]; ok {
		return len(m.counts) - 1
	}
	return len(m.counts)
}

// LongestNGram returns the length in words of the longest stored n-gram.
// A saved model loads with this as its order.
func (m *NGramModel) LongestNGram() int {
	longest := 0
	for k := range m.counts {
		if k == "" {
			continue
		}
		if n := strings.Count(k, " ") + 1; n > longest {
			longest = n
		}
	}
	return longest
}

// RawProb returns count(ngram) / count(ngram without its newest word).
// For the empty n-gram it returns 1 / count(""). It returns 0 when the
// denominator is 0.
func (m *NGramModel) RawProb(ngram []string) float64 {
	if len(ngram) == 0 {
		z := m.counts[""]
		if z == 0 {
			return 0
		}
		return 1 / float64(z)
	}
	hc := m.Count(ngram[:len(ngram)-1])
	if hc == 0 {
		return 0
	}
	return float64(m.Count(ngram)) / float64(hc)
}

// InterpProb returns the interpolated probability
// λ·RawProb(ngram) + (1-λ)·InterpProb(ngram without its oldest word),
// which ends at the zero-gram estimate.
func (m *NGramModel) InterpProb(ngram []string) float64 {
	if len(ngram) == 0 {
		return m.RawProb(nil)
	}
	return m.interp*m.RawProb(ngram) + (1-m.interp)*m.InterpProb(ngram[1:])
}

// LogProb returns the natural-log interpolated probability of word given
// its history. Only the last Order-1 history words are used.
func (m *NGramModel) LogProb(history []string, word string) float64 {
	h := m.trim(history)
	ngram := make([]string, 0, len(h)+1)
	ngram = append(ngram, h...)
	ngram = append(ngram, word)
	return mathutil.SafeLog(m.InterpProb(ngram))
}

// History returns the last Order-1 words of BOS followed by words.
func (m *NGramModel) History(words []string) []string {
	seq := make([]string, 0, len(words)+1)
	seq = append(seq, m.BOS)
	seq = append(seq, words...)
	return m.trim(seq)
}

// Extend returns history with word appended, trimmed to Order-1 words.
// The input slice is not modified.
func (m *NGramModel) Extend(history []string, word string) []string {
	seq := make([]string, 0, len(history)+1)
	seq = append(seq, history...)
	seq = append(seq, word)
	return m.trim(seq)
}

func (m *NGramModel) trim(words []string) []string {
	n := m.Order - 1
	if n <= 0 {
		return nil
	}
	if len(words) > n {
		return words[len(words)-n:]
	}
	return words
}

// SentenceLogProb returns the total log probability of a sentence (word sequence).
// BOS and EOS are added automatically.
func (m *NGramModel) SentenceLogProb(words []string) float64 {
	total := 0.0
	history := m.History(nil)
	for _, w := range words {
		total += m.LogProb(history, w)
		history = m.Extend(history, w)
	}
	total += m.LogProb(history, m.EOS)
	return total
}

// Vocab returns all words in the unigram vocabulary, sorted.
func (m *NGramModel) Vocab() []string {
	words := make([]string, 0)
	for k := range m.counts {
		if k != "" && !strings.Contains(k, " ") {
			words = append(words, k)
		}
	}
	sort.Strings(words)
	return words
}

// WithInterpolation returns a copy of m that shares its counts but uses
// interpolation weight l. m is not modified.
func (m *NGramModel) WithInterpolation(l float64) *NGramModel {
	c := *m
	c.SetInterpolation(l)
	return &c
}
