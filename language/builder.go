package language

import (
	"io"
	"strings"

	"github.com/ieee0824/textrestore/corpus"
	"github.com/pkg/errors"
)

// AddSentence adds a tokenized sentence. BOS and EOS are added
// automatically and every n-gram of length 1..Order over the padded
// sequence is counted. Empty sentences are ignored.
func (m *NGramModel) AddSentence(words []string) {
	if len(words) == 0 {
		return
	}
	m.counts[""] += len(words)

	seq := make([]string, 0, len(words)+2)
	seq = append(seq, m.BOS)
	seq = append(seq, words...)
	seq = append(seq, m.EOS)

	for n := 1; n <= m.Order; n++ {
		for i := 0; i+n <= len(seq); i++ {
			m.AddCount(seq[i:i+n], 1)
		}
	}
}

// AddCorpus adds every line of r as a whitespace-separated sentence and
// returns the number of non-empty sentences read.
func (m *NGramModel) AddCorpus(r io.Reader) (int, error) {
	n := 0
	err := corpus.ReadLines(r, func(_ int, line string) error {
		words := strings.Fields(line)
		if len(words) > 0 {
			m.AddSentence(words)
			n++
		}
		return nil
	})
	return n, err
}

// Train builds a model of the given order from r, one whitespace-separated
// sentence per line.
func Train(r io.Reader, order int) (*NGramModel, error) {
	m := NewNGramModel(order)
	if _, err := m.AddCorpus(r); err != nil {
		return nil, errors.Wrap(err, "train language model")
	}
	return m, nil
}
