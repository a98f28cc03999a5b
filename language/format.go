package language

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Load reads a model in "ngram count" format, one n-gram per line.
// The order is the length of the longest n-gram. The zero-gram is rebuilt
// from the unigram counts. A line without a valid count, or an n-gram
// whose count exceeds that of its prefix, is an error.
func Load(r io.Reader) (*NGramModel, error) {
	m := NewNGramModel(1)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	maxOrder := 0
	lineno := 0
	for sc.Scan() {
		lineno++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("language model line %d: missing count", lineno)
		}
		c, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return nil, errors.Wrapf(err, "language model line %d: parse count", lineno)
		}
		if c < 0 {
			return nil, errors.Errorf("language model line %d: negative count %d", lineno, c)
		}
		ngram := fields[:len(fields)-1]
		m.AddCount(ngram, c)
		if len(ngram) == 1 && ngram[0] != m.BOS && ngram[0] != m.EOS {
			m.counts[""] += c
		}
		if len(ngram) > maxOrder {
			maxOrder = len(ngram)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read language model")
	}
	if maxOrder == 0 {
		return nil, errors.New("language model is empty")
	}
	m.Order = maxOrder

	if err := m.checkPrefixes(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkPrefixes verifies count(ngram) <= count(prefix) for n-grams of order 2 and above.
func (m *NGramModel) checkPrefixes() error {
	for k, c := range m.counts {
		i := strings.LastIndexByte(k, ' ')
		if i < 0 {
			continue
		}
		if pc := m.counts[k[:i]]; pc < c {
			return errors.Errorf("inconsistent n-gram order: %q has count %d but its prefix %q has %d", k, c, k[:i], pc)
		}
	}
	return nil
}

// Save writes the model in "ngram count" format, sorted by n-gram.
// The zero-gram is not written.
func (m *NGramModel) Save(w io.Writer) error {
	keys := make([]string, 0, len(m.counts))
	for k := range m.counts {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s %d\n", k, m.counts[k]); err != nil {
			return errors.Wrap(err, "write language model")
		}
	}
	return errors.Wrap(bw.Flush(), "write language model")
}
