package phrase

import (
	"strings"

	"github.com/ieee0824/textrestore/textproc"
	"github.com/pkg/errors"
)

// ErrAlignment is returned when a reduced token sequence cannot be aligned
// to its rich counterpart.
var ErrAlignment = errors.New("alignment failed")

// Align matches each rich word to the consecutive reduced tokens whose
// concatenation equals it. It returns, per rich word, the exclusive end
// index of its span in reduced. Every reduced token must be consumed.
func Align(rich, reduced []string) ([]int, error) {
	ends := make([]int, 0, len(rich))
	j := 0
	for i, word := range rich {
		if word == "" {
			return nil, errors.Wrapf(ErrAlignment, "rich word %d is empty", i+1)
		}
		cur := ""
		for cur != word {
			if j >= len(reduced) {
				return nil, errors.Wrapf(ErrAlignment, "rich word %d %q ran past the reduced tokens", i+1, word)
			}
			cur += reduced[j]
			j++
			if !strings.HasPrefix(word, cur) {
				return nil, errors.Wrapf(ErrAlignment, "rich word %d %q does not match %q", i+1, word, cur)
			}
		}
		ends = append(ends, j)
	}
	if j != len(reduced) {
		return nil, errors.Wrapf(ErrAlignment, "%d reduced tokens left over", len(reduced)-j)
	}
	return ends, nil
}

// AddDetokPair aligns a raw sentence to its tokenization and counts one
// entry per aligned span: the shaped tokens joined by spaces map to their
// concatenation. Spans joining two adjacent category placeholders are not
// counted. It returns the shaped rich words, one per span, for training the
// language model.
func (t *Table) AddDetokPair(rich, reduced []string) ([]string, error) {
	ends, err := Align(rich, reduced)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(ends))
	start := 0
	for _, end := range ends {
		shaped := make([]string, 0, end-start)
		ok := true
		for k := start; k < end; k++ {
			s := textproc.TransformWord(reduced[k])
			if k > start && textproc.IsCategory(s) && textproc.IsCategory(shaped[len(shaped)-1]) {
				ok = false
			}
			shaped = append(shaped, s)
		}
		word := strings.Join(shaped, "")
		if ok {
			t.IncreaseCount(strings.Join(shaped, " "), word, 1)
		}
		words = append(words, word)
		start = end
	}
	return words, nil
}

// AddRecasePair counts each (lower-cased, raw) word pair of a sentence.
func (t *Table) AddRecasePair(rich, reduced []string) error {
	if len(rich) != len(reduced) {
		return errors.Wrapf(ErrAlignment, "%d rich words but %d reduced words", len(rich), len(reduced))
	}
	for i := range rich {
		t.IncreaseCount(reduced[i], rich[i], 1)
	}
	return nil
}
