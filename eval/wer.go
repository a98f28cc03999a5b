package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/ieee0824/textrestore/corpus"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// WER accumulates word error statistics over a corpus.
type WER struct {
	Errors    int // word edit operations
	Words     int // reference words
	Sentences int
}

// Add scores one sentence pair and returns its edit distance.
func (w *WER) Add(ref, sys []string) int {
	d := EditDistance(ref, sys)
	w.Errors += d
	w.Words += len(ref)
	w.Sentences++
	return d
}

// Rate returns Errors / Words. With no reference words it is 0 when there
// are no errors and 1 otherwise.
func (w WER) Rate() float64 {
	if w.Words == 0 {
		if w.Errors == 0 {
			return 0
		}
		return 1
	}
	return float64(w.Errors) / float64(w.Words)
}

func (w WER) String() string {
	return fmt.Sprintf("WER: %g ( %d / %d )", w.Rate(), w.Errors, w.Words)
}

// Compute scores sys against ref line by line. When verbose is not nil a
// "wer ||| ref ||| sys" line is written for every sentence. If the inputs
// have different line counts the statistics of the common prefix are
// returned together with corpus.ErrUneven.
func Compute(ref, sys io.Reader, verbose io.Writer) (WER, error) {
	var total WER
	err := corpus.ReadParallel(ref, sys, func(_ int, r, s string) error {
		var sent WER
		sent.Add(strings.Fields(r), strings.Fields(s))
		total.Errors += sent.Errors
		total.Words += sent.Words
		total.Sentences++
		if verbose == nil {
			return nil
		}
		_, err := fmt.Fprintf(verbose, "%g ||| %s ||| %s\n", sent.Rate(), r, s)
		return err
	})
	return total, err
}

// WordDiff renders the word-level differences between ref and sys.
// Deleted words are shown as [-w-] and inserted words as {+w+}.
func WordDiff(ref, sys string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(wordLines(ref), wordLines(sys))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	parts := make([]string, 0, len(diffs))
	for _, d := range diffs {
		words := strings.Fields(d.Text)
		if len(words) == 0 {
			continue
		}
		txt := strings.Join(words, " ")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			txt = "[-" + txt + "-]"
		case diffmatchpatch.DiffInsert:
			txt = "{+" + txt + "+}"
		}
		parts = append(parts, txt)
	}
	return strings.Join(parts, " ")
}

// DiffCorpus writes "lineno: diff" for every line where sys differs from ref.
// It returns the number of differing lines.
func DiffCorpus(ref, sys io.Reader, w io.Writer) (int, error) {
	n := 0
	err := corpus.ReadParallel(ref, sys, func(lineno int, r, s string) error {
		if strings.Join(strings.Fields(r), " ") == strings.Join(strings.Fields(s), " ") {
			return nil
		}
		n++
		_, err := fmt.Fprintf(w, "%d: %s\n", lineno, WordDiff(r, s))
		return err
	})
	return n, err
}

// wordLines puts each word of s on its own line so the line-mode diff
// works on words.
func wordLines(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, "\n") + "\n"
}
