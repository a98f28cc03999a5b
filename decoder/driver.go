package decoder

import (
	"fmt"
	"io"
	"strings"

	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/textproc"
)

// DetokenizeNBest returns up to k detokenizations of a tokenized line.
// Tokens are reduced to their word shapes for the search and the output is
// rebuilt from the original tokens along the chosen segmentation.
func (d *Decoder) DetokenizeNBest(line string, k int) ([]Result, error) {
	tokens := strings.Fields(textproc.Normalize(line))
	if len(tokens) == 0 {
		return []Result{{}}, nil
	}
	shaped := make([]string, len(tokens))
	for i, tok := range tokens {
		shaped[i] = textproc.TransformWord(tok)
	}

	hyps, err := d.NBest(shaped, k)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(hyps))
	for i, h := range hyps {
		words := detokWords(tokens, h.Coverage())
		results[i] = Result{
			Text:     strings.Join(words, " "),
			Segments: segments(h, tokens, words),
			LogScore: h.Score,
		}
	}
	return results, nil
}

// RecaseNBest returns up to k recasings of a lower-cased line.
func (d *Decoder) RecaseNBest(line string, k int) ([]Result, error) {
	words := strings.Fields(textproc.Normalize(line))
	if len(words) == 0 {
		return []Result{{}}, nil
	}
	hyps, err := d.NBest(words, k)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(hyps))
	for i, h := range hyps {
		results[i] = Result{
			Text:     h.Text(),
			Segments: segments(h, words, h.Phrases()),
			LogScore: h.Score,
		}
	}
	return results, nil
}

// DetokenizeLine returns the best detokenization of line. On failure it
// returns line unchanged together with the error.
func (d *Decoder) DetokenizeLine(line string) (string, error) {
	rs, err := d.DetokenizeNBest(line, 1)
	if err != nil {
		return line, err
	}
	return rs[0].Text, nil
}

// RecaseLine returns the best recasing of line. On failure it returns line
// unchanged together with the error.
func (d *Decoder) RecaseLine(line string) (string, error) {
	rs, err := d.RecaseNBest(line, 1)
	if err != nil {
		return line, err
	}
	return rs[0].Text, nil
}

// Detokenize detokenizes r line by line into w. Lines may be of any
// length. Lines that cannot be decoded are copied unchanged and logged as
// warnings.
func (d *Decoder) Detokenize(r io.Reader, w io.Writer) error {
	return d.run(r, w, d.DetokenizeLine, "no detokenization found")
}

// Recase recases r line by line into w. Lines may be of any length. Lines
// that cannot be decoded are copied unchanged and logged as warnings.
func (d *Decoder) Recase(r io.Reader, w io.Writer) error {
	return d.run(r, w, d.RecaseLine, "no recasing found")
}

func (d *Decoder) run(r io.Reader, w io.Writer, decode func(string) (string, error), msg string) error {
	return corpus.ReadLines(r, func(lineno int, line string) error {
		out, err := decode(line)
		if err != nil {
			d.log.Warn(msg, "line", lineno, "err", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	})
}

// detokWords glues the original tokens of each covered span together.
func detokWords(tokens []string, coverage []int) []string {
	words := make([]string, len(coverage))
	start := 0
	for i, end := range coverage {
		words[i] = strings.Join(tokens[start:end+1], "")
		start = end + 1
	}
	return words
}
