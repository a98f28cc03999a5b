// Package corpus reads line-oriented text corpora.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrUneven is returned by ReadParallel when one stream has more lines than the other.
var ErrUneven = errors.New("parallel streams have different line counts")

// lineReader yields the lines of a stream without a length limit. Line
// endings ("\n" or "\r\n") are stripped; a final line without one is kept.
type lineReader struct {
	br  *bufio.Reader
	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

func (lr *lineReader) next() (string, bool) {
	if lr.err != nil {
		return "", false
	}
	line, err := lr.br.ReadString('\n')
	if err != nil {
		lr.err = err
		if err != io.EOF || line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true
}

// Err returns the first read error other than io.EOF.
func (lr *lineReader) Err() error {
	if lr.err == io.EOF {
		return nil
	}
	return lr.err
}

// ReadLines calls fn for each line of r with its 1-based line number.
// Lines may be of any length. Iteration stops at the first error returned
// by fn.
func ReadLines(r io.Reader, fn func(lineno int, line string) error) error {
	lr := newLineReader(r)
	lineno := 0
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		lineno++
		if err := fn(lineno, line); err != nil {
			return err
		}
	}
	return errors.Wrap(lr.Err(), "read lines")
}

// ReadParallel calls fn for each pair of lines read from a and b in step.
// Reading stops at the end of the shorter stream; if the other still has
// lines, ErrUneven is returned after all pairs were delivered.
func ReadParallel(a, b io.Reader, fn func(lineno int, la, lb string) error) error {
	ra, rb := newLineReader(a), newLineReader(b)
	lineno := 0
	for {
		la, okA := ra.next()
		lb, okB := rb.next()
		if !okA || !okB {
			if err := ra.Err(); err != nil {
				return errors.Wrap(err, "read first stream")
			}
			if err := rb.Err(); err != nil {
				return errors.Wrap(err, "read second stream")
			}
			if okA != okB {
				return errors.Wrapf(ErrUneven, "after %d lines", lineno)
			}
			return nil
		}
		lineno++
		if err := fn(lineno, la, lb); err != nil {
			return err
		}
	}
}

// LengthFilter accepts sentence pairs by word count.
type LengthFilter struct {
	Min     int // minimum words per side
	Max     int // maximum words per side
	MaxDiff int // maximum difference in word count between sides
}

// DefaultLengthFilter returns the filter used by the clean command.
func DefaultLengthFilter() LengthFilter {
	return LengthFilter{Min: 1, Max: 80, MaxDiff: 15}
}

// Accept reports whether the pair passes the filter.
func (f LengthFilter) Accept(src, trg string) bool {
	sl, tl := len(strings.Fields(src)), len(strings.Fields(trg))
	diff := sl - tl
	if diff < 0 {
		diff = -diff
	}
	return sl >= f.Min && tl >= f.Min && sl <= f.Max && tl <= f.Max && diff <= f.MaxDiff
}

// Clean applies the filter to a parallel corpus. Line numbers of accepted
// pairs are written to accepted, one per line; rejected pairs are written
// to rejected as "lineno src <-> trg". It returns the number of accepted pairs.
func (f LengthFilter) Clean(src, trg io.Reader, accepted, rejected io.Writer) (int, error) {
	n := 0
	err := ReadParallel(src, trg, func(lineno int, s, t string) error {
		if f.Accept(s, t) {
			n++
			_, err := fmt.Fprintln(accepted, lineno)
			return err
		}
		_, err := fmt.Fprintf(rejected, "%d %s <-> %s\n", lineno, s, t)
		return err
	})
	return n, err
}
