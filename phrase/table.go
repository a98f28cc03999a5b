// Package phrase implements the count-based phrase translation table that
// maps reduced phrases to the rich phrases observed with them.
package phrase

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultFloor is the smoothed probability of a reduced phrase never seen in training.
const DefaultFloor = 1e-6

// Separator divides the reduced and rich sides of a table line.
const Separator = "|||"

// Table holds co-occurrence counts of reduced and rich phrases.
// It is safe for concurrent reads once training is finished.
type Table struct {
	Floor float64

	counts map[string]map[string]int // reduced -> rich -> count
	totals map[string]int            // reduced -> sum of counts
}

// NewTable creates an empty table with the default smoothing floor.
func NewTable() *Table {
	return &Table{
		Floor:  DefaultFloor,
		counts: make(map[string]map[string]int),
		totals: make(map[string]int),
	}
}

// IncreaseCount adds c to the (reduced, rich) cell and to the reduced total.
func (t *Table) IncreaseCount(reduced, rich string, c int) {
	row, ok := t.counts[reduced]
	if !ok {
		row = make(map[string]int)
		t.counts[reduced] = row
	}
	row[rich] += c
	t.totals[reduced] += c
}

// Candidates returns the rich phrases seen with reduced, sorted.
// It returns nil for an unseen reduced phrase.
func (t *Table) Candidates(reduced string) []string {
	row := t.counts[reduced]
	if len(row) == 0 {
		return nil
	}
	out := make([]string, 0, len(row))
	for rich := range row {
		out = append(out, rich)
	}
	sort.Strings(out)
	return out
}

// Count returns the count of the (reduced, rich) pair.
func (t *Table) Count(reduced, rich string) int {
	return t.counts[reduced][rich]
}

// Total returns the summed count of all pairs with the given reduced phrase.
func (t *Table) Total(reduced string) int {
	return t.totals[reduced]
}

// Len returns the number of (reduced, rich) entries.
func (t *Table) Len() int {
	n := 0
	for _, row := range t.counts {
		n += len(row)
	}
	return n
}

// Probability returns count(reduced, rich) / total(reduced), or 0 when reduced is unseen.
func (t *Table) Probability(reduced, rich string) float64 {
	total := t.totals[reduced]
	if total == 0 {
		return 0
	}
	return float64(t.Count(reduced, rich)) / float64(total)
}

// SmoothedProbability returns Floor for an unseen reduced phrase and
// (1-Floor) * Probability otherwise.
func (t *Table) SmoothedProbability(reduced, rich string) float64 {
	if t.totals[reduced] == 0 {
		return t.Floor
	}
	return (1 - t.Floor) * t.Probability(reduced, rich)
}

// Load reads a table in "reduced ||| rich count" format.
// Blank lines are skipped; any other malformed line is an error.
func Load(r io.Reader) (*Table, error) {
	t := NewTable()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		reduced, rich, c, err := parseLine(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "phrase table line %d", lineno)
		}
		t.IncreaseCount(reduced, rich, c)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read phrase table")
	}
	return t, nil
}

func parseLine(fields []string) (string, string, int, error) {
	sep := -1
	for i, f := range fields {
		if f == Separator {
			sep = i
			break
		}
	}
	if sep < 0 {
		return "", "", 0, errors.New("missing separator")
	}
	last := len(fields) - 1
	if sep == 0 {
		return "", "", 0, errors.New("empty reduced phrase")
	}
	if last <= sep+1 {
		return "", "", 0, errors.New("missing rich phrase or count")
	}
	c, err := strconv.Atoi(fields[last])
	if err != nil {
		return "", "", 0, errors.Wrap(err, "parse count")
	}
	if c < 0 {
		return "", "", 0, errors.Errorf("negative count %d", c)
	}
	return strings.Join(fields[:sep], " "), strings.Join(fields[sep+1:last], " "), c, nil
}

// Save writes the table in "reduced ||| rich count" format, sorted by
// reduced then rich phrase.
func (t *Table) Save(w io.Writer) error {
	keys := make([]string, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, reduced := range keys {
		for _, rich := range t.Candidates(reduced) {
			if _, err := fmt.Fprintf(bw, "%s %s %s %d\n", reduced, Separator, rich, t.counts[reduced][rich]); err != nil {
				return errors.Wrap(err, "write phrase table")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "write phrase table")
}

// WithFloor returns a copy of t that shares its counts but uses smoothing
// floor f. t is not modified.
func (t *Table) WithFloor(f float64) *Table {
	c := *t
	c.Floor = f
	return &c
}
