package decoder

import "strings"

// Result holds one decoded line.
type Result struct {
	Text     string    // rich output text
	Segments []Segment // phrase-level details
	LogScore float64   // weighted log score of the hypothesis
}

// Segment is one phrase of a result, covering input tokens Start..End inclusive.
type Segment struct {
	Start   int
	End     int
	Reduced string
	Rich    string
}

func segments(h *Hypothesis, reduced []string, rich []string) []Segment {
	cov := h.Coverage()
	segs := make([]Segment, len(cov))
	start := 0
	for i, end := range cov {
		segs[i] = Segment{Start: start, End: end, Reduced: strings.Join(reduced[start:end+1], " "), Rich: rich[i]}
		start = end + 1
	}
	return segs
}
