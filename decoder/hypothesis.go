package decoder

import "strings"

// Hypothesis is a partial segmentation of the input. Hypotheses are
// immutable; each expansion links a new node to its parent so the phrase
// and coverage history is shared rather than copied.
type Hypothesis struct {
	Score float64

	parent  *Hypothesis
	end     int      // last covered input position, -1 for the root
	phrase  string   // rich phrase added by the last expansion
	history []string // language model history after phrase
	depth   int      // number of phrases
}

// Signature identifies hypotheses whose future expansions score identically.
type Signature struct {
	Last    int
	History string
}

func newRoot(history []string) *Hypothesis {
	return &Hypothesis{end: -1, history: history}
}

// IsRoot reports whether h is the empty starting hypothesis.
func (h *Hypothesis) IsRoot() bool { return h.parent == nil }

// Last returns the last covered input position, or -1 for the root.
func (h *Hypothesis) Last() int { return h.end }

// Complete reports whether h covers all n input tokens.
func (h *Hypothesis) Complete(n int) bool { return h.end == n-1 }

// Signature returns the recombination signature of h.
func (h *Hypothesis) Signature() Signature {
	return Signature{Last: h.end, History: strings.Join(h.history, " ")}
}

// Coverage returns the right boundary of each covered span, in order.
func (h *Hypothesis) Coverage() []int {
	cov := make([]int, h.depth)
	cur := h
	for i := h.depth - 1; i >= 0; i-- {
		cov[i] = cur.end
		cur = cur.parent
	}
	return cov
}

// Phrases returns the rich phrases of h, in order.
func (h *Hypothesis) Phrases() []string {
	phrases := make([]string, h.depth)
	cur := h
	for i := h.depth - 1; i >= 0; i-- {
		phrases[i] = cur.phrase
		cur = cur.parent
	}
	return phrases
}

// Text returns the rich phrases joined by spaces.
func (h *Hypothesis) Text() string {
	return strings.Join(h.Phrases(), " ")
}
