package decoder

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrDeadEnd is returned when the frontier empties before a complete hypothesis is found.
	ErrDeadEnd = errors.New("search reached a dead end")
	// ErrIterationLimit is returned when a search step pops more than
	// MaxIterations+1 hypotheses.
	ErrIterationLimit = errors.New("search exceeded the iteration limit")
)

// Search is a resumable best-first search over one input. Each call to
// Next continues from the frontier left by the previous call, so the
// sequence of complete hypotheses is approximate n-best and cannot be
// restarted.
type Search struct {
	d          *Decoder
	src        []string
	frontier   *Frontier
	iterations int
	err        error
}

// NewSearch seeds a search for src with the root hypothesis.
func (d *Decoder) NewSearch(src []string) *Search {
	s := &Search{d: d, src: src, frontier: NewFrontier(d.cfg.Recombine)}
	s.frontier.Push(newRoot(d.lm.History(nil)))
	return s
}

// Iterations returns the total number of hypotheses popped so far.
func (s *Search) Iterations() int { return s.iterations }

// Next returns the next complete hypothesis. Once it returns an error,
// every later call returns the same error.
func (s *Search) Next() (*Hypothesis, error) {
	if s.err != nil {
		return nil, s.err
	}
	for n := 0; ; n++ {
		if n > s.d.cfg.MaxIterations {
			s.err = ErrIterationLimit
			return nil, s.err
		}
		h, ok := s.frontier.Pop()
		if !ok {
			s.err = ErrDeadEnd
			return nil, s.err
		}
		s.iterations++
		if s.d.debug {
			s.d.log.Debug("pop", "iteration", s.iterations, "score", h.Score, "coverage", h.Coverage(), "text", h.Text())
		}
		if h.Complete(len(s.src)) {
			return h, nil
		}
		for _, c := range s.d.Expand(s.src, h) {
			s.frontier.Push(c)
		}
	}
}

// NBest returns up to k complete hypotheses for src, best first. An error
// is returned only when no hypothesis was found.
func (d *Decoder) NBest(src []string, k int) ([]*Hypothesis, error) {
	if k < 1 {
		k = 1
	}
	s := d.NewSearch(src)
	var out []*Hypothesis
	for len(out) < k {
		h, err := s.Next()
		if err != nil {
			if len(out) == 0 {
				return nil, err
			}
			break
		}
		out = append(out, h)
	}
	if d.debug {
		d.log.Debug("search done", "tokens", len(src), "iterations", s.Iterations(), "found", len(out),
			"lm_logprob", d.lm.SentenceLogProb(strings.Fields(out[0].Text())))
	}
	return out, nil
}
