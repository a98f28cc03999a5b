package decoder

import "container/heap"

type entry struct {
	hyp *Hypothesis
	seq uint64
}

// queue is a max-heap on score; equal scores pop in insertion order.
type queue []entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].hyp.Score != q[j].hyp.Score {
		return q[i].hyp.Score > q[j].hyp.Score
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any) { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*q = old[:n-1]
	return e
}

type record struct {
	score float64
	seq   uint64
}

// Frontier holds the active hypotheses of one search and the best score
// recorded for each recombination signature.
type Frontier struct {
	q         queue
	best      map[Signature]record
	seq       uint64
	recombine bool
}

// NewFrontier creates an empty frontier. With recombine false no
// hypothesis is ever discarded as dominated.
func NewFrontier(recombine bool) *Frontier {
	return &Frontier{best: make(map[Signature]record), recombine: recombine}
}

// Len returns the number of queued hypotheses, dominated ones included.
func (f *Frontier) Len() int { return len(f.q) }

// Push queues h and records its score for its signature. On equal scores
// the earlier hypothesis keeps the record.
func (f *Frontier) Push(h *Hypothesis) {
	e := entry{hyp: h, seq: f.seq}
	f.seq++
	heap.Push(&f.q, e)
	if !f.recombine {
		return
	}
	sig := h.Signature()
	if r, ok := f.best[sig]; !ok || h.Score > r.score {
		f.best[sig] = record{score: h.Score, seq: e.seq}
	}
}

// Pop removes and returns the highest-scoring hypothesis that is not
// dominated by another with the same signature. Dominated hypotheses are
// dropped. It returns false when the frontier is exhausted.
func (f *Frontier) Pop() (*Hypothesis, bool) {
	for len(f.q) > 0 {
		e := heap.Pop(&f.q).(entry)
		if !f.dominated(e) {
			return e.hyp, true
		}
	}
	return nil, false
}

func (f *Frontier) dominated(e entry) bool {
	if !f.recombine {
		return false
	}
	r, ok := f.best[e.hyp.Signature()]
	if !ok {
		return false
	}
	return r.score > e.hyp.Score || (r.score == e.hyp.Score && r.seq != e.seq)
}
