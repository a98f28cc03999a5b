package decoder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ieee0824/textrestore/internal/mathutil"
	"github.com/ieee0824/textrestore/language"
	"github.com/ieee0824/textrestore/phrase"
	"github.com/pkg/errors"
)

// Weights scale the four log-domain score components.
type Weights struct {
	TM            float64 // translation model
	PhrasePenalty float64
	WordPenalty   float64
	LM            float64 // language model
}

// DefaultWeights returns unit weights.
func DefaultWeights() Weights {
	return Weights{TM: 1, PhrasePenalty: 1, WordPenalty: 1, LM: 1}
}

// NewWeights builds weights from a slice in TM, phrase penalty, word
// penalty, LM order. Any other length yields DefaultWeights.
func NewWeights(w []float64) Weights {
	if len(w) != 4 {
		return DefaultWeights()
	}
	return Weights{TM: w[0], PhrasePenalty: w[1], WordPenalty: w[2], LM: w[3]}
}

// ParseWeights parses a comma or space separated list of exactly four weights.
func ParseWeights(s string) (Weights, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Weights{}, errors.Wrapf(err, "parse weight %q", f)
		}
		vals = append(vals, v)
	}
	if len(vals) != 4 {
		return Weights{}, errors.Errorf("need 4 weights, got %d", len(vals))
	}
	return NewWeights(vals), nil
}

// Slice returns the weights in TM, phrase penalty, word penalty, LM order.
func (w Weights) Slice() []float64 {
	return []float64{w.TM, w.PhrasePenalty, w.WordPenalty, w.LM}
}

func (w Weights) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", w.TM, w.PhrasePenalty, w.WordPenalty, w.LM)
}

// Config holds search parameters.
type Config struct {
	Weights       Weights
	MaxSpan       int // longest reduced span covered by one phrase
	// MaxIterations bounds one search step: it fails once more than
	// MaxIterations+1 hypotheses were popped without completing one.
	MaxIterations int
	// IdentityFallback lets an unseen single token translate to itself.
	IdentityFallback bool
	// Recombine discards hypotheses dominated by one with the same signature.
	Recombine bool
}

// DefaultConfig returns reasonable default parameters.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		MaxSpan:          7,
		MaxIterations:    100000,
		IdentityFallback: true,
		Recombine:        true,
	}
}

// Decoder searches for the best rich segmentation of reduced input.
// The models are only read, so one pair of models may back many decoders.
type Decoder struct {
	tm    *phrase.Table
	lm    *language.NGramModel
	cfg   Config
	log   *slog.Logger
	debug bool
}

// New creates a decoder. A nil logger uses slog.Default().
func New(tm *phrase.Table, lm *language.NGramModel, cfg Config, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxSpan < 1 {
		cfg.MaxSpan = 1
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}
	return &Decoder{
		tm:    tm,
		lm:    lm,
		cfg:   cfg,
		log:   logger,
		debug: logger.Enabled(context.Background(), slog.LevelDebug),
	}
}

// Config returns the decoder configuration.
func (d *Decoder) Config() Config { return d.cfg }

// Expand returns every child of h: for each endpoint up to MaxSpan tokens
// ahead, one hypothesis per rich candidate of the reduced span.
func (d *Decoder) Expand(src []string, h *Hypothesis) []*Hypothesis {
	var children []*Hypothesis
	start := h.end + 1
	for end := start; end < len(src) && end < start+d.cfg.MaxSpan; end++ {
		reduced := strings.Join(src[start:end+1], " ")
		cands := d.tm.Candidates(reduced)
		if len(cands) == 0 && end == start && d.cfg.IdentityFallback {
			cands = []string{reduced}
		}
		if d.debug {
			d.log.Debug("expand", "end", end, "reduced", reduced, "options", len(cands))
		}
		for _, rich := range cands {
			children = append(children, d.extend(h, end, reduced, rich, end == len(src)-1))
		}
	}
	return children
}

func (d *Decoder) extend(h *Hypothesis, end int, reduced, rich string, complete bool) *Hypothesis {
	w := d.cfg.Weights
	words := strings.Fields(rich)

	tm := mathutil.SafeLog(d.tm.SmoothedProbability(reduced, rich))
	pp := mathutil.LogInvE
	wp := float64(len(words)) * mathutil.LogInvE

	lm := 0.0
	hist := h.history
	for _, word := range words {
		lm += d.lm.LogProb(hist, word)
		hist = d.lm.Extend(hist, word)
	}
	if complete {
		lm += d.lm.LogProb(hist, d.lm.EOS)
	}

	child := &Hypothesis{
		Score:   h.Score + w.TM*tm + w.PhrasePenalty*pp + w.WordPenalty*wp + w.LM*lm,
		parent:  h,
		end:     end,
		phrase:  rich,
		history: hist,
		depth:   h.depth + 1,
	}
	if d.debug {
		d.log.Debug("option", "rich", rich, "score", child.Score,
			"tm", w.TM*tm, "pp", w.PhrasePenalty*pp, "wp", w.WordPenalty*wp, "lm", w.LM*lm)
	}
	return child
}
