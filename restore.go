package textrestore

import (
	"io"
	"log/slog"

	"github.com/ieee0824/textrestore/decoder"
	"github.com/pkg/errors"
)

// Restorer is the top-level detokenizer and recaser.
type Restorer struct {
	Models *Models
	DecCfg decoder.Config
	Logger *slog.Logger

	interp *float64
	floor  *float64
	dec    *decoder.Decoder
}

// Option configures a Restorer.
type Option func(*Restorer)

// WithDecoderConfig sets custom decoder parameters.
func WithDecoderConfig(cfg decoder.Config) Option {
	return func(r *Restorer) {
		r.DecCfg = cfg
	}
}

// WithWeights sets the decoder weights.
func WithWeights(w decoder.Weights) Option {
	return func(r *Restorer) {
		r.DecCfg.Weights = w
	}
}

// WithInterpolation overrides the language model interpolation weight.
// The loaded model itself is left unchanged.
func WithInterpolation(l float64) Option {
	return func(r *Restorer) {
		r.interp = &l
	}
}

// WithSmoothingFloor overrides the phrase table smoothing floor.
func WithSmoothingFloor(f float64) Option {
	return func(r *Restorer) {
		r.floor = &f
	}
}

// WithLogger sets the logger for warnings and search diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Restorer) {
		r.Logger = l
	}
}

// NewRestorer creates a Restorer from the model files at prefix.
func NewRestorer(prefix string, opts ...Option) (*Restorer, error) {
	m, err := LoadModels(prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "load models %s", prefix)
	}
	r := NewRestorerFromModels(m, opts...)
	r.Logger.Info("loaded models", "prefix", prefix, "order", m.LM.Order, "phrases", m.TM.Len(), "ngrams", m.LM.Len())
	return r, nil
}

// NewRestorerFromModels creates a Restorer from pre-loaded models. The
// models are only read and may be shared between restorers.
func NewRestorerFromModels(m *Models, opts ...Option) *Restorer {
	r := &Restorer{
		Models: m,
		DecCfg: decoder.DefaultConfig(),
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	tm, lm := m.TM, m.LM
	if r.floor != nil {
		tm = tm.WithFloor(*r.floor)
	}
	if r.interp != nil {
		lm = lm.WithInterpolation(*r.interp)
	}
	r.dec = decoder.New(tm, lm, r.DecCfg, r.Logger)
	r.Logger.Debug("decoder ready", "weights", r.DecCfg.Weights.String(), "interpolation", lm.Interpolation(), "floor", tm.Floor)
	return r
}

// Decoder returns the underlying decoder.
func (r *Restorer) Decoder() *decoder.Decoder { return r.dec }

// Detokenize returns the best detokenization of a tokenized line, or the
// line unchanged together with the search error.
func (r *Restorer) Detokenize(line string) (string, error) {
	return r.dec.DetokenizeLine(line)
}

// Recase returns the best recasing of a lower-cased line, or the line
// unchanged together with the search error.
func (r *Restorer) Recase(line string) (string, error) {
	return r.dec.RecaseLine(line)
}

// DetokenizeStream detokenizes in line by line into out.
func (r *Restorer) DetokenizeStream(in io.Reader, out io.Writer) error {
	return r.dec.Detokenize(in, out)
}

// RecaseStream recases in line by line into out.
func (r *Restorer) RecaseStream(in io.Reader, out io.Writer) error {
	return r.dec.Recase(in, out)
}
