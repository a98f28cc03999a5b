package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gonuts/commander"
	"github.com/ieee0824/textrestore"
	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/decoder"
	"github.com/ieee0824/textrestore/internal/config"
	"github.com/pkg/errors"
)

type decodeFlags struct {
	common
	prefix        string
	weights       string
	interp        float64
	floor         float64
	nbest         int
	maxSpan       int
	maxIterations int
	output        string
}

// apply overrides cfg with the decoding flags given on the command line.
func (f *decodeFlags) apply(cmd *commander.Command, cfg *config.Config) error {
	set := setFlags(&cmd.Flag)
	if set["m"] {
		cfg.ModelPrefix = f.prefix
	}
	if set["w"] {
		w, err := decoder.ParseWeights(f.weights)
		if err != nil {
			return err
		}
		cfg.Decoder.Weights = w.Slice()
	}
	if set["interp"] {
		cfg.Model.Interpolation = f.interp
	}
	if set["floor"] {
		cfg.Model.SmoothingFloor = f.floor
	}
	if set["nbest"] {
		cfg.Decoder.NBest = f.nbest
	}
	if set["max-span"] {
		cfg.Decoder.MaxSpan = f.maxSpan
	}
	if set["max-iter"] {
		cfg.Decoder.MaxIterations = f.maxIterations
	}
	if cfg.ModelPrefix == "" {
		return errors.New("no model prefix: use -m or model_prefix")
	}
	return cfg.Validate()
}

// weights returns the configured decoder weights. A list without exactly
// four values falls back to the defaults.
func weights(cfg *config.Config, logger *slog.Logger) decoder.Weights {
	if n := len(cfg.Decoder.Weights); n != 4 {
		logger.Warn("decoder weights need 4 values, using defaults", "got", n, "defaults", decoder.DefaultWeights().String())
	}
	return decoder.NewWeights(cfg.Decoder.Weights)
}

// decoderConfig converts the file configuration into decoder settings.
func decoderConfig(cfg *config.Config, logger *slog.Logger) decoder.Config {
	dc := decoder.DefaultConfig()
	dc.Weights = weights(cfg, logger)
	dc.MaxSpan = cfg.Decoder.MaxSpan
	dc.MaxIterations = cfg.Decoder.MaxIterations
	return dc
}

func restorerOptions(cfg *config.Config, logger *slog.Logger) []textrestore.Option {
	return []textrestore.Option{
		textrestore.WithDecoderConfig(decoderConfig(cfg, logger)),
		textrestore.WithInterpolation(cfg.Model.Interpolation),
		textrestore.WithSmoothingFloor(cfg.Model.SmoothingFloor),
		textrestore.WithLogger(logger),
	}
}

func (a *app) decodeCmd(name, short, long string, nbest func(*decoder.Decoder, string, int) ([]decoder.Result, error)) *commander.Command {
	var f decodeFlags
	cmd := &commander.Command{
		UsageLine: name + " [options] [input-file]",
		Short:     short,
		Long:      long,
		Flag:      *newFlagSet(name),
	}
	f.common.register(&cmd.Flag)
	cmd.Flag.StringVar(&f.prefix, "m", "", "model prefix (default from config)")
	cmd.Flag.StringVar(&f.weights, "w", "", "decoder weights: tm,phrase-penalty,word-penalty,lm")
	cmd.Flag.Float64Var(&f.interp, "interp", 0, "language model interpolation weight")
	cmd.Flag.Float64Var(&f.floor, "floor", 0, "phrase table smoothing floor")
	cmd.Flag.IntVar(&f.nbest, "nbest", 0, "print the n best candidates per line")
	cmd.Flag.IntVar(&f.maxSpan, "max-span", 0, "longest phrase in input tokens")
	cmd.Flag.IntVar(&f.maxIterations, "max-iter", 0, "search iteration limit per sentence")
	cmd.Flag.StringVar(&f.output, "o", "", "output file (default: stdout)")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		cfg, logger, err := a.setup(&f.common)
		if err != nil {
			return err
		}
		if err := f.apply(cmd, cfg); err != nil {
			return err
		}
		r, err := textrestore.NewRestorer(cfg.ModelPrefix, restorerOptions(cfg, logger)...)
		if err != nil {
			return err
		}

		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		in, err := a.openInput(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := a.createOutput(f.output)
		if err != nil {
			return err
		}
		if err := decodeStream(r.Decoder(), in, out, cfg.Decoder.NBest, nbest, logger); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	return cmd
}

// decodeStream writes one line per input line, or with k > 1 the
// "lineno ||| text ||| score" lines of every candidate. A line that cannot
// be decoded is echoed with a warning.
func decodeStream(d *decoder.Decoder, r io.Reader, w io.Writer, k int, nbest func(*decoder.Decoder, string, int) ([]decoder.Result, error), logger *slog.Logger) error {
	return corpus.ReadLines(r, func(lineno int, line string) error {
		results, err := nbest(d, line, k)
		if err != nil {
			logger.Warn("decoding failed", "line", lineno, "err", err)
			results = []decoder.Result{{Text: line}}
		}
		for _, res := range results {
			if k > 1 {
				_, err = fmt.Fprintf(w, "%d ||| %s ||| %g\n", lineno, res.Text, res.LogScore)
			} else {
				_, err = fmt.Fprintln(w, res.Text)
			}
			if err != nil {
				return err
			}
			if k <= 1 {
				break
			}
		}
		return nil
	})
}

func (a *app) detokCmd() *commander.Command {
	return a.decodeCmd("detok", "detokenizes tokenized text", `
detok restores the original spacing of tokenized text, one sentence per
line, using models trained with train-detok.

ex:
 $ textrestore detok -m models/en-detok < tokenized.txt
`, (*decoder.Decoder).DetokenizeNBest)
}

func (a *app) recaseCmd() *commander.Command {
	return a.decodeCmd("recase", "restores the case of lower-cased text", `
recase restores the original case of lower-cased text, one sentence per
line, using models trained with train-recase.

ex:
 $ textrestore recase -m models/en-recase -nbest 5 lower.txt
`, (*decoder.Decoder).RecaseNBest)
}
