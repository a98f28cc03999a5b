package main

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gonuts/commander"
	"github.com/ieee0824/textrestore"
	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/decoder"
	"github.com/ieee0824/textrestore/eval"
	"github.com/ieee0824/textrestore/internal/config"
	"github.com/pkg/errors"
)

// devPair is one development sentence with its reference.
type devPair struct {
	input string
	ref   []string
}

type paramSet struct {
	Weights       decoder.Weights
	Interpolation float64
}

type tuneResult struct {
	params paramSet
	wer    eval.WER
}

type tuneFlags struct {
	common
	prefix  string
	task    string
	dev     string
	ref     string
	tm      string
	pp      string
	wp      string
	lm      string
	interps string
	workers int
	top     int
}

func (a *app) tuneCmd() *commander.Command {
	var f tuneFlags
	cmd := &commander.Command{
		UsageLine: "tune -m PREFIX -dev DEV -ref REF [options]",
		Short:     "grid searches decoder weights on a development set",
		Long: `
tune decodes a development set with every combination of the given weight
and interpolation values and ranks them by word error rate against the
reference. Unset weight lists default to the configured weight.

ex:
 $ textrestore tune -m models/en-recase -task recase -dev dev.lc -ref dev.txt -lm 0.5,1,2
`,
		Flag: *newFlagSet("tune"),
	}
	f.common.register(&cmd.Flag)
	cmd.Flag.StringVar(&f.prefix, "m", "", "model prefix (default from config)")
	cmd.Flag.StringVar(&f.task, "task", "detok", "detok or recase")
	cmd.Flag.StringVar(&f.dev, "dev", "", "development input (tokenized or lower-cased)")
	cmd.Flag.StringVar(&f.ref, "ref", "", "development reference")
	cmd.Flag.StringVar(&f.tm, "tm", "", "comma-separated translation weights")
	cmd.Flag.StringVar(&f.pp, "pp", "", "comma-separated phrase penalty weights")
	cmd.Flag.StringVar(&f.wp, "wp", "", "comma-separated word penalty weights")
	cmd.Flag.StringVar(&f.lm, "lm", "", "comma-separated language model weights")
	cmd.Flag.StringVar(&f.interps, "interp", "", "comma-separated interpolation weights")
	cmd.Flag.IntVar(&f.workers, "workers", 0, "parallel workers (default: NumCPU)")
	cmd.Flag.IntVar(&f.top, "top", 0, "print only the best n settings")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		cfg, logger, err := a.setup(&f.common)
		if err != nil {
			return err
		}
		if setFlags(&cmd.Flag)["m"] {
			cfg.ModelPrefix = f.prefix
		}
		if cfg.ModelPrefix == "" {
			return errors.New("no model prefix: use -m or model_prefix")
		}
		if f.dev == "" || f.ref == "" {
			return errors.New("missing -dev or -ref")
		}
		recase := false
		switch f.task {
		case "detok":
		case "recase":
			recase = true
		default:
			return errors.Errorf("unknown task %q", f.task)
		}

		grid, err := f.grid(cfg, logger)
		if err != nil {
			return err
		}
		dev, err := a.loadDev(f.dev, f.ref)
		if err != nil {
			return err
		}
		models, err := textrestore.LoadModels(cfg.ModelPrefix)
		if err != nil {
			return err
		}
		workers := f.workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		logger.Info("tuning", "combinations", len(grid), "sentences", len(dev), "workers", workers)

		inner := config.NewLogger(io.Discard, "error")
		if f.verbose {
			inner = logger
		}
		results := runGrid(models, decoderConfig(cfg, inner), cfg.Model.SmoothingFloor, grid, dev, recase, workers, inner)
		return printResults(a.stdout, results, f.top)
	}
	return cmd
}

// grid expands the per-weight value lists into every combination.
func (f *tuneFlags) grid(cfg *config.Config, logger *slog.Logger) ([]paramSet, error) {
	base := weights(cfg, logger)
	lists := make([][]float64, 5)
	for i, opt := range []struct {
		s   string
		def float64
	}{
		{f.tm, base.TM},
		{f.pp, base.PhrasePenalty},
		{f.wp, base.WordPenalty},
		{f.lm, base.LM},
		{f.interps, cfg.Model.Interpolation},
	} {
		vals, err := parseFloats(opt.s)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			vals = []float64{opt.def}
		}
		lists[i] = vals
	}

	var grid []paramSet
	for _, tm := range lists[0] {
		for _, pp := range lists[1] {
			for _, wp := range lists[2] {
				for _, lm := range lists[3] {
					for _, l := range lists[4] {
						grid = append(grid, paramSet{
							Weights:       decoder.Weights{TM: tm, PhrasePenalty: pp, WordPenalty: wp, LM: lm},
							Interpolation: l,
						})
					}
				}
			}
		}
	}
	return grid, nil
}

func (a *app) loadDev(devPath, refPath string) ([]devPair, error) {
	df, rf, err := a.openPair(devPath, refPath)
	if err != nil {
		return nil, err
	}
	defer df.Close()
	defer rf.Close()
	var dev []devPair
	err = corpus.ReadParallel(df, rf, func(_ int, in, ref string) error {
		dev = append(dev, devPair{input: in, ref: strings.Fields(ref)})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "read development set")
	}
	return dev, nil
}

// runGrid decodes dev with every parameter set. The models are shared
// read-only by all workers; each worker builds its own decoder.
func runGrid(models *textrestore.Models, base decoder.Config, floor float64, grid []paramSet, dev []devPair, recase bool, workers int, logger *slog.Logger) []tuneResult {
	results := make([]tuneResult, len(grid))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for gi, ps := range grid {
		wg.Add(1)
		sem <- struct{}{}
		go func(gi int, ps paramSet) {
			defer wg.Done()
			defer func() { <-sem }()
			cfg := base
			cfg.Weights = ps.Weights
			r := textrestore.NewRestorerFromModels(models,
				textrestore.WithDecoderConfig(cfg),
				textrestore.WithInterpolation(ps.Interpolation),
				textrestore.WithSmoothingFloor(floor),
				textrestore.WithLogger(logger),
			)
			restore := r.Detokenize
			if recase {
				restore = r.Recase
			}
			var w eval.WER
			for _, p := range dev {
				out, _ := restore(p.input)
				w.Add(p.ref, strings.Fields(out))
			}
			results[gi] = tuneResult{params: ps, wer: w}
			logger.Debug("evaluated", "weights", ps.Weights.String(), "interpolation", ps.Interpolation, "wer", w.Rate())
		}(gi, ps)
	}
	wg.Wait()

	// Lowest error first; grid order breaks ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].wer.Errors < results[j].wer.Errors
	})
	return results
}

func printResults(w io.Writer, results []tuneResult, top int) error {
	if top > 0 && top < len(results) {
		results = results[:top]
	}
	if _, err := fmt.Fprintf(w, "%-28s %-8s %8s %8s %8s\n", "Weights", "Interp", "Errors", "Words", "WER"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 64)); err != nil {
		return err
	}
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%-28s %-8g %8d %8d %8.4f\n",
			r.params.Weights.String(), r.params.Interpolation,
			r.wer.Errors, r.wer.Words, r.wer.Rate())
		if err != nil {
			return err
		}
	}
	return nil
}

func parseFloats(s string) ([]float64, error) {
	var vals []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid float %q", part)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
