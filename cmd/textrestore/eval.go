package main

import (
	"fmt"
	"io"

	"github.com/gonuts/commander"
	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/eval"
	"github.com/pkg/errors"
)

func (a *app) werCmd() *commander.Command {
	var (
		c        common
		ref, sys string
		verbose  string
		diff     bool
	)
	cmd := &commander.Command{
		UsageLine: "wer -ref REF -sys SYS [options]",
		Short:     "computes the word error rate of a system output",
		Long: `
wer compares a system output against a reference line by line and prints
the corpus word error rate.

ex:
 $ textrestore wer -ref test.txt -sys test.out -diff
`,
		Flag: *newFlagSet("wer"),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&ref, "ref", "", "reference file")
	cmd.Flag.StringVar(&sys, "sys", "", "system output file, - for stdin")
	cmd.Flag.StringVar(&verbose, "sentences", "", "write per-sentence scores to this file")
	cmd.Flag.BoolVar(&diff, "diff", false, "print word diffs of differing lines instead of the score")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		_, logger, err := a.setup(&c)
		if err != nil {
			return err
		}
		if ref == "" {
			return errors.New("missing -ref")
		}
		rf, sf, err := a.openPair(ref, sys)
		if err != nil {
			return err
		}
		defer rf.Close()
		defer sf.Close()

		if diff {
			n, err := eval.DiffCorpus(rf, sf, a.stdout)
			if errors.Is(err, corpus.ErrUneven) {
				logger.Warn("reference and system differ in length", "err", err)
				err = nil
			}
			logger.Debug("diffed corpus", "differing", n)
			return err
		}

		var sentences io.Writer
		if verbose != "" {
			vf, err := a.createOutput(verbose)
			if err != nil {
				return err
			}
			defer vf.Close()
			sentences = vf
		}
		w, err := eval.Compute(rf, sf, sentences)
		if errors.Is(err, corpus.ErrUneven) {
			logger.Warn("reference and system differ in length", "err", err)
		} else if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, w)
		return err
	}
	return cmd
}

func (a *app) openPair(first, second string) (io.ReadCloser, io.ReadCloser, error) {
	f1, err := a.openInput(first)
	if err != nil {
		return nil, nil, err
	}
	f2, err := a.openInput(second)
	if err != nil {
		f1.Close()
		return nil, nil, err
	}
	return f1, f2, nil
}

func (a *app) cleanCmd() *commander.Command {
	var (
		c                  common
		src, trg           string
		accepted, rejected string
		filter             = corpus.DefaultLengthFilter()
	)
	cmd := &commander.Command{
		UsageLine: "clean -src SRC -trg TRG [options]",
		Short:     "filters a parallel corpus by sentence length",
		Long: `
clean drops sentence pairs whose sides are empty, too long, or differ too
much in length. Accepted line numbers are written to -accepted and rejected
pairs to -rejected.

ex:
 $ textrestore clean -src train.tok -trg train.txt -accepted keep.txt
`,
		Flag: *newFlagSet("clean"),
	}
	c.register(&cmd.Flag)
	cmd.Flag.StringVar(&src, "src", "", "source side")
	cmd.Flag.StringVar(&trg, "trg", "", "target side")
	cmd.Flag.StringVar(&accepted, "accepted", "", "accepted line numbers (default: stdout)")
	cmd.Flag.StringVar(&rejected, "rejected", "", "rejected pairs (default: discarded)")
	cmd.Flag.IntVar(&filter.Min, "min", filter.Min, "minimum words per side")
	cmd.Flag.IntVar(&filter.Max, "max", filter.Max, "maximum words per side")
	cmd.Flag.IntVar(&filter.MaxDiff, "max-diff", filter.MaxDiff, "maximum length difference")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		_, logger, err := a.setup(&c)
		if err != nil {
			return err
		}
		if src == "" || trg == "" {
			return errors.New("missing -src or -trg")
		}
		sf, tf, err := a.openPair(src, trg)
		if err != nil {
			return err
		}
		defer sf.Close()
		defer tf.Close()

		acc, err := a.createOutput(accepted)
		if err != nil {
			return err
		}
		defer acc.Close()
		var rej io.Writer = io.Discard
		if rejected != "" {
			rf, err := a.createOutput(rejected)
			if err != nil {
				return err
			}
			defer rf.Close()
			rej = rf
		}

		n, err := filter.Clean(sf, tf, acc, rej)
		if errors.Is(err, corpus.ErrUneven) {
			logger.Warn("corpora differ in length", "err", err)
		} else if err != nil {
			return err
		}
		logger.Info("cleaned corpus", "accepted", n)
		return nil
	}
	return cmd
}
