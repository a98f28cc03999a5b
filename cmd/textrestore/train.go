package main

import (
	"io"
	"log/slog"

	"github.com/gonuts/commander"
	"github.com/ieee0824/textrestore"
	"github.com/ieee0824/textrestore/language"
	"github.com/pkg/errors"
)

type trainFlags struct {
	common
	raw    string
	tok    string
	order  int
	prefix string
}

func (a *app) trainDetokCmd() *commander.Command {
	var f trainFlags
	cmd := &commander.Command{
		UsageLine: "train-detok [options]",
		Short:     "trains detokenization models",
		Long: `
train-detok builds a phrase table and language model from raw text.

Without -tok every raw line is tokenized with the built-in tokenizer;
with -tok the tokenized corpus is read line-parallel to -raw.

ex:
 $ textrestore train-detok -raw train.txt -o models/en-detok
`,
		Flag: *newFlagSet("train-detok"),
	}
	f.common.register(&cmd.Flag)
	cmd.Flag.StringVar(&f.raw, "raw", "", "raw (detokenized) corpus, - for stdin")
	cmd.Flag.StringVar(&f.tok, "tok", "", "optional tokenized corpus parallel to -raw")
	cmd.Flag.IntVar(&f.order, "order", 0, "language model order (default from config)")
	cmd.Flag.StringVar(&f.prefix, "o", "", "output model prefix (default from config)")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		return a.train(cmd, &f, func(raw, tok io.Reader, order int, logger *slog.Logger) (*textrestore.Models, error) {
			models, _, err := textrestore.TrainDetokenizer(raw, tok, order, logger)
			return models, err
		})
	}
	return cmd
}

func (a *app) trainRecaseCmd() *commander.Command {
	var f trainFlags
	cmd := &commander.Command{
		UsageLine: "train-recase [options]",
		Short:     "trains recasing models",
		Long: `
train-recase builds a phrase table and language model from true-cased text.

ex:
 $ textrestore train-recase -raw train.txt -o models/en-recase
`,
		Flag: *newFlagSet("train-recase"),
	}
	f.common.register(&cmd.Flag)
	cmd.Flag.StringVar(&f.raw, "raw", "", "true-cased corpus, - for stdin")
	cmd.Flag.IntVar(&f.order, "order", 0, "language model order (default from config)")
	cmd.Flag.StringVar(&f.prefix, "o", "", "output model prefix (default from config)")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		return a.train(cmd, &f, func(raw, _ io.Reader, order int, logger *slog.Logger) (*textrestore.Models, error) {
			models, _, err := textrestore.TrainRecaser(raw, order, logger)
			return models, err
		})
	}
	return cmd
}

type trainFunc func(raw, tok io.Reader, order int, logger *slog.Logger) (*textrestore.Models, error)

func (a *app) train(cmd *commander.Command, f *trainFlags, fn trainFunc) error {
	cfg, logger, err := a.setup(&f.common)
	if err != nil {
		return err
	}
	set := setFlags(&cmd.Flag)
	if set["order"] {
		cfg.Model.Order = f.order
	}
	if set["o"] {
		cfg.ModelPrefix = f.prefix
	}
	if cfg.ModelPrefix == "" {
		return errors.New("no model prefix: use -o or model_prefix")
	}
	if cfg.Model.Order < 1 {
		return errors.Errorf("order must be >= 1, got %d", cfg.Model.Order)
	}

	raw, err := a.openInput(f.raw)
	if err != nil {
		return err
	}
	defer raw.Close()
	var tok io.Reader
	if f.tok != "" {
		tf, err := a.openInput(f.tok)
		if err != nil {
			return err
		}
		defer tf.Close()
		tok = tf
	}

	models, err := fn(raw, tok, cfg.Model.Order, logger)
	if err != nil {
		return err
	}
	if err := models.Save(cfg.ModelPrefix); err != nil {
		return err
	}
	logger.Info("saved models", "prefix", cfg.ModelPrefix)
	return nil
}

func (a *app) lmBuildCmd() *commander.Command {
	var (
		c      common
		order  int
		output string
	)
	cmd := &commander.Command{
		UsageLine: "lm-build [options] [input-files...]",
		Short:     "builds a count language model from tokenized text",
		Long: `
lm-build counts n-grams over one sentence per line, words separated by
spaces. If no input files are given it reads stdin.

ex:
 $ textrestore lm-build -order 3 -o en.lm corpus.txt
`,
		Flag: *newFlagSet("lm-build"),
	}
	c.register(&cmd.Flag)
	cmd.Flag.IntVar(&order, "order", 0, "n-gram order (default from config)")
	cmd.Flag.StringVar(&output, "o", "", "output file (default: stdout)")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		cfg, logger, err := a.setup(&c)
		if err != nil {
			return err
		}
		if setFlags(&cmd.Flag)["order"] {
			cfg.Model.Order = order
		}
		if cfg.Model.Order < 1 {
			return errors.Errorf("order must be >= 1, got %d", cfg.Model.Order)
		}
		if len(args) == 0 {
			args = []string{"-"}
		}

		lm := language.NewNGramModel(cfg.Model.Order)
		sentences := 0
		for _, path := range args {
			in, err := a.openInput(path)
			if err != nil {
				return err
			}
			n, err := lm.AddCorpus(in)
			in.Close()
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			sentences += n
		}

		out, err := a.createOutput(output)
		if err != nil {
			return err
		}
		if err := lm.Save(out); err != nil {
			out.Close()
			return errors.Wrap(err, "write language model")
		}
		if err := out.Close(); err != nil {
			return err
		}
		logger.Info("built language model", "order", lm.Order, "ngrams", lm.Len(), "vocab", len(lm.Vocab()), "sentences", sentences)
		if longest := lm.LongestNGram(); longest < lm.Order {
			logger.Warn("longest n-gram is shorter than the model order; the model will load with the lower order",
				"order", lm.Order, "longest", longest)
		}
		return nil
	}
	return cmd
}
