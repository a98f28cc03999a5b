package main

import (
	"fmt"
	"strings"

	"github.com/gonuts/commander"
	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/textproc"
	"github.com/pkg/errors"
)

type preprocFlags struct {
	common
	tokenize   bool
	lowercase  bool
	categorize bool
	strip      bool
	atoms      string
	output     string
}

// pipeline returns the line transformation selected by the flags. Lines are
// always NFC-normalized first.
func (f *preprocFlags) pipeline(tok *textproc.Tokenizer) func(string) string {
	return func(line string) string {
		line = textproc.Normalize(line)
		if f.strip {
			line = textproc.RemoveAnnotations(line)
		}
		if f.tokenize {
			line = strings.Join(tok.TokenizeAnnotated(line), " ")
		}
		if f.lowercase {
			line = textproc.Lowercase(line)
		}
		if f.categorize {
			line = textproc.Categorize(line)
		}
		return line
	}
}

// loadAtoms reads one atom per line, ignoring blank lines.
func (a *app) loadAtoms(path string) ([]string, error) {
	in, err := a.openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	var atoms []string
	err = corpus.ReadLines(in, func(_ int, line string) error {
		if line = strings.TrimSpace(line); line != "" {
			atoms = append(atoms, line)
		}
		return nil
	})
	return atoms, errors.Wrap(err, "read atoms")
}

func (a *app) preprocCmd() *commander.Command {
	var f preprocFlags
	cmd := &commander.Command{
		UsageLine: "preproc [options] [input-file]",
		Short:     "tokenizes, lower-cases and categorizes text",
		Long: `
preproc prepares text for training or decoding. Steps run in the order
strip, tokenize, lowercase, categorize; annotation tags survive every step
except strip.

ex:
 $ textrestore preproc -tokenize -lowercase < raw.txt > reduced.txt
`,
		Flag: *newFlagSet("preproc"),
	}
	f.common.register(&cmd.Flag)
	cmd.Flag.BoolVar(&f.tokenize, "tokenize", false, "split words and punctuation")
	cmd.Flag.BoolVar(&f.lowercase, "lowercase", false, "lower-case text outside tags")
	cmd.Flag.BoolVar(&f.categorize, "categorize", false, "replace numbers with category placeholders")
	cmd.Flag.BoolVar(&f.strip, "strip", false, "remove annotation markup")
	cmd.Flag.StringVar(&f.atoms, "atoms", "", "file of extra tokens never split by the tokenizer")
	cmd.Flag.StringVar(&f.output, "o", "", "output file (default: stdout)")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		_, logger, err := a.setup(&f.common)
		if err != nil {
			return err
		}
		tok := textproc.DefaultTokenizer()
		if f.atoms != "" {
			extra, err := a.loadAtoms(f.atoms)
			if err != nil {
				return err
			}
			tok = textproc.NewTokenizer(append(extra, textproc.DefaultAtoms...), textproc.DefaultWordChars)
			logger.Debug("loaded atoms", "count", len(extra))
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
		process := f.pipeline(tok)
		err = corpus.ReadLines(in, func(_ int, line string) error {
			_, err := fmt.Fprintln(out, process(line))
			return err
		})
		if err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	return cmd
}
