// Package textrestore restores detokenized or true-cased text from its
// tokenized or lower-cased form with a monotone phrase-based decoder.
package textrestore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ieee0824/textrestore/corpus"
	"github.com/ieee0824/textrestore/language"
	"github.com/ieee0824/textrestore/phrase"
	"github.com/ieee0824/textrestore/textproc"
	"github.com/pkg/errors"
)

// Model file extensions appended to a model prefix.
const (
	PhraseTableExt = ".tm"
	LanguageExt    = ".lm"
)

// Models pairs a phrase table with the language model over its rich side.
type Models struct {
	TM *phrase.Table
	LM *language.NGramModel
}

// TrainStats summarizes a training pass.
type TrainStats struct {
	Sentences int
	Skipped   int
}

func newModels(order int) *Models {
	return &Models{TM: phrase.NewTable(), LM: language.NewNGramModel(order)}
}

// TrainDetokenizer trains detokenization models from raw text. When
// tokenized is nil each raw line is tokenized with textproc.Tokenize;
// otherwise tokenized supplies the tokens line by line. Sentences that fail
// to align are skipped with a warning.
func TrainDetokenizer(raw, tokenized io.Reader, order int, logger *slog.Logger) (*Models, TrainStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := newModels(order)
	var stats TrainStats

	add := func(lineno int, rawLine string, tokens []string) {
		stats.Sentences++
		words, err := m.TM.AddDetokPair(strings.Fields(rawLine), tokens)
		if err != nil {
			stats.Skipped++
			logger.Warn("skipping sentence", "sentence", lineno, "err", err)
			return
		}
		m.LM.AddSentence(words)
	}

	var err error
	if tokenized == nil {
		err = corpus.ReadLines(raw, func(lineno int, line string) error {
			line = textproc.Normalize(line)
			add(lineno, line, textproc.Tokenize(line))
			return nil
		})
	} else {
		err = corpus.ReadParallel(raw, tokenized, func(lineno int, rawLine, tokLine string) error {
			add(lineno, textproc.Normalize(rawLine), strings.Fields(textproc.Normalize(tokLine)))
			return nil
		})
		if errors.Is(err, corpus.ErrUneven) {
			logger.Warn("training corpora differ in length", "err", err)
			err = nil
		}
	}
	if err != nil {
		return nil, stats, errors.Wrap(err, "train detokenizer")
	}
	logTrained(logger, m, stats)
	return m, stats, nil
}

// TrainRecaser trains recasing models from true-cased text. The reduced
// side of each sentence is its lower-cased form.
func TrainRecaser(raw io.Reader, order int, logger *slog.Logger) (*Models, TrainStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := newModels(order)
	var stats TrainStats

	err := corpus.ReadLines(raw, func(lineno int, line string) error {
		line = textproc.Normalize(line)
		rich := strings.Fields(line)
		stats.Sentences++
		if err := m.TM.AddRecasePair(rich, strings.Fields(textproc.Lowercase(line))); err != nil {
			stats.Skipped++
			logger.Warn("skipping sentence", "sentence", lineno, "err", err)
			return nil
		}
		m.LM.AddSentence(rich)
		return nil
	})
	if err != nil {
		return nil, stats, errors.Wrap(err, "train recaser")
	}
	logTrained(logger, m, stats)
	return m, stats, nil
}

func logTrained(logger *slog.Logger, m *Models, stats TrainStats) {
	logger.Info("trained models",
		"sentences", stats.Sentences,
		"skipped", stats.Skipped,
		"phrases", m.TM.Len(),
		"ngrams", m.LM.Len(),
		"order", m.LM.Order,
		"vocab", len(m.LM.Vocab()))
	warnShortNGrams(logger, m.LM)
}

// warnShortNGrams warns when no training sentence filled the model order.
// Such a model reloads with the order of its longest n-gram.
func warnShortNGrams(logger *slog.Logger, lm *language.NGramModel) {
	if longest := lm.LongestNGram(); longest < lm.Order {
		logger.Warn("longest n-gram is shorter than the model order; the saved model will load with the lower order",
			"order", lm.Order, "longest", longest)
	}
}

// Save writes prefix.tm and prefix.lm, creating the parent directory if needed.
func (m *Models) Save(prefix string) error {
	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create model directory")
		}
	}
	if err := writeFile(prefix+PhraseTableExt, m.TM.Save); err != nil {
		return errors.Wrap(err, "save phrase table")
	}
	if err := writeFile(prefix+LanguageExt, m.LM.Save); err != nil {
		return errors.Wrap(err, "save language model")
	}
	return nil
}

// LoadModels reads prefix.tm and prefix.lm.
func LoadModels(prefix string) (*Models, error) {
	tf, err := os.Open(prefix + PhraseTableExt)
	if err != nil {
		return nil, errors.Wrap(err, "open phrase table")
	}
	defer tf.Close()
	tm, err := phrase.Load(tf)
	if err != nil {
		return nil, errors.Wrap(err, "load phrase table")
	}

	lf, err := os.Open(prefix + LanguageExt)
	if err != nil {
		return nil, errors.Wrap(err, "open language model")
	}
	defer lf.Close()
	lm, err := language.Load(lf)
	if err != nil {
		return nil, errors.Wrap(err, "load language model")
	}
	return &Models{TM: tm, LM: lm}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
