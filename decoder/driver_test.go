package decoder

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ieee0824/textrestore/language"
	"github.com/ieee0824/textrestore/phrase"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detokModels(t *testing.T) (*phrase.Table, *language.NGramModel) {
	t.Helper()
	tm := phrase.NewTable()
	lm := language.NewNGramModel(3)
	pairs := []struct {
		raw    string
		tokens []string
	}{
		{"Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"It costs 42.", []string{"It", "costs", "42", "."}},
	}
	for _, p := range pairs {
		words, err := tm.AddDetokPair(strings.Fields(p.raw), p.tokens)
		require.NoError(t, err)
		lm.AddSentence(words)
	}
	return tm, lm
}

func TestDetokenizeLine(t *testing.T) {
	tm, lm := detokModels(t)
	d := New(tm, lm, DefaultConfig(), nil)

	tests := []struct {
		in, want string
	}{
		{"Hello , world !", "Hello, world!"},
		{"It costs 17 .", "It costs 17."},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		got, err := d.DetokenizeLine(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDetokenizeNBestSegments(t *testing.T) {
	tm, lm := detokModels(t)
	rs, err := New(tm, lm, DefaultConfig(), nil).DetokenizeNBest("It costs 17 .", 1)
	require.NoError(t, err)
	require.Len(t, rs, 1)

	segs := rs[0].Segments
	require.Len(t, segs, 3)
	assert.Equal(t, Segment{Start: 2, End: 3, Reduced: "17 .", Rich: "17."}, segs[2])
	assert.Less(t, rs[0].LogScore, 0.0)
}

func TestRecaseStream(t *testing.T) {
	tm := phrase.NewTable()
	lm := language.NewNGramModel(2)
	for _, raw := range []string{"The Cat", "The Dog sleeps"} {
		rich := strings.Fields(raw)
		reduced := strings.Fields(strings.ToLower(raw))
		require.NoError(t, tm.AddRecasePair(rich, reduced))
		lm.AddSentence(rich)
	}

	var out bytes.Buffer
	d := New(tm, lm, DefaultConfig(), nil)
	require.NoError(t, d.Recase(strings.NewReader("the cat\n\nthe bird\n"), &out))
	assert.Equal(t, "The Cat\n\nThe bird\n", out.String())
}

func TestRecaseStreamLongLine(t *testing.T) {
	tm := phrase.NewTable()
	require.NoError(t, tm.AddRecasePair([]string{"The"}, []string{"the"}))
	lm := language.NewNGramModel(2)
	lm.AddSentence([]string{"The"})

	long := strings.Repeat("y", 2<<20)
	var out bytes.Buffer
	d := New(tm, lm, DefaultConfig(), nil)
	require.NoError(t, d.Recase(strings.NewReader("the\n"+long+"\nthe\n"), &out))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "The", lines[0])
	assert.Equal(t, long, lines[1])
	assert.Equal(t, "The", lines[2])
}

func TestRecaseFailureEchoesInput(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := DefaultConfig()
	cfg.IdentityFallback = false
	d := New(phrase.NewTable(), language.NewNGramModel(2), cfg, logger)

	line := "v w x y z"
	got, err := d.RecaseLine(line)
	assert.True(t, errors.Is(err, ErrDeadEnd))
	assert.Equal(t, line, got)

	require.NoError(t, d.Recase(strings.NewReader(line+"\n"), &out))
	assert.Equal(t, line+"\n", out.String())
	assert.Contains(t, logs.String(), "no recasing found")
	assert.Contains(t, logs.String(), "line=1")
}

func TestDetokenizeIterationLimitEchoesInput(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	tm, lm := detokModels(t)
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	d := New(tm, lm, cfg, logger)

	require.NoError(t, d.Detokenize(strings.NewReader("ok\nHello , world !\n"), &out))
	assert.Equal(t, "ok\nHello , world !\n", out.String())
	assert.Contains(t, logs.String(), "no detokenization found")
	assert.NotContains(t, logs.String(), "line=1")
	assert.Contains(t, logs.String(), "line=2")
	assert.Contains(t, logs.String(), "iteration limit")

	got, err := d.DetokenizeLine("Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}
