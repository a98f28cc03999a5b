package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ieee0824/textrestore/corpus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWERIdentical(t *testing.T) {
	text := "the cat sat\non the mat\n"
	w, err := Compute(strings.NewReader(text), strings.NewReader(text), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Errors)
	assert.Equal(t, 6, w.Words)
	assert.Equal(t, 2, w.Sentences)
	assert.Equal(t, 0.0, w.Rate())
	assert.Equal(t, "WER: 0 ( 0 / 6 )", w.String())
}

func TestCompute(t *testing.T) {
	ref := "The cat sat\nHello, world!\n"
	sys := "the cat sat\nHello, world!\n"
	var verbose bytes.Buffer
	w, err := Compute(strings.NewReader(ref), strings.NewReader(sys), &verbose)
	require.NoError(t, err)

	assert.Equal(t, 1, w.Errors)
	assert.Equal(t, 5, w.Words)
	assert.InDelta(t, 0.2, w.Rate(), 1e-12)
	assert.Equal(t, "WER: 0.2 ( 1 / 5 )", w.String())

	want := "0.3333333333333333 ||| The cat sat ||| the cat sat\n0 ||| Hello, world! ||| Hello, world!\n"
	assert.Equal(t, want, verbose.String())
}

func TestComputeUneven(t *testing.T) {
	w, err := Compute(strings.NewReader("a b\nc\n"), strings.NewReader("a b\n"), nil)
	assert.True(t, errors.Is(err, corpus.ErrUneven))
	assert.Equal(t, 1, w.Sentences)
	assert.Equal(t, 2, w.Words)
}

func TestRateEmptyReference(t *testing.T) {
	assert.Equal(t, 0.0, WER{}.Rate())
	assert.Equal(t, 1.0, WER{Errors: 2}.Rate())
}

func TestWordDiff(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("the cat", WordDiff("the cat", "the  cat"))

	d := WordDiff("the cat sat", "the dog sat")
	assert.Contains(d, "[-cat-]")
	assert.Contains(d, "{+dog+}")
	assert.True(strings.HasPrefix(d, "the "))
	assert.True(strings.HasSuffix(d, " sat"))

	assert.Equal("{+new+}", WordDiff("", "new"))
}

func TestDiffCorpus(t *testing.T) {
	var out bytes.Buffer
	n, err := DiffCorpus(strings.NewReader("a b\nc d\n"), strings.NewReader("a b\nc e\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(out.String(), "2: c "))
}
