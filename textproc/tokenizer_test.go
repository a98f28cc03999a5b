package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation", "Hello, world!", []string{"Hello", ",", "world", "!"}},
		{"atom", "Mr. Smith arrived.", []string{"Mr.", "Smith", "arrived", "."}},
		{"decimal", "costs 3,50 euros", []string{"costs", "3,50", "euros"}},
		{"possessive", "John's car", []string{"John's", "car"}},
		{"hyphen_chain", "adidas-climalite-mens", []string{"adidas", "climalite", "mens"}},
		{"hyphen_word", "well-known", []string{"well-known"}},
		{"emoticon", "great :)", []string{"great", ":)"}},
		{"empty", "", nil},
	}
	tok := DefaultTokenizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.in))
		})
	}
}

func TestTokenizePreservesText(t *testing.T) {
	inputs := []string{
		"Hello, world!",
		"The U.S. economy grew 2.5% in Q3 (est.).",
		"\"Quoted\" text -- with dashes; and: colons",
		"e.g. a list: x, y and z...",
	}
	tok := DefaultTokenizer()
	for _, in := range inputs {
		got := strings.Join(tok.Tokenize(in), "")
		want := strings.Join(strings.Fields(in), "")
		assert.Equal(t, want, got, in)
	}
}

func TestTokenizerCustomAtoms(t *testing.T) {
	tok := NewTokenizer([]string{"c++"}, "abcdefghijklmnopqrstuvwxyz")
	assert.Equal(t, []string{"i", "like", "c++", "."}, tok.Tokenize("i like c++."))
}
