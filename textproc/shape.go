// Package textproc provides the text preparation steps shared by training
// and decoding: word-shape categories, tokenization, lower-casing and the
// XML annotation skeleton.
package textproc

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Category placeholders substituted for words by TransformWord.
const (
	CommonWord = "<common_word>"
	Number     = "<number>"
	Digit      = "<digit>"
	Alfanum    = "<alfanum>"
)

// commonWordLen is the rune length above which a plain word collapses to CommonWord.
const commonWordLen = 5

var (
	asciiDigit  = regexp.MustCompile(`[0-9]`)
	alnumPrefix = regexp.MustCompile(`^[a-zA-Z0-9]+`)
)

// IsCategory reports whether w is one of the category placeholders.
func IsCategory(w string) bool {
	switch w {
	case CommonWord, Number, Digit, Alfanum:
		return true
	}
	return false
}

// TransformWord maps a word to its shape: digit runs, numbers and
// alphanumerics become placeholders, as do words longer than five runes.
// Short plain words are returned unchanged.
func TransformWord(w string) string {
	if c, ok := numericShape(w); ok {
		return c
	}
	if utf8.RuneCountInString(w) > commonWordLen {
		return CommonWord
	}
	return w
}

// CategorizeWord is TransformWord without the long-word rule.
func CategorizeWord(w string) string {
	if c, ok := numericShape(w); ok {
		return c
	}
	return w
}

func numericShape(w string) (string, bool) {
	if isDigits(w) {
		if utf8.RuneCountInString(w) > 1 {
			return Number, true
		}
		return Digit, true
	}
	if _, err := strconv.ParseFloat(w, 64); err == nil {
		return Number, true
	}
	if alnumPrefix.MatchString(w) && asciiDigit.MatchString(w) {
		return Alfanum, true
	}
	return "", false
}

func isDigits(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
