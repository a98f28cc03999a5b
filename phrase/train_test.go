package phrase

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		name    string
		rich    []string
		reduced []string
		want    []int
	}{
		{"split_punct", []string{"Hello,", "world!"}, []string{"Hello", ",", "world", "!"}, []int{2, 4}},
		{"identity", []string{"a", "b"}, []string{"a", "b"}, []int{1, 2}},
		{"empty", nil, nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Align(tt.rich, tt.reduced)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlignFailure(t *testing.T) {
	tests := []struct {
		name    string
		rich    []string
		reduced []string
	}{
		{"mismatch", []string{"Hello"}, []string{"Help"}},
		{"leftover", []string{"a"}, []string{"a", "b"}},
		{"run_past", []string{"ab"}, []string{"a"}},
		{"empty_word", []string{""}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Align(tt.rich, tt.reduced)
			assert.True(t, errors.Is(err, ErrAlignment), "err = %v", err)
		})
	}
}

func TestAddDetokPair(t *testing.T) {
	assert := assert.New(t)
	tbl := NewTable()
	words, err := tbl.AddDetokPair([]string{"He", "said", "42."}, []string{"He", "said", "42", "."})
	require.NoError(t, err)

	assert.Equal([]string{"He", "said", "<number>."}, words)
	assert.Equal(1, tbl.Count("He", "He"))
	assert.Equal(1, tbl.Count("said", "said"))
	assert.Equal(1, tbl.Count("<number> .", "<number>."))
	assert.Equal(3, tbl.Len())
}

func TestAddDetokPairSkipsAdjacentCategories(t *testing.T) {
	tbl := NewTable()
	words, err := tbl.AddDetokPair([]string{"1234"}, []string{"12", "34"})
	require.NoError(t, err)
	assert.Equal(t, []string{"<number><number>"}, words)
	assert.Equal(t, 0, tbl.Len())
}

func TestAddDetokPairAlignmentError(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.AddDetokPair([]string{"abc"}, []string{"abd"})
	assert.True(t, errors.Is(err, ErrAlignment))
	assert.Equal(t, 0, tbl.Len())
}

func TestAddRecasePair(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.AddRecasePair([]string{"The", "Cat"}, []string{"the", "cat"}))
	require.NoError(t, tbl.AddRecasePair([]string{"the", "cat"}, []string{"the", "cat"}))

	assert.Equal(t, 1, tbl.Count("the", "The"))
	assert.Equal(t, 1, tbl.Count("the", "the"))
	assert.Equal(t, 2, tbl.Count("cat", "cat")+tbl.Count("cat", "Cat"))

	err := tbl.AddRecasePair([]string{"A", "B"}, []string{"a"})
	assert.True(t, errors.Is(err, ErrAlignment))
}
