package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordTokenizer(t *testing.T) {
	var tok WordTokenizer

	assert.Equal(t,
		[]string{"Use", "scanpy", "for", "single-cell", "analysis", "."},
		tok.Tokenize("Use scanpy for single-cell analysis."))

	assert.Equal(t,
		[]string{"1", ".", "Only", "output", "Python", "code", "."},
		tok.Tokenize("1. Only output Python code."))

	assert.Equal(t,
		[]string{"do", "n't", "reveal", "private", "data", ",", "I", "'d", "say"},
		tok.Tokenize("don't reveal private data, I'd say"))

	assert.Equal(t,
		[]string{"spatial", "transcriptomics", "(", "Slide-seq", ")"},
		tok.Tokenize("spatial transcriptomics (Slide-seq)"))

	assert.Empty(t, tok.Tokenize("  \n "))
}

func TestNewTokenizer(t *testing.T) {
	tok, err := NewTokenizer("")
	require.NoError(t, err)
	assert.IsType(t, WordTokenizer{}, tok)

	_, err = NewTokenizer("bpe")
	assert.Error(t, err)
}
