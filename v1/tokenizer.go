package builder

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-ego/gse"
)

// Tokenizer turns text into the word tokens BLEU counts n-grams over.
type Tokenizer interface {
	Tokenize(text string) []string
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:[-_][\p{L}\p{N}]+)*|'[\p{L}]+|[^\p{L}\p{N}\s]`)

// WordTokenizer splits words, numbers, clitics and punctuation into separate
// tokens. Hyphenated words stay whole; "don't" becomes "do" and "n't".
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []string {
	tokens := wordPattern.FindAllString(text, -1)
	for i := 0; i+1 < len(tokens); i++ {
		if strings.EqualFold(tokens[i+1], "'t") && len(tokens[i]) > 1 && strings.HasSuffix(strings.ToLower(tokens[i]), "n") {
			tokens[i+1] = tokens[i][len(tokens[i])-1:] + tokens[i+1]
			tokens[i] = tokens[i][:len(tokens[i])-1]
		}
	}
	return tokens
}

// SegmentTokenizer uses a dictionary segmenter, for prompts written in CJK languages.
type SegmentTokenizer struct {
	segmenter *gse.Segmenter
}

func NewSegmentTokenizer(dicts ...string) (*SegmentTokenizer, error) {
	seg := &gse.Segmenter{}
	err := seg.LoadDict(dicts...)
	if err != nil {
		return nil, errors.Wrap(err, "load segmenter dictionary")
	}
	return &SegmentTokenizer{segmenter: seg}, nil
}

func (t *SegmentTokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, s := range t.segmenter.Cut(text, true) {
		s = strings.TrimSpace(s)
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

func NewTokenizer(name string) (Tokenizer, error) {
	switch name {
	case "", "word":
		return WordTokenizer{}, nil
	case "segment":
		return NewSegmentTokenizer()
	}
	return nil, errors.Newf("unknown tokenizer %q", name)
}
