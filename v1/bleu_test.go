package builder

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentenceBLEU(t *testing.T) {
	ref := strings.Fields("the cat sat on the mat")

	assert.InDelta(t, 1.0, SentenceBLEU(ref, ref), 1e-9)

	// p1..p4 = 6/7, 5/6, 4/5, 3/4; hypothesis is longer so there is no penalty.
	hyp := strings.Fields("the cat sat on the mat too")
	assert.InDelta(t, math.Pow(3.0/7.0, 0.25), SentenceBLEU(ref, hyp), 1e-9)
	assert.InDelta(t, 0.8091, SentenceBLEU(ref, hyp), 1e-4)
}

func TestSentenceBLEUBrevityPenalty(t *testing.T) {
	ref := strings.Fields("the cat sat on the mat")
	hyp := strings.Fields("the cat sat on")

	// All n-gram precisions are 1, so the score is the penalty exp(1 - 6/4).
	assert.InDelta(t, math.Exp(1-6.0/4.0), SentenceBLEU(ref, hyp), 1e-9)
}

func TestSentenceBLEUZero(t *testing.T) {
	ref := strings.Fields("the cat sat on the mat")

	assert.Equal(t, 0.0, SentenceBLEU(ref, nil))
	assert.Equal(t, 0.0, SentenceBLEU(ref, strings.Fields("dogs bark loudly at night")))
	// Fewer than four tokens have no 4-grams at all.
	assert.Equal(t, 0.0, SentenceBLEU(ref, strings.Fields("the cat sat")))
	assert.Equal(t, 0.0, SentenceBLEU(nil, strings.Fields("the cat sat on the mat")))
}

func TestModifiedPrecisionClipsCounts(t *testing.T) {
	matches, total := ModifiedPrecision(strings.Fields("the cat"), strings.Fields("the the the"), 1)
	assert.Equal(t, 1, matches)
	assert.Equal(t, 3, total)

	matches, total = ModifiedPrecision(strings.Fields("a b"), strings.Fields("a"), 2)
	assert.Equal(t, 0, matches)
	assert.Equal(t, 1, total)
}

func TestBrevityPenalty(t *testing.T) {
	assert.Equal(t, 1.0, BrevityPenalty(5, 6))
	assert.Equal(t, 1.0, BrevityPenalty(5, 5))
	assert.Equal(t, 0.0, BrevityPenalty(5, 0))
	assert.InDelta(t, math.Exp(-1), BrevityPenalty(10, 5), 1e-12)
}
