package builder

import (
	"math"
	"strings"
)

// MaxNGram is the highest n-gram order counted by SentenceBLEU.
const MaxNGram = 4

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}

// ModifiedPrecision returns the clipped n-gram matches of hypothesis against
// reference and the number of hypothesis n-grams (at least 1).
func ModifiedPrecision(reference, hypothesis []string, n int) (matches, total int) {
	ref := ngramCounts(reference, n)
	for gram, count := range ngramCounts(hypothesis, n) {
		total += count
		matches += min(count, ref[gram])
	}
	return matches, max(total, 1)
}

// BrevityPenalty is 1 when the hypothesis is longer than the reference and
// exp(1 - r/c) otherwise.
func BrevityPenalty(refLen, hypLen int) float64 {
	if hypLen > refLen {
		return 1
	}
	if hypLen == 0 {
		return 0
	}
	return math.Exp(1 - float64(refLen)/float64(hypLen))
}

// SentenceBLEU scores hypothesis against a single reference with uniform
// weights over 1- to 4-grams and no smoothing. Any n-gram order without a
// match yields 0.
func SentenceBLEU(reference, hypothesis []string) float64 {
	if len(hypothesis) == 0 {
		return 0
	}

	var logSum float64
	for n := 1; n <= MaxNGram; n++ {
		matches, total := ModifiedPrecision(reference, hypothesis, n)
		if matches == 0 {
			return 0
		}
		logSum += math.Log(float64(matches)/float64(total)) / MaxNGram
	}
	return BrevityPenalty(len(reference), len(hypothesis)) * math.Exp(logSum)
}
