package builder

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Metrics compare an assembled document against its original.
type Metrics struct {
	BLEU             float64 `json:"bleu"`
	CosineSimilarity float64 `json:"cosine_similarity"`
}

type Evaluator struct {
	Tokenizer Tokenizer
	Embedder  Embedder
}

// BLEU scores assembled against original as the single reference.
func (e *Evaluator) BLEU(original, assembled string) float64 {
	tokenizer := e.Tokenizer
	if tokenizer == nil {
		tokenizer = WordTokenizer{}
	}
	return SentenceBLEU(tokenizer.Tokenize(original), tokenizer.Tokenize(assembled))
}

// Similarity embeds both texts in one batch and returns their cosine
// similarity. A blank text scores 0 without being embedded.
func (e *Evaluator) Similarity(ctx context.Context, original, assembled string) (float64, error) {
	if strings.TrimSpace(original) == "" || strings.TrimSpace(assembled) == "" {
		return 0, nil
	}

	if e.Embedder == nil {
		return 0, errors.New("no embedder configured")
	}
	vectors, err := e.Embedder.EmbedBatch(ctx, []string{original, assembled})
	if err != nil {
		return 0, errors.Wrap(err, "embed texts")
	}
	if len(vectors) != 2 {
		return 0, errors.Wrapf(ErrEmbeddingCount, "got %d, want 2", len(vectors))
	}
	return CosineSimilarity(vectors[0], vectors[1])
}

// Evaluate computes both metrics. Only an embedding failure is an error.
func (e *Evaluator) Evaluate(ctx context.Context, original, assembled string) (Metrics, error) {
	m := Metrics{BLEU: e.BLEU(original, assembled)}
	var err error
	m.CosineSimilarity, err = e.Similarity(ctx, original, assembled)
	if err != nil {
		return m, err
	}
	return m, nil
}
