package builder

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Embedder maps texts to vectors, one per text and in input order.
type Embedder interface {
	Name() string
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

var ErrEmbeddingCount = errors.New("embedding count does not match input count")

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Newf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dotProduct, aMagnitude, bMagnitude float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		aMagnitude += float64(a[i]) * float64(a[i])
		bMagnitude += float64(b[i]) * float64(b[i])
	}
	if aMagnitude == 0 || bMagnitude == 0 {
		return 0, nil
	}
	result := dotProduct / (math.Sqrt(aMagnitude) * math.Sqrt(bMagnitude))
	return math.Max(-1, math.Min(1, result)), nil
}

func toFloat32Slice(v []float64) []float32 {
	x := make([]float32, len(v))
	for i, f := range v {
		x[i] = float32(f)
	}
	return x
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	Client     EmbeddingClientInterface
	Model      string
	Dimensions int
	Timeout    time.Duration
}

func NewOpenAIEmbedder(client *openai.Client, config ClientConfig, auditLogger *AuditLogger) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		Client:  ToEmbeddingClient(client, auditLogger, config.Model),
		Model:   config.Model,
		Timeout: config.timeout(),
	}
}

func (e *OpenAIEmbedder) Name() string {
	return "openai:" + e.Model
}

func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	params := openai.EmbeddingNewParams{
		Model: e.Model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if e.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.Dimensions))
	}

	rsp, err := e.Client.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "CreateEmbedding")
	}
	if len(rsp.Data) != len(texts) {
		return nil, errors.Wrapf(ErrEmbeddingCount, "got %d, want %d", len(rsp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range rsp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, errors.Newf("embedding index %d out of range", d.Index)
		}
		if vectors[d.Index] != nil {
			return nil, errors.Newf("embedding index %d returned twice", d.Index)
		}
		vectors[d.Index] = toFloat32Slice(d.Embedding)
	}
	for i, v := range vectors {
		if v == nil {
			return nil, errors.Newf("no embedding returned for input %d", i)
		}
	}
	return vectors, nil
}

// GenAIEmbedder calls the Gemini embeddings API.
type GenAIEmbedder struct {
	Client   *genai.Client
	Model    string
	TaskType string
	Timeout  time.Duration
}

func NewGenAIEmbedder(client *genai.Client, config ClientConfig) *GenAIEmbedder {
	return &GenAIEmbedder{
		Client:   client,
		Model:    config.Model,
		TaskType: "SEMANTIC_SIMILARITY",
		Timeout:  config.timeout(),
	}
}

func (e *GenAIEmbedder) Name() string {
	return "genai:" + e.Model
}

func (e *GenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.Client.Models.EmbedContent(ctx, e.Model, contents, &genai.EmbedContentConfig{
		TaskType: e.TaskType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "EmbedContent")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, errors.Wrapf(ErrEmbeddingCount, "got %d, want %d", len(result.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// TFIDFEmbedder is an offline embedder. Every batch builds its own vocabulary
// and IDF weights, so vectors are only comparable within one batch.
type TFIDFEmbedder struct {
	Tokenizer Tokenizer
}

func (e *TFIDFEmbedder) Name() string {
	return "tfidf"
}

func (e *TFIDFEmbedder) tokenize(text string) []string {
	tokenizer := e.Tokenizer
	if tokenizer == nil {
		tokenizer = WordTokenizer{}
	}
	var out []string
	for _, tok := range tokenizer.Tokenize(strings.ToLower(text)) {
		if hasWordRune(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func hasWordRune(tok string) bool {
	return strings.IndexFunc(tok, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}

func (e *TFIDFEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = e.tokenize(text)
		seen := make(map[string]struct{})
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([][]float32, len(texts))
	for i, tokens := range docs {
		vec := make([]float32, len(terms))
		if len(tokens) > 0 {
			tf := make(map[int]int)
			for _, tok := range tokens {
				tf[vocabulary[tok]]++
			}
			for idx, count := range tf {
				vec[idx] = float32(float64(count) / float64(len(tokens)) * idf[idx])
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// EmbeddingCache stores vectors by key.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, bool, error)
	PutEmbedding(ctx context.Context, key string, model string, embedding []float32) error
}

// CachedEmbedder serves repeated texts from a cache and embeds only the misses.
type CachedEmbedder struct {
	Embedder Embedder
	Cache    EmbeddingCache
}

func embeddingKey(model, text string) string {
	return hashString(model + "\x00" + text)
}

func (e *CachedEmbedder) Name() string {
	return e.Embedder.Name()
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	model := e.Embedder.Name()
	vectors := make([][]float32, len(texts))
	var (
		missing []string
		slots   []int
	)
	for i, text := range texts {
		vec, ok, err := e.Cache.GetEmbedding(ctx, embeddingKey(model, text))
		if err != nil {
			log.Warn().Err(err).Msg("Read embedding cache")
		}
		if ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}
	log.Debug().Int("hits", len(texts)-len(missing)).Int("misses", len(missing)).Msg("Embedding cache")
	if len(missing) == 0 {
		return vectors, nil
	}

	computed, err := e.Embedder.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missing) {
		return nil, errors.Wrapf(ErrEmbeddingCount, "got %d, want %d", len(computed), len(missing))
	}
	for j, vec := range computed {
		vectors[slots[j]] = vec
		err = e.Cache.PutEmbedding(ctx, embeddingKey(model, missing[j]), model, vec)
		if err != nil {
			log.Warn().Err(err).Msg("Write embedding cache")
		}
	}
	return vectors, nil
}
