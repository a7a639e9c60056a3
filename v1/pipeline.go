package builder

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

var (
	ErrEmptySelection  = errors.New("selection is empty")
	ErrUnknownDocument = errors.New("unknown document")
)

// BenchCase is a test query that should reassemble the named document.
type BenchCase struct {
	Document string `json:"document" yaml:"document"`
	Query    string `json:"query" yaml:"query"`
}

type BenchResult struct {
	Case      BenchCase `json:"case"`
	Original  string    `json:"original"`
	Selection Selection `json:"selection"`
	Assembled string    `json:"assembled"`
	Metrics   Metrics   `json:"metrics"`
}

// Bench chunks the documents into one catalogue, then for every case selects,
// reassembles and scores against the case's document.
type Bench struct {
	Documents       []Document
	Cases           []BenchCase
	Chunker         *Chunker
	Selector        *Selector
	Evaluator       *Evaluator
	Workers         int
	StrictSelection bool
	Progress        bool
}

func (b *Bench) Run(ctx context.Context) ([]BenchResult, error) {
	catalogue, err := BuildCatalogue(b.Documents, b.Chunker)
	if err != nil {
		return nil, err
	}
	log.Info().Int("documents", len(b.Documents)).Int("chunks", catalogue.Len()).Msg("Catalogue built")
	return b.RunWithCatalogue(ctx, catalogue)
}

// RunWithCatalogue evaluates the cases against an already built catalogue.
// Results are returned in case order.
func (b *Bench) RunWithCatalogue(ctx context.Context, catalogue *Catalogue) ([]BenchResult, error) {
	originals := make(map[string]string, len(b.Documents))
	for _, doc := range b.Documents {
		originals[doc.Name] = doc.Text
	}
	for _, c := range b.Cases {
		if _, ok := originals[c.Document]; !ok {
			return nil, errors.Wrapf(ErrUnknownDocument, "case %q", c.Document)
		}
	}

	var bar *progressbar.ProgressBar
	if b.Progress {
		bar = progressbar.Default(int64(len(b.Cases)))
		bar.Describe("Benchmarking")
		defer func() { _ = bar.Finish() }()
	}

	results := make([]BenchResult, len(b.Cases))
	runCase := func(ctx context.Context, i int) error {
		c := b.Cases[i]
		r, err := b.runCase(ctx, catalogue, c, originals[c.Document])
		if err != nil {
			return errors.Wrapf(err, "case %d (%s)", i, c.Document)
		}
		results[i] = r
		if bar != nil {
			_ = bar.Add(1)
		}
		return nil
	}

	if b.Workers <= 1 {
		for i := range b.Cases {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := runCase(ctx, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(b.Workers)
	for i := range b.Cases {
		p.Go(func(ctx context.Context) error {
			return runCase(ctx, i)
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Bench) runCase(ctx context.Context, catalogue *Catalogue, c BenchCase, original string) (BenchResult, error) {
	sel := b.Selector.Select(ctx, catalogue, c.Query)
	if b.StrictSelection && len(sel.IDs) == 0 {
		return BenchResult{}, errors.Wrapf(ErrEmptySelection, "reason: %s", sel.Reason)
	}

	assembled := Reconstruct(catalogue, sel.IDs)
	metrics, err := b.Evaluator.Evaluate(ctx, original, assembled)
	if err != nil {
		return BenchResult{}, err
	}

	log.Info().
		Str("document", c.Document).
		Float64("bleu", metrics.BLEU).
		Float64("cosine", metrics.CosineSimilarity).
		Msg("Evaluated")

	return BenchResult{
		Case:      c,
		Original:  original,
		Selection: sel,
		Assembled: assembled,
		Metrics:   metrics,
	}, nil
}

type AskResult struct {
	Query     string    `json:"query"`
	Selection Selection `json:"selection"`
	Assembled string    `json:"assembled"`
	Answer    string    `json:"answer"`
}

// Ask selects catalogue items for a request, assembles them into a system
// prompt and answers the request with it.
type Ask struct {
	Catalogue       *Catalogue
	Selector        *Selector
	Answerer        *Answerer
	Headings        bool
	StrictSelection bool
}

func (a *Ask) Assemble(ids []string) string {
	if a.Headings {
		return AssembleSections(a.Catalogue, ids)
	}
	return Reconstruct(a.Catalogue, ids)
}

func (a *Ask) Run(ctx context.Context, query string) (AskResult, error) {
	sel := a.Selector.Select(ctx, a.Catalogue, query)
	result := AskResult{Query: query, Selection: sel}
	if len(sel.IDs) == 0 {
		if a.StrictSelection {
			return result, errors.Wrapf(ErrEmptySelection, "reason: %s", sel.Reason)
		}
		log.Warn().Str("reason", sel.Reason).Msg("No catalogue items selected, answering without them")
	}

	result.Assembled = a.Assemble(sel.IDs)
	answer, err := a.Answerer.Answer(ctx, result.Assembled, query)
	if err != nil {
		return result, err
	}
	result.Answer = answer
	return result, nil
}
