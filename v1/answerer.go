package builder

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAnswerTemperature = 0.3
	DefaultAnswerMaxTokens   = 1200
)

// Answerer sends the assembled prompt as system instruction and the user
// request as message, and returns the reply verbatim.
type Answerer struct {
	Reasoner    Reasoner
	Temperature float64
	MaxTokens   int
}

func NewAnswerer(r Reasoner) *Answerer {
	return &Answerer{
		Reasoner:    r,
		Temperature: DefaultAnswerTemperature,
		MaxTokens:   DefaultAnswerMaxTokens,
	}
}

func (a *Answerer) Answer(ctx context.Context, assembled string, query string) (string, error) {
	answer, err := a.Reasoner.Complete(ctx, Request{
		System:      assembled,
		User:        query,
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "answer request failed")
	}
	log.Debug().Int("length", len(answer)).Msg("Answered")
	return answer, nil
}
