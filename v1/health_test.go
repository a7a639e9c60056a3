package builder

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestCheckHealth(t *testing.T) {
	ok := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return "Hello!", nil
	})
	assert.NoError(t, CheckHealth(context.Background(), HealthTargets{}))
	assert.NoError(t, CheckHealth(context.Background(), HealthTargets{
		Store:    openTestStore(t),
		Reasoner: ok,
		Embedder: &TFIDFEmbedder{},
	}))
}

func TestCheckHealthFailures(t *testing.T) {
	empty := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return "  ", nil
	})
	err := CheckHealth(context.Background(), HealthTargets{Reasoner: empty})
	assert.ErrorContains(t, err, "reasoner: empty response")

	failing := ReasonerFunc(func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("401 unauthorized")
	})
	err = CheckHealth(context.Background(), HealthTargets{Reasoner: failing})
	assert.ErrorContains(t, err, "401 unauthorized")

	err = CheckHealth(context.Background(), HealthTargets{Embedder: failingEmbedder{}})
	assert.ErrorContains(t, err, "embedder")
}
