package builder

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// HealthTargets lists the services to probe. Nil targets are skipped.
type HealthTargets struct {
	Store    *Store
	Reasoner Reasoner
	Embedder Embedder
}

// CheckHealth probes every configured service concurrently.
func CheckHealth(ctx context.Context, t HealthTargets) error {
	g, ctx := errgroup.WithContext(ctx)
	if t.Store != nil {
		g.Go(func() error {
			return errors.Wrap(t.Store.DB.PingContext(ctx), "database")
		})
	}
	if t.Reasoner != nil {
		g.Go(func() error {
			reply, err := t.Reasoner.Complete(ctx, Request{User: "Hello world", MaxTokens: 16})
			if err != nil {
				return errors.Wrap(err, "reasoner")
			}
			if strings.TrimSpace(reply) == "" {
				return errors.New("reasoner: empty response")
			}
			return nil
		})
	}
	if t.Embedder != nil {
		g.Go(func() error {
			vectors, err := t.Embedder.EmbedBatch(ctx, []string{"Hello world"})
			if err != nil {
				return errors.Wrap(err, "embedder")
			}
			if len(vectors) == 0 || len(vectors[0]) == 0 {
				return errors.New("embedder: empty response")
			}
			return nil
		})
	}
	return g.Wait()
}
