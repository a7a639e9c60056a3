package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var healthCmd = &cli.Command{
	Name:  "health",
	Usage: "Retrieve service health status",
	Flags: withFlags(reasonerFlags, embedderFlags, []cli.Flag{flagDSN}),
	Action: func(ctx context.Context, command *cli.Command) error {
		var targets builder.HealthTargets

		if dsn := command.String("dsn"); dsn != "" {
			store, err := builder.OpenStore(dsn)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			targets.Store = store
		}

		r, err := newReasoner(ctx, command)
		if err != nil {
			return err
		}
		targets.Reasoner = r

		e, err := newEmbedder(ctx, command, command.String("embedder"), nil)
		if err != nil {
			return err
		}
		targets.Embedder = e

		err = builder.CheckHealth(ctx, targets)
		if err != nil {
			return err
		}
		fmt.Println("OK, database/reasoner/embedder are operational")
		return nil
	},
}
