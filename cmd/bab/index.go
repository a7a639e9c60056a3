package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var indexCmd = &cli.Command{
	Name:  "index",
	Usage: "Store a catalogue in the database",
	Arguments: []cli.Argument{
		&cli.StringArg{Name: "path", Config: trimSpace},
	},
	Flags: withFlags(catalogueFlags, []cli.Flag{flagGlob, flagChunkLength}),
	Action: func(ctx context.Context, command *cli.Command) error {
		dsn := command.String("dsn")
		if dsn == "" {
			return errors.New("dsn is required")
		}

		var catalogue *builder.Catalogue
		var err error
		if location := command.String("catalogue"); location != "" {
			client, err := newObjectStore(command)
			if err != nil {
				return err
			}
			catalogue, err = builder.OpenCatalogue(ctx, location, client)
			if err != nil {
				return err
			}
		} else {
			catalogue, err = chunkPath(command)
			if err != nil {
				return err
			}
		}

		store, err := builder.OpenStore(dsn)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return store.SaveCatalogue(ctx, catalogue)
	},
}
