package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var getChunkCmd = &cli.Command{
	Name:  "get",
	Usage: "Get a chunk by id",
	Arguments: []cli.Argument{
		&cli.StringArg{Name: "id", Config: trimSpace},
	},
	Flags: []cli.Flag{
		flagDSN,
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		id := command.StringArg("id")
		if id == "" {
			return errors.New("id is required")
		}
		dsn := command.String("dsn")
		if dsn == "" {
			return errors.New("dsn is required")
		}

		store, err := builder.OpenStore(dsn)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		chunk, err := store.GetChunk(ctx, id)
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"ID", "Document", "Index", "Text"})
		tw.AppendRow(table.Row{chunk.ID, chunk.Document, chunk.Index, chunk.Text})
		fmt.Println(tw.Render())
		return nil
	},
}
