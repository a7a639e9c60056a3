package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var selectCmd = &cli.Command{
	Name:  "select",
	Usage: "Ask the LLM which catalogue items answer a query",
	Arguments: []cli.Argument{
		&cli.StringArg{Name: "query", Config: trimSpace},
	},
	Flags: withFlags(catalogueFlags, reasonerFlags, []cli.Flag{
		flagSelectionMode,
		&cli.BoolFlag{Name: "headings", Usage: "Render the assembled text with a heading per item"},
	}),
	Action: func(ctx context.Context, command *cli.Command) error {
		query, err := getArgumentQuery(command)
		if err != nil {
			return err
		}

		catalogue, err := openCatalogue(ctx, command)
		if err != nil {
			return err
		}
		r, err := newReasoner(ctx, command)
		if err != nil {
			return err
		}
		selector, err := newSelector(command, r)
		if err != nil {
			return err
		}

		sel := selector.Select(ctx, catalogue, query)
		fmt.Println(builder.RenderSelection(catalogue, sel))

		fmt.Println(builder.Heading("Assembled prompt"))
		if command.Bool("headings") {
			fmt.Println(builder.AssembleSections(catalogue, sel.IDs))
		} else {
			fmt.Print(builder.Reconstruct(catalogue, sel.IDs))
		}
		return nil
	},
}
