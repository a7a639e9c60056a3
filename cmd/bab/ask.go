package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var askCmd = &cli.Command{
	Name:  "ask",
	Usage: "Assemble a system prompt from the catalogue and ask the LLM",
	Arguments: []cli.Argument{
		&cli.StringArg{Name: "query", Config: trimSpace},
	},
	Flags: withFlags(catalogueFlags, reasonerFlags, []cli.Flag{
		flagSelectionMode,
		flagStrict,
		&cli.BoolFlag{Name: "headings", Usage: "Give every selected item a markdown heading"},
		&cli.BoolFlag{Name: "raw", Usage: "Print the answer without markdown rendering"},
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

		ask := &builder.Ask{
			Catalogue:       catalogue,
			Selector:        selector,
			Answerer:        builder.NewAnswerer(r),
			Headings:        command.Bool("headings"),
			StrictSelection: command.Bool("strict"),
		}
		result, err := ask.Run(ctx, query)
		if err != nil {
			return err
		}

		fmt.Println(builder.RenderSelection(catalogue, result.Selection))
		fmt.Println(builder.Heading("The answer is:"))
		if command.Bool("raw") {
			fmt.Println(result.Answer)
		} else {
			fmt.Println(builder.RenderAnswer(result.Answer))
		}
		return nil
	},
}
