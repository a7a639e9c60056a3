package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var flagGlob = &cli.StringFlag{
	Name:  "glob",
	Usage: "File name pattern when PATH is a directory",
	Value: "*.md",
}

var chunkCmd = &cli.Command{
	Name:    "chunk",
	Usage:   "Chunk prompt documents into a catalogue file",
	Aliases: []string{"c"},
	Arguments: []cli.Argument{
		&cli.StringArg{Name: "path", Config: trimSpace},
	},
	Flags: []cli.Flag{
		flagGlob,
		flagChunkLength,
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output catalogue JSON file path",
			Config:  trimSpace,
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		catalogue, err := chunkPath(command)
		if err != nil {
			return err
		}

		fmt.Println(builder.RenderCatalogue(catalogue))

		output := command.String("output")
		if output == "" {
			return nil
		}
		err = builder.SaveCatalogueFile(output, catalogue)
		if err != nil {
			return err
		}
		log.Info().Str("output", output).Int("chunks", catalogue.Len()).Msg("Catalogue written")
		return nil
	},
}

// chunkPath builds a catalogue from a single file or every matching file of a directory.
func chunkPath(command *cli.Command) (*builder.Catalogue, error) {
	path, err := getArgumentPath(command)
	if err != nil {
		return nil, err
	}
	chunker, err := builder.NewChunker(command.Int("chunk-length"))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var docs []builder.Document
	if info.IsDir() {
		docs, err = builder.LoadDocuments(path, command.String("glob"))
	} else {
		docs, err = builder.LoadDocuments(path, "*")
	}
	if err != nil {
		return nil, err
	}
	return builder.BuildCatalogue(docs, chunker)
}
