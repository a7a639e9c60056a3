package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var benchCmd = &cli.Command{
	Name:  "bench",
	Usage: "Chunk, select, reassemble and score prompts against their originals",
	Flags: withFlags(reasonerFlags, embedderFlags, []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Benchmark YAML file (default: built-in prompts)",
			Config:  trimSpace,
			Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_BENCH_CONFIG")),
		},
		flagDSN,
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Cases evaluated concurrently"},
		&cli.StringFlag{Name: "tokenizer", Usage: "BLEU tokenizer: word, segment"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write results as JSON", Config: trimSpace},
		flagStrict,
	}),
	Action: func(ctx context.Context, command *cli.Command) error {
		cfg, err := builder.LoadBenchConfig(command.String("config"))
		if err != nil {
			return err
		}
		if command.IsSet("workers") {
			cfg.Workers = command.Int("workers")
		}
		if command.IsSet("tokenizer") {
			cfg.Tokenizer = command.String("tokenizer")
		}
		if command.IsSet("embedder") {
			cfg.Embedder = command.String("embedder")
		}
		if command.Bool("strict") {
			cfg.StrictSelection = true
		}

		docs, err := cfg.LoadDocuments()
		if err != nil {
			return err
		}
		chunker, err := builder.NewChunker(cfg.ChunkLength)
		if err != nil {
			return err
		}
		mode, err := builder.ParseSelectionMode(cfg.SelectionMode)
		if err != nil {
			return err
		}
		tokenizer, err := builder.NewTokenizer(cfg.Tokenizer)
		if err != nil {
			return err
		}

		var store *builder.Store
		if dsn := command.String("dsn"); dsn != "" {
			store, err = builder.OpenStore(dsn)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
		}

		r, err := newReasoner(ctx, command)
		if err != nil {
			return err
		}
		embedder, err := newEmbedder(ctx, command, cfg.Embedder, store)
		if err != nil {
			return err
		}

		bench := &builder.Bench{
			Documents:       docs,
			Cases:           cfg.Cases,
			Chunker:         chunker,
			Selector:        builder.NewSelector(r, mode),
			Evaluator:       &builder.Evaluator{Tokenizer: tokenizer, Embedder: embedder},
			Workers:         cfg.Workers,
			StrictSelection: cfg.StrictSelection,
			Progress:        true,
		}
		results, err := bench.Run(ctx)
		if err != nil {
			return err
		}

		for _, result := range results {
			fmt.Println(builder.Heading(fmt.Sprintf("Prompt: %s", result.Case.Document)))
			fmt.Println("Selected:", result.Selection.IDs)
			fmt.Print(result.Assembled)
		}
		fmt.Println(builder.RenderBenchResults(results))

		output := command.String("output")
		if output == "" {
			return nil
		}
		buf, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		err = os.WriteFile(output, buf, 0o644)
		if err != nil {
			return err
		}
		log.Info().Str("output", output).Msg("Results written")
		return nil
	},
}
