package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var cmd = &cli.Command{
	Name:  "bab",
	Usage: "Assemble agent system prompts from a catalogue of prompt chunks",
	Flags: []cli.Flag{
		flagLogLevel,
	},
	Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
		level, err := zerolog.ParseLevel(command.String("log-level"))
		if err != nil {
			return ctx, err
		}
		zerolog.SetGlobalLevel(level)
		return ctx, nil
	},
	Commands: []*cli.Command{
		chunkCmd,
		indexCmd,
		getChunkCmd,
		selectCmd,
		askCmd,
		benchCmd,
		serveCmd,
		healthCmd,
	},
}

var trimSpace = cli.StringConfig{TrimSpace: true}

func main() {
	_ = godotenv.Load(".env")

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Caller().Stack().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Unexpected error")
		stop()
		os.Exit(1)
	}
}
