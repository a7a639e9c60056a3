package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Start HTTP server",
	Flags: withFlags(catalogueFlags, reasonerFlags, []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Aliases: []string{"a"},
			Value:   ":5000",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_BIND")),
		},
		flagSelectionMode,
		flagStrict,
		&cli.BoolFlag{Name: "headings", Usage: "Give every selected item a markdown heading"},
	}),
	Action: func(ctx context.Context, command *cli.Command) error {
		bind := command.String("bind")

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

		s := builder.NewServer(&builder.Ask{
			Catalogue:       catalogue,
			Selector:        selector,
			Answerer:        builder.NewAnswerer(r),
			Headings:        command.Bool("headings"),
			StrictSelection: command.Bool("strict"),
		})
		go func() {
			<-ctx.Done()
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Shutdown(closeCtx)
		}()

		log.Info().Str("bind", bind).Int("chunks", catalogue.Len()).Msg("Serving")
		err = s.Start(bind)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}
