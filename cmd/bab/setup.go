package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

func newAuditLogger(command *cli.Command) *builder.AuditLogger {
	return builder.NewAuditLogger(command.Bool("audit"), command.String("audit-log-dir"))
}

func newReasoner(ctx context.Context, command *cli.Command) (builder.Reasoner, error) {
	config := builder.ClientConfig{
		BaseURL: command.String("assistant-base-url"),
		APIKey:  command.String("assistant-api-key"),
		Model:   command.String("assistant-model"),
		Timeout: command.Duration("timeout"),
	}
	if config.Model == "" {
		return nil, errors.New("assistant-model is required")
	}
	auditLogger := newAuditLogger(command)

	switch command.String("reasoner") {
	case "openai":
		return builder.NewOpenAIReasoner(builder.NewOpenAIClient(config), config, auditLogger), nil
	case "genai":
		client, err := builder.NewGenAIClient(ctx, config)
		if err != nil {
			return nil, err
		}
		var r builder.Reasoner = builder.NewGenAIReasoner(client, config)
		if auditLogger.Enabled() {
			r = &builder.AuditReasoner{Reasoner: r, AuditLogger: auditLogger, Model: config.Model}
		}
		return r, nil
	}
	return nil, errors.Newf("unknown reasoner %q", command.String("reasoner"))
}

// newEmbedder builds the configured embedder. Remote embedders are cached in
// store when one is given.
func newEmbedder(ctx context.Context, command *cli.Command, kind string, store *builder.Store) (builder.Embedder, error) {
	config := builder.ClientConfig{
		BaseURL: command.String("embedding-base-url"),
		APIKey:  command.String("embedding-api-key"),
		Model:   command.String("embedding-model"),
		Timeout: command.Duration("timeout"),
	}
	auditLogger := newAuditLogger(command)

	var e builder.Embedder
	switch kind {
	case "tfidf":
		return &builder.TFIDFEmbedder{}, nil
	case "openai":
		e = builder.NewOpenAIEmbedder(builder.NewOpenAIClient(config), config, auditLogger)
	case "genai":
		client, err := builder.NewGenAIClient(ctx, config)
		if err != nil {
			return nil, err
		}
		e = builder.NewGenAIEmbedder(client, config)
		if auditLogger.Enabled() {
			e = &builder.AuditEmbedder{Embedder: e, AuditLogger: auditLogger}
		}
	default:
		return nil, errors.Newf("unknown embedder %q", kind)
	}

	if store != nil {
		e = &builder.CachedEmbedder{Embedder: e, Cache: store}
	}
	return e, nil
}

func newObjectStore(command *cli.Command) (*minio.Client, error) {
	if command.String("oss-endpoint") == "" {
		return nil, nil
	}
	return builder.NewObjectStore(builder.ObjectStoreConfig{
		Endpoint:        command.String("oss-endpoint"),
		AccessKeyID:     command.String("oss-access-key"),
		SecretAccessKey: command.String("oss-secret-access-key"),
		Secure:          command.Bool("oss-secure"),
	})
}

// openCatalogue loads the catalogue from --catalogue, or from the DuckDB index at --dsn.
func openCatalogue(ctx context.Context, command *cli.Command) (*builder.Catalogue, error) {
	location := command.String("catalogue")
	if location != "" {
		client, err := newObjectStore(command)
		if err != nil {
			return nil, err
		}
		return builder.OpenCatalogue(ctx, location, client)
	}

	dsn := command.String("dsn")
	if dsn == "" {
		return nil, errors.New("catalogue or dsn is required")
	}
	store, err := builder.OpenStore(dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.LoadCatalogue(ctx)
}

func newSelector(command *cli.Command, r builder.Reasoner) (*builder.Selector, error) {
	mode, err := builder.ParseSelectionMode(command.String("selection-mode"))
	if err != nil {
		return nil, err
	}
	return builder.NewSelector(r, mode), nil
}
