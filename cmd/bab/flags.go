package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v3"

	builder "github.com/OpenTechBio/BioAgentBuilder/v1"
)

var flagLogLevel = &cli.StringFlag{
	Name:    "log-level",
	Value:   "info",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_LOG_LEVEL")),
}

var flagDSN = &cli.StringFlag{
	Name:    "dsn",
	Usage:   "DuckDB database holding the indexed catalogue and embedding cache",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_DSN")),
}

var flagCatalogue = &cli.StringFlag{
	Name:    "catalogue",
	Usage:   "Catalogue JSON file, local path or s3://bucket/key",
	Config:  trimSpace,
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_CATALOGUE")),
}

var flagReasoner = &cli.StringFlag{
	Name:    "reasoner",
	Usage:   "Reasoning backend: openai, genai",
	Value:   "openai",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_REASONER")),
}

var flagAssistantBaseURL = &cli.StringFlag{
	Name:    "assistant-base-url",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_ASSISTANT_BASE_URL")),
}

var flagAssistantModel = &cli.StringFlag{
	Name:    "assistant-model",
	Value:   "gpt-4",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_ASSISTANT_MODEL")),
}

var flagAssistantAPIKey = &cli.StringFlag{
	Name:    "assistant-api-key",
	Sources: cli.EnvVars("BAB_ASSISTANT_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"),
}

var flagEmbedder = &cli.StringFlag{
	Name:    "embedder",
	Usage:   "Embedding backend: openai, genai, tfidf (offline)",
	Value:   "openai",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_EMBEDDER")),
}

var flagEmbeddingBaseURL = &cli.StringFlag{
	Name:    "embedding-base-url",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_EMBEDDING_BASE_URL")),
}

var flagEmbeddingModel = &cli.StringFlag{
	Name:    "embedding-model",
	Value:   "text-embedding-3-small",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_EMBEDDING_MODEL")),
}

var flagEmbeddingAPIKey = &cli.StringFlag{
	Name:    "embedding-api-key",
	Sources: cli.EnvVars("BAB_EMBEDDING_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"),
}

var flagTimeout = &cli.DurationFlag{
	Name:    "timeout",
	Usage:   "Timeout of a single reasoning or embedding request",
	Value:   builder.DefaultRequestTimeout,
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_TIMEOUT")),
}

var flagSelectionMode = &cli.StringFlag{
	Name:    "selection-mode",
	Usage:   "What the selector is shown: titles, full",
	Value:   string(builder.SelectionModeTitles),
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_SELECTION_MODE")),
}

var flagStrict = &cli.BoolFlag{
	Name:  "strict",
	Usage: "Fail when the selection is empty",
}

var flagAudit = &cli.BoolFlag{
	Name:    "audit",
	Usage:   "Write every API call to the audit log directory",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_AUDIT")),
}

var flagAuditLogDir = &cli.StringFlag{
	Name:    "audit-log-dir",
	Usage:   "Directory to store API call audit logs",
	Value:   "./audit_logs",
	Sources: cli.NewValueSourceChain(cli.EnvVar("BAB_AUDIT_LOG_DIR")),
}

var flagOSSEndpoint = &cli.StringFlag{
	Name:    "oss-endpoint",
	Sources: cli.NewValueSourceChain(cli.EnvVar("OSS_ENDPOINT")),
}

var flagOSSAccessKey = &cli.StringFlag{
	Name:    "oss-access-key",
	Sources: cli.NewValueSourceChain(cli.EnvVar("OSS_ACCESS_KEY")),
}

var flagOSSSecretKey = &cli.StringFlag{
	Name:    "oss-secret-access-key",
	Sources: cli.NewValueSourceChain(cli.EnvVar("OSS_SECRET_ACCESS_KEY")),
}

var flagOSSSecure = &cli.BoolFlag{
	Name:    "oss-secure",
	Sources: cli.NewValueSourceChain(cli.EnvVar("OSS_SECURE")),
}

var flagChunkLength = &cli.IntFlag{
	Name:    "chunk-length",
	Aliases: []string{"l"},
	Usage:   "Chunks are kept shorter than this many characters",
	Value:   builder.DefaultMaxChunkLength,
}

var reasonerFlags = []cli.Flag{
	flagReasoner,
	flagAssistantBaseURL,
	flagAssistantModel,
	flagAssistantAPIKey,
	flagTimeout,
	flagAudit,
	flagAuditLogDir,
}

var embedderFlags = []cli.Flag{
	flagEmbedder,
	flagEmbeddingBaseURL,
	flagEmbeddingModel,
	flagEmbeddingAPIKey,
}

var catalogueFlags = []cli.Flag{
	flagCatalogue,
	flagDSN,
	flagOSSEndpoint,
	flagOSSAccessKey,
	flagOSSSecretKey,
	flagOSSSecure,
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

func getArgumentQuery(command *cli.Command) (string, error) {
	query := command.StringArg("query")
	if query == "" {
		cli.SubcommandHelpTemplate = strings.Replace(cli.SubcommandHelpTemplate,
			"[arguments...]", "[QUERY]", 1)
		_ = cli.ShowSubcommandHelp(command)
		return "", errors.New("query is required")
	}
	_, err := os.Stat(query)
	if err != nil {
		return query, nil
	}
	var queryBuf []byte
	queryBuf, err = os.ReadFile(query)
	if err != nil {
		return query, nil
	}
	return string(queryBuf), nil
}

func getArgumentPath(command *cli.Command) (string, error) {
	path := command.StringArg("path")
	if path == "" {
		cli.SubcommandHelpTemplate = strings.Replace(cli.SubcommandHelpTemplate,
			"[arguments...]", "[PATH]", 1)
		_ = cli.ShowSubcommandHelp(command)
		return "", errors.New("path is required")
	}
	return path, nil
}
