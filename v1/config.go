package builder

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed bench.yaml
var defaultBenchConfig []byte

// BenchConfig describes a benchmark run: the original documents, the test
// cases and how chunks are selected and scored.
type BenchConfig struct {
	ChunkLength     int         `yaml:"chunk_length"`
	SelectionMode   string      `yaml:"selection_mode"`
	Tokenizer       string      `yaml:"tokenizer"`
	Embedder        string      `yaml:"embedder"`
	Workers         int         `yaml:"workers"`
	StrictSelection bool        `yaml:"strict_selection"`
	Documents       []Document  `yaml:"documents"`
	DocumentsDir    string      `yaml:"documents_dir,omitempty"`
	DocumentsGlob   string      `yaml:"documents_glob,omitempty"`
	Cases           []BenchCase `yaml:"cases"`
}

// DefaultBenchConfig returns the built-in benchmark with two agent prompts.
func DefaultBenchConfig() *BenchConfig {
	var cfg BenchConfig
	err := yaml.Unmarshal(defaultBenchConfig, &cfg)
	if err != nil {
		panic(err)
	}
	applyBenchDefaults(&cfg)
	return &cfg
}

// LoadBenchConfig reads a YAML benchmark file. An empty path yields the
// built-in benchmark. A relative documents_dir is resolved against the file.
func LoadBenchConfig(path string) (*BenchConfig, error) {
	if path == "" {
		return DefaultBenchConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read bench config")
	}
	var cfg BenchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse bench config %s", path)
	}
	if cfg.DocumentsDir != "" && !filepath.IsAbs(cfg.DocumentsDir) {
		cfg.DocumentsDir = filepath.Join(filepath.Dir(path), cfg.DocumentsDir)
	}
	applyBenchDefaults(&cfg)
	return &cfg, nil
}

func SaveBenchConfig(path string, cfg *BenchConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal bench config")
	}
	return os.WriteFile(path, data, 0o644)
}

func applyBenchDefaults(cfg *BenchConfig) {
	if cfg.ChunkLength == 0 {
		cfg.ChunkLength = DefaultMaxChunkLength
	}
	if cfg.SelectionMode == "" {
		cfg.SelectionMode = string(SelectionModeTitles)
	}
	if cfg.Tokenizer == "" {
		cfg.Tokenizer = "word"
	}
	if cfg.Embedder == "" {
		cfg.Embedder = "openai"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.DocumentsDir != "" && cfg.DocumentsGlob == "" {
		cfg.DocumentsGlob = "*.md"
	}
}

// LoadDocuments returns the inline documents followed by those read from DocumentsDir.
func (c *BenchConfig) LoadDocuments() ([]Document, error) {
	docs := append([]Document(nil), c.Documents...)
	if c.DocumentsDir != "" {
		more, err := LoadDocuments(c.DocumentsDir, c.DocumentsGlob)
		if err != nil {
			return nil, err
		}
		docs = append(docs, more...)
	}
	if len(docs) == 0 {
		return nil, errors.New("bench config has no documents")
	}
	return docs, nil
}
