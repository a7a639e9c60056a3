package builder

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog/log"
)

func OpenDuckDB(dsn string) (*sql.DB, error) {
	if len(dsn) == 0 {
		dsn = ":memory:"
	}

	connector, err := duckdb.NewConnector(dsn, nil)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	err = migrateDuckDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateDuckDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS catalogue_chunks (
			id VARCHAR NOT NULL,
			document VARCHAR,
			seq INTEGER NOT NULL,
			ordinal INTEGER NOT NULL,
			text VARCHAR NOT NULL,
			fingerprint VARCHAR NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(err, "Failed to create catalogue_chunks table")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS embedding_cache (
			cache_key VARCHAR PRIMARY KEY,
			model VARCHAR NOT NULL,
			embedding FLOAT[] NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return errors.Wrap(err, "Failed to create embedding_cache table")
	}
	return nil
}

// Store keeps an indexed catalogue and cached embeddings in DuckDB.
type Store struct {
	DB *sql.DB
}

func OpenStore(dsn string) (*Store, error) {
	db, err := OpenDuckDB(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// SaveCatalogue replaces the stored catalogue.
func (s *Store) SaveCatalogue(ctx context.Context, c *Catalogue) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, "DELETE FROM catalogue_chunks")
	if err != nil {
		return errors.Wrap(err, "clear catalogue")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalogue_chunks (id, document, seq, ordinal, text, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	fingerprint := c.Fingerprint()
	for i, chunk := range c.chunks {
		_, err = stmt.ExecContext(ctx, chunk.ID, chunk.Document, chunk.Index, i, chunk.Text, fingerprint)
		if err != nil {
			return errors.Wrapf(err, "insert chunk %s", chunk.ID)
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}
	log.Info().Int("chunks", c.Len()).Str("fingerprint", fingerprint).Msg("Catalogue indexed")
	return nil
}

// LoadCatalogue reads the stored catalogue in its original order.
func (s *Store) LoadCatalogue(ctx context.Context) (*Catalogue, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, document, seq, text FROM catalogue_chunks ORDER BY ordinal
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chunks []Chunk
	for rows.Next() {
		var chunk Chunk
		var document sql.NullString
		err = rows.Scan(&chunk.ID, &document, &chunk.Index, &chunk.Text)
		if err != nil {
			return nil, err
		}
		chunk.Document = document.String
		chunks = append(chunks, chunk)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, errors.New("no catalogue has been indexed")
	}
	return NewCatalogue(chunks)
}

func (s *Store) GetChunk(ctx context.Context, id string) (*Chunk, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT id, document, seq, text FROM catalogue_chunks WHERE id = ?", id)

	var chunk Chunk
	var document sql.NullString
	err := row.Scan(&chunk.ID, &document, &chunk.Index, &chunk.Text)
	if err != nil {
		return nil, errors.Wrapf(err, "get chunk %s", id)
	}
	chunk.Document = document.String
	return &chunk, nil
}

func (s *Store) GetEmbedding(ctx context.Context, key string) ([]float32, bool, error) {
	var raw interface{}
	err := s.DB.QueryRowContext(ctx, "SELECT embedding FROM embedding_cache WHERE cache_key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, err := convertToFloat32Slice(raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) PutEmbedding(ctx context.Context, key string, model string, embedding []float32) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO embedding_cache (cache_key, model, embedding) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET embedding = EXCLUDED.embedding
	`, key, model, embedding)
	return err
}

// convertToFloat32Slice converts a scanned DuckDB list to []float32
func convertToFloat32Slice(input interface{}) ([]float32, error) {
	switch v := input.(type) {
	case []interface{}:
		result := make([]float32, len(v))
		for i, val := range v {
			switch f := val.(type) {
			case float64:
				result[i] = float32(f)
			case float32:
				result[i] = f
			default:
				return nil, errors.Newf("unsupported type in array: %T", f)
			}
		}
		return result, nil
	case []float32:
		return v, nil
	case []float64:
		return toFloat32Slice(v), nil
	default:
		return nil, errors.Newf("unsupported type: %T", v)
	}
}
