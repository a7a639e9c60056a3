package builder

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobwas/glob"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var ErrDuplicateDocument = errors.New("duplicate document name")

// BuildCatalogue chunks every document in order. Chunk indices restart at 0 for
// each document.
func BuildCatalogue(docs []Document, chunker *Chunker) (*Catalogue, error) {
	seen := make(map[string]struct{}, len(docs))
	var chunks []Chunk
	for _, doc := range docs {
		if _, ok := seen[doc.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateDocument, "document %q", doc.Name)
		}
		seen[doc.Name] = struct{}{}

		pieces := chunker.Split(doc.Text)
		for i, text := range pieces {
			chunks = append(chunks, Chunk{
				ID:       ChunkID(doc.Name, i),
				Document: doc.Name,
				Index:    i,
				Text:     text,
			})
		}
		log.Debug().Str("document", doc.Name).Int("chunks", len(pieces)).Msg("Document chunked")
	}
	return NewCatalogue(chunks)
}

type catalogueItem struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	PromptName string `json:"prompt_name,omitempty"`
	ChunkID    *int   `json:"chunk_id,omitempty"`
}

type catalogueFile struct {
	Catalogue *[]catalogueItem `json:"catalogue"`
}

// DecodeCatalogue reads a catalogue file of the form {"catalogue": [{"title", "text"}]}.
func DecodeCatalogue(r io.Reader) (*Catalogue, error) {
	var f catalogueFile
	err := json.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(err, "decode catalogue")
	}
	if f.Catalogue == nil {
		return nil, errors.New("catalogue field is missing")
	}

	chunks := make([]Chunk, 0, len(*f.Catalogue))
	for i, item := range *f.Catalogue {
		if item.Title == "" {
			return nil, errors.Newf("catalogue item #%d has no title", i)
		}
		chunk := Chunk{ID: item.Title, Document: item.PromptName, Text: item.Text}
		if item.ChunkID != nil {
			chunk.Index = *item.ChunkID
		}
		chunks = append(chunks, chunk)
	}
	return NewCatalogue(chunks)
}

func EncodeCatalogue(w io.Writer, c *Catalogue) error {
	items := make([]catalogueItem, 0, c.Len())
	for _, chunk := range c.chunks {
		item := catalogueItem{Title: chunk.ID, Text: chunk.Text, PromptName: chunk.Document}
		if chunk.Document != "" {
			index := chunk.Index
			item.ChunkID = &index
		}
		items = append(items, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogueFile{Catalogue: &items})
}

func LoadCatalogueFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalogue")
	}
	defer func() { _ = f.Close() }()

	c, err := DecodeCatalogue(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load catalogue %s", path)
	}
	return c, nil
}

func SaveCatalogueFile(path string, c *Catalogue) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create catalogue")
	}
	err = EncodeCatalogue(f, c)
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "save catalogue %s", path)
	}
	return f.Close()
}

// LoadDocuments reads every file under dir whose name matches pattern. Documents
// are named after the file name without extension and ordered by path.
func LoadDocuments(dir string, pattern string) ([]Document, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile glob %q", pattern)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && g.Match(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docs = append(docs, Document{Name: name, Text: string(buf)})
	}
	return docs, nil
}
