package builder

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/cockroachdb/errors"
	"github.com/negrel/assert"
)

// Document is an original system prompt, keyed by its unique name.
type Document struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Chunk is a contiguous piece of a document's text.
type Chunk struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
}

// ChunkID returns the identifier of the i-th chunk of a document.
func ChunkID(document string, i int) string {
	return fmt.Sprintf("%s_chunk%d", document, i)
}

func hashString(s string) string {
	h := xxhash.New()
	_, err := h.Write([]byte(s))
	assert.NoError(err)
	b := h.Sum(nil)
	return hex.EncodeToString(b)
}

// Catalogue is the ordered, read-only collection of chunks the selector chooses from.
type Catalogue struct {
	chunks []Chunk
	index  map[string]int
}

var (
	ErrDuplicateID = errors.New("duplicate chunk id")
	ErrEmptyChunk  = errors.New("empty chunk")
)

// NewCatalogue validates chunks and builds a catalogue preserving their order.
func NewCatalogue(chunks []Chunk) (*Catalogue, error) {
	c := &Catalogue{
		chunks: make([]Chunk, 0, len(chunks)),
		index:  make(map[string]int, len(chunks)),
	}
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return nil, errors.Wrapf(ErrEmptyChunk, "chunk #%d has no id", len(c.chunks))
		}
		if strings.TrimSpace(chunk.Text) == "" {
			return nil, errors.Wrapf(ErrEmptyChunk, "chunk %q", chunk.ID)
		}
		if _, ok := c.index[chunk.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicateID, "chunk %q", chunk.ID)
		}
		c.index[chunk.ID] = len(c.chunks)
		c.chunks = append(c.chunks, chunk)
	}
	return c, nil
}

func (c *Catalogue) Len() int {
	return len(c.chunks)
}

// Chunks returns a copy of the chunks in catalogue order.
func (c *Catalogue) Chunks() []Chunk {
	out := make([]Chunk, len(c.chunks))
	copy(out, c.chunks)
	return out
}

func (c *Catalogue) IDs() []string {
	ids := make([]string, len(c.chunks))
	for i, chunk := range c.chunks {
		ids[i] = chunk.ID
	}
	return ids
}

// Lookup returns the chunk with the given identifier.
func (c *Catalogue) Lookup(id string) (Chunk, bool) {
	i, ok := c.index[id]
	if !ok {
		return Chunk{}, false
	}
	return c.chunks[i], true
}

// Fingerprint identifies the catalogue content. Two catalogues with the same
// chunks in the same order share a fingerprint.
func (c *Catalogue) Fingerprint() string {
	var b strings.Builder
	for _, chunk := range c.chunks {
		b.WriteString(chunk.ID)
		b.WriteByte(0)
		b.WriteString(chunk.Text)
		b.WriteByte(0)
	}
	return hashString(b.String())
}
