package builder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// DefaultMaxChunkLength is the chunk length used by the benchmark.
const DefaultMaxChunkLength = 120

// Chunker packs sentence-like units of a text into chunks shorter than MaxLength characters.
type Chunker struct {
	MaxLength int
}

func NewChunker(maxLength int) (*Chunker, error) {
	if maxLength <= 0 {
		return nil, errors.Newf("max chunk length must be positive, got %d", maxLength)
	}
	return &Chunker{MaxLength: maxLength}, nil
}

// SplitUnits splits text after every '.' that is followed by whitespace. The
// whitespace rune is consumed; the last unit runs to the end of the text.
func SplitUnits(text string) []string {
	runes := []rune(text)
	var units []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == '.' && unicode.IsSpace(runes[i+1]) {
			units = append(units, string(runes[start:i+1]))
			start = i + 2
			i++
		}
	}
	return append(units, string(runes[start:]))
}

// Split chunks text. Units are joined with single spaces; a unit that would
// make the running chunk reach MaxLength starts a new chunk. A unit longer than
// MaxLength is emitted on its own, unsplit.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		raw     []string
		current []string
		length  int
	)
	for _, unit := range SplitUnits(text) {
		n := utf8.RuneCountInString(unit)
		candidate := length + n
		if len(current) > 0 {
			candidate++
		}
		if candidate < c.MaxLength {
			current = append(current, unit)
			length = candidate
			continue
		}
		raw = append(raw, strings.Join(current, " "))
		current = []string{unit}
		length = n
	}
	if len(current) > 0 {
		raw = append(raw, strings.Join(current, " "))
	}

	chunks := make([]string, 0, len(raw))
	for _, chunk := range raw {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
