package builder

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Reconstruct concatenates the text of each selected chunk followed by a
// newline, in selection order. Unknown identifiers are skipped.
func Reconstruct(c *Catalogue, ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		chunk, ok := c.Lookup(id)
		if !ok {
			log.Debug().Str("id", id).Msg("Skipped unknown chunk")
			continue
		}
		b.WriteString(chunk.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// AssembleSections renders each selected chunk as a markdown section headed by
// its identifier. Sections are separated by a blank line.
func AssembleSections(c *Catalogue, ids []string) string {
	sections := make([]string, 0, len(ids))
	for _, id := range ids {
		chunk, ok := c.Lookup(id)
		if !ok {
			log.Debug().Str("id", id).Msg("Skipped unknown chunk")
			continue
		}
		sections = append(sections, fmt.Sprintf("## %s\n\n%s\n", chunk.ID, chunk.Text))
	}
	return strings.Join(sections, "\n")
}
