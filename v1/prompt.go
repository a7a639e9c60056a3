package builder

import (
	"embed"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

type selectorPromptData struct {
	Query   string
	Chunks  []Chunk
	Example string
}

func renderPrompt(name string, data any) (string, error) {
	var b strings.Builder
	err := prompts.ExecuteTemplate(&b, name+".tmpl", data)
	if err != nil {
		return "", errors.Wrapf(err, "render prompt %s", name)
	}
	return b.String(), nil
}

// MustGetPrompt renders a prompt that takes no data.
func MustGetPrompt(name string) string {
	s, err := renderPrompt(name, nil)
	if err != nil {
		panic(err)
	}
	return strings.TrimSpace(s)
}

// BuildSelectorPrompt renders the user message listing the catalogue for query.
func BuildSelectorPrompt(mode SelectionMode, query string, c *Catalogue) (string, error) {
	name := "selector_titles"
	if mode == SelectionModeFull {
		name = "selector_full"
	}
	example := "item_chunk0"
	if c.Len() > 0 {
		example = c.chunks[0].ID
	}
	return renderPrompt(name, selectorPromptData{
		Query:   query,
		Chunks:  c.chunks,
		Example: example,
	})
}
