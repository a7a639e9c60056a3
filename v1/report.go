package builder

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func Heading(title string) string {
	return headingStyle.Render(title)
}

func RenderCatalogue(c *Catalogue) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "ID", "Document", "Text"})
	for i, chunk := range c.chunks {
		tw.AppendRow(table.Row{i, chunk.ID, chunk.Document, chunk.Text})
	}
	return tw.Render()
}

func RenderSelection(c *Catalogue, sel Selection) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Resolved", "Text"})
	for _, id := range sel.IDs {
		chunk, ok := c.Lookup(id)
		tw.AppendRow(table.Row{id, ok, chunk.Text})
	}
	if !sel.OK {
		tw.AppendFooter(table.Row{"", "", "reason: " + sel.Reason})
	}
	return tw.Render()
}

func RenderBenchResults(results []BenchResult) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Document", "Selected", "BLEU", "Cosine", "Reason"})

	var bleu, cosine float64
	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Case.Document,
			strings.Join(r.Selection.IDs, ", "),
			fmt.Sprintf("%.4f", r.Metrics.BLEU),
			fmt.Sprintf("%.4f", r.Metrics.CosineSimilarity),
			r.Selection.Reason,
		})
		bleu += r.Metrics.BLEU
		cosine += r.Metrics.CosineSimilarity
	}
	if n := float64(len(results)); n > 0 {
		tw.AppendFooter(table.Row{"Mean", "", fmt.Sprintf("%.4f", bleu/n), fmt.Sprintf("%.4f", cosine/n), ""})
	}
	return tw.Render()
}

// RenderAnswer renders markdown for the terminal, falling back to the raw text.
func RenderAnswer(answer string) string {
	out, err := glamour.Render(answer, "dark")
	if err != nil {
		return answer
	}
	return out
}
