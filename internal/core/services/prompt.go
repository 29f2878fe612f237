package services

import (
	"fmt"
	"strings"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// buildPrompt assembles the generation prompt: the selected chunks' text
// and metadata as grounding context, then the question. Only retrieved
// context goes into the prompt; the model is told not to reach beyond it.
func buildPrompt(question string, results []domain.RankedResult) string {
	var sb strings.Builder

	sb.WriteString("You answer questions about cultural events. ")
	sb.WriteString("Use only the event listings below. ")
	sb.WriteString("If they do not contain the answer, say so.\n\n")

	for i, r := range results {
		meta := r.Chunk.Metadata
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, meta.Title)
		fmt.Fprintf(&sb, "Date: %s\n", meta.Date.Format("2006-01-02"))
		if meta.Location != "" {
			fmt.Fprintf(&sb, "Location: %s\n", meta.Location)
		}
		if meta.Category != "" {
			fmt.Fprintf(&sb, "Category: %s\n", meta.Category)
		}
		if meta.URL != "" {
			fmt.Fprintf(&sb, "URL: %s\n", meta.URL)
		}
		sb.WriteString(r.Chunk.Text)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer:")

	return sb.String()
}
