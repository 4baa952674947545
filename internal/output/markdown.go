package output

import (
	"fmt"
	"strings"
	"time"
)

type Metadata struct {
	Title     string
	Source    string
	Backend   string
	Model     string
	Language  string
	Duration  time.Duration
	Generated string
}

// RenderMarkdown wraps an already built transcript body in a markdown document.
func RenderMarkdown(meta Metadata, body string) string {
	var b strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	} else {
		b.WriteString("# Transcript\n\n")
	}
	if meta.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", meta.Source)
	}
	if meta.Backend != "" {
		fmt.Fprintf(&b, "- Backend: `%s`\n", meta.Backend)
	}
	if meta.Model != "" {
		fmt.Fprintf(&b, "- Model: `%s`\n", meta.Model)
	}
	if meta.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", meta.Language)
	}
	if meta.Duration > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", meta.Duration.Truncate(time.Second))
	}
	if meta.Generated != "" {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.Generated)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	return b.String()
}
