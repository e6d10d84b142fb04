package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/settings"
)

// SummaryWordWrap is the wrap width for rendered summaries.
const SummaryWordWrap = 100

// SummaryMarkdown renders a settings document as a markdown report: one
// section per known key with a fill count and a table of slots. Absent
// sections are listed as not present.
func SummaryMarkdown(title string, doc *settings.Document) string {
	caser := cases.Title(language.English)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escapeCell(title))

	section := func(label string, present bool, filled, total int) bool {
		fmt.Fprintf(&sb, "## %s\n\n", caser.String(label))
		if !present {
			sb.WriteString("_Not present in the bundle._\n\n")
			return false
		}
		if total == 0 {
			sb.WriteString("_None._\n\n")
			return false
		}
		fmt.Fprintf(&sb, "%d of %d filled.\n\n", filled, total)
		return true
	}

	vars := doc.EnvironmentVariables
	if section("environment variables", vars.Present, countFilled(vars.Items, func(v int) bool { return vars.Items[v].Value != "" }), vars.Len()) {
		sb.WriteString("| Schema name | Value |\n|---|---|\n")
		for _, v := range vars.Items {
			fmt.Fprintf(&sb, "| %s | %s |\n", escapeCell(v.SchemaName), orEmpty(v.Value))
		}
		sb.WriteString("\n")
	}

	refs := doc.ConnectionReferences
	refFilled := countFilled(refs.Items, func(i int) bool {
		id := refs.Items[i].ConnectionID
		return id != "" && id != constants.ConnectionNotFound
	})
	if section("connection references", refs.Present, refFilled, refs.Len()) {
		sb.WriteString("| Logical name | Connector | Connection |\n|---|---|---|\n")
		for _, r := range refs.Items {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", orEmpty(r.Key()), orEmpty(r.Connector()), orEmpty(r.ConnectionID))
		}
		sb.WriteString("\n")
	}

	flows := doc.WorkflowOwnership
	flowFilled := countFilled(flows.Items, func(i int) bool { return flows.Items[i].OwnerEmail != nil })
	if section("workflow ownership", flows.Present, flowFilled, flows.Len()) {
		sb.WriteString("| Component | Type | Owner |\n|---|---|---|\n")
		for _, w := range flows.Items {
			owner := ""
			if w.OwnerEmail != nil {
				owner = *w.OwnerEmail
			}
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", escapeCell(w.ComponentUniqueName), w.ComponentType, orEmpty(owner))
		}
		sb.WriteString("\n")
	}

	if extra := doc.ExtraKeys(); len(extra) > 0 {
		sb.WriteString("## Other Keys\n\n")
		for _, k := range extra {
			fmt.Fprintf(&sb, "- `%s`\n", k)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderMarkdown renders markdown for the terminal with glamour. Without
// color support the "notty" style is used so output stays plain text.
func RenderMarkdown(md string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if !HasColorSupport() {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func countFilled[T any](items []T, filled func(int) bool) int {
	n := 0
	for i := range items {
		if filled(i) {
			n++
		}
	}
	return n
}

func orEmpty(s string) string {
	if s == "" {
		return "_(empty)_"
	}
	return escapeCell(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
