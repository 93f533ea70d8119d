// Package export implements one-way Markdown-table and Mermaid gantt
// renderers. Neither format is ever read back by the parser; both are
// derived purely from a view projection.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

// RenderMarkdownTable renders rows as a GitHub-flavored Markdown table, one
// row per DisplayRow, columns per the view's declared column list.
func RenderMarkdownTable(rows []view.DisplayRow, cfg model.ViewConfig) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	headers := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		headers[i] = displayName(col)
	}
	writeLn("| " + strings.Join(headers, " | ") + " |")

	seps := make([]string, len(cfg.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	writeLn("| " + strings.Join(seps, " | ") + " |")

	for _, r := range rows {
		cells := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			cells[i] = escapeCell(indentedTitle(r, col))
		}
		writeLn("| " + strings.Join(cells, " | ") + " |")
	}

	return buf.String()
}

func indentedTitle(r view.DisplayRow, col string) string {
	v := r.Cells[col]
	if col == "title" && r.Depth > 1 {
		return strings.Repeat("  ", r.Depth-1) + v
	}
	return v
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func displayName(columnID string) string {
	for _, c := range model.BuiltinColumns() {
		if c.ID == columnID {
			return c.DisplayName
		}
	}
	if columnID == "" {
		return columnID
	}
	return strings.ToUpper(columnID[:1]) + columnID[1:]
}

// WriteMarkdownTable renders and writes rows to path as a *.md file.
func WriteMarkdownTable(path string, rows []view.DisplayRow, cfg model.ViewConfig) error {
	content := fmt.Sprintf("# %s\n\n%s", cfg.Name, RenderMarkdownTable(rows, cfg))
	return writeFile(path, content)
}
