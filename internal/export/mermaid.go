package export

import (
	"bytes"
	"fmt"
	"strings"

	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

// RenderMermaidGantt renders rows as a Mermaid `gantt` code block, derived
// from the same node start/end/milestone data the gantt package's layout
// engine uses.
func RenderMermaidGantt(rows []view.DisplayRow, title string) string {
	var buf bytes.Buffer
	buf.WriteString("```mermaid\n")
	buf.WriteString("gantt\n")
	fmt.Fprintf(&buf, "    title %s\n", title)
	buf.WriteString("    dateFormat  YYYY-MM-DD\n")

	section := ""
	for _, r := range rows {
		n := r.Node
		if n == nil {
			continue
		}
		if r.Depth == 1 {
			section = n.Title
			fmt.Fprintf(&buf, "    section %s\n", mermaidEscape(section))
			continue
		}
		if n.Start == "" {
			continue
		}
		writeMermaidTask(&buf, n)
	}

	buf.WriteString("```\n")
	return buf.String()
}

func writeMermaidTask(buf *bytes.Buffer, n *model.Node) {
	name := mermaidEscape(n.Title)
	id := mermaidID(n.ID)
	attrs := []string{id}
	if n.Milestone {
		attrs = append(attrs, "milestone")
	}
	if n.Status == model.StatusDone {
		attrs = append(attrs, "done")
	} else if n.Status == model.StatusInProgress {
		attrs = append(attrs, "active")
	}
	attrs = append(attrs, n.Start)
	if !n.Milestone {
		if n.Duration != "" {
			attrs = append(attrs, n.Duration)
		} else if n.End != "" {
			attrs = append(attrs, n.End)
		}
	}
	fmt.Fprintf(buf, "    %s : %s\n", name, strings.Join(attrs, ", "))
}

func mermaidEscape(s string) string {
	s = strings.ReplaceAll(s, ":", " -")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func mermaidID(nodeID string) string {
	if len(nodeID) > 8 {
		return "t" + nodeID[:8]
	}
	return "t" + nodeID
}

// WriteMermaidGantt renders and writes rows to path as a *.mmd file.
func WriteMermaidGantt(path string, rows []view.DisplayRow, title string) error {
	return writeFile(path, RenderMermaidGantt(rows, title))
}
