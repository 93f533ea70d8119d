// Package writer serializes a model.Document back to bytes, guaranteeing
// that a document whose nodes are all unmodified round-trips to its raw
// content byte-for-byte, and that an edit to one node never disturbs any
// byte outside that node's own heading-to-next-heading span.
package writer

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tuiwbs/internal/model"
)

// canonicalFieldOrder is the fixed order the metadata comment's known
// fields are emitted in for an edited node.
var canonicalFieldOrder = []string{
	"status", "assignee", "duration", "priority", "depends", "start", "end", "milestone", "progress",
}

// SerializeDocument renders doc to bytes.
func SerializeDocument(doc *model.Document, cfg model.ProjectConfig) []byte {
	var buf bytes.Buffer
	buf.Write(doc.Preamble)
	for _, r := range doc.Roots {
		serializeNode(&buf, r, cfg)
	}
	return buf.Bytes()
}

func serializeNode(buf *bytes.Buffer, n *model.Node, cfg model.ProjectConfig) {
	if !n.Edited && n.Raw != nil {
		buf.Write(n.Raw)
	} else {
		writeHeading(buf, n)
		writeMetaComment(buf, n, cfg)
		buf.WriteString("\n")
		writeMemo(buf, n)
	}
	for _, c := range n.Children {
		serializeNode(buf, c, cfg)
	}
}

func writeHeading(buf *bytes.Buffer, n *model.Node) {
	buf.WriteString(strings.Repeat("#", n.Depth))
	buf.WriteString(" ")
	buf.WriteString(n.Title)
	buf.WriteString("\n")
}

func writeMetaComment(buf *bytes.Buffer, n *model.Node, cfg model.ProjectConfig) {
	fields := metaFields(n, cfg)
	if len(fields) == 0 {
		return
	}
	buf.WriteString("<!-- ")
	buf.WriteString(strings.Join(fields, " | "))
	buf.WriteString(" -->\n")
}

func metaFields(n *model.Node, cfg model.ProjectConfig) []string {
	var fields []string
	for _, key := range canonicalFieldOrder {
		if v, ok := fieldValue(n, key); ok {
			fields = append(fields, key+": "+v)
		}
	}
	for _, col := range cfg.CustomColumns {
		for _, cf := range n.Custom {
			if cf.Name == col.ID && cf.Value != "" {
				fields = append(fields, cf.Name+": "+cf.Value)
				break
			}
		}
	}
	return fields
}

// fieldValue returns the rendered value for a known field, and whether it
// is non-default and therefore should be emitted at all.
func fieldValue(n *model.Node, key string) (string, bool) {
	switch key {
	case "status":
		if n.Status == model.StatusTodo {
			return "", false
		}
		return n.Status.String(), true
	case "assignee":
		if n.Assignee == "" {
			return "", false
		}
		return n.Assignee, true
	case "duration":
		if n.Duration == "" || n.Milestone {
			return "", false
		}
		return n.Duration, true
	case "priority":
		if n.Priority == model.PriorityMedium {
			return "", false
		}
		return n.Priority.String(), true
	case "depends":
		if len(n.Depends) == 0 {
			return "", false
		}
		return strings.Join(n.Depends, "; "), true
	case "start":
		if n.Start == "" {
			return "", false
		}
		return n.Start, true
	case "end":
		if n.End == "" {
			return "", false
		}
		return n.End, true
	case "milestone":
		if !n.Milestone {
			return "", false
		}
		return "true", true
	case "progress":
		if !n.Leaf() || n.Progress == 0 {
			return "", false
		}
		return strconv.Itoa(n.Progress), true
	default:
		return "", false
	}
}

func writeMemo(buf *bytes.Buffer, n *model.Node) {
	memo := n.Memo
	if len(memo) == 0 {
		buf.WriteString("\n")
		return
	}
	buf.Write(memo)
	if !bytes.HasSuffix(memo, []byte("\n\n")) {
		if !bytes.HasSuffix(memo, []byte("\n")) {
			buf.WriteString("\n")
		}
		buf.WriteString("\n")
	}
}

// WriteDocument persists doc atomically: copy the existing file to
// "<path>.bak" (if it exists), write the new image to "<path>.tmp" in the
// same directory, fsync it, then rename it onto path. A failure after the
// backup copy leaves the .bak intact; a failure before leaves the
// original file untouched.
func WriteDocument(doc *model.Document, cfg model.ProjectConfig) error {
	image := SerializeDocument(doc, cfg)

	if _, err := os.Stat(doc.Path); err == nil {
		if err := copyFile(doc.Path, doc.Path+".bak"); err != nil {
			return model.IoError{Path: doc.Path + ".bak", Err: err}
		}
	}

	tmpPath := doc.Path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return model.IoError{Path: doc.Path, Err: err}
	}
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return model.IoError{Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return model.IoError{Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return model.IoError{Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, doc.Path); err != nil {
		return model.IoError{Path: doc.Path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}

// WriteProject persists every modified document in p, in document order,
// clearing Modified on success. It stops at the first failure so the
// caller can surface which document failed.
func WriteProject(p *model.Project) error {
	for _, doc := range p.Documents {
		if !doc.Modified {
			continue
		}
		if err := WriteDocument(doc, p.Config); err != nil {
			return fmt.Errorf("writing %s: %w", doc.Path, err)
		}
		doc.Modified = false
	}
	return nil
}
