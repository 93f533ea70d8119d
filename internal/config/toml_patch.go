package config

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"tuiwbs/internal/model"
)

// scalarField is one top-level key this package knows how to patch in
// place: name, default_view_id, default_columns, holidays, date_format,
// theme, glyphs. These are exactly the ProjectConfig fields that are plain
// values rather than tables, so TOML requires them to appear before any
// [table] header.
type scalarField struct {
	key   string
	value string
	omit  bool // drop the key entirely (cfg's value is the empty default)
}

func scalarFields(cfg model.ProjectConfig) []scalarField {
	return []scalarField{
		{"name", tomlString(cfg.Name), false},
		{"default_view_id", tomlString(cfg.DefaultViewID), false},
		{"default_columns", tomlStringArray(cfg.DefaultColumns), false},
		{"holidays", tomlStringArray(cfg.Holidays), len(cfg.Holidays) == 0},
		{"date_format", tomlString(string(cfg.DateFormat)), false},
		{"theme", tomlString(string(cfg.Theme)), cfg.Theme == ""},
		{"glyphs", tomlString(string(cfg.Glyphs)), cfg.Glyphs == ""},
	}
}

var scalarKeyPattern = regexp.MustCompile(`^(\s*)([A-Za-z0-9_-]+)(\s*=\s*)(.*)$`)

// patchScalars rewrites existing's scalar settings to match cfg, leaving
// everything else byte-for-byte: comments, blank lines, key order, and any
// key this package doesn't manage. Keys not already present are appended
// at the end of the preamble (the text before the first [table] header).
// Nested sections are handled separately by encodeNestedSections.
func patchScalars(existing []byte, cfg model.ProjectConfig) string {
	preamble, _ := splitPreamble(existing)
	fields := scalarFields(cfg)
	byKey := make(map[string]scalarField, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
	}
	found := make(map[string]bool, len(fields))

	var out []string
	for i := 0; i < len(preamble); i++ {
		line := preamble[i]
		m := scalarKeyPattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		key := m[2]
		f, managed := byKey[key]
		if !managed || found[key] {
			out = append(out, line)
			continue
		}
		found[key] = true

		// A hand-edited multi-line array spans until its brackets balance;
		// consume the whole span so we replace it as one patched line.
		last := line
		bal := bracketBalance(m[4])
		for bal > 0 && i+1 < len(preamble) {
			i++
			last = preamble[i]
			bal += bracketBalance(preamble[i])
		}

		if f.omit {
			continue
		}
		newLine := m[1] + key + " = " + f.value
		if c := trailingComment(last); c != "" {
			newLine += " " + c
		}
		out = append(out, newLine)
	}
	for _, f := range fields {
		if !found[f.key] && !f.omit {
			out = append(out, f.key+" = "+f.value)
		}
	}
	return strings.Join(out, "\n")
}

// splitPreamble divides b into the lines before the first [table] header
// (the scalar section) and the raw text of everything from that header on,
// which patchScalars leaves untouched and Save discards in favor of a
// freshly rendered nested section.
func splitPreamble(b []byte) (preamble []string, rest string) {
	if len(b) == 0 {
		return nil, ""
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			return lines[:i], strings.Join(lines[i:], "\n")
		}
	}
	return lines, ""
}

func bracketBalance(s string) int {
	bal := 0
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
			inStr = !inStr
		}
		if inStr {
			continue
		}
		switch c {
		case '[':
			bal++
		case ']':
			bal--
		}
	}
	return bal
}

// trailingComment returns the "# ..." suffix of line, ignoring any '#'
// that appears inside a quoted string.
func trailingComment(line string) string {
	inStr := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' && (i == 0 || line[i-1] != '\\') {
			inStr = !inStr
		}
		if c == '#' && !inStr {
			return strings.TrimSpace(line[i:])
		}
	}
	return ""
}

func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func tomlStringArray(ss []string) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = tomlString(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// nestedSections holds the ProjectConfig fields that are TOML tables
// rather than scalars. These are always re-emitted in full: they're
// edited through the TUI, not by hand, so there's no user-authored
// formatting in them worth preserving.
type nestedSections struct {
	CustomColumns []model.ColumnDef  `toml:"custom_columns,omitempty"`
	GanttWidths   model.GanttWidths  `toml:"gantt_widths"`
	Views         []model.ViewConfig `toml:"views"`
}

func encodeNestedSections(cfg model.ProjectConfig) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	err := enc.Encode(nestedSections{
		CustomColumns: cfg.CustomColumns,
		GanttWidths:   cfg.GanttWidths,
		Views:         cfg.Views,
	})
	return buf.String(), err
}
