// Package parser implements the Markdown-to-Project scan: a directory of
// *.wbs.md files becomes a model.Project, one Document per file, with
// per-node raw byte spans captured so the writer can round-trip untouched
// nodes byte-for-byte.
package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tuiwbs/internal/model"
)

var (
	headingRE = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	metaRE    = regexp.MustCompile(`^<!--\s*(.*?)\s*-->\s*$`)
)

// ScanDir walks dir for *.wbs.md files and returns the assembled Project.
// A per-file failure never aborts the scan; it is recorded as a warning and
// yields an empty Document for that file.
func ScanDir(dir string, cfg model.ProjectConfig) (*model.Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, model.IoError{Path: dir, Err: err}
	}

	var paths []string
	err = filepath.WalkDir(abs, walkDirFunc(&paths))
	if err != nil {
		return nil, model.IoError{Path: abs, Err: err}
	}
	sort.Strings(paths)

	proj := &model.Project{Dir: abs, Config: cfg}
	for _, p := range paths {
		doc := ParseFile(p)
		proj.Documents = append(proj.Documents, doc)
		proj.Warnings = append(proj.Warnings, doc.Warnings...)
	}
	proj.Warnings = append(proj.Warnings, ValidateDepends(proj)...)
	return proj, nil
}

// walkDirFunc returns a filepath.WalkDir callback collecting *.wbs.md paths.
// Factored out so ScanDir reads as the two meaningful steps: gather, then parse.
func walkDirFunc(out *[]string) func(string, os.DirEntry, error) error {
	return func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if d.Name() == ".tui-wbs" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".wbs.md") {
			*out = append(*out, path)
		}
		return nil
	}
}

// ParseFile parses one file into a Document. It never returns an error:
// unreadable or binary files yield an empty Document carrying a warning, and
// a file with no heading keeps its bytes as Preamble and carries a warning.
func ParseFile(path string) *model.Document {
	doc := &model.Document{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		doc.Warnings = append(doc.Warnings, model.ParseWarning{
			File: path, Kind: "IoError", Message: err.Error(),
		})
		return doc
	}
	if looksBinary(raw) {
		doc.Warnings = append(doc.Warnings, model.ParseWarning{
			File: path, Kind: "BinaryFile", Message: "file appears to be binary; skipped",
		})
		return doc
	}

	doc.Raw = raw
	preamble, roots, warnings := parseLines(raw, path)
	doc.Preamble = preamble
	doc.Roots = roots
	doc.Warnings = append(doc.Warnings, warnings...)
	if len(roots) == 0 {
		doc.Warnings = append(doc.Warnings, model.ParseWarning{
			File: path, Kind: "NoHeadings", Message: "file has no headings",
		})
	}
	return doc
}

func looksBinary(b []byte) bool {
	n := len(b)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}

// build is the in-progress state for one open node while walking lines.
type build struct {
	node      *model.Node
	startLine int // index into lines of the heading line
	memoStart int // index of first memo line (after heading + optional meta)
	memoEnd   int // exclusive
}

func parseLines(raw []byte, path string) ([]byte, []*model.Node, []model.ParseWarning) {
	lines := splitKeepEnds(raw)

	var warnings []model.ParseWarning
	var order []*build           // every opened node, in heading order
	var stack []*build           // currently open ancestor chain, depth == index+1
	var roots []*model.Node

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimRight(line, "\r\n")

		if m := headingRE.FindStringSubmatch(trimmed); m != nil {
			depth := len(m[1])
			title := m[2]

			n := &model.Node{
				ID:         model.NewNodeID(),
				Title:      title,
				Depth:      depth,
				Status:     model.StatusTodo,
				Priority:   model.PriorityMedium,
				SourceFile: path,
			}
			b := &build{node: n, startLine: i, memoStart: i + 1, memoEnd: i + 1}

			// Look ahead: first non-blank line after the heading, if it is a
			// metadata comment, is consumed and never treated as memo.
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j < len(lines) {
				if mm := metaRE.FindStringSubmatch(strings.TrimRight(lines[j], "\r\n")); mm != nil {
					decodeMeta(n, mm[1], path, &warnings)
					b.memoStart = j + 1
				}
			}

			attachNode(&stack, &roots, b, &warnings, path)
			order = append(order, b)
			i++
			continue
		}
		i++
	}

	// Assign raw spans and memo bytes: each node's span runs from its
	// heading line through the line before the next heading in the file
	// (any depth), which — by construction — is also the line before the
	// next *build in `order`.
	for idx, b := range order {
		endLine := len(lines)
		if idx+1 < len(order) {
			endLine = order[idx+1].startLine
		}
		b.node.Raw = joinLines(lines[b.startLine:endLine])
		memoEnd := endLine
		if b.memoStart < memoEnd {
			b.node.Memo = joinLines(lines[b.memoStart:memoEnd])
		} else {
			b.node.Memo = nil
		}
	}

	applyMilestoneGeometry(roots)
	applyDateArithmetic(roots, &warnings)
	applyProgressReconciliation(roots)

	// A leading paragraph, blank lines, or (for a file with no heading at
	// all) the entire file precede the first tracked node and have no node
	// to carry them; preserve them separately so they survive a write.
	preambleEnd := len(lines)
	if len(order) > 0 {
		preambleEnd = order[0].startLine
	}
	preamble := joinLines(lines[:preambleEnd])

	return preamble, roots, warnings
}

// attachNode places b's node into the tree per the heading-depth=tree-depth
// invariant, handling a depth jump by attaching to the nearest ancestor of
// depth-1 and emitting HeadingLevelJump.
func attachNode(stack *[]*build, roots *[]*model.Node, b *build, warnings *[]model.ParseWarning, path string) {
	depth := b.node.Depth

	// Pop back to the parent depth (depth-1), tolerating jumps.
	for len(*stack) > 0 && (*stack)[len(*stack)-1].node.Depth >= depth {
		*stack = (*stack)[:len(*stack)-1]
	}

	if len(*stack) == 0 {
		if depth != 1 {
			*warnings = append(*warnings, model.ParseWarning{
				File: path, Kind: "HeadingLevelJump",
				Message: "heading level " + strconv.Itoa(depth) + " has no ancestor; attached as root",
			})
		}
		*roots = append(*roots, b.node)
		*stack = append(*stack, b)
		return
	}

	parent := (*stack)[len(*stack)-1]
	if parent.node.Depth != depth-1 {
		*warnings = append(*warnings, model.ParseWarning{
			File: path, Kind: "HeadingLevelJump",
			Message: "heading level " + strconv.Itoa(depth) + " under level " + strconv.Itoa(parent.node.Depth),
		})
	}
	parent.node.Children = append(parent.node.Children, b.node)
	*stack = append(*stack, b)
}

func splitKeepEnds(raw []byte) []string {
	var lines []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			lines = append(lines, string(raw[start:i+1]))
			start = i + 1
		}
	}
	if start < len(raw) {
		lines = append(lines, string(raw[start:]))
	}
	return lines
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
	}
	return buf.Bytes()
}
