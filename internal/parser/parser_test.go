package parser

import (
	"os"
	"path/filepath"
	"testing"

	"tuiwbs/internal/model"
)

func TestParseFileBasicTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wbs.md")
	content := "# Root\n<!-- status: IN_PROGRESS -->\n\nSome memo text.\n\n## Child\n<!-- assignee: alice -->\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc := ParseFile(path)
	if len(doc.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", doc.Warnings)
	}
	if len(doc.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(doc.Roots))
	}
	root := doc.Roots[0]
	if root.Title != "Root" || root.Status != model.StatusInProgress {
		t.Fatalf("unexpected root: %+v", root)
	}
	if len(root.Children) != 1 || root.Children[0].Title != "Child" {
		t.Fatalf("expected Child node, got %+v", root.Children)
	}
	if root.Children[0].Assignee != "alice" {
		t.Fatalf("expected assignee alice, got %q", root.Children[0].Assignee)
	}
}

func TestParseFileHeadingLevelJumpWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wbs.md")
	content := "# Root\n\n### Grandchild jump\n\n"
	os.WriteFile(path, []byte(content), 0o644)

	doc := ParseFile(path)
	foundJump := false
	for _, w := range doc.Warnings {
		if w.Kind == "HeadingLevelJump" {
			foundJump = true
		}
	}
	if !foundJump {
		t.Fatalf("expected HeadingLevelJump warning, got %v", doc.Warnings)
	}
}

func TestParseFileMilestoneGeometry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wbs.md")
	content := "# Launch\n<!-- milestone: true | start: 2026-03-01 | duration: 5d -->\n\n"
	os.WriteFile(path, []byte(content), 0o644)

	doc := ParseFile(path)
	n := doc.Roots[0]
	if n.End != n.Start {
		t.Fatalf("expected milestone end == start, got start=%q end=%q", n.Start, n.End)
	}
}

func TestParseFileDateArithmeticFillsEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wbs.md")
	content := "# Task\n<!-- start: 2026-01-01 | duration: 3d -->\n\n"
	os.WriteFile(path, []byte(content), 0o644)

	doc := ParseFile(path)
	n := doc.Roots[0]
	if n.End != "2026-01-03" {
		t.Fatalf("expected end 2026-01-03, got %q", n.End)
	}
}

func TestParseFileBinaryFileSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.wbs.md")
	os.WriteFile(path, []byte("garbage\x00bytes"), 0o644)

	doc := ParseFile(path)
	if len(doc.Roots) != 0 {
		t.Fatalf("expected no roots for binary file")
	}
	if len(doc.Warnings) != 1 || doc.Warnings[0].Kind != "BinaryFile" {
		t.Fatalf("expected BinaryFile warning, got %v", doc.Warnings)
	}
}

func TestValidateDependsCircular(t *testing.T) {
	a := &model.Node{ID: "a", Title: "A", Depends: []string{"B"}}
	b := &model.Node{ID: "b", Title: "B", Depends: []string{"A"}}
	doc := &model.Document{Path: "x.wbs.md", Roots: []*model.Node{a, b}}
	p := &model.Project{Documents: []*model.Document{doc}}

	warnings := ValidateDepends(p)
	found := false
	for _, w := range warnings {
		if w.Kind == "CircularDependency" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CircularDependency warning, got %v", warnings)
	}
}

func TestValidateDependsUnresolved(t *testing.T) {
	a := &model.Node{ID: "a", Title: "A", Depends: []string{"Nonexistent"}}
	doc := &model.Document{Path: "x.wbs.md", Roots: []*model.Node{a}}
	p := &model.Project{Documents: []*model.Document{doc}}

	warnings := ValidateDepends(p)
	found := false
	for _, w := range warnings {
		if w.Kind == "UnresolvedDependency" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnresolvedDependency warning, got %v", warnings)
	}
}
