package export

import (
	"strings"
	"testing"
	"time"

	"tuiwbs/internal/model"
	"tuiwbs/internal/view"
)

func testRows() []view.DisplayRow {
	root := &model.Node{ID: "root", Title: "Phase 1", Depth: 1, Start: "2026-01-01", End: "2026-01-10"}
	child := &model.Node{ID: "child", Title: "Design", Depth: 2, Start: "2026-01-02", End: "2026-01-04", Status: model.StatusDone}
	root.Children = []*model.Node{child}
	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{root}}
	p := &model.Project{Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("p")}
	cfg := model.ViewConfig{Type: model.ViewTable, Columns: []string{"title", "status", "start", "end"}}
	return view.Project(p, cfg, time.Now())
}

func TestRenderMarkdownTable(t *testing.T) {
	rows := testRows()
	cfg := model.ViewConfig{Name: "Table", Columns: []string{"title", "status", "start", "end"}}
	out := RenderMarkdownTable(rows, cfg)
	if !strings.Contains(out, "| Title | Status | Start | End |") {
		t.Fatalf("expected header row, got:\n%s", out)
	}
	if !strings.Contains(out, "Design") {
		t.Fatalf("expected Design row, got:\n%s", out)
	}
}

func TestRenderMermaidGantt(t *testing.T) {
	rows := testRows()
	out := RenderMermaidGantt(rows, "Test Project")
	if !strings.HasPrefix(out, "```mermaid\n") {
		t.Fatalf("expected mermaid code fence, got:\n%s", out)
	}
	if !strings.Contains(out, "gantt") {
		t.Fatalf("expected gantt directive")
	}
	if !strings.Contains(out, "section Phase 1") {
		t.Fatalf("expected section for top-level node, got:\n%s", out)
	}
	if !strings.Contains(out, "Design") {
		t.Fatalf("expected task line for Design")
	}
}
