package view

import (
	"testing"
	"time"

	"tuiwbs/internal/model"
)

func testProject() *model.Project {
	a := &model.Node{ID: "a", Title: "Alpha", Depth: 1, Status: model.StatusTodo, Start: "2020-01-01"}
	b := &model.Node{ID: "b", Title: "Beta", Depth: 1, Status: model.StatusDone, Priority: model.PriorityHigh}
	c := &model.Node{ID: "c", Title: "Gamma", Depth: 1, Status: model.StatusInProgress}
	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{a, b, c}}
	return &model.Project{Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("p")}
}

func TestProjectFilterEq(t *testing.T) {
	p := testProject()
	cfg := model.ViewConfig{
		Type:    model.ViewTable,
		Columns: []string{"title", "status"},
		Filters: []model.FilterPredicate{{Column: "status", Op: model.OpEq, Literal: []string{"DONE"}}},
	}
	rows := Project(p, cfg, time.Now())
	if len(rows) != 1 || rows[0].NodeID != "b" {
		t.Fatalf("expected only Beta, got %+v", rows)
	}
}

func TestProjectSortByStatus(t *testing.T) {
	p := testProject()
	cfg := model.ViewConfig{
		Type:    model.ViewTable,
		Columns: []string{"title", "status"},
		Sort:    &model.SortDescriptor{Column: "status", Direction: model.SortAsc},
	}
	rows := Project(p, cfg, time.Now())
	if rows[0].NodeID != "a" || rows[1].NodeID != "c" || rows[2].NodeID != "b" {
		t.Fatalf("expected TODO < IN_PROGRESS < DONE order, got %+v", rows)
	}
}

func TestProjectDelayedStartHighlight(t *testing.T) {
	p := testProject()
	cfg := model.ViewConfig{Type: model.ViewTable, Columns: []string{"title"}}
	rows := Project(p, cfg, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, r := range rows {
		if r.NodeID == "a" && !r.Delayed {
			t.Fatalf("expected Alpha flagged delayed")
		}
		if r.NodeID != "a" && r.Delayed {
			t.Fatalf("expected only Alpha flagged delayed, got %s delayed", r.NodeID)
		}
	}
}

func TestGroupByKanban(t *testing.T) {
	p := testProject()
	cfg := model.ViewConfig{
		Type:    model.ViewKanban,
		Columns: []string{"title", "status"},
		GroupBy: "status",
	}
	rows := Project(p, cfg, time.Now())
	var groups []string
	for _, r := range rows {
		groups = append(groups, r.GroupName)
	}
	want := []string{"TODO", "IN_PROGRESS", "DONE"}
	for i, g := range want {
		if groups[i] != g {
			t.Fatalf("expected group order %v, got %v", want, groups)
		}
	}
}

func TestGanttDepthCap(t *testing.T) {
	root := &model.Node{ID: "root", Title: "Root", Depth: 1}
	child := &model.Node{ID: "child", Title: "Child", Depth: 2}
	grandchild := &model.Node{ID: "grandchild", Title: "Grandchild", Depth: 3}
	child.Children = []*model.Node{grandchild}
	root.Children = []*model.Node{child}
	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{root}}
	p := &model.Project{Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("p")}

	cfg := model.ViewConfig{
		Type:    model.ViewTableGantt,
		Columns: []string{"title"},
		Gantt:   model.GanttOptions{Scale: model.ScaleDay, MaxDepth: 2},
	}
	rows := Project(p, cfg, time.Now())
	if len(rows) != 2 {
		t.Fatalf("expected depth cap to hide grandchild, got %d rows", len(rows))
	}
}
