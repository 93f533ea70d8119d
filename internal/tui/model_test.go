package tui

import (
	"strings"
	"testing"

	"tuiwbs/internal/model"
)

func newTestAppModel() *appModel {
	parent := &model.Node{ID: "parent", Title: "Parent", Depth: 1, Status: model.StatusTodo, Memo: []byte("parent memo")}
	child := &model.Node{ID: "child", Title: "Child", Depth: 2, Status: model.StatusTodo}
	parent.Children = []*model.Node{child}
	leaf := &model.Node{ID: "leaf", Title: "Leaf", Depth: 1, Status: model.StatusTodo}

	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{parent, leaf}}
	proj := &model.Project{Dir: "/tmp/proj", Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("proj")}
	return newAppModel("/tmp/proj", proj, nil, "")
}

func TestVisibleRowsHidesChildrenOfCollapsedNode(t *testing.T) {
	m := newTestAppModel()
	before := m.visibleRows()
	if len(before) != 3 {
		t.Fatalf("expected 3 rows before collapsing anything, got %d", len(before))
	}

	m.cursorID = "parent"
	m.toggleCollapse()

	after := m.visibleRows()
	if len(after) != 2 {
		t.Fatalf("expected child hidden once parent is collapsed, got %d rows: %+v", len(after), after)
	}
	for _, r := range after {
		if r.NodeID == "child" {
			t.Fatalf("expected child to be hidden, found it in %+v", after)
		}
	}
}

func TestToggleCollapseOnLeafIsNoOp(t *testing.T) {
	m := newTestAppModel()
	m.cursorID = "leaf"
	m.toggleCollapse()
	if m.collapsed["leaf"] {
		t.Fatalf("expected a leaf node to never become collapsed")
	}
}

func TestMoveCursorSkipsHiddenDescendants(t *testing.T) {
	m := newTestAppModel()
	m.cursorID = "parent"
	m.toggleCollapse()

	m.moveCursor(1)
	if m.cursorID != "leaf" {
		t.Fatalf("expected cursor to skip the hidden child and land on leaf, got %q", m.cursorID)
	}
}

func TestRenderMemoPreviewRendersCursorNodeMemo(t *testing.T) {
	m := newTestAppModel()
	m.cursorID = "parent"
	out := m.renderMemoPreview()
	if !strings.Contains(stripANSIEscapes(out), "parent memo") {
		t.Fatalf("expected memo body to appear in preview, got %q", out)
	}
}

func TestRenderMemoPreviewReportsNoMemo(t *testing.T) {
	m := newTestAppModel()
	m.cursorID = "leaf"
	out := m.renderMemoPreview()
	if !strings.Contains(out, "no memo") {
		t.Fatalf("expected a no-memo message for a node without one, got %q", out)
	}
}
