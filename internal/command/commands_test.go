package command

import (
	"testing"

	"tuiwbs/internal/model"
)

func newTestProject() *model.Project {
	root := &model.Node{ID: "root", Title: "Root", Depth: 1, Status: model.StatusTodo, SourceFile: "a.wbs.md"}
	child := &model.Node{ID: "child", Title: "Child", Depth: 2, Status: model.StatusDone, SourceFile: "a.wbs.md"}
	root.Children = []*model.Node{child}
	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{root}}
	return &model.Project{Dir: "/tmp/proj", Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("proj")}
}

func TestAddChildAndUndo(t *testing.T) {
	log := NewLog(newTestProject())
	cmd := &AddChild{ParentID: "root", Title: "New task"}
	if err := log.Apply(cmd); err != nil {
		t.Fatalf("apply: %v", err)
	}
	root, _ := log.Current().FindNode("root")
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if err := log.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	root, _ = log.Current().FindNode("root")
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child after undo, got %d", len(root.Children))
	}
}

func TestDeleteRestoresSubtreeOnUndo(t *testing.T) {
	log := NewLog(newTestProject())
	if err := log.Apply(&Delete{NodeID: "child"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	root, _ := log.Current().FindNode("root")
	if len(root.Children) != 0 {
		t.Fatalf("expected child removed")
	}
	if root.Progress != 0 {
		t.Fatalf("expected recomputed progress 0 with no children, got %d", root.Progress)
	}
	if err := log.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	root, _ = log.Current().FindNode("root")
	if len(root.Children) != 1 || root.Children[0].ID != "child" {
		t.Fatalf("expected child restored")
	}
}

func TestSetFieldProgressRejectedOnParent(t *testing.T) {
	log := NewLog(newTestProject())
	err := log.Apply(&SetField{NodeID: "root", Field: "progress", Value: "50"})
	if _, ok := err.(model.ComputedFieldError); !ok {
		t.Fatalf("expected ComputedFieldError, got %v", err)
	}
}

func TestSetFieldDateArithmeticFillsDuration(t *testing.T) {
	log := NewLog(newTestProject())
	if err := log.Apply(&SetField{NodeID: "child", Field: "start", Value: "2026-01-01"}); err != nil {
		t.Fatalf("apply start: %v", err)
	}
	if err := log.Apply(&SetField{NodeID: "child", Field: "end", Value: "2026-01-05"}); err != nil {
		t.Fatalf("apply end: %v", err)
	}
	n, _ := log.Current().FindNode("child")
	if n.Duration != "5d" {
		t.Fatalf("expected duration 5d, got %q", n.Duration)
	}
}

func TestSetFieldEndBeforeStartWarnsInsteadOfSilentlyDropping(t *testing.T) {
	log := NewLog(newTestProject())
	if err := log.Apply(&SetField{NodeID: "child", Field: "start", Value: "2026-01-10"}); err != nil {
		t.Fatalf("apply start: %v", err)
	}
	if err := log.Apply(&SetField{NodeID: "child", Field: "end", Value: "2026-01-05"}); err != nil {
		t.Fatalf("apply end: %v", err)
	}

	n, _ := log.Current().FindNode("child")
	if n.Duration != "" {
		t.Fatalf("expected no duration computed from an inverted range, got %q", n.Duration)
	}

	found := false
	for _, w := range log.Current().Warnings {
		if w.Kind == "DateOrder" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DateOrder warning, got %+v", log.Current().Warnings)
	}
}

func TestRenameTitleRewritesDepends(t *testing.T) {
	root := &model.Node{ID: "root", Title: "Root", Depth: 1}
	dep := &model.Node{ID: "dep", Title: "Dependency", Depth: 2, Depends: []string{"Root"}}
	root.Children = []*model.Node{dep}
	doc := &model.Document{Path: "a.wbs.md", Roots: []*model.Node{root}}
	p := &model.Project{Dir: "/tmp/proj", Documents: []*model.Document{doc}, Config: model.DefaultProjectConfig("proj")}

	log := NewLog(p)
	if err := log.Apply(&RenameTitle{NodeID: "root", NewName: "Root Renamed"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	n, _ := log.Current().FindNode("dep")
	if len(n.Depends) != 1 || n.Depends[0] != "Root Renamed" {
		t.Fatalf("expected depends rewritten, got %v", n.Depends)
	}
	if err := log.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	n, _ = log.Current().FindNode("dep")
	if n.Depends[0] != "Root" {
		t.Fatalf("expected depends restored on undo, got %v", n.Depends)
	}
}

func TestIndentRequiresPriorSibling(t *testing.T) {
	log := NewLog(newTestProject())
	err := log.Apply(&Indent{NodeID: "root"})
	if _, ok := err.(model.NoAnchorError); !ok {
		t.Fatalf("expected NoAnchorError, got %v", err)
	}
}

func TestMoveUpOutOfRange(t *testing.T) {
	log := NewLog(newTestProject())
	err := log.Apply(&MoveUp{NodeID: "child"})
	if _, ok := err.(model.OutOfRangeError); !ok {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
}

func TestUndoStackCap(t *testing.T) {
	p := newTestProject()
	log := NewLog(p)
	for i := 0; i < maxUndoDepth+10; i++ {
		if err := log.Apply(&SetField{NodeID: "child", Field: "assignee", Value: "alice"}); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}
	if len(log.undo) != maxUndoDepth {
		t.Fatalf("expected undo stack capped at %d, got %d", maxUndoDepth, len(log.undo))
	}
}

func TestRedoClearedByNewApply(t *testing.T) {
	log := NewLog(newTestProject())
	if err := log.Apply(&SetField{NodeID: "child", Field: "assignee", Value: "alice"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := log.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !log.CanRedo() {
		t.Fatalf("expected redo available")
	}
	if err := log.Apply(&SetField{NodeID: "child", Field: "assignee", Value: "bob"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if log.CanRedo() {
		t.Fatalf("expected redo cleared after new apply")
	}
}
