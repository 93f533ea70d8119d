package model

import "testing"

func TestComputedProgressLeaf(t *testing.T) {
	n := &Node{ID: "a", Progress: 42}
	if got := n.ComputedProgress(); got != 42 {
		t.Fatalf("expected leaf progress 42, got %d", got)
	}
}

func TestComputedProgressAggregatesDescendants(t *testing.T) {
	leaf1 := &Node{ID: "l1", Status: StatusDone}
	leaf2 := &Node{ID: "l2", Status: StatusTodo}
	parent := &Node{ID: "p", Children: []*Node{leaf1, leaf2}}
	if got := parent.ComputedProgress(); got != 50 {
		t.Fatalf("expected 50%%, got %d", got)
	}
}

func TestComputedProgressExcludesMilestones(t *testing.T) {
	leaf := &Node{ID: "l1", Status: StatusDone}
	milestone := &Node{ID: "m", Status: StatusTodo, Milestone: true}
	parent := &Node{ID: "p", Children: []*Node{leaf, milestone}}
	if got := parent.ComputedProgress(); got != 100 {
		t.Fatalf("expected 100%% excluding milestone, got %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	n := &Node{ID: "a", Depends: []string{"x"}, Custom: []CustomField{{Name: "k", Value: "v"}}}
	clone := n.Clone()
	clone.Depends[0] = "y"
	clone.Custom[0].Value = "changed"
	if n.Depends[0] != "x" {
		t.Fatalf("expected original Depends untouched, got %v", n.Depends)
	}
	if n.Custom[0].Value != "v" {
		t.Fatalf("expected original Custom untouched, got %v", n.Custom)
	}
}

func TestClampProgress(t *testing.T) {
	cases := map[int]int{-5: 0, 0: 0, 50: 50, 100: 100, 150: 100}
	for in, want := range cases {
		if got := ClampProgress(in); got != want {
			t.Fatalf("ClampProgress(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestValidateTitleRejectsEmpty(t *testing.T) {
	if err := ValidateTitle(""); err == nil {
		t.Fatalf("expected error for empty title")
	}
	if err := ValidateTitle("ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDepthRange(t *testing.T) {
	if err := ValidateDepth(0); err == nil {
		t.Fatalf("expected error for depth 0")
	}
	if err := ValidateDepth(7); err == nil {
		t.Fatalf("expected error for depth 7")
	}
	if err := ValidateDepth(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
