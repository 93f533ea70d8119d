// Package model holds the immutable value types shared by every other
// package in this module: Node, Document, Project, and the declarative
// view/config descriptors layered on top of them.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// CustomField is one entry of a Node's ordered custom-field map. A slice of
// pairs (rather than a Go map) preserves declaration order, which the
// writer needs to reproduce the canonical metadata comment.
type CustomField struct {
	Name  string
	Value string
}

// Node is a unit of work in the WBS tree. Nodes are value objects: every
// mutation path in internal/command builds a new Node (and copies only the
// spine of ancestors down to it) rather than mutating one in place.
type Node struct {
	ID    string // opaque per-process identity; never persisted
	Title string
	Depth int // 1-6, mirrors the Markdown heading level

	Status     Status
	Priority   Priority
	Assignee   string
	Duration   string
	Start      string // YYYY-MM-DD, or "" if unset
	End        string
	Milestone  bool
	Progress   int // 0-100
	Depends    []string
	Memo       []byte
	Custom     []CustomField
	SourceFile string

	Children []*Node

	// Edited marks that this node's own heading/metadata/memo must be
	// regenerated by the writer rather than replayed verbatim from Raw.
	Edited bool
	// Raw is the exact byte span read from disk: this node's heading line
	// through the byte before the next heading token (of any depth) in the
	// source file. It is nil for nodes created in-session (AddChild/AddSibling).
	Raw []byte

	// StartExplicit/EndExplicit track whether the user set start/end directly
	// on this node (as opposed to having it aggregated from children). This
	// bit is process-scoped only: re-deriving it from scratch on every load
	// is cheap and avoids a Markdown-visible marker for something that only
	// matters while the node stays in memory.
	StartExplicit bool
	EndExplicit   bool
}

// NewNodeID returns a fresh opaque node identifier.
func NewNodeID() string {
	return uuid.NewString()
}

// Clone returns a shallow copy of n with its own Children slice header
// (but the same child pointers) so callers can replace individual children
// without mutating n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Children = append([]*Node(nil), n.Children...)
	cp.Depends = append([]string(nil), n.Depends...)
	cp.Custom = append([]CustomField(nil), n.Custom...)
	if n.Memo != nil {
		cp.Memo = append([]byte(nil), n.Memo...)
	}
	if n.Raw != nil {
		cp.Raw = append([]byte(nil), n.Raw...)
	}
	return &cp
}

// Leaf reports whether n has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// ValidateTitle rejects an empty title.
func ValidateTitle(title string) error {
	if title == "" {
		return FieldTypeMismatchError{Field: "title", Reason: "title must not be empty"}
	}
	return nil
}

func ValidateDepth(depth int) error {
	if depth < 1 || depth > 6 {
		return InvalidLevelError{Depth: depth}
	}
	return nil
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Walk invokes fn for n and every descendant, depth-first, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CountDescendants returns the number of transitive descendants (not
// including n itself) and how many of those have StatusDone, excluding
// milestones from both counts per the progress-reconciliation invariant.
func (n *Node) CountDescendants() (total int, done int) {
	for _, c := range n.Children {
		if !c.Milestone {
			total++
			if c.Status == StatusDone {
				done++
			}
		}
		ct, cd := c.CountDescendants()
		total += ct
		done += cd
	}
	return total, done
}

// ComputedProgress applies the progress-reconciliation invariant: a node
// with children gets its progress from the fraction of non-milestone
// transitive descendants that are DONE; a leaf keeps its explicit value.
func (n *Node) ComputedProgress() int {
	if n.Leaf() {
		return ClampProgress(n.Progress)
	}
	total, done := n.CountDescendants()
	if total == 0 {
		return ClampProgress(n.Progress)
	}
	return (100 * done) / total
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{%s depth=%d %q}", n.ID, n.Depth, n.Title)
}
