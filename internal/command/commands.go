package command

import (
	"strconv"
	"strings"
	"time"

	"tuiwbs/internal/model"
)

// Command is an invertible mutation over a Project. Apply must be a
// deterministic function of (project, the command's own fields) and must
// preserve the tree's structural invariants (unique ids, depth matching
// nesting, no orphaned children).
type Command interface {
	Apply(p *model.Project) (*model.Project, Command, error)
}

const dateLayout = "2006-01-02"

// ---- AddChild / AddSibling ----

type AddChild struct {
	ParentID string
	Title    string
}

func (c *AddChild) Apply(p *model.Project) (*model.Project, Command, error) {
	if err := model.ValidateTitle(c.Title); err != nil {
		return p, nil, err
	}
	parent, _ := p.FindNode(c.ParentID)
	if parent == nil {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.ParentID}
	}
	n := &model.Node{
		ID: model.NewNodeID(), Title: c.Title, Depth: parent.Depth + 1,
		Status: model.StatusTodo, Priority: model.PriorityMedium, Edited: true,
		SourceFile: parent.SourceFile,
	}
	np, ok := appendChild(p, c.ParentID, n)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.ParentID}
	}
	recomputeAncestorProgress(np, c.ParentID)
	return np, &Delete{NodeID: n.ID}, nil
}

type AddSibling struct {
	AnchorID string
	Title    string
}

func (c *AddSibling) Apply(p *model.Project) (*model.Project, Command, error) {
	if err := model.ValidateTitle(c.Title); err != nil {
		return p, nil, err
	}
	anchor, _ := p.FindNode(c.AnchorID)
	if anchor == nil {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.AnchorID}
	}
	n := &model.Node{
		ID: model.NewNodeID(), Title: c.Title, Depth: anchor.Depth,
		Status: model.StatusTodo, Priority: model.PriorityMedium, Edited: true,
		SourceFile: anchor.SourceFile,
	}
	np, ok := insertSibling(p, c.AnchorID, n)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.AnchorID}
	}
	recomputeAncestorProgress(np, n.ID)
	return np, &Delete{NodeID: n.ID}, nil
}

// ---- Delete ----

type Delete struct {
	NodeID string
}

func (c *Delete) Apply(p *model.Project) (*model.Project, Command, error) {
	doc, parent, siblings, idx, ok := parentOf(p, c.NodeID)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	target := siblings[idx]

	np, ok := withReplacement(p, c.NodeID, nil)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}

	inverse := &undoDelete{node: target}
	if parent != nil {
		recomputeAncestorProgress(np, parent.ID)
	}
	if idx > 0 {
		inverse.anchorID = siblings[idx-1].ID
	} else if parent != nil {
		inverse.parentID = parent.ID
	} else {
		inverse.firstRootOfDoc = doc.Path
	}
	return np, inverse, nil
}

// undoDelete restores a deleted subtree to its exact former position: right
// after anchorID (its former preceding sibling), as the first child of
// parentID, or as the first root of document firstRootOfDoc.
type undoDelete struct {
	node           *model.Node
	parentID       string
	anchorID       string
	firstRootOfDoc string
}

func (c *undoDelete) Apply(p *model.Project) (*model.Project, Command, error) {
	switch {
	case c.parentID != "":
		np, ok := appendChild(p, c.parentID, c.node)
		if !ok {
			return p, nil, model.NotFoundError{Kind: "Node", ID: c.parentID}
		}
		np, _, _ = (&ReorderInColumn{NodeID: c.node.ID, Dest: 0}).Apply(np)
		recomputeAncestorProgress(np, c.parentID)
		return np, &Delete{NodeID: c.node.ID}, nil
	case c.anchorID != "":
		np, ok := insertSibling(p, c.anchorID, c.node)
		if !ok {
			return p, nil, model.NotFoundError{Kind: "Node", ID: c.anchorID}
		}
		recomputeAncestorProgress(np, c.node.ID)
		return np, &Delete{NodeID: c.node.ID}, nil
	default:
		np := p.Clone()
		for i, d := range np.Documents {
			if d.Path == c.firstRootOfDoc {
				nd := d.Clone()
				nd.Roots = append([]*model.Node{c.node}, nd.Roots...)
				nd.Modified = true
				np.Documents[i] = nd
				break
			}
		}
		return np, &Delete{NodeID: c.node.ID}, nil
	}
}

// ---- RenameTitle ----

type RenameTitle struct {
	NodeID  string
	NewName string
}

func (c *RenameTitle) Apply(p *model.Project) (*model.Project, Command, error) {
	n, _ := p.FindNode(c.NodeID)
	if n == nil {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	if err := model.ValidateTitle(c.NewName); err != nil {
		return p, nil, err
	}
	oldName := n.Title

	clone := n.Clone()
	clone.Title = c.NewName
	clone.Edited = true
	np, ok := withReplacement(p, c.NodeID, clone)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}

	np = rewriteDepends(np, oldName, c.NewName)

	return np, &RenameTitle{NodeID: c.NodeID, NewName: oldName}, nil
}

// rewriteDepends rewrites every depends entry equal to oldTitle to
// newTitle, across every document, as part of the same atomic command.
func rewriteDepends(p *model.Project, oldTitle, newTitle string) *model.Project {
	np := p.Clone()
	for di, doc := range np.Documents {
		changed := false
		newRoots := make([]*model.Node, len(doc.Roots))
		for i, r := range doc.Roots {
			newRoots[i], changed = rewriteDependsNode(r, oldTitle, newTitle, changed)
		}
		if changed {
			nd := doc.Clone()
			nd.Roots = newRoots
			nd.Modified = true
			np.Documents[di] = nd
		}
	}
	return np
}

func rewriteDependsNode(n *model.Node, oldTitle, newTitle string, changed bool) (*model.Node, bool) {
	hit := false
	for _, d := range n.Depends {
		if d == oldTitle {
			hit = true
			break
		}
	}
	var newChildren []*model.Node
	childChanged := false
	for _, c := range n.Children {
		nc, ch := rewriteDependsNode(c, oldTitle, newTitle, false)
		newChildren = append(newChildren, nc)
		childChanged = childChanged || ch
	}
	if !hit && !childChanged {
		return n, changed
	}
	clone := n.Clone()
	if hit {
		for i, d := range clone.Depends {
			if d == oldTitle {
				clone.Depends[i] = newTitle
			}
		}
		clone.Edited = true
	}
	clone.Children = newChildren
	return clone, true
}

// ---- SetField ----

type SetField struct {
	NodeID string
	Field  string
	Value  string
}

var computedFields = map[string]bool{"progress": true}

func (c *SetField) Apply(p *model.Project) (*model.Project, Command, error) {
	n, _ := p.FindNode(c.NodeID)
	if n == nil {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}

	if computedFields[c.Field] && !n.Leaf() {
		return p, nil, model.ComputedFieldError{Field: c.Field}
	}

	clone := n.Clone()
	clone.Edited = true
	prev, err := setNodeField(clone, c.Field, c.Value)
	if err != nil {
		return p, nil, err
	}

	np, ok := withReplacement(p, c.NodeID, clone)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}

	if c.Field == "start" || c.Field == "end" || c.Field == "duration" {
		np = applyDateArithmetic(np, c.NodeID)
		np = propagateDatesToAncestors(np, c.NodeID)
	}
	recomputeAncestorProgress(np, c.NodeID)

	return np, &SetField{NodeID: c.NodeID, Field: c.Field, Value: prev}, nil
}

func setNodeField(n *model.Node, field, value string) (prev string, err error) {
	switch field {
	case "title":
		prev = n.Title
		if err := model.ValidateTitle(value); err != nil {
			return "", err
		}
		n.Title = value
	case "assignee":
		prev = n.Assignee
		n.Assignee = value
	case "duration":
		prev = n.Duration
		n.Duration = value
	case "status":
		s, ok := model.ParseStatus(value)
		if !ok {
			return "", model.FieldTypeMismatchError{Field: field, Reason: "not a valid status"}
		}
		prev = n.Status.String()
		n.Status = s
	case "priority":
		pr, ok := model.ParsePriority(value)
		if !ok {
			return "", model.FieldTypeMismatchError{Field: field, Reason: "not a valid priority"}
		}
		prev = n.Priority.String()
		n.Priority = pr
	case "start":
		if value != "" {
			if _, err := time.Parse(dateLayout, value); err != nil {
				return "", model.FieldTypeMismatchError{Field: field, Reason: "not a valid date"}
			}
		}
		prev = n.Start
		n.Start = value
		n.StartExplicit = true
	case "end":
		if value != "" {
			if _, err := time.Parse(dateLayout, value); err != nil {
				return "", model.FieldTypeMismatchError{Field: field, Reason: "not a valid date"}
			}
		}
		prev = n.End
		n.End = value
		n.EndExplicit = true
	case "milestone":
		prev = strconv.FormatBool(n.Milestone)
		n.Milestone = value == "true"
		if n.Milestone && n.Start != "" {
			n.End = n.Start
		}
	case "progress":
		prev = strconv.Itoa(n.Progress)
		p, convErr := strconv.Atoi(value)
		if convErr != nil {
			return "", model.FieldTypeMismatchError{Field: field, Reason: "not an integer"}
		}
		n.Progress = model.ClampProgress(p)
	case "depends":
		prev = strings.Join(n.Depends, "; ")
		n.Depends = splitDepends(value)
	default:
		return "", model.UnknownColumnError{Column: field}
	}
	return prev, nil
}

func splitDepends(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// applyDateArithmetic fills in the third of {start,end,duration} for node
// id when exactly two are now set and consistent.
func applyDateArithmetic(p *model.Project, id string) *model.Project {
	n, _ := p.FindNode(id)
	if n == nil {
		return p
	}
	start, hasStart := parseDate(n.Start)
	end, hasEnd := parseDate(n.End)
	days, hasDuration := durationDays(n.Duration)

	var newStart, newEnd, newDuration *string
	switch {
	case hasStart && hasDuration && !hasEnd:
		v := start.AddDate(0, 0, days-1).Format(dateLayout)
		newEnd = &v
	case hasEnd && hasDuration && !hasStart:
		v := end.AddDate(0, 0, -(days - 1)).Format(dateLayout)
		newStart = &v
	case hasStart && hasEnd && !hasDuration:
		d := int(end.Sub(start).Hours()/24) + 1
		if d > 0 {
			v := strconv.Itoa(d) + "d"
			newDuration = &v
		} else {
			p = withDateOrderWarning(p, n)
		}
	}
	if newStart == nil && newEnd == nil && newDuration == nil {
		return p
	}

	clone := n.Clone()
	clone.Edited = true
	if newStart != nil {
		clone.Start = *newStart
	}
	if newEnd != nil {
		clone.End = *newEnd
	}
	if newDuration != nil {
		clone.Duration = *newDuration
	}
	np, _ := withReplacement(p, id, clone)
	return np
}

// withDateOrderWarning records that node n's explicit start and end no
// longer satisfy end >= start. The fields are left as the caller set them;
// this only flags the inconsistency rather than silently discarding it.
func withDateOrderWarning(p *model.Project, n *model.Node) *model.Project {
	np := *p
	np.Warnings = append(append([]model.ParseWarning(nil), p.Warnings...), model.ParseWarning{
		File:    n.SourceFile,
		Kind:    "DateOrder",
		Message: "node " + n.ID + " (" + n.Title + ") has end date before start date",
	})
	return &np
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

func durationDays(d string) (int, bool) {
	if d == "" {
		return 0, false
	}
	unit := d[len(d)-1]
	n, err := strconv.Atoi(d[:len(d)-1])
	if err != nil {
		return 0, false
	}
	switch unit {
	case 'd':
		return n, true
	case 'w':
		return n * 7, true
	case 'm':
		return n * 30, true
	default:
		return 0, false
	}
}

// propagateDatesToAncestors aggregates start/end up the ancestor chain of
// id to min(children.start)/max(children.end), skipping any ancestor whose
// field has been explicitly user-set.
func propagateDatesToAncestors(p *model.Project, id string) *model.Project {
	_, chain, ok := locate(p, id)
	if !ok || len(chain) < 2 {
		return p
	}
	np := p
	for i := len(chain) - 2; i >= 0; i-- {
		ancestor := chain[i]
		cur, _ := np.FindNode(ancestor.ID)
		if cur == nil {
			continue
		}
		minStart, maxEnd := aggregateChildDates(cur)
		clone := cur.Clone()
		changed := false
		if !clone.StartExplicit && minStart != "" && clone.Start != minStart {
			clone.Start = minStart
			changed = true
		}
		if !clone.EndExplicit && maxEnd != "" && clone.End != maxEnd {
			clone.End = maxEnd
			changed = true
		}
		if !changed {
			continue
		}
		clone.Edited = true
		np, _ = withReplacement(np, ancestor.ID, clone)
	}
	return np
}

func aggregateChildDates(n *model.Node) (minStart, maxEnd string) {
	for _, c := range n.Children {
		if c.Start != "" && (minStart == "" || c.Start < minStart) {
			minStart = c.Start
		}
		if c.End != "" && (maxEnd == "" || c.End > maxEnd) {
			maxEnd = c.End
		}
	}
	return minStart, maxEnd
}

// recomputeAncestorProgress recomputes Progress along id's ancestor chain
// (and id itself, if it has children), per the progress-reconciliation
// invariant. It is re-derived from children statuses, so it never needs an
// inverse: undoing the command that triggered it restores the children's
// statuses, and a fresh recompute follows naturally.
func recomputeAncestorProgress(p *model.Project, id string) {
	_, chain, ok := locate(p, id)
	if !ok {
		return
	}
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].Progress = chain[i].ComputedProgress()
	}
}

// ---- SetStatus ----

type SetStatus struct {
	NodeID string
	Status model.Status
}

func (c *SetStatus) Apply(p *model.Project) (*model.Project, Command, error) {
	n, _ := p.FindNode(c.NodeID)
	if n == nil {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	clone := n.Clone()
	clone.Edited = true
	prev := clone.Status
	clone.Status = c.Status
	np, ok := withReplacement(p, c.NodeID, clone)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	recomputeAncestorProgress(np, c.NodeID)
	return np, &SetStatus{NodeID: c.NodeID, Status: prev}, nil
}

// ---- MoveUp / MoveDown ----

type MoveUp struct{ NodeID string }

func (c *MoveUp) Apply(p *model.Project) (*model.Project, Command, error) {
	np, err := swapSibling(p, c.NodeID, -1)
	if err != nil {
		return p, nil, err
	}
	return np, &MoveDown{NodeID: c.NodeID}, nil
}

type MoveDown struct{ NodeID string }

func (c *MoveDown) Apply(p *model.Project) (*model.Project, Command, error) {
	np, err := swapSibling(p, c.NodeID, 1)
	if err != nil {
		return p, nil, err
	}
	return np, &MoveUp{NodeID: c.NodeID}, nil
}

func swapSibling(p *model.Project, id string, delta int) (*model.Project, error) {
	doc, parent, siblings, idx, ok := parentOf(p, id)
	if !ok {
		return p, model.NotFoundError{Kind: "Node", ID: id}
	}
	j := idx + delta
	if j < 0 || j >= len(siblings) {
		return p, model.OutOfRangeError{NodeID: id, Index: j}
	}

	newSiblings := append([]*model.Node(nil), siblings...)
	newSiblings[idx], newSiblings[j] = newSiblings[j], newSiblings[idx]

	np := p.Clone()
	newDoc := doc.Clone()
	newDoc.Modified = true
	if parent == nil {
		newDoc.Roots = newSiblings
	} else {
		newParent := replaceChildrenAlongPath(newDoc.Roots, parent.ID, newSiblings)
		newDoc.Roots = newParent
	}
	for i, d := range np.Documents {
		if d.Path == doc.Path {
			np.Documents[i] = newDoc
			break
		}
	}
	return np, nil
}

// replaceChildrenAlongPath clones the spine from one of roots down to the
// node with id parentID and replaces its Children with newChildren.
func replaceChildrenAlongPath(roots []*model.Node, parentID string, newChildren []*model.Node) []*model.Node {
	out := make([]*model.Node, len(roots))
	for i, r := range roots {
		out[i] = r
	}
	for i, r := range roots {
		if replaced, ok := replaceChildrenIn(r, parentID, newChildren); ok {
			out[i] = replaced
			break
		}
	}
	return out
}

func replaceChildrenIn(n *model.Node, parentID string, newChildren []*model.Node) (*model.Node, bool) {
	if n.ID == parentID {
		clone := n.Clone()
		clone.Children = newChildren
		return clone, true
	}
	for i, c := range n.Children {
		if replaced, ok := replaceChildrenIn(c, parentID, newChildren); ok {
			clone := n.Clone()
			clone.Children[i] = replaced
			return clone, true
		}
	}
	return nil, false
}

// ---- Indent / Outdent ----

type Indent struct{ NodeID string }

func (c *Indent) Apply(p *model.Project) (*model.Project, Command, error) {
	doc, parent, siblings, idx, ok := parentOf(p, c.NodeID)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	if idx == 0 {
		return p, nil, model.NoAnchorError{NodeID: c.NodeID}
	}
	newParent := siblings[idx-1]

	n := siblings[idx]
	if err := model.ValidateDepth(newParent.Depth + 1); err != nil {
		return p, nil, err
	}
	clone := n.Clone()
	clone.Depth = newParent.Depth + 1
	clone.Edited = true
	reindentChildren(clone)

	np, ok := withReplacement(p, c.NodeID, nil)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	np, ok = appendChild(np, newParent.ID, clone)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: newParent.ID}
	}
	recomputeAncestorProgress(np, newParent.ID)
	if parent != nil {
		recomputeAncestorProgress(np, parent.ID)
	}
	_ = doc
	return np, &Outdent{NodeID: c.NodeID}, nil
}

type Outdent struct{ NodeID string }

func (c *Outdent) Apply(p *model.Project) (*model.Project, Command, error) {
	doc, parent, _, _, ok := parentOf(p, c.NodeID)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	if parent == nil {
		return p, nil, model.InvalidLevelError{Depth: 1}
	}

	n, _ := p.FindNode(c.NodeID)
	clone := n.Clone()
	clone.Depth = parent.Depth
	clone.Edited = true
	reindentChildren(clone)

	np, ok := withReplacement(p, c.NodeID, nil)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	np, ok = insertSibling(np, parent.ID, clone)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: parent.ID}
	}
	recomputeAncestorProgress(np, parent.ID)
	_ = doc
	return np, &Indent{NodeID: c.NodeID}, nil
}

// reindentChildren recomputes Depth for every descendant of n after n's own
// Depth has changed, preserving heading-depth = tree-depth.
func reindentChildren(n *model.Node) {
	for i, c := range n.Children {
		cc := c.Clone()
		cc.Depth = n.Depth + 1
		cc.Edited = true
		reindentChildren(cc)
		n.Children[i] = cc
	}
}

// ---- ReorderInColumn ----

type ReorderInColumn struct {
	NodeID string
	Dest   int
}

func (c *ReorderInColumn) Apply(p *model.Project) (*model.Project, Command, error) {
	doc, parent, siblings, idx, ok := parentOf(p, c.NodeID)
	if !ok {
		return p, nil, model.NotFoundError{Kind: "Node", ID: c.NodeID}
	}
	if c.Dest < 0 || c.Dest >= len(siblings) {
		return p, nil, model.OutOfRangeError{NodeID: c.NodeID, Index: c.Dest}
	}

	newSiblings := append([]*model.Node(nil), siblings...)
	node := newSiblings[idx]
	newSiblings = append(newSiblings[:idx], newSiblings[idx+1:]...)
	dest := c.Dest
	if dest > len(newSiblings) {
		dest = len(newSiblings)
	}
	newSiblings = append(newSiblings[:dest], append([]*model.Node{node}, newSiblings[dest:]...)...)

	np := p.Clone()
	newDoc := doc.Clone()
	newDoc.Modified = true
	if parent == nil {
		newDoc.Roots = newSiblings
	} else {
		newDoc.Roots = replaceChildrenAlongPath(newDoc.Roots, parent.ID, newSiblings)
	}
	for i, d := range np.Documents {
		if d.Path == doc.Path {
			np.Documents[i] = newDoc
			break
		}
	}
	return np, &ReorderInColumn{NodeID: c.NodeID, Dest: idx}, nil
}
