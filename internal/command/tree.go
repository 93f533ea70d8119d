// Package command implements the tree-mutating commands (add, rename,
// move, indent/outdent, set field, delete, ...) and the undo/redo log that
// applies them over immutable Project snapshots.
package command

import (
	"tuiwbs/internal/model"
)

// locate finds the document index and the chain of node pointers from a
// root down to (and including) the node with the given id. Returns ok=false
// if not found.
func locate(p *model.Project, id string) (docIdx int, chain []*model.Node, ok bool) {
	for di, doc := range p.Documents {
		for _, root := range doc.Roots {
			if c, found := findChain(root, id, nil); found {
				return di, c, true
			}
		}
	}
	return 0, nil, false
}

func findChain(n *model.Node, id string, prefix []*model.Node) ([]*model.Node, bool) {
	chain := append(append([]*model.Node(nil), prefix...), n)
	if n.ID == id {
		return chain, true
	}
	for _, c := range n.Children {
		if found, ok := findChain(c, id, chain); ok {
			return found, true
		}
	}
	return nil, false
}

// parentOf returns the parent node of id (nil if id is a root) and the
// sibling slice id lives in, plus id's index in that slice.
func parentOf(p *model.Project, id string) (doc *model.Document, parent *model.Node, siblings []*model.Node, index int, ok bool) {
	di, chain, found := locate(p, id)
	if !found {
		return nil, nil, nil, -1, false
	}
	doc = p.Documents[di]
	if len(chain) == 1 {
		for i, r := range doc.Roots {
			if r.ID == id {
				return doc, nil, doc.Roots, i, true
			}
		}
		return nil, nil, nil, -1, false
	}
	parent = chain[len(chain)-2]
	for i, c := range parent.Children {
		if c.ID == id {
			return doc, parent, parent.Children, i, true
		}
	}
	return nil, nil, nil, -1, false
}

// withReplacement returns a new Project with the node chain's spine cloned
// and the target node (chain's last element) replaced by replacement
// (nil deletes it). Every sibling and unrelated subtree is shared by
// reference, per the structural-sharing design.
func withReplacement(p *model.Project, id string, replacement *model.Node) (*model.Project, bool) {
	di, chain, ok := locate(p, id)
	if !ok {
		return p, false
	}

	newDoc := p.Documents[di].Clone()
	newDoc.Modified = true

	if len(chain) == 1 {
		newDoc.Roots = spliceNode(newDoc.Roots, chain[0].ID, replacement)
	} else {
		newRoots := append([]*model.Node(nil), newDoc.Roots...)
		rootIdx := indexOfID(newRoots, chain[0].ID)
		newRoots[rootIdx] = rebuildSpine(chain[0], chain[1:], replacement)
		newDoc.Roots = newRoots
	}

	newProj := p.Clone()
	newProj.Documents[di] = newDoc
	return newProj, true
}

// rebuildSpine clones `cur` and every node along chain down to the target,
// replacing the target (chain's last id) with replacement.
func rebuildSpine(cur *model.Node, chain []*model.Node, replacement *model.Node) *model.Node {
	clone := cur.Clone()
	if len(chain) == 1 {
		clone.Children = spliceNode(clone.Children, chain[0].ID, replacement)
		return clone
	}
	idx := indexOfID(clone.Children, chain[0].ID)
	clone.Children[idx] = rebuildSpine(chain[0], chain[1:], replacement)
	return clone
}

func spliceNode(list []*model.Node, id string, replacement *model.Node) []*model.Node {
	out := append([]*model.Node(nil), list...)
	idx := indexOfID(out, id)
	if idx < 0 {
		return out
	}
	if replacement == nil {
		return append(out[:idx], out[idx+1:]...)
	}
	out[idx] = replacement
	return out
}

func indexOfID(list []*model.Node, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// insertSibling inserts newNode immediately after anchorID in whatever
// list anchorID lives in (roots or a parent's children).
func insertSibling(p *model.Project, anchorID string, newNode *model.Node) (*model.Project, bool) {
	di, chain, ok := locate(p, anchorID)
	if !ok {
		return p, false
	}
	newDoc := p.Documents[di].Clone()
	newDoc.Modified = true

	if len(chain) == 1 {
		newDoc.Roots = insertAfter(newDoc.Roots, chain[0].ID, newNode)
	} else {
		newRoots := append([]*model.Node(nil), newDoc.Roots...)
		rootIdx := indexOfID(newRoots, chain[0].ID)
		newRoots[rootIdx] = rebuildSpineInsert(chain[0], chain[1:], newNode)
		newDoc.Roots = newRoots
	}

	newProj := p.Clone()
	newProj.Documents[di] = newDoc
	return newProj, true
}

func rebuildSpineInsert(cur *model.Node, chain []*model.Node, newNode *model.Node) *model.Node {
	clone := cur.Clone()
	if len(chain) == 1 {
		clone.Children = insertAfter(clone.Children, chain[0].ID, newNode)
		return clone
	}
	idx := indexOfID(clone.Children, chain[0].ID)
	clone.Children[idx] = rebuildSpineInsert(chain[0], chain[1:], newNode)
	return clone
}

func insertAfter(list []*model.Node, id string, newNode *model.Node) []*model.Node {
	idx := indexOfID(list, id)
	if idx < 0 {
		return append(list, newNode)
	}
	out := make([]*model.Node, 0, len(list)+1)
	out = append(out, list[:idx+1]...)
	out = append(out, newNode)
	out = append(out, list[idx+1:]...)
	return out
}

// appendChild adds newNode as the last child of parentID.
func appendChild(p *model.Project, parentID string, newNode *model.Node) (*model.Project, bool) {
	di, chain, ok := locate(p, parentID)
	if !ok {
		return p, false
	}
	newDoc := p.Documents[di].Clone()
	newDoc.Modified = true

	if len(chain) == 1 && chain[0].ID == parentID {
		newRoots := append([]*model.Node(nil), newDoc.Roots...)
		idx := indexOfID(newRoots, parentID)
		clone := newRoots[idx].Clone()
		clone.Children = append(clone.Children, newNode)
		newRoots[idx] = clone
		newDoc.Roots = newRoots
	} else {
		newRoots := append([]*model.Node(nil), newDoc.Roots...)
		rootIdx := indexOfID(newRoots, chain[0].ID)
		newRoots[rootIdx] = rebuildSpineAppendChild(chain[0], chain[1:], newNode)
		newDoc.Roots = newRoots
	}

	newProj := p.Clone()
	newProj.Documents[di] = newDoc
	return newProj, true
}

func rebuildSpineAppendChild(cur *model.Node, chain []*model.Node, newNode *model.Node) *model.Node {
	clone := cur.Clone()
	if len(chain) == 0 {
		clone.Children = append(clone.Children, newNode)
		return clone
	}
	idx := indexOfID(clone.Children, chain[0].ID)
	clone.Children[idx] = rebuildSpineAppendChild(chain[0], chain[1:], newNode)
	return clone
}
