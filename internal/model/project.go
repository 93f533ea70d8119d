package model

// Project is a loaded directory: its documents, merged config, and any
// parse warnings collected while loading. A Project is immutable; every
// command in internal/command produces a new Project value.
type Project struct {
	Dir       string
	Documents []*Document
	Config    ProjectConfig
	Warnings  []ParseWarning

	// LockHeld records whether this process currently holds the advisory
	// lock on Dir. It is not part of the persisted model; tui.Run sets it
	// once the lock is acquired.
	LockHeld bool
}

// Clone returns a shallow copy with its own Documents slice header.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Documents = append([]*Document(nil), p.Documents...)
	cp.Warnings = append([]ParseWarning(nil), p.Warnings...)
	return &cp
}

// AllNodes returns every node across every document, in project order
// (documents sorted by path, then document order within a file).
func (p *Project) AllNodes() []*Node {
	var out []*Node
	for _, d := range p.Documents {
		out = append(out, d.AllNodes()...)
	}
	return out
}

// FindNode returns the node with the given id and the document that owns
// it, or (nil, nil).
func (p *Project) FindNode(id string) (*Node, *Document) {
	for _, d := range p.Documents {
		if n := d.FindByID(id); n != nil {
			return n, d
		}
	}
	return nil, nil
}

// FindByTitle returns the first node (in project order) whose title equals
// title. Depends entries that aren't node ids resolve against titles this
// way.
func (p *Project) FindByTitle(title string) *Node {
	for _, n := range p.AllNodes() {
		if n.Title == title {
			return n
		}
	}
	return nil
}

// DocIndex returns the index of the document owning node id, or -1.
func (p *Project) DocIndex(id string) int {
	for i, d := range p.Documents {
		if d.FindByID(id) != nil {
			return i
		}
	}
	return -1
}
