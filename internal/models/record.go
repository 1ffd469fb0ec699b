package models

// Node is one record of the output document. Nodes are built once and not
// modified afterwards.
type Node struct {
	ID     string
	Model  string
	Fields []Field
}

// Field returns the named field, if present.
func (n Node) Field(name string) (Value, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Parent returns the identifier referenced by the parent field, or "" when
// the node has none.
func (n Node) Parent() string {
	v, ok := n.Field("parent")
	if !ok || !v.IsReference() {
		return ""
	}
	return v.Text()
}

// Document is the ordered list of records produced by one conversion.
type Document struct {
	nodes []Node
	index map[string]int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[string]int)}
}

// Append adds n at the end. It reports false, leaving the document
// unchanged, when n.ID is already taken.
func (d *Document) Append(n Node) bool {
	if _, dup := d.index[n.ID]; dup {
		return false
	}
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, n)
	return true
}

// Has reports whether a node with this identifier exists.
func (d *Document) Has(id string) bool {
	_, ok := d.index[id]
	return ok
}

// Lookup returns the node with this identifier.
func (d *Document) Lookup(id string) (Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return Node{}, false
	}
	return d.nodes[i], true
}

// Nodes returns the nodes in document order. The slice is a copy.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}
