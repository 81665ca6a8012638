package engine

// Node is an element of the scene tree. A node's Position is relative to its
// parent, so moving a container moves everything parented under it.
type Node struct {
	Name      string
	Position  Vec2
	Rotation  float64 // Cosmetic; physics shapes stay axis-aligned
	ZPosition float64
	Size      Vec2 // Visual size, used by renderers

	body     *Body
	parent   *Node
	children []*Node
}

// NewNode creates a detached node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Body returns the node's physics body, or nil.
func (n *Node) Body() *Body {
	return n.body
}

// SetBody attaches a physics body to the node, replacing any previous one.
func (n *Node) SetBody(b *Body) {
	if n.body != nil {
		n.body.node = nil
	}
	n.body = b
	if b != nil {
		b.node = n
	}
}

// Parent returns the node's parent, or nil when detached or root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in insertion order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends c to n's children, detaching it from any previous parent.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.RemoveFromParent()
	}
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveFromParent detaches the node. No-op for detached nodes.
func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// RemoveAllChildren detaches every child of the node.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// WorldPosition returns the node's position in scene coordinates.
func (n *Node) WorldPosition() Vec2 {
	pos := n.Position
	for p := n.parent; p != nil; p = p.parent {
		pos = pos.Add(p.Position)
	}
	return pos
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
