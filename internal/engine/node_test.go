package engine

import "testing"

func TestNodeReparent(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	a.AddChild(c)
	b.AddChild(c)

	if len(a.Children()) != 0 {
		t.Errorf("old parent should lose the child, has %d children", len(a.Children()))
	}
	if c.Parent() != b || len(b.Children()) != 1 {
		t.Error("child should be attached to the new parent")
	}
}

func TestNodeWorldPosition(t *testing.T) {
	root := NewNode("root")
	pair := NewNode("pair")
	pair.Position = V(100, 0)
	pipe := NewNode("pipe")
	pipe.Position = V(0, 40)

	root.AddChild(pair)
	pair.AddChild(pipe)

	if got := pipe.WorldPosition(); got != V(100, 40) {
		t.Errorf("WorldPosition() = %v, expected (100, 40)", got)
	}

	pair.Position.X -= 30
	if got := pipe.WorldPosition(); got != V(70, 40) {
		t.Errorf("moving the parent should move the child, got %v", got)
	}
}

func TestNodeRemoveAllChildren(t *testing.T) {
	root := NewNode("root")
	kids := []*Node{NewNode("1"), NewNode("2"), NewNode("3")}
	for _, k := range kids {
		root.AddChild(k)
	}

	kids[1].RemoveFromParent()
	if len(root.Children()) != 2 || root.Children()[1] != kids[2] {
		t.Error("RemoveFromParent should keep the order of the remaining children")
	}

	root.RemoveAllChildren()
	if len(root.Children()) != 0 {
		t.Error("RemoveAllChildren should empty the node")
	}
	for _, k := range kids {
		if k.Parent() != nil {
			t.Errorf("child %s should be detached", k.Name)
		}
	}
}

func TestNodeWalkOrder(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	a1 := NewNode("a1")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var names []string
	root.Walk(func(n *Node) { names = append(names, n.Name) })

	expected := []string{"root", "a", "a1", "b"}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("Walk order = %v, expected %v", names, expected)
		}
	}
}
