package searchtree

import (
	"fmt"
	"strings"

	"github.com/operator-framework/bnb/pkg/bnb"
)

// Node is one relaxation of the search: the cuts on the path from the
// root that define it, and the objective value and variable snapshot
// obtained by solving it.
type Node struct {
	tree  *Tree
	id    bnb.NodeID
	index int
	depth int

	parent int
	left   int
	right  int

	solutionValue float64
	variables     []bnb.DecisionVariable
	cuts          []bnb.BranchCut
}

func (n *Node) ID() bnb.NodeID {
	return n.id
}

// Depth is the number of cuts on the path from the root.
func (n *Node) Depth() int {
	return n.depth
}

func (n *Node) at(i int) (*Node, bool) {
	if i == none {
		return nil, false
	}
	return n.tree.nodes[i], true
}

func (n *Node) Parent() (*Node, bool) {
	return n.at(n.parent)
}

func (n *Node) Left() (*Node, bool) {
	return n.at(n.left)
}

func (n *Node) Right() (*Node, bool) {
	return n.at(n.right)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.left == none && n.right == none
}

// AddChild creates a child on the given side, defined by cuts, and
// links it back to n.
func (n *Node) AddChild(id bnb.NodeID, side Side, cuts []bnb.BranchCut) (*Node, error) {
	var slot *int
	switch side {
	case Left:
		slot = &n.left
	case Right:
		slot = &n.right
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSide, side)
	}
	if *slot != none {
		return nil, fmt.Errorf("%w: node %d already has a %s child", ErrChildExists, n.id, side)
	}
	if _, ok := n.tree.ids[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	child := n.tree.add(id, n.index, cuts)
	*slot = child.index
	return child, nil
}

// Child looks for id among the immediate children of n only.
func (n *Node) Child(id bnb.NodeID) (*Node, bool) {
	if c, ok := n.Right(); ok && c.id == id {
		return c, true
	}
	if c, ok := n.Left(); ok && c.id == id {
		return c, true
	}
	return nil, false
}

// Root walks parent links up to the root problem.
func (n *Node) Root() *Node {
	root := n
	for {
		p, ok := root.Parent()
		if !ok {
			return root
		}
		root = p
	}
}

// FindByID searches the whole tree, not just the subtree below n: it
// walks up to the root and then visits nodes depth first, left
// subtree before right.
func (n *Node) FindByID(id bnb.NodeID) (*Node, bool) {
	if n.id == id {
		return n, true
	}
	var found *Node
	n.Root().Walk(func(m *Node) bool {
		if m.id == id {
			found = m
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits the subtree rooted at n in pre-order, left before
// right, until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(m) {
			return
		}
		if r, ok := m.Right(); ok {
			stack = append(stack, r)
		}
		if l, ok := m.Left(); ok {
			stack = append(stack, l)
		}
	}
}

func (n *Node) SetSolutionValue(v float64) {
	n.solutionValue = v
}

// SetCurrentValues replaces the variable snapshot of the node.
func (n *Node) SetCurrentValues(vars []bnb.DecisionVariable) {
	n.variables = append([]bnb.DecisionVariable(nil), vars...)
}

func (n *Node) SolutionValue() float64 {
	return n.solutionValue
}

// Infeasible reports whether no feasible relaxation was recorded.
func (n *Node) Infeasible() bool {
	return n.tree.sense.IsWorst(n.solutionValue)
}

func (n *Node) Variables() []bnb.DecisionVariable {
	return append([]bnb.DecisionVariable(nil), n.variables...)
}

// Cuts returns the cuts on the path from the root to n, root side
// first.
func (n *Node) Cuts() []bnb.BranchCut {
	return append([]bnb.BranchCut(nil), n.cuts...)
}

// Cut returns the cut that created n. The root has none.
func (n *Node) Cut() (bnb.BranchCut, bool) {
	if len(n.cuts) == 0 {
		return bnb.BranchCut{}, false
	}
	return n.cuts[len(n.cuts)-1], true
}

func (n *Node) String() string {
	id := func(i int) string {
		if m, ok := n.at(i); ok {
			return fmt.Sprintf("%d", m.id)
		}
		return "NIL"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Id = %d\nParentId = %s\nLeftChildId = %s\nRightChildId = %s\n", n.id, id(n.parent), id(n.left), id(n.right))
	fmt.Fprintf(&b, "Solution value = %g\n", n.solutionValue)
	b.WriteString("Decision variables:\n")
	for _, v := range n.variables {
		fmt.Fprintf(&b, "  %s\n", v)
	}
	b.WriteString("Cuts:\n")
	for _, c := range n.cuts {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	return b.String()
}
