package searchtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/operator-framework/bnb/pkg/bnb"
)

var (
	ErrInvalidSide = errors.New("invalid child side")
	ErrDuplicateID = errors.New("node id already in use")
	ErrChildExists = errors.New("child already present")
)

// Side selects which child slot of a node AddChild fills. The side is
// bookkeeping only, it carries no upper/lower meaning.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

const none = -1

// Tree records every relaxation explored by one search. Nodes live in
// an arena and refer to each other by arena index, so the parent and
// child links never form an ownership cycle. Nodes are never removed.
type Tree struct {
	sense bnb.Sense
	nodes []*Node
	ids   map[bnb.NodeID]int
}

// New returns a tree holding only the root problem, whose solution
// value is the worst value of sense until a relaxation is recorded.
func New(sense bnb.Sense) *Tree {
	t := &Tree{
		sense: sense,
		ids:   make(map[bnb.NodeID]int),
	}
	t.add(bnb.RootID, none, nil)
	return t
}

func (t *Tree) add(id bnb.NodeID, parent int, cuts []bnb.BranchCut) *Node {
	n := &Node{
		tree:          t,
		id:            id,
		index:         len(t.nodes),
		parent:        parent,
		left:          none,
		right:         none,
		solutionValue: t.sense.Worst(),
		cuts:          append([]bnb.BranchCut(nil), cuts...),
	}
	if parent != none {
		n.depth = t.nodes[parent].depth + 1
	}
	t.nodes = append(t.nodes, n)
	t.ids[id] = n.index
	return n
}

func (t *Tree) Root() *Node {
	return t.nodes[0]
}

func (t *Tree) Sense() bnb.Sense {
	return t.sense
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the node with the given id.
func (t *Tree) Get(id bnb.NodeID) (*Node, bool) {
	i, ok := t.ids[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

// Nodes returns all nodes in creation order.
func (t *Tree) Nodes() []*Node {
	return append([]*Node(nil), t.nodes...)
}

// String renders the tree as an indented pre-order outline.
func (t *Tree) String() string {
	var b strings.Builder
	t.Root().Walk(func(n *Node) bool {
		b.WriteString(strings.Repeat("  ", n.depth))
		fmt.Fprintf(&b, "%d", n.id)
		if cut, ok := n.Cut(); ok {
			fmt.Fprintf(&b, " [%s[%d] %s %d]", cut.Variable().Name(), cut.Variable().Index(), cut.Comparator(), cut.Bound())
		}
		if t.sense.IsWorst(n.solutionValue) {
			b.WriteString(" infeasible")
		} else {
			fmt.Fprintf(&b, " value=%g", n.solutionValue)
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}
