package searchtree_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/pkg/bnb"
)

var x = bnb.NewDecisionVariable("x", 0)

func cut(id bnb.CutID, upper bool, bound int) bnb.BranchCut {
	return bnb.NewBranchCut(id, x, upper, bound)
}

func ids(nodes []*searchtree.Node) []bnb.NodeID {
	out := make([]bnb.NodeID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

// build returns the tree
//
//	    0
//	  1   2
//	3  4
func build(t *testing.T) *searchtree.Tree {
	t.Helper()
	tree := searchtree.New(bnb.Maximize)
	root := tree.Root()
	c1, c2 := cut(1, true, 2), cut(2, false, 3)
	n1, err := root.AddChild(1, searchtree.Left, []bnb.BranchCut{c1})
	require.NoError(t, err)
	_, err = root.AddChild(2, searchtree.Right, []bnb.BranchCut{c2})
	require.NoError(t, err)
	_, err = n1.AddChild(3, searchtree.Left, []bnb.BranchCut{c1, cut(3, true, 1)})
	require.NoError(t, err)
	_, err = n1.AddChild(4, searchtree.Right, []bnb.BranchCut{c1, cut(4, false, 2)})
	require.NoError(t, err)
	return tree
}

func TestNewTree(t *testing.T) {
	for _, sense := range []bnb.Sense{bnb.Minimize, bnb.Maximize} {
		tree := searchtree.New(sense)
		root := tree.Root()
		assert.Equal(t, bnb.RootID, root.ID())
		assert.Equal(t, sense.Worst(), root.SolutionValue())
		assert.True(t, root.Infeasible())
		assert.True(t, root.IsLeaf())
		assert.Equal(t, 0, root.Depth())
		assert.Equal(t, 1, tree.Len())
		_, ok := root.Parent()
		assert.False(t, ok)
		_, ok = root.Cut()
		assert.False(t, ok)
	}
}

func TestAddChild(t *testing.T) {
	tree := searchtree.New(bnb.Minimize)
	root := tree.Root()

	_, err := root.AddChild(1, searchtree.Side(7), nil)
	assert.ErrorIs(t, err, searchtree.ErrInvalidSide)
	assert.Equal(t, 1, tree.Len())

	child, err := root.AddChild(1, searchtree.Right, []bnb.BranchCut{cut(1, false, 3)})
	require.NoError(t, err)
	parent, ok := child.Parent()
	require.True(t, ok)
	assert.Same(t, root, parent)
	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, math.Inf(1), child.SolutionValue())

	right, ok := root.Right()
	require.True(t, ok)
	assert.Same(t, child, right)
	_, ok = root.Left()
	assert.False(t, ok)

	_, err = root.AddChild(2, searchtree.Right, nil)
	assert.ErrorIs(t, err, searchtree.ErrChildExists)

	_, err = root.AddChild(1, searchtree.Left, nil)
	assert.ErrorIs(t, err, searchtree.ErrDuplicateID)
	_, err = child.AddChild(bnb.RootID, searchtree.Left, nil)
	assert.ErrorIs(t, err, searchtree.ErrDuplicateID)
}

func TestChildLooksOnlyAtImmediateChildren(t *testing.T) {
	tree := build(t)
	root := tree.Root()

	n1, ok := root.Child(1)
	require.True(t, ok)
	assert.Equal(t, bnb.NodeID(1), n1.ID())

	_, ok = root.Child(3)
	assert.False(t, ok, "grandchildren are not children")

	n3, ok := n1.Child(3)
	require.True(t, ok)
	assert.Equal(t, 2, n3.Depth())
}

func TestFindByIDSearchesWholeTree(t *testing.T) {
	tree := build(t)
	n4, ok := tree.Get(4)
	require.True(t, ok)

	for _, id := range []bnb.NodeID{0, 1, 2, 3, 4} {
		n, ok := n4.FindByID(id)
		require.True(t, ok, "id %d", id)
		assert.Equal(t, id, n.ID())
	}

	n2, _ := tree.Get(2)
	n3, ok := n2.FindByID(3)
	require.True(t, ok, "lookup from a sibling subtree")
	assert.Equal(t, bnb.NodeID(3), n3.ID())

	_, ok = n2.FindByID(99)
	assert.False(t, ok)
}

func TestRootAndWalk(t *testing.T) {
	tree := build(t)
	n3, _ := tree.Get(3)
	assert.Same(t, tree.Root(), n3.Root())

	var visited []*searchtree.Node
	tree.Root().Walk(func(n *searchtree.Node) bool {
		visited = append(visited, n)
		return true
	})
	if diff := cmp.Diff([]bnb.NodeID{0, 1, 3, 4, 2}, ids(visited)); diff != "" {
		t.Errorf("pre-order walk mismatch (-want +got):\n%s", diff)
	}

	visited = nil
	tree.Root().Walk(func(n *searchtree.Node) bool {
		visited = append(visited, n)
		return n.ID() != 1
	})
	assert.Equal(t, []bnb.NodeID{0, 1}, ids(visited))

	if diff := cmp.Diff([]bnb.NodeID{0, 1, 2, 3, 4}, ids(tree.Nodes())); diff != "" {
		t.Errorf("creation order mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeSnapshots(t *testing.T) {
	tree := build(t)
	n4, _ := tree.Get(4)

	values := []bnb.DecisionVariable{x.WithValue(2, bnb.DefaultIntegralityTolerance)}
	n4.SetCurrentValues(values)
	n4.SetSolutionValue(12)
	values[0] = x.WithValue(9, bnb.DefaultIntegralityTolerance)

	assert.Equal(t, 12.0, n4.SolutionValue())
	assert.False(t, n4.Infeasible())
	require.Len(t, n4.Variables(), 1)
	assert.Equal(t, 2.0, n4.Variables()[0].Value(), "snapshot must not alias the caller's slice")

	c, ok := n4.Cut()
	require.True(t, ok)
	assert.Equal(t, bnb.CutID(4), c.ID())
	assert.Len(t, n4.Cuts(), 2)
	assert.Contains(t, n4.String(), "ParentId = 1")
	assert.Contains(t, n4.String(), "branchCut4: x[0] >= 2")
}

func TestTreeString(t *testing.T) {
	tree := build(t)
	tree.Root().SetSolutionValue(13.5)
	n3, _ := tree.Get(3)
	n3.SetSolutionValue(12)

	want := "0 value=13.5\n" +
		"  1 [x[0] <= 2] infeasible\n" +
		"    3 [x[0] <= 1] value=12\n" +
		"    4 [x[0] >= 2] infeasible\n" +
		"  2 [x[0] >= 3] infeasible\n"
	assert.Equal(t, want, tree.String())
}
