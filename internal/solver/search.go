package solver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/pkg/bnb"
)

// search holds the state of one branch and bound run. The cuts in
// path are exactly the cuts installed in r, in installation order.
type search struct {
	r     bnb.Relaxation
	sense bnb.Sense
	tree  *searchtree.Tree
	path  []bnb.BranchCut

	best     float64
	bestNode *searchtree.Node

	ids      bnb.IDProvider
	tracer   bnb.Tracer
	epsilon  float64
	maxDepth int
	maxNodes int
	stats    Stats
}

func (h *search) Do(ctx context.Context) error {
	return h.explore(ctx, h.tree.Root())
}

func (h *search) explore(ctx context.Context, node *searchtree.Node) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	if h.maxNodes > 0 && h.stats.Nodes >= h.maxNodes {
		return fmt.Errorf("%w: %d nodes", ErrNodeLimit, h.maxNodes)
	}
	if node.Depth() > h.maxDepth {
		return fmt.Errorf("%w: depth %d at node %d", ErrDepthLimit, h.maxDepth, node.ID())
	}
	h.stats.Nodes++
	h.stats.MaxDepth = max(h.stats.MaxDepth, node.Depth())

	ok, err := h.r.Solve(ctx)
	if err != nil {
		return fmt.Errorf("solving relaxation of node %d: %w", node.ID(), err)
	}
	if !ok {
		node.SetSolutionValue(h.sense.Worst())
		h.trace(bnb.StepSolved, node, nil)
		h.prune(node, bnb.PrunedInfeasible)
		return nil
	}

	node.SetSolutionValue(h.r.CurrentObjectiveValue())
	node.SetCurrentValues(h.snapshot())
	h.trace(bnb.StepSolved, node, nil)

	if reason := h.check(node); reason != bnb.NotPruned {
		h.prune(node, reason)
		return nil
	}

	v, ok := branchingVariable(node.Variables())
	if !ok {
		return fmt.Errorf("%w at node %d", ErrNoBranchingVariable, node.ID())
	}
	down, up, err := bnb.Split(v, h.ids)
	if err != nil {
		return fmt.Errorf("%w at node %d: %w", ErrNoBranchingVariable, node.ID(), err)
	}
	grows, err := h.r.GrowsObjective(v)
	if err != nil {
		return fmt.Errorf("reading objective coefficient of %s: %w", v.Name(), err)
	}
	h.stats.Branches++

	for _, cut := range orderCuts(h.sense, grows, down, up) {
		side := searchtree.Left
		if cut.ID() == up.ID() {
			side = searchtree.Right
		}
		if err := h.descend(ctx, node, cut, side); err != nil {
			return err
		}
	}
	return nil
}

// descend installs cut, explores the child it defines and removes the
// cut again, also when the exploration failed, so the relaxation is
// back in the state of node before the sibling is tried.
func (h *search) descend(ctx context.Context, node *searchtree.Node, cut bnb.BranchCut, side searchtree.Side) (err error) {
	if err := h.r.AddCut(cut); err != nil {
		return fmt.Errorf("adding %s: %w", cut, err)
	}
	h.path = append(h.path, cut)
	h.trace(bnb.StepCutAdded, node, &cut)

	defer func() {
		h.path = h.path[:len(h.path)-1]
		if rerr := h.r.RemoveCut(cut.ID()); rerr != nil {
			err = errors.Join(err, fmt.Errorf("removing %s: %w", cut, rerr))
			return
		}
		h.trace(bnb.StepCutRemoved, node, &cut)
	}()

	child, err := node.AddChild(bnb.NodeID(cut.ID()), side, h.path)
	if err != nil {
		return err
	}
	return h.explore(ctx, child)
}

// snapshot reads the relaxation's values and re-evaluates their
// integrality under the run's tolerance.
func (h *search) snapshot() []bnb.DecisionVariable {
	vars := h.r.CurrentValues()
	out := make([]bnb.DecisionVariable, len(vars))
	for i, v := range vars {
		out[i] = v.WithValue(v.Value(), h.epsilon)
	}
	return out
}

// check decides whether node is a leaf of the search. An integral
// node becomes the incumbent unless it is worse than the current one.
func (h *search) check(node *searchtree.Node) bnb.PruneReason {
	objective := node.SolutionValue()
	switch {
	case h.sense.IsWorst(objective):
		return bnb.PrunedInfeasible
	case integral(node.Variables()):
		if !h.sense.Worse(objective, h.best) {
			h.best = objective
			h.bestNode = node
			h.stats.Incumbents++
			h.trace(bnb.StepIncumbent, node, nil)
		}
		return bnb.PrunedIntegral
	case h.bestNode != nil && h.sense.NoBetter(objective, h.best):
		return bnb.PrunedBound
	}
	return bnb.NotPruned
}

func (h *search) prune(node *searchtree.Node, reason bnb.PruneReason) {
	switch reason {
	case bnb.PrunedInfeasible:
		h.stats.Infeasible++
	case bnb.PrunedIntegral:
		h.stats.Integral++
	case bnb.PrunedBound:
		h.stats.Bounded++
	}
	h.tracer.Trace(position{
		step:      bnb.StepPruned,
		node:      node,
		cuts:      slices.Clone(h.path),
		reason:    reason,
		objective: node.SolutionValue(),
	})
}

func (h *search) trace(step bnb.Step, node *searchtree.Node, cut *bnb.BranchCut) {
	h.tracer.Trace(position{
		step:      step,
		node:      node,
		cut:       cut,
		cuts:      slices.Clone(h.path),
		objective: node.SolutionValue(),
	})
}
