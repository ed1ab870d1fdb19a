package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/operator-framework/bnb/pkg/bnb"
)

// outcome is the scripted result of solving under one set of cuts.
type outcome struct {
	values     []float64
	objective  float64
	infeasible bool
}

func solved(objective float64, values ...float64) outcome {
	return outcome{values: values, objective: objective}
}

var infeasible = outcome{infeasible: true}

// scriptedRelaxation answers Solve from a table keyed by the installed
// cuts in installation order, e.g. "" for the root or "x>=3,y<=1".
type scriptedRelaxation struct {
	names        []string
	coefficients []float64
	minimize     bool
	script       map[string]outcome
	fallback     func(installed []bnb.BranchCut) (outcome, bool)

	installed []bnb.BranchCut
	current   []bnb.DecisionVariable
	objective float64
	solves    []string

	solveErr  error
	growsErr  error
	addErr    error
	removeErr error
}

var _ bnb.Relaxation = &scriptedRelaxation{}

func key(cuts []bnb.BranchCut) string {
	parts := make([]string, len(cuts))
	for i, c := range cuts {
		parts[i] = fmt.Sprintf("%s%s%d", c.Variable().Name(), c.Comparator(), c.Bound())
	}
	return strings.Join(parts, ",")
}

func (r *scriptedRelaxation) Solve(_ context.Context) (bool, error) {
	if r.solveErr != nil {
		return false, r.solveErr
	}
	k := key(r.installed)
	r.solves = append(r.solves, k)
	o, ok := r.script[k]
	if !ok && r.fallback != nil {
		o, ok = r.fallback(r.installed)
	}
	if !ok {
		return false, fmt.Errorf("no outcome scripted for %q", k)
	}
	if o.infeasible {
		r.objective = bnb.SenseOf(r.minimize).Worst()
		return false, nil
	}
	r.current = make([]bnb.DecisionVariable, len(r.names))
	for i, name := range r.names {
		r.current[i] = bnb.NewDecisionVariable(name, i).WithValue(o.values[i], bnb.ExactIntegrality)
	}
	r.objective = o.objective
	return true, nil
}

func (r *scriptedRelaxation) AddCut(cut bnb.BranchCut) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.installed = append(r.installed, cut)
	return nil
}

func (r *scriptedRelaxation) RemoveCut(id bnb.CutID) error {
	if r.removeErr != nil {
		return r.removeErr
	}
	for i, c := range r.installed {
		if c.ID() == id {
			r.installed = append(r.installed[:i], r.installed[i+1:]...)
			return nil
		}
	}
	return errors.New("cut not installed")
}

func (r *scriptedRelaxation) CurrentValues() []bnb.DecisionVariable {
	return r.current
}

func (r *scriptedRelaxation) CurrentObjectiveValue() float64 {
	return r.objective
}

func (r *scriptedRelaxation) IsMinimization() bool {
	return r.minimize
}

func (r *scriptedRelaxation) GrowsObjective(v bnb.DecisionVariable) (bool, error) {
	if r.growsErr != nil {
		return false, r.growsErr
	}
	return r.coefficients[v.Index()] > 0, nil
}

// TestScopeCounter tracks how many cuts are installed through it.
type TestScopeCounter struct {
	depth *int
	bnb.Relaxation
}

func (c *TestScopeCounter) AddCut(cut bnb.BranchCut) error {
	err := c.Relaxation.AddCut(cut)
	if err == nil {
		*c.depth++
	}
	return err
}

func (c *TestScopeCounter) RemoveCut(id bnb.CutID) error {
	err := c.Relaxation.RemoveCut(id)
	*c.depth--
	return err
}

// pathChecker records every trace and whether the cuts reported by
// the search matched the cuts installed in the relaxation.
type pathChecker struct {
	r          *scriptedRelaxation
	positions  []bnb.SearchPosition
	mismatches []string
}

func (p *pathChecker) Trace(pos bnb.SearchPosition) {
	p.positions = append(p.positions, pos)
	if got, want := key(pos.Cuts()), key(p.r.installed); got != want {
		p.mismatches = append(p.mismatches, fmt.Sprintf("%s at node %d: search path %q, installed %q", pos.Step(), pos.Node(), got, want))
	}
}

func (p *pathChecker) steps(step bnb.Step) []bnb.NodeID {
	var ids []bnb.NodeID
	for _, pos := range p.positions {
		if pos.Step() == step {
			ids = append(ids, pos.Node())
		}
	}
	return ids
}
