package bnb

import (
	"errors"
	"fmt"
	"math"
)

var ErrIntegralBranch = errors.New("cannot branch on an integral value")

// IDProvider hands out the ids of the cuts created during one run.
type IDProvider interface {
	NextCutID() CutID
}

// BranchCut is one bound tightening on a decision variable. Upper
// cuts constrain variable <= bound, lower cuts variable >= bound.
type BranchCut struct {
	id       CutID
	variable DecisionVariable
	upper    bool
	bound    int
}

func NewBranchCut(id CutID, variable DecisionVariable, upper bool, bound int) BranchCut {
	return BranchCut{
		id:       id,
		variable: variable,
		upper:    upper,
		bound:    bound,
	}
}

// Split returns the two cuts that exclude the fractional value of v:
// first v <= floor(value), then v >= ceil(value). Every integer lies
// on exactly one side, so the pair partitions the integer points of
// the parent relaxation.
func Split(v DecisionVariable, ids IDProvider) (BranchCut, BranchCut, error) {
	value := v.Value()
	floor, ceil := math.Floor(value), math.Ceil(value)
	if floor == ceil || math.IsInf(value, 0) || math.IsNaN(value) {
		return BranchCut{}, BranchCut{}, fmt.Errorf("%w: %s", ErrIntegralBranch, v)
	}
	down := NewBranchCut(ids.NextCutID(), v, true, int(floor))
	up := NewBranchCut(ids.NextCutID(), v, false, int(ceil))
	return down, up, nil
}

func (c BranchCut) ID() CutID {
	return c.id
}

func (c BranchCut) Variable() DecisionVariable {
	return c.variable
}

// IsUpper reports whether the cut is an upper bound.
func (c BranchCut) IsUpper() bool {
	return c.upper
}

func (c BranchCut) Bound() int {
	return c.bound
}

// Comparator returns "<=" for upper cuts and ">=" for lower cuts.
func (c BranchCut) Comparator() string {
	if c.upper {
		return "<="
	}
	return ">="
}

// Admits reports whether x satisfies the cut.
func (c BranchCut) Admits(x float64) bool {
	if c.upper {
		return x <= float64(c.bound)
	}
	return x >= float64(c.bound)
}

// String renders the cut in its wire form, e.g. "branchCut3: x[0] <= 2".
func (c BranchCut) String() string {
	return fmt.Sprintf("%s: %s[%d] %s %d", c.id, c.variable.Name(), c.variable.Index(), c.Comparator(), c.bound)
}
