package bnb

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnboundedRelaxation is returned by a Relaxation whose objective
// can be improved without limit under the installed cuts. An
// unbounded relaxation says nothing about integer feasibility, so the
// search cannot continue.
var ErrUnboundedRelaxation = errors.New("relaxation is unbounded")

// NodeID values identify nodes of a search tree. The root problem is
// always RootID.
type NodeID uint64

// RootID identifies the root problem of every search.
const RootID NodeID = 0

// CutID values uniquely identify a BranchCut within a single run.
// The first cut of a run has id 1 so that cut ids can double as
// node ids without colliding with RootID.
type CutID uint64

func (id CutID) String() string {
	return fmt.Sprintf("branchCut%d", uint64(id))
}

// Relaxation owns the live LP relaxation of an integer program. It is
// the only mutation channel the search uses: cuts are installed
// before a subproblem is solved and removed before control returns
// to the parent, so that the installed cuts always match the path
// from the root of the search tree to the current node.
type Relaxation interface {
	// Solve resolves the relaxation with the currently installed
	// cuts. It returns false when the relaxation is infeasible,
	// which is a normal outcome of the search. A non-nil error is
	// fatal to the run.
	Solve(ctx context.Context) (bool, error)
	// AddCut installs the constraint described by cut, keyed by
	// its id, without disturbing the other installed cuts.
	AddCut(cut BranchCut) error
	// RemoveCut removes exactly the constraint installed for id.
	RemoveCut(id CutID) error
	// CurrentValues returns the variable values of the last
	// successful Solve, in relaxation order.
	CurrentValues() []DecisionVariable
	// CurrentObjectiveValue returns the objective of the last
	// Solve, or the worst value of the objective sense when it was
	// not feasible.
	CurrentObjectiveValue() float64
	// IsMinimization reports the objective sense.
	IsMinimization() bool
	// GrowsObjective reports whether increasing v increases the
	// objective, i.e. whether its objective coefficient is positive.
	GrowsObjective(v DecisionVariable) (bool, error)
}
