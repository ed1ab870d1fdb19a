package bnb

// Step names the kind of event a Tracer observes.
type Step int

const (
	StepSolved Step = iota
	StepCutAdded
	StepCutRemoved
	StepPruned
	StepIncumbent
)

func (s Step) String() string {
	switch s {
	case StepSolved:
		return "solved"
	case StepCutAdded:
		return "cut added"
	case StepCutRemoved:
		return "cut removed"
	case StepPruned:
		return "pruned"
	case StepIncumbent:
		return "incumbent"
	}
	return "unknown"
}

// PruneReason tells why a branch produced no children.
type PruneReason int

const (
	NotPruned PruneReason = iota
	PrunedInfeasible
	PrunedIntegral
	PrunedBound
)

func (r PruneReason) String() string {
	switch r {
	case PrunedInfeasible:
		return "infeasible"
	case PrunedIntegral:
		return "integral"
	case PrunedBound:
		return "bound"
	}
	return "none"
}

type SearchPosition interface {
	Step() Step
	Node() NodeID
	Depth() int
	// Cut is the cut added or removed, for StepCutAdded and
	// StepCutRemoved.
	Cut() (BranchCut, bool)
	// Cuts returns the cuts installed in the relaxation, in the
	// order they were added.
	Cuts() []BranchCut
	Objective() float64
	Variables() []DecisionVariable
	Reason() PruneReason
}

type Tracer interface {
	Trace(p SearchPosition)
}
