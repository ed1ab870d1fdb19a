package solver

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/operator-framework/bnb/pkg/bnb"
)

const halfInteger = 0.5

func integral(vars []bnb.DecisionVariable) bool {
	return lo.EveryBy(vars, func(v bnb.DecisionVariable) bool {
		return !v.Fractional()
	})
}

// branchingVariable picks the fractional variable whose fractional
// part is closest to one half. Ties go to the lowest position.
func branchingVariable(vars []bnb.DecisionVariable) (bnb.DecisionVariable, bool) {
	candidates := lo.Filter(vars, func(v bnb.DecisionVariable, _ int) bool {
		return v.Fractional()
	})
	if len(candidates) == 0 {
		return bnb.DecisionVariable{}, false
	}
	return lo.MinBy(candidates, func(a, b bnb.DecisionVariable) bool {
		return distanceFromHalf(a.Value()) < distanceFromHalf(b.Value())
	}), true
}

func distanceFromHalf(v float64) float64 {
	return math.Abs(v - math.Floor(v) - halfInteger)
}

// orderCuts sorts the cuts by bound and reverses them when the larger
// bound is expected to keep the objective tighter: minimizing over a
// variable with a non-positive coefficient, or maximizing over one
// with a positive coefficient.
func orderCuts(sense bnb.Sense, grows bool, cuts ...bnb.BranchCut) []bnb.BranchCut {
	ordered := slices.Clone(cuts)
	slices.SortStableFunc(ordered, func(a, b bnb.BranchCut) int {
		return cmp.Compare(a.Bound(), b.Bound())
	})
	if (sense == bnb.Minimize && !grows) || (sense == bnb.Maximize && grows) {
		slices.Reverse(ordered)
	}
	return ordered
}
