package factory

import (
	"context"

	"github.com/operator-framework/bnb/pkg/model"
	"github.com/operator-framework/bnb/pkg/relaxation"
	pkgsolver "github.com/operator-framework/bnb/pkg/solver"
)

// NewModelSolver returns a solver over the simplex relaxation of m.
func NewModelSolver(m *model.Model, options ...pkgsolver.Option) (*pkgsolver.BranchAndBoundSolver, error) {
	r, err := relaxation.New(m)
	if err != nil {
		return nil, err
	}
	return pkgsolver.NewBranchAndBoundSolver(r, options...), nil
}

// SolveModel solves m once.
func SolveModel(ctx context.Context, m *model.Model, options ...pkgsolver.Option) (*pkgsolver.Solution, error) {
	s, err := NewModelSolver(m, options...)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}
