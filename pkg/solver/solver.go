package solver

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/bnb/internal/idprovider"
	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/internal/solver"
	"github.com/operator-framework/bnb/pkg/bnb"
)

// ErrNoIntegerSolution is placed in a Solution when the search
// finished without finding an integral point.
var ErrNoIntegerSolution = errors.New("no integer solution found")

var (
	ErrIncomplete          = solver.ErrIncomplete
	ErrDepthLimit          = solver.ErrDepthLimit
	ErrNodeLimit           = solver.ErrNodeLimit
	ErrNoBranchingVariable = solver.ErrNoBranchingVariable
)

type (
	Option        = solver.Option
	Stats         = solver.Stats
	DefaultTracer = solver.DefaultTracer
	LoggingTracer = solver.LoggingTracer
	LogrusTracer  = solver.LogrusTracer
)

var (
	WithTracer               = solver.WithTracer
	WithLogger               = solver.WithLogger
	WithIntegralityTolerance = solver.WithIntegralityTolerance
	WithMaxDepth             = solver.WithMaxDepth
	WithMaxNodes             = solver.WithMaxNodes
	WithIDProvider           = solver.WithIDProvider
)

// Solution is returned by the Solver when the search ran. A search
// that ran can still end without an integer solution, reported by
// Error.
type Solution struct {
	err       error
	runID     idprovider.RunID
	sense     bnb.Sense
	value     float64
	incumbent bnb.NodeID
	found     bool
	variables []bnb.DecisionVariable
	cuts      []bnb.BranchCut
	stats     Stats
	tree      *searchtree.Tree
}

// Error returns ErrNoIntegerSolution when no integral point was
// found, nil otherwise.
func (s *Solution) Error() error {
	return s.err
}

func (s *Solution) RunID() string {
	return string(s.runID)
}

func (s *Solution) Sense() bnb.Sense {
	return s.sense
}

// Value returns the objective of the best integer solution, or the
// worst value of the sense when there is none.
func (s *Solution) Value() float64 {
	return s.value
}

// Incumbent returns the search tree node holding the best solution.
func (s *Solution) Incumbent() (bnb.NodeID, bool) {
	return s.incumbent, s.found
}

// Variables returns the incumbent's variables as the relaxation
// reported them.
func (s *Solution) Variables() []bnb.DecisionVariable {
	return s.variables
}

// Assignment maps variable names to their values in the incumbent.
// Integer variables are rounded to the integer they were accepted as.
func (s *Solution) Assignment() map[string]float64 {
	assignment := make(map[string]float64, len(s.variables))
	for _, v := range s.variables {
		value := v.Value()
		if !v.IsContinuous() {
			value = math.Round(value)
		}
		assignment[v.Name()] = value
	}
	return assignment
}

// Cuts returns the cuts that define the incumbent's relaxation.
func (s *Solution) Cuts() []bnb.BranchCut {
	return s.cuts
}

func (s *Solution) Stats() Stats {
	return s.stats
}

// Tree returns the explored search tree. It is only present when the
// WithSearchTree option is passed to the Solve call.
func (s *Solution) Tree() *searchtree.Tree {
	return s.tree
}

type solutionOptions struct {
	addSearchTree bool
}

func (s *solutionOptions) apply(options ...SolveOption) *solutionOptions {
	for _, applyOption := range options {
		applyOption(s)
	}
	return s
}

func defaultSolutionOptions() *solutionOptions {
	return &solutionOptions{
		addSearchTree: false,
	}
}

type SolveOption func(solutionOptions *solutionOptions)

// WithSearchTree is a Solve option that keeps the explored search
// tree in the Solution
func WithSearchTree() SolveOption {
	return func(solutionOptions *solutionOptions) {
		solutionOptions.addSearchTree = true
	}
}

// BranchAndBoundSolver searches the integer points of a relaxation.
type BranchAndBoundSolver struct {
	relaxation bnb.Relaxation
	options    []Option
	runIDs     *idprovider.UUIDRunIDProvider
	logger     *logrus.Entry
}

func NewBranchAndBoundSolver(relaxation bnb.Relaxation, options ...Option) *BranchAndBoundSolver {
	return &BranchAndBoundSolver{
		relaxation: relaxation,
		options:    options,
		runIDs:     idprovider.NewUUIDRunIDProvider(),
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Solve runs one search. Errors that stop the search early, such as
// a limit or a cancelled context, are returned together with a
// Solution holding what was found until then. Calls must not overlap
// since they share the relaxation.
func (b *BranchAndBoundSolver) Solve(ctx context.Context, options ...SolveOption) (*Solution, error) {
	solutionOpts := defaultSolutionOptions().apply(options...)

	runID := b.runIDs.NextRunID()
	logger := b.logger.WithField("run", runID)
	s, err := solver.New(b.relaxation, append([]Option{solver.WithLogger(logger)}, b.options...)...)
	if err != nil {
		return nil, err
	}

	result, err := s.Solve(ctx)
	if result == nil {
		return nil, err
	}

	solution := &Solution{
		runID: runID,
		sense: result.Sense,
		value: result.Value,
		stats: result.Stats,
	}
	if result.Found() {
		solution.found = true
		solution.incumbent = result.Incumbent.ID()
		solution.variables = result.Incumbent.Variables()
		solution.cuts = result.Incumbent.Cuts()
	} else {
		solution.err = ErrNoIntegerSolution
	}
	if solutionOpts.addSearchTree {
		solution.tree = result.Tree
	}
	return solution, err
}
