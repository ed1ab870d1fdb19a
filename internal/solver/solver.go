package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/bnb/internal/idprovider"
	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/pkg/bnb"
)

var (
	ErrIncomplete          = errors.New("cancelled before the search could complete")
	ErrDepthLimit          = errors.New("search depth limit reached")
	ErrNodeLimit           = errors.New("search node limit reached")
	ErrNoBranchingVariable = errors.New("no fractional variable to branch on")
)

const (
	defaultMaxDepth = 4096
)

type Solver interface {
	Solve(context.Context) (*Result, error)
}

// Stats counts what happened during one search.
type Stats struct {
	Nodes      int
	Infeasible int
	Integral   int
	Bounded    int
	Branches   int
	Incumbents int
	MaxDepth   int
}

// Result is the outcome of a search. It is returned even when the
// search stops early, holding the incumbent found so far.
type Result struct {
	Sense     bnb.Sense
	Tree      *searchtree.Tree
	Incumbent *searchtree.Node
	Value     float64
	Stats     Stats
}

// Found reports whether an integer solution was found.
func (r *Result) Found() bool {
	return r.Incumbent != nil
}

type solver struct {
	relaxation bnb.Relaxation
	tracer     bnb.Tracer
	logger     *logrus.Entry
	epsilon    float64
	maxDepth   int
	maxNodes   int
	ids        func() bnb.IDProvider
}

var _ Solver = &solver{}

// Solve runs a depth-first branch and bound over the relaxation. The
// relaxation is shared: Solve must not be called concurrently on
// solvers wrapping the same relaxation. On return every cut added by
// the search has been removed again.
func (s *solver) Solve(ctx context.Context) (*Result, error) {
	sense := bnb.SenseOf(s.relaxation.IsMinimization())
	h := &search{
		r:        s.relaxation,
		sense:    sense,
		tree:     searchtree.New(sense),
		best:     sense.Worst(),
		ids:      s.ids(),
		tracer:   s.tracer,
		epsilon:  s.epsilon,
		maxDepth: s.maxDepth,
		maxNodes: s.maxNodes,
	}

	s.logger.WithField("sense", sense).Debug("starting branch and bound")
	err := h.Do(ctx)

	result := &Result{
		Sense:     sense,
		Tree:      h.tree,
		Incumbent: h.bestNode,
		Value:     h.best,
		Stats:     h.stats,
	}
	fields := logrus.Fields{
		"nodes":    h.stats.Nodes,
		"branches": h.stats.Branches,
		"found":    result.Found(),
	}
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Debug("branch and bound stopped")
		return result, err
	}
	s.logger.WithFields(fields).WithField("value", h.best).Debug("branch and bound finished")
	return result, nil
}

func New(relaxation bnb.Relaxation, options ...Option) (Solver, error) {
	if relaxation == nil {
		return nil, fmt.Errorf("no relaxation provided")
	}
	s := solver{relaxation: relaxation, epsilon: bnb.DefaultIntegralityTolerance, maxDepth: defaultMaxDepth}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

type Option func(s *solver) error

func WithTracer(t bnb.Tracer) Option {
	return func(s *solver) error {
		s.tracer = t
		return nil
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(s *solver) error {
		s.logger = l
		return nil
	}
}

// WithIntegralityTolerance sets how far from an integer a value may
// be and still count as integral. Zero requires exact integers.
func WithIntegralityTolerance(epsilon float64) Option {
	return func(s *solver) error {
		if !(epsilon >= 0 && epsilon < 0.5) {
			return fmt.Errorf("integrality tolerance %g out of range [0, 0.5)", epsilon)
		}
		s.epsilon = epsilon
		return nil
	}
}

// WithMaxDepth caps the number of cuts on any path of the search.
func WithMaxDepth(depth int) Option {
	return func(s *solver) error {
		if depth < 0 {
			return fmt.Errorf("invalid max depth %d", depth)
		}
		s.maxDepth = depth
		return nil
	}
}

// WithMaxNodes caps the number of relaxations solved. Zero means no
// limit.
func WithMaxNodes(nodes int) Option {
	return func(s *solver) error {
		if nodes < 0 {
			return fmt.Errorf("invalid max nodes %d", nodes)
		}
		s.maxNodes = nodes
		return nil
	}
}

// WithIDProvider makes every run draw its cut ids from p instead of a
// fresh counter.
func WithIDProvider(p bnb.IDProvider) Option {
	return func(s *solver) error {
		s.ids = func() bnb.IDProvider { return p }
		return nil
	}
}

var defaults = []Option{
	func(s *solver) error {
		if s.tracer == nil {
			s.tracer = DefaultTracer{}
		}
		return nil
	},
	func(s *solver) error {
		if s.logger == nil {
			s.logger = logrus.NewEntry(logrus.StandardLogger())
		}
		return nil
	},
	func(s *solver) error {
		if s.ids == nil {
			s.ids = func() bnb.IDProvider { return idprovider.MonotonicallyIncreasingIDProvider() }
		}
		return nil
	},
}
