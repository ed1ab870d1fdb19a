// Package relaxation solves the LP relaxation of a model with the
// simplex implementation of gonum.
package relaxation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/operator-framework/bnb/pkg/bnb"
	"github.com/operator-framework/bnb/pkg/model"
)

const defaultSimplexTolerance = 1e-10

var (
	ErrUnknownCut      = errors.New("cut not installed")
	ErrDuplicateCut    = errors.New("cut already installed")
	ErrUnknownVariable = errors.New("unknown variable")
)

// Simplex is a bnb.Relaxation over a model. Cuts are kept apart from
// the model and the standard form is rebuilt on every Solve, so
// removing a cut restores the parent problem exactly.
type Simplex struct {
	model     *model.Model
	cuts      []bnb.BranchCut
	tolerance float64
	logger    *logrus.Entry

	current   []bnb.DecisionVariable
	objective float64
}

var _ bnb.Relaxation = &Simplex{}

type Option func(s *Simplex) error

// WithSimplexTolerance sets the tolerance gonum uses to decide that a
// value is zero.
func WithSimplexTolerance(tol float64) Option {
	return func(s *Simplex) error {
		if !(tol >= 0) {
			return fmt.Errorf("invalid simplex tolerance %g", tol)
		}
		s.tolerance = tol
		return nil
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(s *Simplex) error {
		s.logger = l
		return nil
	}
}

var defaults = []Option{
	func(s *Simplex) error {
		if s.logger == nil {
			s.logger = logrus.NewEntry(logrus.StandardLogger())
		}
		return nil
	},
}

func New(m *model.Model, options ...Option) (*Simplex, error) {
	if m == nil {
		return nil, fmt.Errorf("no model provided")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	s := &Simplex{model: m, tolerance: defaultSimplexTolerance}
	for _, option := range append(options, defaults...) {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.WithField("model", m.Name)
	s.objective = bnb.SenseOf(m.IsMinimization()).Worst()
	s.current = s.snapshot(make([]float64, len(m.Variables)))
	return s, nil
}

func (s *Simplex) Model() *model.Model {
	return s.model
}

// Cuts returns the installed cuts in installation order.
func (s *Simplex) Cuts() []bnb.BranchCut {
	return slices.Clone(s.cuts)
}

func (s *Simplex) Solve(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	worst := bnb.SenseOf(s.model.IsMinimization()).Worst()

	form, err := newStandardForm(s.model, s.cuts, s.tolerance)
	switch {
	case errors.Is(err, errInfeasible):
		s.logger.WithField("cuts", len(s.cuts)).WithError(err).Debug("relaxation infeasible")
		s.objective = worst
		return false, nil
	case err != nil:
		return false, err
	}

	var y []float64
	if !form.empty() {
		rows, cols := form.a.Dims()
		s.logger.WithFields(logrus.Fields{
			"rows":    rows,
			"columns": cols,
			"cuts":    len(s.cuts),
		}).Debug("running simplex")

		_, y, err = lp.Simplex(form.c, form.a, form.b, s.tolerance, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			s.objective = worst
			return false, nil
		case errors.Is(err, lp.ErrUnbounded):
			return false, fmt.Errorf("%w under %d cuts", bnb.ErrUnboundedRelaxation, len(s.cuts))
		case err != nil:
			return false, fmt.Errorf("simplex failed: %w", err)
		}
	}

	x := form.values(y)
	s.current = s.snapshot(x)
	s.objective = 0
	for j, c := range s.model.Cost() {
		s.objective += c * x[j]
	}
	return true, nil
}

func (s *Simplex) snapshot(x []float64) []bnb.DecisionVariable {
	vars := make([]bnb.DecisionVariable, len(x))
	for i, v := range s.model.Variables {
		d := bnb.NewDecisionVariable(v.Name, i)
		if v.IsContinuous() {
			d = bnb.NewContinuousVariable(v.Name, i)
		}
		vars[i] = d.WithValue(x[i], bnb.DefaultIntegralityTolerance)
	}
	return vars
}

func (s *Simplex) variable(v bnb.DecisionVariable) (model.Variable, error) {
	i := v.Index()
	if i < 0 || i >= len(s.model.Variables) || s.model.Variables[i].Name != v.Name() {
		return model.Variable{}, fmt.Errorf("%w: %s[%d]", ErrUnknownVariable, v.Name(), i)
	}
	return s.model.Variables[i], nil
}

func (s *Simplex) AddCut(cut bnb.BranchCut) error {
	if _, err := s.variable(cut.Variable()); err != nil {
		return err
	}
	if slices.ContainsFunc(s.cuts, func(c bnb.BranchCut) bool { return c.ID() == cut.ID() }) {
		return fmt.Errorf("%w: %s", ErrDuplicateCut, cut.ID())
	}
	s.cuts = append(s.cuts, cut)
	return nil
}

func (s *Simplex) RemoveCut(id bnb.CutID) error {
	i := slices.IndexFunc(s.cuts, func(c bnb.BranchCut) bool { return c.ID() == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCut, id)
	}
	s.cuts = slices.Delete(s.cuts, i, i+1)
	return nil
}

func (s *Simplex) CurrentValues() []bnb.DecisionVariable {
	return slices.Clone(s.current)
}

func (s *Simplex) CurrentObjectiveValue() float64 {
	return s.objective
}

func (s *Simplex) IsMinimization() bool {
	return s.model.IsMinimization()
}

func (s *Simplex) GrowsObjective(v bnb.DecisionVariable) (bool, error) {
	if _, err := s.variable(v); err != nil {
		return false, err
	}
	return s.model.Objective.Coefficients[v.Name()] > 0, nil
}
