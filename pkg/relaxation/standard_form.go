package relaxation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/operator-framework/bnb/pkg/bnb"
	"github.com/operator-framework/bnb/pkg/model"
)

var errInfeasible = errors.New("infeasible")

// term adds sign times a standard form column to a model variable.
type term struct {
	column int
	sign   float64
}

// substitution writes a bounded model variable x as offset plus a
// signed sum of non-negative columns:
//
//	lower finite:          x = lower + y
//	only upper finite:     x = upper - y
//	neither finite:        x = y+ - y-
type substitution struct {
	offset float64
	terms  []term
}

type row struct {
	coefficients []float64
	relation     model.Relation
	rhs          float64
}

// standardForm is min c·y subject to A y = b, y >= 0, equivalent to
// the model restricted by the installed cuts.
type standardForm struct {
	substitutions []substitution
	columns       int

	// kept maps each column of A to its structural column. Columns
	// past len(kept) are slack and surplus columns.
	kept []int
	c    []float64
	a    *mat.Dense
	b    []float64
}

func substitute(m *model.Model) ([]substitution, int) {
	subs := make([]substitution, len(m.Variables))
	columns := 0
	next := func(sign float64) term {
		columns++
		return term{column: columns - 1, sign: sign}
	}
	for i, v := range m.Variables {
		lower, upper := v.LowerBound(), v.UpperBound()
		switch {
		case !math.IsInf(lower, -1):
			subs[i] = substitution{offset: lower, terms: []term{next(1)}}
		case !math.IsInf(upper, 1):
			subs[i] = substitution{offset: upper, terms: []term{next(-1)}}
		default:
			subs[i] = substitution{terms: []term{next(1), next(-1)}}
		}
	}
	return subs, columns
}

// express rewrites sum(coefficients[j] * x[j]) relation rhs over the
// structural columns.
func express(subs []substitution, columns int, coefficients []float64, relation model.Relation, rhs float64) row {
	r := row{coefficients: make([]float64, columns), relation: relation, rhs: rhs}
	for j, a := range coefficients {
		if a == 0 {
			continue
		}
		r.rhs -= a * subs[j].offset
		for _, t := range subs[j].terms {
			r.coefficients[t.column] += a * t.sign
		}
	}
	return r
}

func unit(n, j int) []float64 {
	u := make([]float64, n)
	u[j] = 1
	return u
}

// newStandardForm converts m and the installed cuts. It returns
// errInfeasible when a constraint reduces to an unsatisfiable
// constant, and bnb.ErrUnboundedRelaxation when a column no row
// restricts has a negative cost.
func newStandardForm(m *model.Model, cuts []bnb.BranchCut, tol float64) (*standardForm, error) {
	subs, columns := substitute(m)
	n := len(m.Variables)

	var rows []row
	for i, v := range m.Variables {
		lower, upper := v.LowerBound(), v.UpperBound()
		if !math.IsInf(lower, -1) && !math.IsInf(upper, 1) {
			rows = append(rows, express(subs, columns, unit(n, i), model.LessOrEqual, upper))
		}
	}
	for i, c := range m.Constraints {
		rows = append(rows, express(subs, columns, m.Row(i), c.Relation, c.RHS))
	}
	for _, cut := range cuts {
		relation := model.GreaterOrEqual
		if cut.IsUpper() {
			relation = model.LessOrEqual
		}
		rows = append(rows, express(subs, columns, unit(n, cut.Variable().Index()), relation, float64(cut.Bound())))
	}

	live := rows[:0]
	for _, r := range rows {
		if !zero(r.coefficients) {
			live = append(live, r)
			continue
		}
		if !constantHolds(r, tol) {
			return nil, fmt.Errorf("%w: 0 %s %g", errInfeasible, r.relation, r.rhs)
		}
	}
	rows = live

	cost := make([]float64, columns)
	for j, c := range m.Cost() {
		if !m.IsMinimization() {
			c = -c
		}
		for _, t := range subs[j].terms {
			cost[t.column] += c * t.sign
		}
	}

	f := &standardForm{substitutions: subs, columns: columns}
	for col := 0; col < columns; col++ {
		restricted := false
		for _, r := range rows {
			if r.coefficients[col] != 0 {
				restricted = true
				break
			}
		}
		if restricted {
			f.kept = append(f.kept, col)
			continue
		}
		if cost[col] < 0 {
			return nil, fmt.Errorf("%w: column %d has cost %g and no restricting row", bnb.ErrUnboundedRelaxation, col, cost[col])
		}
	}

	slacks := 0
	for _, r := range rows {
		if r.relation != model.Equal {
			slacks++
		}
	}
	rowCount, colCount := len(rows), len(f.kept)+slacks
	if rowCount == 0 {
		return f, nil
	}
	if rowCount > colCount {
		return nil, fmt.Errorf("%d rows over %d columns", rowCount, colCount)
	}

	f.c = make([]float64, colCount)
	for k, col := range f.kept {
		f.c[k] = cost[col]
	}
	f.a = mat.NewDense(rowCount, colCount, nil)
	f.b = make([]float64, rowCount)
	slack := len(f.kept)
	for i, r := range rows {
		for k, col := range f.kept {
			f.a.Set(i, k, r.coefficients[col])
		}
		switch r.relation {
		case model.LessOrEqual:
			f.a.Set(i, slack, 1)
			slack++
		case model.GreaterOrEqual:
			f.a.Set(i, slack, -1)
			slack++
		}
		f.b[i] = r.rhs
		if r.rhs < 0 {
			for k := 0; k < colCount; k++ {
				f.a.Set(i, k, -f.a.At(i, k))
			}
			f.b[i] = -r.rhs
		}
	}
	return f, nil
}

func (f *standardForm) empty() bool {
	return f.a == nil
}

// values maps a solution of the standard form back to the model
// variables. y holds one value per column of A, or is nil when the
// form has no rows.
func (f *standardForm) values(y []float64) []float64 {
	structural := make([]float64, f.columns)
	for k, col := range f.kept {
		if k < len(y) {
			structural[col] = y[k]
		}
	}
	x := make([]float64, len(f.substitutions))
	for i, s := range f.substitutions {
		x[i] = s.offset
		for _, t := range s.terms {
			x[i] += t.sign * structural[t.column]
		}
	}
	return x
}

func zero(v []float64) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}

func constantHolds(r row, tol float64) bool {
	switch r.relation {
	case model.LessOrEqual:
		return 0 <= r.rhs+tol
	case model.GreaterOrEqual:
		return 0 >= r.rhs-tol
	}
	return math.Abs(r.rhs) <= tol
}
