package bnb

import (
	"fmt"
	"math"
)

// ExactIntegrality is the integrality tolerance that reproduces an
// exact ceil(v) == floor(v) test.
const ExactIntegrality = 0.0

// DefaultIntegralityTolerance absorbs the round-off a simplex leaves
// on values that are integral in exact arithmetic.
const DefaultIntegralityTolerance = 1e-9

// DecisionVariable is a snapshot of one variable of the relaxation.
// Its identity is the pair (name, index); index matches the
// relaxation's internal column order and is stable for a whole run.
type DecisionVariable struct {
	name       string
	index      int
	value      float64
	integer    bool
	continuous bool
}

// NewDecisionVariable returns an integer-constrained variable with a
// value of zero.
func NewDecisionVariable(name string, index int) DecisionVariable {
	return DecisionVariable{name: name, index: index, integer: true}
}

// NewContinuousVariable returns a variable whose integrality is not
// required. Continuous variables are never branched on.
func NewContinuousVariable(name string, index int) DecisionVariable {
	v := NewDecisionVariable(name, index)
	v.continuous = true
	return v
}

// WithValue returns a copy of v holding value, with its integrality
// recomputed under epsilon.
func (v DecisionVariable) WithValue(value, epsilon float64) DecisionVariable {
	v.value = value
	v.integer = IsIntegral(value, epsilon)
	return v
}

func (v DecisionVariable) Name() string {
	return v.name
}

func (v DecisionVariable) Index() int {
	return v.index
}

func (v DecisionVariable) Value() float64 {
	return v.value
}

// IsInteger reports whether the current value is integral.
func (v DecisionVariable) IsInteger() bool {
	return v.integer
}

// IsContinuous reports whether the variable is exempt from
// integrality.
func (v DecisionVariable) IsContinuous() bool {
	return v.continuous
}

// Fractional reports whether v is integer-constrained but holds a
// non-integral value.
func (v DecisionVariable) Fractional() bool {
	return !v.continuous && !v.integer
}

// SameAs reports whether v and o denote the same variable.
func (v DecisionVariable) SameAs(o DecisionVariable) bool {
	return v.name == o.name && v.index == o.index
}

func (v DecisionVariable) String() string {
	return fmt.Sprintf("%s[%d] = %g", v.name, v.index, v.value)
}

// IsIntegral reports whether value lies within epsilon of an integer.
// Infinite and NaN values are never integral.
func IsIntegral(value, epsilon float64) bool {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return false
	}
	if epsilon <= 0 {
		return math.Ceil(value) == math.Floor(value)
	}
	return math.Abs(value-math.Round(value)) <= epsilon
}
