// Package model describes integer linear programs as YAML documents.
//
//	name: example
//	objective:
//	  sense: maximize
//	  coefficients: {x: 3, y: 2}
//	variables:
//	  - name: x
//	  - name: y
//	    upper: 3
//	constraints:
//	  - name: capacity
//	    coefficients: {x: 1, y: 1}
//	    sense: "<="
//	    rhs: 5.5
//
// Variables default to integers bounded below by zero and unbounded
// above. Infinite bounds are written .inf and -.inf.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidModel = errors.New("invalid model")

type Sense string

const (
	Minimize Sense = "minimize"
	Maximize Sense = "maximize"
)

type VariableType string

const (
	Integer    VariableType = "integer"
	Continuous VariableType = "continuous"
)

// Relation is the comparison between a constraint's left hand side
// and its right hand side.
type Relation string

const (
	LessOrEqual    Relation = "<="
	GreaterOrEqual Relation = ">="
	Equal          Relation = "="
)

type Model struct {
	Name        string       `yaml:"name"`
	Objective   Objective    `yaml:"objective"`
	Variables   []Variable   `yaml:"variables"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
}

type Objective struct {
	Sense        Sense              `yaml:"sense"`
	Coefficients map[string]float64 `yaml:"coefficients,omitempty"`
}

type Variable struct {
	Name  string       `yaml:"name"`
	Lower *float64     `yaml:"lower,omitempty"`
	Upper *float64     `yaml:"upper,omitempty"`
	Type  VariableType `yaml:"type,omitempty"`
}

type Constraint struct {
	Name         string             `yaml:"name,omitempty"`
	Coefficients map[string]float64 `yaml:"coefficients"`
	Relation     Relation           `yaml:"sense"`
	RHS          float64            `yaml:"rhs"`
}

// LowerBound returns the variable's lower bound, zero when unset.
func (v Variable) LowerBound() float64 {
	if v.Lower == nil {
		return 0
	}
	return *v.Lower
}

// UpperBound returns the variable's upper bound, +Inf when unset.
func (v Variable) UpperBound() float64 {
	if v.Upper == nil {
		return math.Inf(1)
	}
	return *v.Upper
}

func (v Variable) IsContinuous() bool {
	return v.Type == Continuous
}

func (m *Model) IsMinimization() bool {
	return m.Objective.Sense == Minimize
}

// Index returns the position of the named variable.
func (m *Model) Index(name string) (int, bool) {
	for i, v := range m.Variables {
		if v.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Cost returns the objective coefficients in variable order.
func (m *Model) Cost() []float64 {
	c := make([]float64, len(m.Variables))
	for i, v := range m.Variables {
		c[i] = m.Objective.Coefficients[v.Name]
	}
	return c
}

// Row returns the coefficients of constraint i in variable order.
func (m *Model) Row(i int) []float64 {
	row := make([]float64, len(m.Variables))
	for j, v := range m.Variables {
		row[j] = m.Constraints[i].Coefficients[v.Name]
	}
	return row
}

// Validate reports every problem found in the model, wrapped in
// ErrInvalidModel.
func (m *Model) Validate() error {
	var errs []error
	switch m.Objective.Sense {
	case Minimize, Maximize:
	default:
		errs = append(errs, fmt.Errorf("unknown objective sense %q", m.Objective.Sense))
	}
	if len(m.Variables) == 0 {
		errs = append(errs, errors.New("no variables declared"))
	}

	declared := make(map[string]struct{}, len(m.Variables))
	for i, v := range m.Variables {
		if v.Name == "" {
			errs = append(errs, fmt.Errorf("variable %d has no name", i))
			continue
		}
		if _, ok := declared[v.Name]; ok {
			errs = append(errs, fmt.Errorf("variable %q declared twice", v.Name))
		}
		declared[v.Name] = struct{}{}

		switch v.Type {
		case "", Integer, Continuous:
		default:
			errs = append(errs, fmt.Errorf("variable %q has unknown type %q", v.Name, v.Type))
		}
		lower, upper := v.LowerBound(), v.UpperBound()
		switch {
		case math.IsNaN(lower) || math.IsInf(lower, 1):
			errs = append(errs, fmt.Errorf("variable %q has invalid lower bound %g", v.Name, lower))
		case math.IsNaN(upper) || math.IsInf(upper, -1):
			errs = append(errs, fmt.Errorf("variable %q has invalid upper bound %g", v.Name, upper))
		case lower > upper:
			errs = append(errs, fmt.Errorf("variable %q has lower bound %g above upper bound %g", v.Name, lower, upper))
		}
	}

	errs = append(errs, coefficientErrors("objective", m.Objective.Coefficients, declared)...)
	for i, c := range m.Constraints {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("constraint %d", i)
		}
		switch c.Relation {
		case LessOrEqual, GreaterOrEqual, Equal:
		default:
			errs = append(errs, fmt.Errorf("%s has unknown sense %q", name, c.Relation))
		}
		if !finite(c.RHS) {
			errs = append(errs, fmt.Errorf("%s has non-finite rhs %g", name, c.RHS))
		}
		errs = append(errs, coefficientErrors(name, c.Coefficients, declared)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidModel, errors.Join(errs...))
	}
	return nil
}

func coefficientErrors(owner string, coefficients map[string]float64, declared map[string]struct{}) []error {
	var errs []error
	for name, c := range coefficients {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("%s references undeclared variable %q", owner, name))
		}
		if !finite(c) {
			errs = append(errs, fmt.Errorf("%s has non-finite coefficient %g for %q", owner, c, name))
		}
	}
	return errs
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Parse decodes and validates a single model document. Unknown
// fields are rejected.
func Parse(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	m := &Model{}
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidModel)
		}
		return nil, fmt.Errorf("error decoding model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func ParseBytes(data []byte) (*Model, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads the model stored at path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening model file (%s): %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing model file (%s): %w", path, err)
	}
	return m, nil
}
