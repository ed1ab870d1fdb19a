package bnb

import "math"

// Sense is the optimisation direction of an objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// SenseOf returns Minimize when minimization is true.
func SenseOf(minimization bool) Sense {
	if minimization {
		return Minimize
	}
	return Maximize
}

func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Worst returns the sentinel standing for "no feasible solution":
// +Inf when minimizing and -Inf when maximizing.
func (s Sense) Worst() float64 {
	if s == Minimize {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// IsWorst reports whether v is the sentinel returned by Worst.
func (s Sense) IsWorst(v float64) bool {
	return v == s.Worst()
}

// Worse reports whether a is strictly worse than b.
func (s Sense) Worse(a, b float64) bool {
	if s == Minimize {
		return a > b
	}
	return a < b
}

// NoBetter reports whether a does not improve on b.
func (s Sense) NoBetter(a, b float64) bool {
	return a == b || s.Worse(a, b)
}
