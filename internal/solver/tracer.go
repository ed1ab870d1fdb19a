package solver

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/pkg/bnb"
)

type position struct {
	step      bnb.Step
	node      *searchtree.Node
	cut       *bnb.BranchCut
	cuts      []bnb.BranchCut
	objective float64
	reason    bnb.PruneReason
}

var _ bnb.SearchPosition = position{}

func (p position) Step() bnb.Step {
	return p.step
}

func (p position) Node() bnb.NodeID {
	return p.node.ID()
}

func (p position) Depth() int {
	return p.node.Depth()
}

func (p position) Cut() (bnb.BranchCut, bool) {
	if p.cut == nil {
		return bnb.BranchCut{}, false
	}
	return *p.cut, true
}

func (p position) Cuts() []bnb.BranchCut {
	return slices.Clone(p.cuts)
}

func (p position) Objective() float64 {
	return p.objective
}

func (p position) Variables() []bnb.DecisionVariable {
	return p.node.Variables()
}

func (p position) Reason() bnb.PruneReason {
	return p.reason
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ bnb.SearchPosition) {
}

// LoggingTracer narrates the search as plain text.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(p bnb.SearchPosition) {
	switch p.Step() {
	case bnb.StepSolved:
		fmt.Fprintf(t.Writer, "---\nRelaxation of node %d (depth %d):\n", p.Node(), p.Depth())
		if math.IsInf(p.Objective(), 0) {
			fmt.Fprintf(t.Writer, "Value: infeasible\n")
			return
		}
		fmt.Fprintf(t.Writer, "Value: %g\nVariables:\n", p.Objective())
		for _, v := range p.Variables() {
			fmt.Fprintf(t.Writer, "- %s\n", v)
		}
		fmt.Fprintf(t.Writer, "Cuts:\n")
		for _, c := range p.Cuts() {
			fmt.Fprintf(t.Writer, "- %s\n", c)
		}
	case bnb.StepCutAdded, bnb.StepCutRemoved:
		if c, ok := p.Cut(); ok {
			fmt.Fprintf(t.Writer, "%s %s\n", p.Step(), c)
		}
	case bnb.StepPruned:
		fmt.Fprintf(t.Writer, "node %d pruned: %s\n", p.Node(), p.Reason())
	case bnb.StepIncumbent:
		fmt.Fprintf(t.Writer, "node %d is the new incumbent with value %g\n", p.Node(), p.Objective())
	}
}

// LogrusTracer emits every search step as a debug entry.
type LogrusTracer struct {
	Logger *logrus.Entry
}

func (t LogrusTracer) Trace(p bnb.SearchPosition) {
	entry := t.Logger.WithFields(logrus.Fields{
		"node":  p.Node(),
		"depth": p.Depth(),
	})
	switch p.Step() {
	case bnb.StepSolved:
		entry = entry.WithField("value", p.Objective())
	case bnb.StepCutAdded, bnb.StepCutRemoved:
		if c, ok := p.Cut(); ok {
			entry = entry.WithField("cut", c.String())
		}
	case bnb.StepPruned:
		entry = entry.WithField("reason", p.Reason().String())
	case bnb.StepIncumbent:
		entry = entry.WithField("value", p.Objective())
	}
	entry.Debug(p.Step().String())
}
