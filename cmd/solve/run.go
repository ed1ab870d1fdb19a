package solve

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/operator-framework/bnb/internal/report"
	"github.com/operator-framework/bnb/pkg/bnb"
	"github.com/operator-framework/bnb/pkg/model"
	"github.com/operator-framework/bnb/pkg/solver"
	"github.com/operator-framework/bnb/pkg/solver/factory"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Options configure one solve from the command line.
type Options struct {
	Tolerance float64
	MaxDepth  int
	MaxNodes  int
	Timeout   time.Duration
	Trace     bool
	Output    string
	Tree      bool
}

func DefaultOptions() *Options {
	return &Options{
		Tolerance: bnb.DefaultIntegralityTolerance,
		MaxDepth:  4096,
		Output:    OutputText,
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&o.Tolerance, "tolerance", o.Tolerance, "distance from an integer still accepted as integral, 0 for exact")
	fs.IntVar(&o.MaxDepth, "max-depth", o.MaxDepth, "maximum number of cuts on a search path")
	fs.IntVar(&o.MaxNodes, "max-nodes", o.MaxNodes, "maximum number of relaxations to solve, 0 for no limit")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "stop the search after this long, 0 for no limit")
	fs.BoolVar(&o.Trace, "trace", o.Trace, "narrate every search step")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "output format, text or json")
	fs.BoolVar(&o.Tree, "tree", o.Tree, "include the search tree in the output")
}

func (o *Options) Validate() error {
	switch o.Output {
	case OutputText, OutputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q", o.Output)
}

// Run solves m and writes the report to out. When the search stops
// early the partial report is written before the error is returned.
func Run(ctx context.Context, out io.Writer, m *model.Model, o *Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	options := []solver.Option{
		solver.WithIntegralityTolerance(o.Tolerance),
		solver.WithMaxDepth(o.MaxDepth),
		solver.WithMaxNodes(o.MaxNodes),
	}
	if o.Trace && o.Output == OutputText {
		options = append(options, solver.WithTracer(solver.LoggingTracer{Writer: out}))
	}
	var solveOptions []solver.SolveOption
	if o.Tree {
		solveOptions = append(solveOptions, solver.WithSearchTree())
	}

	s, err := factory.NewModelSolver(m, options...)
	if err != nil {
		return err
	}
	solution, err := s.Solve(ctx, solveOptions...)
	if solution == nil {
		return err
	}

	switch o.Output {
	case OutputJSON:
		data, jerr := report.JSON(solution, o.Tree)
		if jerr != nil {
			return jerr
		}
		fmt.Fprintln(out, string(data))
	default:
		if o.Trace {
			fmt.Fprintln(out, "---")
		}
		fmt.Fprintf(out, "Model: %s\n", m.Name)
		if rerr := report.Text(out, solution); rerr != nil {
			return rerr
		}
	}
	return err
}
