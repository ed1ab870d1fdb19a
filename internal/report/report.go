// Package report renders solutions for people and for programs.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/operator-framework/bnb/internal/searchtree"
	"github.com/operator-framework/bnb/pkg/bnb"
	"github.com/operator-framework/bnb/pkg/solver"
)

// Text writes a plain text report of s. The search tree outline is
// appended when the solution carries one.
func Text(w io.Writer, s *solver.Solution) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	if s.Error() != nil {
		printf("INTEGER SOLUTION NOT FOUND\n")
	} else {
		assignment := s.Assignment()
		printf("INTEGER SOLUTION FOUND\n")
		printf("Value: %g\n", s.Value())
		printf("Variables:\n")
		for _, v := range s.Variables() {
			printf("- %s = %g\n", v.Name(), assignment[v.Name()])
		}
		if cuts := s.Cuts(); len(cuts) > 0 {
			printf("Cuts:\n")
			for _, c := range cuts {
				printf("- %s\n", c)
			}
		}
	}

	st := s.Stats()
	printf("Nodes: %d (infeasible %d, integral %d, bounded %d)\n", st.Nodes, st.Infeasible, st.Integral, st.Bounded)
	printf("Branches: %d, incumbents: %d, depth: %d\n", st.Branches, st.Incumbents, st.MaxDepth)
	if t := s.Tree(); t != nil {
		printf("Search tree:\n%s", t.String())
	}
	return err
}

// JSON renders s as a JSON object. Infinite values, such as the value
// of an infeasible node, are written as null.
func JSON(s *solver.Solution, includeTree bool) ([]byte, error) {
	st, err := structpb.NewStruct(document(s, includeTree))
	if err != nil {
		return nil, fmt.Errorf("error building report: %w", err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

func document(s *solver.Solution, includeTree bool) map[string]any {
	st := s.Stats()
	doc := map[string]any{
		"runId": s.RunID(),
		"sense": s.Sense().String(),
		"found": s.Error() == nil,
		"value": number(s.Value()),
		"stats": map[string]any{
			"nodes":      st.Nodes,
			"infeasible": st.Infeasible,
			"integral":   st.Integral,
			"bounded":    st.Bounded,
			"branches":   st.Branches,
			"incumbents": st.Incumbents,
			"maxDepth":   st.MaxDepth,
		},
	}
	if id, ok := s.Incumbent(); ok {
		doc["incumbent"] = int64(id)
		doc["assignment"] = lo.MapValues(s.Assignment(), func(v float64, _ string) any {
			return v
		})
		doc["cuts"] = cuts(s.Cuts())
	}
	if t := s.Tree(); includeTree && t != nil {
		doc["tree"] = tree(t)
	}
	return doc
}

func number(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return f
}

func cuts(cs []bnb.BranchCut) []any {
	return lo.Map(cs, func(c bnb.BranchCut, _ int) any {
		return map[string]any{
			"id":         int64(c.ID()),
			"variable":   c.Variable().Name(),
			"index":      c.Variable().Index(),
			"comparator": c.Comparator(),
			"bound":      c.Bound(),
		}
	})
}

func tree(t *searchtree.Tree) []any {
	var nodes []any
	t.Root().Walk(func(n *searchtree.Node) bool {
		node := map[string]any{
			"id":    int64(n.ID()),
			"depth": n.Depth(),
			"value": number(n.SolutionValue()),
		}
		if p, ok := n.Parent(); ok {
			node["parent"] = int64(p.ID())
		}
		if c, ok := n.Cut(); ok {
			node["cut"] = c.String()
		}
		nodes = append(nodes, node)
		return true
	})
	return nodes
}
