package processors

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"github.com/hashicorp/go-set/v3"
	"github.com/samber/lo"
)

type Report struct {
	Function       *casetree.Function
	Hits           []int
	Redundant      []int
	Splits         int
	Contradictions int
	Holes          int
}

// Check walks a built case tree. It returns redundancy warnings, and an error
// when a hole is left or the tree mentions a variable it does not bind.
func Check(fn *casetree.Function, equations []*pattern.Equation) (*Report, []error, error) {
	report := &Report{Function: fn, Hits: make([]int, fn.Equations)}
	reached := set.New[int](len(equations))
	var holes []*casetree.Unreachable

	scope := set.From(append(fn.Definition.ContextNames(), fn.Definition.ParamNames()...))
	var walk func(n casetree.Node, scope *set.Set[ast.Identifier]) error
	walk = func(n casetree.Node, scope *set.Set[ast.Identifier]) error {
		switch e := n.(type) {
		case *casetree.Split:
			report.Splits++
			if err := closed(e.Scrutinee, scope, fn); err != nil {
				return err
			}
			for _, b := range e.Branches {
				inner := scope.Copy()
				inner.InsertSlice(b.Fields)
				if err := walk(b.Body, inner); err != nil {
					return err
				}
			}
		case *casetree.Leaf:
			if e.Equation < 0 || e.Equation >= len(report.Hits) {
				return common.NewCompilerError(fmt.Sprintf("leaf selects unknown equation %d", e.Equation))
			}
			report.Hits[e.Equation]++
			reached.Insert(e.Equation)
			return closed(e.Body, scope, fn)
		case *casetree.Contradiction:
			report.Contradictions++
		case *casetree.Unreachable:
			report.Holes++
			holes = append(holes, e)
		case nil:
			return common.NewCompilerError("case tree has an empty branch")
		}
		return nil
	}
	if err := walk(fn.Body, scope); err != nil {
		return report, nil, err
	}

	var warnings []error
	for _, eq := range equations {
		if !reached.Contains(eq.Index) {
			report.Redundant = append(report.Redundant, eq.Index)
			warnings = append(warnings, common.RedundantEquationWarning{Location: eq.Location, Equation: eq.Index})
		}
	}

	if len(holes) > 0 {
		first := holes[0]
		return report, warnings, common.NonExhaustiveMatchError{
			Location:           fn.Definition.Location,
			ScrutineePath:      first.Path,
			MissingConstructor: first.Constructor,
			Missing: lo.Uniq(lo.Map(holes, func(h *casetree.Unreachable, _ int) string {
				return casetree.WitnessString(h.Witness)
			})),
		}
	}
	return report, warnings, nil
}

func closed(t term.Term, scope *set.Set[ast.Identifier], fn *casetree.Function) error {
	for _, v := range term.FreeVars(t).Slice() {
		if !scope.Contains(v) {
			return common.NewCompilerError(fmt.Sprintf("`%s` mentions `%s` which is not bound in `%s`", t, v, fn.Name()))
		}
	}
	return nil
}
