package processors

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"github.com/hashicorp/go-set/v3"
)

// Normalizer rewrites literal and term patterns into constructor patterns
// and validates the equations against the function signature. It never
// mutates its input.
type Normalizer struct {
	env     *Environment
	reducer Reducer
}

func NewNormalizer(env *Environment, reducer Reducer) *Normalizer {
	return &Normalizer{env: env, reducer: reducer}
}

func (n *Normalizer) Normalize(def *signature.Definition, equations []*pattern.Equation) ([]*pattern.Equation, []error) {
	var errs []error
	result := make([]*pattern.Equation, 0, len(equations))
	for _, eq := range equations {
		normalized, err := n.NormalizeEquation(def, eq)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, normalized)
	}
	return result, errs
}

func (n *Normalizer) NormalizeEquation(def *signature.Definition, eq *pattern.Equation) (*pattern.Equation, error) {
	if len(eq.Patterns) != len(def.Params) {
		return nil, common.NewErrorAt(eq.Location,
			"equation %d: `%s` expects %d patterns, got %d", eq.Index+1, def.Name, len(def.Params), len(eq.Patterns))
	}

	ctx := &normalization{
		Normalizer: n,
		equation:   eq,
		bound:      set.New[ast.Identifier](8),
	}
	patterns := make([]pattern.Pattern, len(eq.Patterns))
	for i, p := range eq.Patterns {
		np, err := ctx.pattern(p, def.Params[i].Type)
		if err != nil {
			return nil, err
		}
		patterns[i] = np
	}

	scope := ctx.bound.Copy()
	scope.InsertSlice(def.ContextNames())
	for _, p := range patterns {
		if err := ctx.checkInaccessible(p, scope); err != nil {
			return nil, err
		}
	}
	if err := n.checkTerm(eq.RHS, scope, eq); err != nil {
		return nil, err
	}

	return &pattern.Equation{
		Location: eq.Location,
		Index:    eq.Index,
		Patterns: patterns,
		RHS:      eq.RHS,
	}, nil
}

type normalization struct {
	*Normalizer
	equation *pattern.Equation
	bound    *set.Set[ast.Identifier]
}

func (ctx *normalization) pattern(p pattern.Pattern, expected signature.TypeRef) (pattern.Pattern, error) {
	switch e := p.(type) {
	case *pattern.PVar:
		if !ctx.bound.Insert(e.Name) {
			return nil, common.NonLinearPatternError{Location: e.Location, Equation: ctx.equation.Index, Variable: e.Name}
		}
		return e, nil
	case *pattern.PAny, *pattern.PInaccessible:
		return p, nil
	case *pattern.PCtor:
		return ctx.constructor(e, expected)
	case *pattern.PLit:
		if e.Value > term.MaxNumeral {
			return nil, common.NumeralTooLargeError{Location: e.Location, Value: e.Value, Limit: term.MaxNumeral}
		}
		numeral, ok := ctx.env.Table.Numeral()
		if !ok || numeral.Name != expected.Name {
			return nil, ctx.irreducible(e.Location, e.String())
		}
		x, _ := ctx.env.Table.ExpandNumeral(e.Value)
		np, _ := pattern.FromTerm(x, e.Location)
		return ctx.pattern(np, expected)
	case *pattern.PTerm:
		if err := ctx.checkTerm(e.Term, nil, ctx.equation); err != nil {
			return nil, err
		}
		reduced := e.Term
		if ctx.reducer != nil {
			reduced = ctx.reducer.Reduce(e.Term)
		}
		np, stuck := pattern.FromTerm(reduced, e.Location)
		if stuck != nil {
			return nil, ctx.irreducible(e.Location, stuck.String())
		}
		return ctx.pattern(np, expected)
	}
	return nil, common.NewCompilerError(fmt.Sprintf("unexpected pattern `%v`", p))
}

func (ctx *normalization) constructor(p *pattern.PCtor, expected signature.TypeRef) (pattern.Pattern, error) {
	c, ok := ctx.env.Table.Constructor(p.Name)
	if !ok {
		return nil, common.NewErrorAt(p.Location, "equation %d: unknown constructor `%s`", ctx.equation.Index+1, p.Name)
	}
	if c.Owner.Name != expected.Name {
		return nil, common.NewErrorAt(p.Location,
			"equation %d: constructor `%s` of `%s` used where `%s` is expected",
			ctx.equation.Index+1, p.Name, c.Owner.Name, expected)
	}
	if len(p.Args) != c.Arity() {
		return nil, common.NewErrorAt(p.Location,
			"equation %d: constructor `%s` takes %d arguments, got %d",
			ctx.equation.Index+1, p.Name, c.Arity(), len(p.Args))
	}
	params, _ := c.Owner.SplitArgs(expected)
	argTypes, _ := c.Instantiate(params, c.ArgNames())
	args := make([]pattern.Pattern, len(p.Args))
	for i, a := range p.Args {
		np, err := ctx.pattern(a, argTypes[i])
		if err != nil {
			return nil, err
		}
		args[i] = np
	}
	return &pattern.PCtor{Location: p.Location, Name: p.Name, Args: args}, nil
}

func (ctx *normalization) irreducible(loc ast.Location, subterm string) error {
	if loc.IsEmpty() {
		loc = ctx.equation.Location
	}
	return common.IrreduciblePatternError{Location: loc, Equation: ctx.equation.Index, Subterm: subterm}
}

func (ctx *normalization) checkInaccessible(p pattern.Pattern, scope *set.Set[ast.Identifier]) error {
	switch e := p.(type) {
	case *pattern.PInaccessible:
		return ctx.checkTerm(e.Term, scope, ctx.equation)
	case *pattern.PCtor:
		for _, a := range e.Args {
			if err := ctx.checkInaccessible(a, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkTerm validates constructor and function applications in t, and
// when scope is given, that every variable of t is in scope.
func (n *Normalizer) checkTerm(t term.Term, scope *set.Set[ast.Identifier], eq *pattern.Equation) error {
	switch e := t.(type) {
	case term.Var:
		if scope != nil && !scope.Contains(e.Name) {
			return common.NewErrorAt(eq.Location, "equation %d: unbound variable `%s`", eq.Index+1, e.Name)
		}
	case term.Ctor:
		c, ok := n.env.Table.Constructor(e.Name)
		if !ok {
			return common.NewErrorAt(eq.Location, "equation %d: unknown constructor `%s`", eq.Index+1, e.Name)
		}
		if len(e.Args) != c.Arity() {
			return common.NewErrorAt(eq.Location, "equation %d: constructor `%s` takes %d arguments, got %d",
				eq.Index+1, e.Name, c.Arity(), len(e.Args))
		}
		for _, a := range e.Args {
			if err := n.checkTerm(a, scope, eq); err != nil {
				return err
			}
		}
	case term.Call:
		def, ok := n.env.Declaration(e.Func)
		if !ok {
			return common.NewErrorAt(eq.Location, "equation %d: unknown function `%s`", eq.Index+1, e.Func)
		}
		if len(e.Args) != len(def.Params) {
			return common.NewErrorAt(eq.Location, "equation %d: function `%s` takes %d arguments, got %d",
				eq.Index+1, e.Func, len(def.Params), len(e.Args))
		}
		for _, a := range e.Args {
			if err := n.checkTerm(a, scope, eq); err != nil {
				return err
			}
		}
	case term.Lit:
		if e.Value > term.MaxNumeral {
			return common.NumeralTooLargeError{Location: eq.Location, Value: e.Value, Limit: term.MaxNumeral}
		}
		if _, ok := n.env.Table.Numeral(); !ok {
			return common.NewErrorAt(eq.Location, "equation %d: numeral `%s` used but no numeral type is declared",
				eq.Index+1, e)
		}
	}
	return nil
}
