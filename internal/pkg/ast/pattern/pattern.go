package pattern

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
	"golang.org/x/exp/slices"
)

type Pattern interface {
	fmt.Stringer
	_pattern()
	GetLocation() ast.Location
}

func Parenthesize(p Pattern) string {
	switch e := p.(type) {
	case *PCtor:
		if len(e.Args) > 0 {
			return "(" + e.String() + ")"
		}
	case *PTerm:
		return term.Parenthesize(e.Term)
	}
	return p.String()
}

// IsIrrefutable reports whether p matches every value without inspecting it.
func IsIrrefutable(p Pattern) bool {
	switch p.(type) {
	case *PVar, *PAny, *PInaccessible:
		return true
	}
	return false
}

func BoundVariables(p Pattern) []ast.Identifier {
	switch e := p.(type) {
	case *PVar:
		return []ast.Identifier{e.Name}
	case *PCtor:
		var result []ast.Identifier
		for _, a := range e.Args {
			result = append(result, BoundVariables(a)...)
		}
		return result
	case *PTerm:
		vars := term.FreeVars(e.Term).Slice()
		slices.Sort(vars)
		return vars
	}
	return nil
}

func CountConstructors(p Pattern) int {
	switch e := p.(type) {
	case *PCtor:
		n := 1
		for _, a := range e.Args {
			n += CountConstructors(a)
		}
		return n
	case *PLit:
		return int(min(e.Value, term.MaxNumeral)) + 1
	case *PTerm:
		return term.Size(e.Term)
	}
	return 0
}

// FromTerm converts a reduced term back into a pattern. When the term still
// holds an application, that subterm is returned instead.
func FromTerm(t term.Term, loc ast.Location) (Pattern, term.Term) {
	switch e := t.(type) {
	case term.Var:
		return &PVar{Location: loc, Name: e.Name}, nil
	case term.Lit:
		return &PLit{Location: loc, Value: e.Value}, nil
	case term.Ctor:
		args := make([]Pattern, len(e.Args))
		for i, a := range e.Args {
			p, stuck := FromTerm(a, loc)
			if stuck != nil {
				return nil, stuck
			}
			args[i] = p
		}
		return &PCtor{Location: loc, Name: e.Name, Args: args}, nil
	}
	return nil, t
}
