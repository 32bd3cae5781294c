package signature

import (
	"strings"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
)

// TypeRef is an inductive type applied to its parameters followed by its
// indices, or an opaque type (variable) with no arguments.
type TypeRef struct {
	Name ast.TypeIdentifier
	Args []term.Term
}

func (t TypeRef) String() string {
	sb := strings.Builder{}
	sb.WriteString(string(t.Name))
	for _, a := range t.Args {
		sb.WriteString(" ")
		sb.WriteString(term.Parenthesize(a))
	}
	return sb.String()
}

func (t TypeRef) EqualsTo(o TypeRef) bool {
	return t.Name == o.Name && term.EqualAll(t.Args, o.Args)
}

// Subst applies s to the arguments. A bare type variable bound in s is
// replaced by the type its value denotes.
func (t TypeRef) Subst(s term.Substitution) TypeRef {
	if len(t.Args) == 0 {
		if v, ok := s[ast.Identifier(t.Name)]; ok {
			if r, ok := TypeOfTerm(v); ok {
				return r
			}
		}
	}
	return TypeRef{Name: t.Name, Args: term.ApplyAll(t.Args, s)}
}

func (t TypeRef) Term() term.Term {
	if len(t.Args) == 0 {
		return term.Var{Name: ast.Identifier(t.Name)}
	}
	return term.Call{Func: ast.FunctionIdentifier(t.Name), Args: t.Args}
}

// TypeOfTerm reads a type argument back as a type: `Nat` or `List Nat`.
func TypeOfTerm(t term.Term) (TypeRef, bool) {
	switch e := t.(type) {
	case term.Var:
		return TypeRef{Name: ast.TypeIdentifier(e.Name)}, true
	case term.Call:
		return TypeRef{Name: ast.TypeIdentifier(e.Func), Args: e.Args}, true
	}
	return TypeRef{}, false
}

type Param struct {
	Name ast.Identifier
	Type TypeRef
}

func (p Param) String() string {
	return "(" + string(p.Name) + " : " + p.Type.String() + ")"
}
