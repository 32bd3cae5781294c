package signature

import (
	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
)

type InductiveType struct {
	ast.Location
	Name         ast.TypeIdentifier
	Params       []ast.Identifier
	Indices      []Param
	Constructors []*Constructor
	Numeral      *Numeral
}

// Numeral marks a type whose literals n stand for Succ^n Zero.
type Numeral struct {
	Zero ast.ConstructorIdentifier
	Succ ast.ConstructorIdentifier
}

func (it *InductiveType) Constructor(name ast.ConstructorIdentifier) (*Constructor, bool) {
	for _, c := range it.Constructors {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SplitArgs separates the parameters of a reference to this type from its indices.
func (it *InductiveType) SplitArgs(ref TypeRef) (params []term.Term, indices []term.Term) {
	n := len(it.Params)
	if n > len(ref.Args) {
		n = len(ref.Args)
	}
	return ref.Args[:n], ref.Args[n:]
}

type Constructor struct {
	ast.Location
	Name   ast.ConstructorIdentifier
	Owner  *InductiveType
	Args   []Param
	Result []term.Term
}

func (c *Constructor) Arity() int {
	return len(c.Args)
}

func (c *Constructor) ArgNames() []ast.Identifier {
	result := make([]ast.Identifier, len(c.Args))
	for i, a := range c.Args {
		result[i] = a.Name
	}
	return result
}

// Instantiate types the constructor fields for the given parameter values,
// naming the fields by `fields`, and returns the indices it produces.
func (c *Constructor) Instantiate(params []term.Term, fields []ast.Identifier) ([]TypeRef, []term.Term) {
	s := term.Substitution{}
	for i, p := range c.Owner.Params {
		if i < len(params) {
			s[p] = params[i]
		}
	}
	argTypes := make([]TypeRef, len(c.Args))
	for i, a := range c.Args {
		argTypes[i] = a.Type.Subst(s)
		s[a.Name] = term.Var{Name: fields[i]}
	}
	return argTypes, term.ApplyAll(c.Result, s)
}
