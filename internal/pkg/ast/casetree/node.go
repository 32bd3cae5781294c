package casetree

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
)

type Node interface {
	fmt.Stringer
	_node()
}

// Split is one case analysis step on Scrutinee, with one branch per
// constructor of Type in declaration order.
type Split struct {
	Scrutinee term.Term
	Path      string
	Type      signature.TypeRef
	Branches  []*Branch
}

func (*Split) _node() {}

func (n *Split) String() string {
	return fmt.Sprintf("Split(%s : %s){%d}", n.Scrutinee, n.Type, len(n.Branches))
}

func (n *Split) Branch(name ast.ConstructorIdentifier) (*Branch, bool) {
	for _, b := range n.Branches {
		if b.Constructor == name {
			return b, true
		}
	}
	return nil, false
}

type Branch struct {
	Constructor ast.ConstructorIdentifier
	Fields      []ast.Identifier
	// Equalities holds the index equations solved when entering the branch.
	Equalities term.Substitution
	Body       Node
}

type Binding struct {
	Name  ast.Identifier
	Value term.Term
}

func (b Binding) String() string {
	return fmt.Sprintf("%s := %s", b.Name, b.Value)
}

// Leaf selects an equation; Body is its right-hand side over the variables of the tree.
type Leaf struct {
	Equation int
	Bindings []Binding
	Body     term.Term
}

func (*Leaf) _node() {}

func (n *Leaf) String() string {
	return fmt.Sprintf("Leaf(%d){%s}", n.Equation, n.Body)
}

// Contradiction closes a branch whose constructor cannot produce the required indices.
type Contradiction struct {
	Constructor ast.ConstructorIdentifier
	Required    []term.Term
	Produced    []term.Term
}

func (*Contradiction) _node() {}

func (n *Contradiction) String() string {
	return fmt.Sprintf("Contradiction(%s){%v ≠ %v}", n.Constructor, n.Required, n.Produced)
}

// Unreachable is a branch no equation covers and that could not be shown
// empty: a coverage hole. Witness lists the parameters as far as they were split.
type Unreachable struct {
	Path        string
	Constructor ast.ConstructorIdentifier
	Witness     []term.Term
}

func (*Unreachable) _node() {}

func (n *Unreachable) String() string {
	return fmt.Sprintf("Unreachable(%s,%s)", n.Path, n.Constructor)
}
