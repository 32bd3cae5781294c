package signature

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
)

// Table holds the declared inductive types. It is written while declaring and
// only read while compiling.
type Table struct {
	types   map[ast.TypeIdentifier]*InductiveType
	ctors   map[ast.ConstructorIdentifier]*Constructor
	order   []ast.TypeIdentifier
	numeral *InductiveType
}

func NewTable() *Table {
	return &Table{
		types: map[ast.TypeIdentifier]*InductiveType{},
		ctors: map[ast.ConstructorIdentifier]*Constructor{},
	}
}

func (t *Table) Declare(it *InductiveType) error {
	if _, ok := t.types[it.Name]; ok {
		return common.NewErrorAt(it.Location, "type `%s` is already declared", it.Name)
	}
	seen := map[ast.ConstructorIdentifier]struct{}{}
	for _, c := range it.Constructors {
		if _, ok := seen[c.Name]; ok {
			return common.NewErrorAt(c.Location, "constructor `%s` is declared twice in `%s`", c.Name, it.Name)
		}
		if other, ok := t.ctors[c.Name]; ok {
			return common.Error{
				Location: c.Location,
				Extra:    []ast.Location{other.Location},
				Message:  fmt.Sprintf("constructor `%s` is already declared by `%s`", c.Name, other.Owner.Name),
			}
		}
		if len(c.Result) != len(it.Indices) {
			return common.NewErrorAt(c.Location,
				"constructor `%s` produces %d indices, `%s` expects %d",
				c.Name, len(c.Result), it.Name, len(it.Indices))
		}
		seen[c.Name] = struct{}{}
	}
	if it.Numeral != nil {
		if t.numeral != nil {
			return common.NewErrorAt(it.Location,
				"`%s` cannot be a numeral type, `%s` already is", it.Name, t.numeral.Name)
		}
		if err := checkNumeral(it); err != nil {
			return err
		}
	}

	for _, c := range it.Constructors {
		c.Owner = it
		t.ctors[c.Name] = c
	}
	t.types[it.Name] = it
	t.order = append(t.order, it.Name)
	if it.Numeral != nil {
		t.numeral = it
	}
	return nil
}

func checkNumeral(it *InductiveType) error {
	zero, ok := it.Constructor(it.Numeral.Zero)
	if !ok || zero.Arity() != 0 {
		return common.NewErrorAt(it.Location, "numeral zero `%s` must be a constant constructor of `%s`",
			it.Numeral.Zero, it.Name)
	}
	succ, ok := it.Constructor(it.Numeral.Succ)
	if !ok || succ.Arity() != 1 || succ.Args[0].Type.Name != it.Name {
		return common.NewErrorAt(it.Location, "numeral successor `%s` must take one `%s`",
			it.Numeral.Succ, it.Name)
	}
	return nil
}

func (t *Table) Type(name ast.TypeIdentifier) (*InductiveType, bool) {
	it, ok := t.types[name]
	return it, ok
}

func (t *Table) Constructor(name ast.ConstructorIdentifier) (*Constructor, bool) {
	c, ok := t.ctors[name]
	return c, ok
}

func (t *Table) Types() []*InductiveType {
	return common.Map(func(n ast.TypeIdentifier) *InductiveType { return t.types[n] }, t.order)
}

func (t *Table) Numeral() (*InductiveType, bool) {
	return t.numeral, t.numeral != nil
}

func (t *Table) MaxArity() int {
	result := 0
	for _, c := range t.ctors {
		if c.Arity() > result {
			result = c.Arity()
		}
	}
	return result
}

func (t *Table) ExpandNumeral(n uint64) (term.Term, bool) {
	if t.numeral == nil || n > term.MaxNumeral {
		return nil, false
	}
	var result term.Term = term.Ctor{Name: t.numeral.Numeral.Zero}
	for i := uint64(0); i < n; i++ {
		result = term.Ctor{Name: t.numeral.Numeral.Succ, Args: []term.Term{result}}
	}
	return result, true
}

func (t *Table) AsNumeral(x term.Term) (uint64, bool) {
	if t.numeral == nil {
		return 0, false
	}
	n := uint64(0)
	for {
		switch e := x.(type) {
		case term.Lit:
			return n + e.Value, true
		case term.Ctor:
			if e.Name == t.numeral.Numeral.Zero {
				return n, true
			}
			if e.Name == t.numeral.Numeral.Succ {
				n++
				x = e.Args[0]
				continue
			}
		}
		return 0, false
	}
}

// Pretty folds closed numerals back into literals for display.
func (t *Table) Pretty(x term.Term) term.Term {
	if n, ok := t.AsNumeral(x); ok {
		return term.Lit{Value: n}
	}
	switch e := x.(type) {
	case term.Ctor:
		return term.Ctor{Name: e.Name, Args: common.Map(t.Pretty, e.Args)}
	case term.Call:
		return term.Call{Func: e.Func, Args: common.Map(t.Pretty, e.Args)}
	}
	return x
}
