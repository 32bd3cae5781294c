package term

import (
	"fmt"
	"strconv"
	"strings"

	"depmatch/internal/pkg/ast"
	"github.com/hashicorp/go-set/v3"
)

type Term interface {
	fmt.Stringer
	_term()
	EqualsTo(other Term) bool
}

type Var struct {
	Name ast.Identifier
}

func (Var) _term() {}

func (t Var) String() string {
	return string(t.Name)
}

func (t Var) EqualsTo(other Term) bool {
	o, ok := other.(Var)
	return ok && o.Name == t.Name
}

type Ctor struct {
	Name ast.ConstructorIdentifier
	Args []Term
}

func (Ctor) _term() {}

func (t Ctor) String() string {
	return applicationString(string(t.Name), t.Args)
}

func (t Ctor) EqualsTo(other Term) bool {
	o, ok := other.(Ctor)
	return ok && o.Name == t.Name && equalArgs(t.Args, o.Args)
}

// Call applies a defined function. Type applications inside type arguments
// use the same node with the type name as Func.
type Call struct {
	Func ast.FunctionIdentifier
	Args []Term
}

func (Call) _term() {}

func (t Call) String() string {
	return applicationString(string(t.Func), t.Args)
}

func (t Call) EqualsTo(other Term) bool {
	o, ok := other.(Call)
	return ok && o.Func == t.Func && equalArgs(t.Args, o.Args)
}

// MaxNumeral bounds the literals that expand to succ^n zero.
const MaxNumeral = 1 << 16

type Lit struct {
	Value uint64
}

func (Lit) _term() {}

func (t Lit) String() string {
	return strconv.FormatUint(t.Value, 10)
}

func (t Lit) EqualsTo(other Term) bool {
	o, ok := other.(Lit)
	return ok && o.Value == t.Value
}

func Vars(names []ast.Identifier) []Term {
	result := make([]Term, len(names))
	for i, n := range names {
		result[i] = Var{Name: n}
	}
	return result
}

func EqualAll(xs, ys []Term) bool {
	return equalArgs(xs, ys)
}

func equalArgs(xs, ys []Term) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i, x := range xs {
		if !x.EqualsTo(ys[i]) {
			return false
		}
	}
	return true
}

func applicationString(head string, args []Term) string {
	if len(args) == 0 {
		return head
	}
	sb := strings.Builder{}
	sb.WriteString(head)
	for _, a := range args {
		sb.WriteString(" ")
		sb.WriteString(Parenthesize(a))
	}
	return sb.String()
}

// Parenthesize wraps applications with arguments so they can be printed in argument position.
func Parenthesize(t Term) string {
	switch e := t.(type) {
	case Ctor:
		if len(e.Args) > 0 {
			return "(" + e.String() + ")"
		}
	case Call:
		if len(e.Args) > 0 {
			return "(" + e.String() + ")"
		}
	}
	return t.String()
}

func FreeVars(t Term) *set.Set[ast.Identifier] {
	result := set.New[ast.Identifier](4)
	collectVars(t, result)
	return result
}

func collectVars(t Term, acc *set.Set[ast.Identifier]) {
	switch e := t.(type) {
	case Var:
		acc.Insert(e.Name)
	case Ctor:
		for _, a := range e.Args {
			collectVars(a, acc)
		}
	case Call:
		for _, a := range e.Args {
			collectVars(a, acc)
		}
	}
}

func Occurs(name ast.Identifier, t Term) bool {
	return FreeVars(t).Contains(name)
}

// OccursRigid reports whether name occurs in t under constructors only,
// which makes `name = t` unsolvable.
func OccursRigid(name ast.Identifier, t Term) bool {
	switch e := t.(type) {
	case Var:
		return e.Name == name
	case Ctor:
		for _, a := range e.Args {
			if OccursRigid(name, a) {
				return true
			}
		}
	}
	return false
}

func Size(t Term) int {
	switch e := t.(type) {
	case Ctor:
		n := 1
		for _, a := range e.Args {
			n += Size(a)
		}
		return n
	case Call:
		n := 1
		for _, a := range e.Args {
			n += Size(a)
		}
		return n
	}
	return 1
}
