package processors

import (
	"errors"
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
)

var (
	ErrStuck         = errors.New("evaluation is stuck")
	ErrContradiction = errors.New("reached a contradiction branch")
	ErrUnreachable   = errors.New("reached an uncovered case")
	ErrOutOfFuel     = errors.New("evaluation ran out of fuel")
)

const DefaultFuel = 1_000_000

// Reducer brings a term to its constructor-headed form as far as the
// compiled functions allow, leaving stuck applications in place.
type Reducer interface {
	Reduce(t term.Term) term.Term
}

// Evaluator runs compiled case trees using only the primitive reductions:
// casesOn on a constructor value, and substitution of the selected equation.
type Evaluator struct {
	env  *Environment
	Fuel int
}

func NewEvaluator(env *Environment) *Evaluator {
	return &Evaluator{env: env, Fuel: DefaultFuel}
}

func (e *Evaluator) Eval(t term.Term) (term.Term, error) {
	m := machine{env: e.env, fuel: e.Fuel}
	return m.eval(t)
}

func (e *Evaluator) Call(name ast.FunctionIdentifier, args ...term.Term) (term.Term, error) {
	return e.Eval(term.Call{Func: name, Args: args})
}

func (e *Evaluator) Reduce(t term.Term) term.Term {
	m := machine{env: e.env, fuel: e.Fuel, symbolic: true}
	r, err := m.eval(t)
	if err != nil {
		return t
	}
	return r
}

type machine struct {
	env      *Environment
	fuel     int
	symbolic bool
}

func (m *machine) tick() error {
	m.fuel--
	if m.fuel < 0 {
		return ErrOutOfFuel
	}
	return nil
}

func (m *machine) eval(t term.Term) (term.Term, error) {
	if err := m.tick(); err != nil {
		return nil, err
	}
	switch e := t.(type) {
	case term.Var:
		if m.symbolic {
			return e, nil
		}
		return nil, fmt.Errorf("%w: free variable `%s`", ErrStuck, e.Name)
	case term.Lit:
		if e.Value > uint64(max(m.fuel, 0)) {
			return nil, ErrOutOfFuel
		}
		m.fuel -= int(e.Value)
		if x, ok := m.env.Table.ExpandNumeral(e.Value); ok {
			return x, nil
		}
		return e, nil
	case term.Ctor:
		args, err := m.evalAll(e.Args)
		if err != nil {
			return nil, err
		}
		return term.Ctor{Name: e.Name, Args: args}, nil
	case term.Call:
		args, err := m.evalAll(e.Args)
		if err != nil {
			return nil, err
		}
		fn, ok := m.env.Function(e.Func)
		if !ok {
			if m.symbolic {
				return term.Call{Func: e.Func, Args: args}, nil
			}
			return nil, fmt.Errorf("%w: function `%s` is not compiled", ErrStuck, e.Func)
		}
		r, err := m.apply(fn, args)
		if err != nil {
			if m.symbolic && !errors.Is(err, ErrOutOfFuel) {
				return term.Call{Func: e.Func, Args: args}, nil
			}
			return nil, err
		}
		return r, nil
	}
	return nil, common.NewCompilerError(fmt.Sprintf("unexpected term `%v`", t))
}

func (m *machine) evalAll(ts []term.Term) ([]term.Term, error) {
	return common.MapError(m.eval, ts)
}

func (m *machine) apply(fn *casetree.Function, args []term.Term) (term.Term, error) {
	params := fn.Definition.Params
	if len(args) != len(params) {
		return nil, fmt.Errorf("%w: `%s` expects %d arguments, got %d", ErrStuck, fn.Name(), len(params), len(args))
	}
	env := term.Substitution{}
	for i, p := range params {
		env[p.Name] = args[i]
	}

	node := fn.Body
	for {
		if err := m.tick(); err != nil {
			return nil, err
		}
		switch n := node.(type) {
		case *casetree.Split:
			v, err := m.eval(term.Apply(n.Scrutinee, env))
			if err != nil {
				return nil, err
			}
			c, ok := v.(term.Ctor)
			if !ok {
				return nil, fmt.Errorf("%w: cannot split `%s` on `%s`", ErrStuck, fn.Name(), v)
			}
			b, ok := n.Branch(c.Name)
			if !ok || len(b.Fields) != len(c.Args) {
				return nil, fmt.Errorf("%w: `%s` is not a constructor of `%s`", ErrStuck, c.Name, n.Type.Name)
			}
			for i, f := range b.Fields {
				env[f] = c.Args[i]
			}
			node = b.Body
		case *casetree.Leaf:
			return m.eval(term.Apply(n.Body, env))
		case *casetree.Contradiction:
			return nil, fmt.Errorf("%w: `%s` in `%s`", ErrContradiction, n.Constructor, fn.Name())
		case *casetree.Unreachable:
			return nil, fmt.Errorf("%w: `%s` in `%s`", ErrUnreachable, n.Path, fn.Name())
		default:
			return nil, common.NewCompilerError(fmt.Sprintf("unexpected case tree node `%v`", node))
		}
	}
}
