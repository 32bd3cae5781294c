package processors

import (
	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/common"
)

// Environment is the read-only context of a compilation: declared types,
// declared function signatures and already compiled functions.
type Environment struct {
	Table        *signature.Table
	declarations map[ast.FunctionIdentifier]*signature.Definition
	functions    map[ast.FunctionIdentifier]*casetree.Function
	order        []ast.FunctionIdentifier
}

func NewEnvironment(table *signature.Table) *Environment {
	return &Environment{
		Table:        table,
		declarations: map[ast.FunctionIdentifier]*signature.Definition{},
		functions:    map[ast.FunctionIdentifier]*casetree.Function{},
	}
}

func (env *Environment) Declare(def *signature.Definition) error {
	if existing, ok := env.declarations[def.Name]; ok && existing != def {
		return common.Error{
			Location: def.Location,
			Extra:    []ast.Location{existing.Location},
			Message:  "function `" + string(def.Name) + "` is already declared",
		}
	}
	env.declarations[def.Name] = def
	return nil
}

func (env *Environment) Declaration(name ast.FunctionIdentifier) (*signature.Definition, bool) {
	def, ok := env.declarations[name]
	return def, ok
}

func (env *Environment) Register(fn *casetree.Function) error {
	if _, ok := env.functions[fn.Name()]; ok {
		return common.NewErrorAt(fn.Definition.Location, "function `%s` is already compiled", fn.Name())
	}
	if err := env.Declare(fn.Definition); err != nil {
		return err
	}
	env.functions[fn.Name()] = fn
	env.order = append(env.order, fn.Name())
	return nil
}

func (env *Environment) Function(name ast.FunctionIdentifier) (*casetree.Function, bool) {
	fn, ok := env.functions[name]
	return fn, ok
}

func (env *Environment) Functions() []*casetree.Function {
	return common.Map(func(n ast.FunctionIdentifier) *casetree.Function { return env.functions[n] }, env.order)
}
