package depmatch

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"depmatch/internal/pkg/loader"
	"depmatch/internal/pkg/processors"
)

type Program struct {
	Environment *processors.Environment
	Functions   []*casetree.Function
	Reports     map[ast.FunctionIdentifier]*processors.Report
	Fuel        int
}

func CompileFile(filePath string, options processors.Options, log *common.LogWriter) *Program {
	module, err := loader.Load(filePath)
	if err != nil {
		log.Err(err)
		return nil
	}
	return Compile(module, options, log)
}

// Compile declares every type and function signature of module, then
// compiles the functions in order. A failing function does not stop the rest.
func Compile(module *loader.Module, options processors.Options, log *common.LogWriter) *Program {
	table := signature.NewTable()
	for _, it := range module.Types {
		if err := table.Declare(it); err != nil {
			log.Err(err)
		}
	}

	program := &Program{
		Environment: processors.NewEnvironment(table),
		Reports:     map[ast.FunctionIdentifier]*processors.Report{},
		Fuel:        options.Fuel,
	}
	for _, fn := range module.Functions {
		if err := program.Environment.Declare(fn.Definition); err != nil {
			log.Err(err)
		}
	}
	for _, fn := range module.Functions {
		compiled, report := processors.Compile(log, program.Environment, fn.Definition, fn.Equations, options)
		if report != nil {
			program.Reports[fn.Definition.Name] = report
		}
		if compiled != nil {
			program.Functions = append(program.Functions, compiled)
			log.Info("compiled `%s`: %d splits, %d contradictions", compiled.Name(), report.Splits, report.Contradictions)
		}
	}
	return program
}

func (p *Program) Table() *signature.Table {
	return p.Environment.Table
}

// Eval parses a term in YAML flow syntax and evaluates it with the compiled functions.
func (p *Program) Eval(input string) (term.Term, error) {
	t, err := loader.ParseTerm(p.Table(), input)
	if err != nil {
		return nil, err
	}
	if free := term.FreeVars(t); free.Size() > 0 {
		return nil, fmt.Errorf("term `%s` has free variables", t)
	}
	evaluator := processors.NewEvaluator(p.Environment)
	if p.Fuel > 0 {
		evaluator.Fuel = p.Fuel
	}
	result, err := evaluator.Eval(t)
	if err != nil {
		return nil, err
	}
	return p.Table().Pretty(result), nil
}
