package loader

import (
	"os"
	"regexp"
	"strconv"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"gopkg.in/yaml.v3"
)

// Module is a decoded definition file: inductive types in declaration order
// and functions in compilation order.
type Module struct {
	FilePath  string
	Types     []*signature.InductiveType
	Functions []*Function
}

type Function struct {
	Definition *signature.Definition
	Equations  []*pattern.Equation
}

type document struct {
	Types     []typeDecl     `yaml:"types"`
	Functions []functionDecl `yaml:"functions"`
}

type typeDecl struct {
	Name         yaml.Node    `yaml:"name"`
	Params       []string     `yaml:"params"`
	Indices      []yaml.Node  `yaml:"indices"`
	Numeral      *numeralDecl `yaml:"numeral"`
	Constructors []ctorDecl   `yaml:"constructors"`
}

type numeralDecl struct {
	Zero string `yaml:"zero"`
	Succ string `yaml:"succ"`
}

type ctorDecl struct {
	Name   yaml.Node   `yaml:"name"`
	Args   []yaml.Node `yaml:"args"`
	Result []yaml.Node `yaml:"result"`
}

type functionDecl struct {
	Name      yaml.Node      `yaml:"name"`
	Context   []yaml.Node    `yaml:"context"`
	Params    []yaml.Node    `yaml:"params"`
	Result    yaml.Node      `yaml:"result"`
	Equations []equationDecl `yaml:"equations"`
}

type equationDecl struct {
	LHS yaml.Node `yaml:"lhs"`
	RHS yaml.Node `yaml:"rhs"`
}

func Load(filePath string) (*Module, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.NewSystemError(err)
	}
	return Parse(filePath, data)
}

// Parse decodes a definition file. Constructors are recognized by name across
// the whole file, every other head of an application is a function.
func Parse(filePath string, data []byte) (*Module, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, decodeError(filePath, err)
	}

	ctors := map[string]struct{}{}
	for _, td := range doc.Types {
		for _, cd := range td.Constructors {
			ctors[cd.Name.Value] = struct{}{}
		}
	}
	r := &resolver{
		filePath: filePath,
		isCtor: func(name string) bool {
			_, ok := ctors[name]
			return ok
		},
	}

	module := &Module{FilePath: filePath}
	for _, td := range doc.Types {
		it, err := r.inductive(td)
		if err != nil {
			return nil, err
		}
		module.Types = append(module.Types, it)
	}
	for _, fd := range doc.Functions {
		fn, err := r.function(fd)
		if err != nil {
			return nil, err
		}
		module.Functions = append(module.Functions, fn)
	}
	return module, nil
}

// ParseTerm decodes a single term in YAML flow syntax, e.g. `[add, 2, [succ, zero]]`.
func ParseTerm(table *signature.Table, input string) (term.Term, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(input), &node); err != nil {
		return nil, common.NewErrorAt(ast.Location{}, "%s", err.Error())
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = *node.Content[0]
	}
	r := &resolver{
		isCtor: func(name string) bool {
			_, ok := table.Constructor(ast.ConstructorIdentifier(name))
			return ok
		},
	}
	return r.term(&node)
}

type resolver struct {
	filePath string
	isCtor   func(name string) bool
}

var errorLine = regexp.MustCompile(`line (\d+):`)

// decodeError locates a yaml error at the line it reports, or nowhere when it
// names none.
func decodeError(filePath string, err error) error {
	if m := errorLine.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil && line > 0 {
			return common.NewErrorAt(ast.NewLocation(filePath, line, 1), "%s", err.Error())
		}
	}
	return common.NewErrorAt(ast.Location{}, "%s: %s", filePath, err.Error())
}

func (r *resolver) loc(node *yaml.Node) ast.Location {
	return ast.NewLocation(r.filePath, node.Line, node.Column)
}

func (r *resolver) errorf(node *yaml.Node, format string, args ...any) error {
	return common.NewErrorAt(r.loc(node), format, args...)
}

func (r *resolver) name(node *yaml.Node, what string) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		return "", r.errorf(node, "expected %s name", what)
	}
	return node.Value, nil
}

func (r *resolver) inductive(td typeDecl) (*signature.InductiveType, error) {
	name, err := r.name(&td.Name, "type")
	if err != nil {
		return nil, err
	}
	it := &signature.InductiveType{
		Location: r.loc(&td.Name),
		Name:     ast.TypeIdentifier(name),
		Params:   common.Map(func(p string) ast.Identifier { return ast.Identifier(p) }, td.Params),
	}
	if it.Indices, err = common.MapError(r.binder, nodeRefs(td.Indices)); err != nil {
		return nil, err
	}
	if td.Numeral != nil {
		it.Numeral = &signature.Numeral{
			Zero: ast.ConstructorIdentifier(td.Numeral.Zero),
			Succ: ast.ConstructorIdentifier(td.Numeral.Succ),
		}
	}
	for _, cd := range td.Constructors {
		cname, err := r.name(&cd.Name, "constructor")
		if err != nil {
			return nil, err
		}
		c := &signature.Constructor{Location: r.loc(&cd.Name), Name: ast.ConstructorIdentifier(cname)}
		if c.Args, err = common.MapError(r.binder, nodeRefs(cd.Args)); err != nil {
			return nil, err
		}
		if c.Result, err = common.MapError(r.term, nodeRefs(cd.Result)); err != nil {
			return nil, err
		}
		it.Constructors = append(it.Constructors, c)
	}
	return it, nil
}

func (r *resolver) function(fd functionDecl) (*Function, error) {
	name, err := r.name(&fd.Name, "function")
	if err != nil {
		return nil, err
	}
	def := &signature.Definition{Location: r.loc(&fd.Name), Name: ast.FunctionIdentifier(name)}
	if def.Context, err = common.MapError(r.binder, nodeRefs(fd.Context)); err != nil {
		return nil, err
	}
	if def.Params, err = common.MapError(r.binder, nodeRefs(fd.Params)); err != nil {
		return nil, err
	}
	if fd.Result.Kind != 0 {
		if def.Result, err = r.typeRef(&fd.Result); err != nil {
			return nil, err
		}
	}

	fn := &Function{Definition: def}
	for i, ed := range fd.Equations {
		eq := &pattern.Equation{Location: r.loc(&ed.LHS), Index: i}
		if ed.LHS.Kind != yaml.SequenceNode {
			return nil, r.errorf(&ed.LHS, "equation %d: `lhs` must be a list of patterns", i+1)
		}
		if eq.Patterns, err = common.MapError(r.pattern, ed.LHS.Content); err != nil {
			return nil, err
		}
		if ed.RHS.Kind == 0 {
			return nil, r.errorf(&ed.LHS, "equation %d: missing `rhs`", i+1)
		}
		if eq.RHS, err = r.term(&ed.RHS); err != nil {
			return nil, err
		}
		fn.Equations = append(fn.Equations, eq)
	}
	return fn, nil
}

// binder decodes a single-key mapping `{name: Type}`.
func (r *resolver) binder(node *yaml.Node) (signature.Param, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return signature.Param{}, r.errorf(node, "expected `{name: Type}`")
	}
	name, err := r.name(node.Content[0], "variable")
	if err != nil {
		return signature.Param{}, err
	}
	t, err := r.typeRef(node.Content[1])
	if err != nil {
		return signature.Param{}, err
	}
	return signature.Param{Name: ast.Identifier(name), Type: t}, nil
}

func (r *resolver) typeRef(node *yaml.Node) (signature.TypeRef, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		name, err := r.name(node, "type")
		if err != nil {
			return signature.TypeRef{}, err
		}
		return signature.TypeRef{Name: ast.TypeIdentifier(name)}, nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return signature.TypeRef{}, r.errorf(node, "empty type application")
		}
		name, err := r.name(node.Content[0], "type")
		if err != nil {
			return signature.TypeRef{}, err
		}
		args, err := common.MapError(r.term, node.Content[1:])
		if err != nil {
			return signature.TypeRef{}, err
		}
		return signature.TypeRef{Name: ast.TypeIdentifier(name), Args: args}, nil
	}
	return signature.TypeRef{}, r.errorf(node, "expected a type")
}

func (r *resolver) term(node *yaml.Node) (term.Term, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if n, err := strconv.ParseUint(node.Value, 10, 64); err == nil {
			if n > term.MaxNumeral {
				return nil, common.NumeralTooLargeError{Location: r.loc(node), Value: n, Limit: term.MaxNumeral}
			}
			return term.Lit{Value: n}, nil
		}
		name, err := r.name(node, "variable")
		if err != nil {
			return nil, err
		}
		if r.isCtor(name) {
			return term.Ctor{Name: ast.ConstructorIdentifier(name)}, nil
		}
		return term.Var{Name: ast.Identifier(name)}, nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, r.errorf(node, "empty application")
		}
		head, err := r.name(node.Content[0], "head")
		if err != nil {
			return nil, err
		}
		args, err := common.MapError(r.term, node.Content[1:])
		if err != nil {
			return nil, err
		}
		if r.isCtor(head) {
			return term.Ctor{Name: ast.ConstructorIdentifier(head), Args: args}, nil
		}
		return term.Call{Func: ast.FunctionIdentifier(head), Args: args}, nil
	}
	return nil, r.errorf(node, "expected a term")
}

func (r *resolver) pattern(node *yaml.Node) (pattern.Pattern, error) {
	loc := r.loc(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "_" {
			return &pattern.PAny{Location: loc}, nil
		}
		if n, err := strconv.ParseUint(node.Value, 10, 64); err == nil {
			if n > term.MaxNumeral {
				return nil, common.NumeralTooLargeError{Location: loc, Value: n, Limit: term.MaxNumeral}
			}
			return &pattern.PLit{Location: loc, Value: n}, nil
		}
		name, err := r.name(node, "variable")
		if err != nil {
			return nil, err
		}
		if r.isCtor(name) {
			return &pattern.PCtor{Location: loc, Name: ast.ConstructorIdentifier(name)}, nil
		}
		return &pattern.PVar{Location: loc, Name: ast.Identifier(name)}, nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, r.errorf(node, "empty pattern")
		}
		head, err := r.name(node.Content[0], "head")
		if err != nil {
			return nil, err
		}
		if !r.isCtor(head) {
			t, err := r.term(node)
			if err != nil {
				return nil, err
			}
			return &pattern.PTerm{Location: loc, Term: t}, nil
		}
		args, err := common.MapError(r.pattern, node.Content[1:])
		if err != nil {
			return nil, err
		}
		return &pattern.PCtor{Location: loc, Name: ast.ConstructorIdentifier(head), Args: args}, nil
	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == "inaccessible" {
			t, err := r.term(node.Content[1])
			if err != nil {
				return nil, err
			}
			return &pattern.PInaccessible{Location: loc, Term: t}, nil
		}
	}
	return nil, r.errorf(node, "unexpected pattern `%s`", node.Value)
}

func nodeRefs(nodes []yaml.Node) []*yaml.Node {
	result := make([]*yaml.Node, len(nodes))
	for i := range nodes {
		result[i] = &nodes[i]
	}
	return result
}
