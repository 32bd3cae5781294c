package processors

import (
	"testing"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"github.com/davecgh/go-spew/spew"
)

var (
	natRef  = signature.TypeRef{Name: "Nat"}
	typeRef = signature.TypeRef{Name: "Type"}
)

func ref(name ast.TypeIdentifier, args ...term.Term) signature.TypeRef {
	return signature.TypeRef{Name: name, Args: args}
}

func param(name ast.Identifier, t signature.TypeRef) signature.Param {
	return signature.Param{Name: name, Type: t}
}

func v(name ast.Identifier) term.Var {
	return term.Var{Name: name}
}

func c(name ast.ConstructorIdentifier, args ...term.Term) term.Ctor {
	return term.Ctor{Name: name, Args: args}
}

func call(name ast.FunctionIdentifier, args ...term.Term) term.Call {
	return term.Call{Func: name, Args: args}
}

func lit(n uint64) term.Lit {
	return term.Lit{Value: n}
}

func pv(name ast.Identifier) pattern.Pattern {
	return &pattern.PVar{Name: name}
}

func pc(name ast.ConstructorIdentifier, args ...pattern.Pattern) pattern.Pattern {
	return &pattern.PCtor{Name: name, Args: args}
}

func pany() pattern.Pattern {
	return &pattern.PAny{}
}

func plit(n uint64) pattern.Pattern {
	return &pattern.PLit{Value: n}
}

func pterm(t term.Term) pattern.Pattern {
	return &pattern.PTerm{Term: t}
}

func pin(t term.Term) pattern.Pattern {
	return &pattern.PInaccessible{Term: t}
}

func equations(eqs ...*pattern.Equation) []*pattern.Equation {
	for i, eq := range eqs {
		eq.Index = i
		eq.Location = ast.NewLocation("test.yaml", i+1, 1)
	}
	return eqs
}

func eq(rhs term.Term, patterns ...pattern.Pattern) *pattern.Equation {
	return &pattern.Equation{Patterns: patterns, RHS: rhs}
}

func natType() *signature.InductiveType {
	return &signature.InductiveType{
		Name:    "Nat",
		Numeral: &signature.Numeral{Zero: "zero", Succ: "succ"},
		Constructors: []*signature.Constructor{
			{Name: "zero"},
			{Name: "succ", Args: []signature.Param{param("n", natRef)}},
		},
	}
}

func listType() *signature.InductiveType {
	return &signature.InductiveType{
		Name:   "List",
		Params: []ast.Identifier{"A"},
		Constructors: []*signature.Constructor{
			{Name: "nil"},
			{Name: "cons", Args: []signature.Param{
				param("x", ref("A")),
				param("xs", ref("List", v("A"))),
			}},
		},
	}
}

func vecType() *signature.InductiveType {
	return &signature.InductiveType{
		Name:    "Vec",
		Params:  []ast.Identifier{"A"},
		Indices: []signature.Param{param("n", natRef)},
		Constructors: []*signature.Constructor{
			{Name: "vnil", Result: []term.Term{c("zero")}},
			{
				Name: "vcons",
				Args: []signature.Param{
					param("x", ref("A")),
					param("n", natRef),
					param("xs", ref("Vec", v("A"), v("n"))),
				},
				Result: []term.Term{c("succ", v("n"))},
			},
		},
	}
}

func finType() *signature.InductiveType {
	return &signature.InductiveType{
		Name:    "Fin",
		Indices: []signature.Param{param("n", natRef)},
		Constructors: []*signature.Constructor{
			{Name: "fzero", Args: []signature.Param{param("n", natRef)}, Result: []term.Term{c("succ", v("n"))}},
			{
				Name:   "fsucc",
				Args:   []signature.Param{param("n", natRef), param("i", ref("Fin", v("n")))},
				Result: []term.Term{c("succ", v("n"))},
			},
		},
	}
}

func emptyType() *signature.InductiveType {
	return &signature.InductiveType{Name: "Empty"}
}

func newTestEnvironment(t *testing.T) *Environment {
	table := signature.NewTable()
	for _, it := range []*signature.InductiveType{natType(), listType(), vecType(), finType(), emptyType()} {
		if err := table.Declare(it); err != nil {
			t.Fatal(err)
		}
	}
	return NewEnvironment(table)
}

func def(name ast.FunctionIdentifier, context []signature.Param, params []signature.Param, result signature.TypeRef) *signature.Definition {
	return &signature.Definition{
		Location: ast.NewLocation("test.yaml", 1, 1),
		Name:     name,
		Context:  context,
		Params:   params,
		Result:   result,
	}
}

func compile(t *testing.T, env *Environment, d *signature.Definition, eqs []*pattern.Equation) (*casetree.Function, *Report, *common.LogWriter) {
	t.Helper()
	log := &common.LogWriter{Verbose: true}
	fn, report := Compile(log, env, d, eqs, Options{})
	return fn, report, log
}

func mustCompile(t *testing.T, env *Environment, d *signature.Definition, eqs []*pattern.Equation) (*casetree.Function, *Report) {
	t.Helper()
	fn, report, log := compile(t, env, d, eqs)
	if fn == nil || log.HasErrors() {
		t.Fatalf("compiling `%s` failed: %s\ntraces: %s", d.Name, spew.Sdump(log.Errors()), spew.Sdump(log.Traces()))
	}
	return fn, report
}

// compileAdd defines addition by recursion on its second argument.
func compileAdd(t *testing.T, env *Environment) *casetree.Function {
	fn, _ := mustCompile(t, env,
		def("add", nil, []signature.Param{param("x", natRef), param("y", natRef)}, natRef),
		equations(
			eq(v("x"), pv("x"), plit(0)),
			eq(c("succ", call("add", v("x"), v("y"))), pv("x"), pc("succ", pv("y"))),
		))
	return fn
}

func compileAppend(t *testing.T, env *Environment) *casetree.Function {
	listA := ref("List", v("A"))
	fn, _ := mustCompile(t, env,
		def("append", []signature.Param{param("A", typeRef)},
			[]signature.Param{param("xs", listA), param("ys", listA)}, listA),
		equations(
			eq(v("ys"), pc("nil"), pv("ys")),
			eq(c("cons", v("x"), call("append", v("xs"), v("ys"))), pc("cons", pv("x"), pv("xs")), pv("ys")),
		))
	return fn
}

func natList(ns ...uint64) term.Term {
	var result term.Term = c("nil")
	for i := len(ns) - 1; i >= 0; i-- {
		result = c("cons", lit(ns[i]), result)
	}
	return result
}

func vec(ns ...uint64) term.Term {
	var result term.Term = c("vnil")
	for i := len(ns) - 1; i >= 0; i-- {
		result = c("vcons", lit(ns[i]), lit(uint64(len(ns)-1-i)), result)
	}
	return result
}
