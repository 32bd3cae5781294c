package processors

import (
	"fmt"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/casetree"
	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type scrutinee struct {
	value term.Term
	typ   signature.TypeRef
	path  string
}

type binding struct {
	name  ast.Identifier
	value term.Term
}

type inaccessible struct {
	location ast.Location
	term     term.Term
	value    term.Term
}

// row is an equation specialized to the current scrutinees. Variables
// matched so far are kept in bindings; inaccessible patterns wait for the leaf.
type row struct {
	equation      *pattern.Equation
	patterns      []pattern.Pattern
	bindings      []binding
	inaccessibles []inaccessible
}

type problem struct {
	scrutinees []scrutinee
	rows       []row
	subst      term.Substitution
	scope      map[ast.Identifier]struct{}
	path       string
	ctor       ast.ConstructorIdentifier
	depth      int
}

type builder struct {
	table   *signature.Table
	reducer Reducer
	unifier *Unifier
	log     *common.LogWriter
	def     *signature.Definition
	limit   int
	errs    []error
}

func newBuilder(env *Environment, reducer Reducer, log *common.LogWriter, def *signature.Definition, limit int) *builder {
	return &builder{
		table:   env.Table,
		reducer: reducer,
		unifier: NewUnifier(reducer, env.Table),
		log:     log,
		def:     def,
		limit:   limit,
	}
}

func (b *builder) root(equations []*pattern.Equation) problem {
	p := problem{
		subst: term.Substitution{},
		scope: map[ast.Identifier]struct{}{},
	}
	for _, name := range b.def.ContextNames() {
		p.scope[name] = struct{}{}
	}
	for _, param := range b.def.Params {
		p.scope[param.Name] = struct{}{}
		p.scrutinees = append(p.scrutinees, scrutinee{
			value: term.Var{Name: param.Name},
			typ:   param.Type,
			path:  string(param.Name),
		})
	}
	for _, eq := range equations {
		p.rows = append(p.rows, row{equation: eq, patterns: eq.Patterns})
	}
	return p
}

func (b *builder) build(p problem) casetree.Node {
	if len(p.rows) == 0 {
		return b.buildEmpty(p)
	}
	first := p.rows[0]
	if common.All(pattern.IsIrrefutable, first.patterns) {
		return b.buildLeaf(p, first)
	}

	col := selectColumn(p.rows)
	if col < 0 {
		b.errs = append(b.errs, common.NewCompilerError("no column to split on"))
		return &casetree.Unreachable{Path: p.path, Constructor: p.ctor}
	}
	if p.depth >= b.limit {
		if !slices.ContainsFunc(b.errs, isRecursionLimit) {
			b.errs = append(b.errs, common.RecursionLimitExceeded{Location: b.def.Location, Limit: b.limit})
		}
		return &casetree.Unreachable{Path: p.scrutinees[col].path, Witness: b.witness(p)}
	}
	return b.split(p, col)
}

func isRecursionLimit(err error) bool {
	_, ok := err.(common.RecursionLimitExceeded)
	return ok
}

func selectColumn(rows []row) int {
	for col := range rows[0].patterns {
		for _, r := range rows {
			if _, ok := r.patterns[col].(*pattern.PCtor); ok {
				return col
			}
		}
	}
	return -1
}

func (b *builder) split(p problem, col int) casetree.Node {
	sc := p.scrutinees[col]
	value := term.Apply(sc.value, p.subst)
	typ := sc.typ.Subst(p.subst)
	it, ok := b.table.Type(typ.Name)
	if !ok {
		b.errs = append(b.errs, common.NewCompilerError(fmt.Sprintf("split on `%s` of unknown type `%s`", sc.path, typ)))
		return &casetree.Unreachable{Path: sc.path, Witness: b.witness(p)}
	}
	params, indices := it.SplitArgs(typ)
	b.log.Trace("%s: split `%s` : %s (%d rows)", b.def.Name, sc.path, typ, len(p.rows))

	node := &casetree.Split{Scrutinee: value, Path: sc.path, Type: typ}
	for _, c := range it.Constructors {
		branch, sub, ok := b.prepare(p, col, value, params, indices, c)
		if ok {
			sub.rows = specialize(p.rows, col, c, value)
			branch.Body = b.build(sub)
		}
		node.Branches = append(node.Branches, branch)
	}
	return node
}

// prepare opens the branch of c: fresh fields, index unification and the
// subproblem with the split position replaced by the fields. It reports false
// when the branch is closed by a contradiction.
func (b *builder) prepare(
	p problem, col int, value term.Term, params, indices []term.Term, c *signature.Constructor,
) (*casetree.Branch, problem, bool) {
	sc := p.scrutinees[col]
	scope := maps.Clone(p.scope)
	fields := freshNames(c.ArgNames(), scope)
	argTypes, produced := c.Instantiate(params, fields)
	branch := &casetree.Branch{Constructor: c.Name, Fields: fields}

	required := append([]term.Term{value}, indices...)
	actual := append([]term.Term{term.Ctor{Name: c.Name, Args: term.Vars(fields)}}, produced...)
	if _, clash := b.unifier.Clash(required, actual); clash {
		branch.Body = contradiction(c.Name, value, required, actual)
		b.log.Trace("%s: `%s` cannot be %s, constructors clash", b.def.Name, sc.path, c.Name)
		return branch, problem{}, false
	}
	result := b.unifier.Unify(required, actual, p.subst)
	switch result.Kind {
	case Mismatch:
		branch.Body = contradiction(c.Name, value, required, actual)
		b.log.Trace("%s: `%s` cannot be %s, %s ≠ %s", b.def.Name, sc.path, c.Name, result.Left, result.Right)
		return branch, problem{}, false
	case Underdetermined:
		b.log.Trace("%s: `%s` as %s leaves %s = %s unsolved", b.def.Name, sc.path, c.Name, result.Left, result.Right)
	}
	branch.Equalities = result.Subst.Since(p.subst)

	fieldScrutinees := make([]scrutinee, len(fields))
	for i, f := range fields {
		fieldScrutinees[i] = scrutinee{
			value: term.Var{Name: f},
			typ:   argTypes[i],
			path:  sc.path + "." + string(c.Args[i].Name),
		}
	}
	return branch, problem{
		scrutinees: common.Splice(p.scrutinees, col, fieldScrutinees),
		subst:      result.Subst,
		scope:      scope,
		path:       sc.path,
		ctor:       c.Name,
		depth:      p.depth + 1,
	}, true
}

func contradiction(ctor ast.ConstructorIdentifier, value term.Term, required, produced []term.Term) *casetree.Contradiction {
	if _, ok := value.(term.Var); ok {
		return &casetree.Contradiction{Constructor: ctor, Required: required[1:], Produced: produced[1:]}
	}
	return &casetree.Contradiction{Constructor: ctor, Required: required, Produced: produced}
}

func specialize(rows []row, col int, c *signature.Constructor, value term.Term) []row {
	var result []row
	for _, r := range rows {
		next := r
		var args []pattern.Pattern
		switch e := r.patterns[col].(type) {
		case *pattern.PCtor:
			if e.Name != c.Name {
				continue
			}
			args = e.Args
		case *pattern.PVar:
			next.bindings = append(slices.Clip(r.bindings), binding{name: e.Name, value: value})
			args = wildcards(c.Arity(), e.Location)
		case *pattern.PInaccessible:
			next.inaccessibles = append(slices.Clip(r.inaccessibles),
				inaccessible{location: e.Location, term: e.Term, value: value})
			args = wildcards(c.Arity(), e.Location)
		default:
			args = wildcards(c.Arity(), r.patterns[col].GetLocation())
		}
		next.patterns = common.Splice(r.patterns, col, args)
		result = append(result, next)
	}
	return result
}

func wildcards(n int, loc ast.Location) []pattern.Pattern {
	result := make([]pattern.Pattern, n)
	for i := range result {
		result[i] = &pattern.PAny{Location: loc}
	}
	return result
}

func (b *builder) buildLeaf(p problem, r row) casetree.Node {
	bindings := slices.Clone(r.bindings)
	inaccessibles := slices.Clone(r.inaccessibles)
	for i, pt := range r.patterns {
		switch e := pt.(type) {
		case *pattern.PVar:
			bindings = append(bindings, binding{name: e.Name, value: p.scrutinees[i].value})
		case *pattern.PInaccessible:
			inaccessibles = append(inaccessibles,
				inaccessible{location: e.Location, term: e.Term, value: p.scrutinees[i].value})
		}
	}

	leaf := &casetree.Leaf{Equation: r.equation.Index}
	s := term.Substitution{}
	for _, bd := range bindings {
		v := term.Apply(bd.value, p.subst)
		s[bd.name] = v
		leaf.Bindings = append(leaf.Bindings, casetree.Binding{Name: bd.name, Value: v})
	}

	for _, in := range inaccessibles {
		expected := b.reducer.Reduce(term.Apply(term.Apply(in.term, s), p.subst))
		actual := b.reducer.Reduce(term.Apply(in.value, p.subst))
		if !expected.EqualsTo(actual) {
			b.errs = append(b.errs, common.InaccessibleMismatchError{
				Location: in.location,
				Equation: r.equation.Index,
				Expected: b.table.Pretty(expected).String(),
				Actual:   b.table.Pretty(actual).String(),
			})
		}
	}

	leaf.Body = term.Apply(term.Apply(r.equation.RHS, s), p.subst)
	b.log.Trace("%s: equation %d selected at `%s`", b.def.Name, r.equation.Index+1, p.path)
	return leaf
}

// buildEmpty closes a problem no equation covers. It looks for a scrutinee
// whose every constructor contradicts its indices; failing that, the case
// is a hole. Before any split the hole names the first scrutinee and its
// first possible constructor.
func (b *builder) buildEmpty(p problem) casetree.Node {
	var open ast.ConstructorIdentifier
	for col, sc := range p.scrutinees {
		value := term.Apply(sc.value, p.subst)
		typ := sc.typ.Subst(p.subst)
		it, ok := b.table.Type(typ.Name)
		if !ok {
			continue
		}
		params, indices := it.SplitArgs(typ)
		node := &casetree.Split{Scrutinee: value, Path: sc.path, Type: typ}
		empty := true
		for _, c := range it.Constructors {
			branch, _, ok := b.prepare(p, col, value, params, indices, c)
			if ok {
				if col == 0 && open == "" {
					open = c.Name
				}
				empty = false
				break
			}
			node.Branches = append(node.Branches, branch)
		}
		if empty {
			b.log.Trace("%s: `%s` : %s has no possible constructor", b.def.Name, sc.path, typ)
			return node
		}
	}
	path, ctor := p.path, p.ctor
	if path == "" && len(p.scrutinees) > 0 {
		path, ctor = p.scrutinees[0].path, open
	}
	b.log.Trace("%s: no equation covers `%s` as %s", b.def.Name, path, ctor)
	return &casetree.Unreachable{Path: path, Constructor: ctor, Witness: b.witness(p)}
}

func (b *builder) witness(p problem) []term.Term {
	return common.Map(b.table.Pretty, term.ApplyAll(term.Vars(b.def.ParamNames()), p.subst))
}

func freshNames(bases []ast.Identifier, scope map[ast.Identifier]struct{}) []ast.Identifier {
	result := make([]ast.Identifier, len(bases))
	for i, base := range bases {
		if base == "" {
			base = "a"
		}
		name := base
		for k := 1; ; k++ {
			if _, used := scope[name]; !used {
				break
			}
			name = ast.Identifier(fmt.Sprintf("%s%d", base, k))
		}
		scope[name] = struct{}{}
		result[i] = name
	}
	return result
}
