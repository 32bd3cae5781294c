package casetree

import (
	"fmt"
	"strings"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"github.com/samber/lo"
)

// Function is the compiled closed term: a lambda over the parameters whose
// body only uses casesOn, noConfusion and rewriting along index equalities.
type Function struct {
	Definition *signature.Definition
	Equations  int
	Body       Node
}

func (f *Function) Name() ast.FunctionIdentifier {
	return f.Definition.Name
}

func (f *Function) String() string {
	sb := strings.Builder{}
	sb.WriteString(f.Definition.String())
	sb.WriteString(" :=\n")
	writeNode(&sb, f.Body, 1)
	return sb.String()
}

func writeIndent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	switch e := n.(type) {
	case *Split:
		writeIndent(sb, depth)
		sb.WriteString(fmt.Sprintf("%s.casesOn %s", e.Type.Name, term.Parenthesize(e.Scrutinee)))
		if len(e.Branches) == 0 {
			sb.WriteString(" nomatch\n")
			return
		}
		sb.WriteString("\n")
		for _, b := range e.Branches {
			writeIndent(sb, depth)
			sb.WriteString("| ")
			sb.WriteString(string(b.Constructor))
			for _, f := range b.Fields {
				sb.WriteString(" ")
				sb.WriteString(string(f))
			}
			sb.WriteString(" =>")
			if len(b.Equalities) > 0 {
				sb.WriteString(" ▸[")
				sb.WriteString(b.Equalities.String())
				sb.WriteString("]")
			}
			if _, nested := b.Body.(*Split); nested {
				sb.WriteString("\n")
				writeNode(sb, b.Body, depth+1)
			} else {
				sb.WriteString(" ")
				writeNode(sb, b.Body, 0)
			}
		}
	case *Leaf:
		writeIndent(sb, depth)
		sb.WriteString(e.Body.String())
		sb.WriteString("\n")
	case *Contradiction:
		writeIndent(sb, depth)
		sb.WriteString(fmt.Sprintf("noConfusion (%s = %s)\n", listString(e.Required), listString(e.Produced)))
	case *Unreachable:
		writeIndent(sb, depth)
		sb.WriteString("?missing\n")
	}
}

func listString(ts []term.Term) string {
	if len(ts) == 1 {
		return ts[0].String()
	}
	return "[" + strings.Join(lo.Map(ts, func(t term.Term, _ int) string { return t.String() }), ", ") + "]"
}

// WitnessString prints a missing case as a pattern list, unsplit positions as `_`.
func WitnessString(ws []term.Term) string {
	return strings.Join(lo.Map(ws, func(t term.Term, _ int) string { return witnessTerm(t, true) }), ", ")
}

func witnessTerm(t term.Term, top bool) string {
	switch e := t.(type) {
	case term.Ctor:
		if len(e.Args) == 0 {
			return string(e.Name)
		}
		s := string(e.Name) + " " + strings.Join(lo.Map(e.Args, func(a term.Term, _ int) string {
			return witnessTerm(a, false)
		}), " ")
		if top {
			return s
		}
		return "(" + s + ")"
	case term.Lit:
		return e.String()
	}
	return "_"
}
