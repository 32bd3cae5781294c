package pattern

import (
	"fmt"
	"strings"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
)

type Equation struct {
	ast.Location
	Index    int
	Patterns []Pattern
	RHS      term.Term
}

func (eq *Equation) GetLocation() ast.Location {
	return eq.Location
}

func (eq *Equation) String() string {
	return fmt.Sprintf("| %s => %s", strings.Join(PatternStrings(eq.Patterns), ", "), eq.RHS)
}

func (eq *Equation) BoundVariables() []ast.Identifier {
	var result []ast.Identifier
	for _, p := range eq.Patterns {
		result = append(result, BoundVariables(p)...)
	}
	return result
}

func PatternStrings(ps []Pattern) []string {
	result := make([]string, len(ps))
	for i, p := range ps {
		result[i] = p.String()
	}
	return result
}
