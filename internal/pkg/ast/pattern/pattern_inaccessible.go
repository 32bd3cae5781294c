package pattern

import (
	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
)

// PInaccessible states the value forced at its position by other patterns.
// It never drives a split and is only compared against the forced value.
type PInaccessible struct {
	ast.Location
	Term term.Term
}

func (*PInaccessible) _pattern() {}

func (p *PInaccessible) String() string {
	return ".(" + p.Term.String() + ")"
}

func (p *PInaccessible) GetLocation() ast.Location {
	return p.Location
}
