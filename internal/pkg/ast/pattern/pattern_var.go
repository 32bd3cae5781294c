package pattern

import "depmatch/internal/pkg/ast"

type PVar struct {
	ast.Location
	Name ast.Identifier
}

func (*PVar) _pattern() {}

func (p *PVar) String() string {
	return string(p.Name)
}

func (p *PVar) GetLocation() ast.Location {
	return p.Location
}
