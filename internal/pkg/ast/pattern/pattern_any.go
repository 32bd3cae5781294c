package pattern

import "depmatch/internal/pkg/ast"

type PAny struct {
	ast.Location
}

func (*PAny) _pattern() {}

func (p *PAny) String() string {
	return "_"
}

func (p *PAny) GetLocation() ast.Location {
	return p.Location
}
