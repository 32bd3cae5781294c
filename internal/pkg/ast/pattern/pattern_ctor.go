package pattern

import (
	"strings"

	"depmatch/internal/pkg/ast"
)

type PCtor struct {
	ast.Location
	Name ast.ConstructorIdentifier
	Args []Pattern
}

func (*PCtor) _pattern() {}

func (p *PCtor) String() string {
	sb := strings.Builder{}
	sb.WriteString(string(p.Name))
	for _, a := range p.Args {
		sb.WriteString(" ")
		sb.WriteString(Parenthesize(a))
	}
	return sb.String()
}

func (p *PCtor) GetLocation() ast.Location {
	return p.Location
}
