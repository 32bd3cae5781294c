package pattern

import (
	"strconv"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
)

type PLit struct {
	ast.Location
	Value uint64
}

func (*PLit) _pattern() {}

func (p *PLit) String() string {
	return strconv.FormatUint(p.Value, 10)
}

func (p *PLit) GetLocation() ast.Location {
	return p.Location
}

// PTerm is an arbitrary term used as a pattern, e.g. `add x 1`. Its free
// variables become pattern variables once it reduces to constructor form.
type PTerm struct {
	ast.Location
	Term term.Term
}

func (*PTerm) _pattern() {}

func (p *PTerm) String() string {
	return p.Term.String()
}

func (p *PTerm) GetLocation() ast.Location {
	return p.Location
}
