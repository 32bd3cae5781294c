package signature

import (
	"strings"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/common"
)

// Definition is the elaborated type of a function defined by equations:
// implicit context variables, then the scrutinees as a dependent telescope.
type Definition struct {
	ast.Location
	Name    ast.FunctionIdentifier
	Context []Param
	Params  []Param
	Result  TypeRef
}

func (d *Definition) String() string {
	sb := strings.Builder{}
	sb.WriteString(string(d.Name))
	for _, c := range d.Context {
		sb.WriteString(" {")
		sb.WriteString(string(c.Name))
		if c.Type.Name != "" {
			sb.WriteString(" : ")
			sb.WriteString(c.Type.String())
		}
		sb.WriteString("}")
	}
	if len(d.Params) > 0 {
		sb.WriteString(" ")
		sb.WriteString(common.Join(d.Params, " "))
	}
	sb.WriteString(" : ")
	sb.WriteString(d.Result.String())
	return sb.String()
}

func (d *Definition) ContextNames() []ast.Identifier {
	return common.Map(func(p Param) ast.Identifier { return p.Name }, d.Context)
}

func (d *Definition) ParamNames() []ast.Identifier {
	return common.Map(func(p Param) ast.Identifier { return p.Name }, d.Params)
}
