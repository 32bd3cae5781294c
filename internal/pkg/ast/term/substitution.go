package term

import (
	"strings"

	"depmatch/internal/pkg/ast"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Substitution maps variables to terms. Values built with Extend never
// mention a key, so a single Apply is enough.
type Substitution map[ast.Identifier]Term

func (s Substitution) Extend(name ast.Identifier, value Term) Substitution {
	value = Apply(value, s)
	single := Substitution{name: value}
	result := make(Substitution, len(s)+1)
	for k, v := range s {
		result[k] = Apply(v, single)
	}
	result[name] = value
	return result
}

func (s Substitution) Keys() []ast.Identifier {
	keys := maps.Keys(s)
	slices.Sort(keys)
	return keys
}

// Since returns bindings that are new or changed compared to base.
func (s Substitution) Since(base Substitution) Substitution {
	result := Substitution{}
	for k, v := range s {
		if old, ok := base[k]; !ok || !old.EqualsTo(v) {
			result[k] = v
		}
	}
	return result
}

func (s Substitution) String() string {
	return strings.Join(lo.Map(s.Keys(), func(k ast.Identifier, _ int) string {
		return string(k) + " := " + s[k].String()
	}), ", ")
}

// Apply replaces variables simultaneously, without re-substituting into the inserted terms.
func Apply(t Term, s Substitution) Term {
	if len(s) == 0 {
		return t
	}
	switch e := t.(type) {
	case Var:
		if v, ok := s[e.Name]; ok {
			return v
		}
		return e
	case Ctor:
		return Ctor{Name: e.Name, Args: ApplyAll(e.Args, s)}
	case Call:
		return Call{Func: e.Func, Args: ApplyAll(e.Args, s)}
	}
	return t
}

func ApplyAll(ts []Term, s Substitution) []Term {
	if ts == nil {
		return nil
	}
	result := make([]Term, len(ts))
	for i, t := range ts {
		result[i] = Apply(t, s)
	}
	return result
}
