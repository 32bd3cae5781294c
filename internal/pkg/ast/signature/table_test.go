package signature

import (
	"reflect"
	"testing"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
)

var natRef = TypeRef{Name: "Nat"}

func nat() *InductiveType {
	return &InductiveType{
		Name:    "Nat",
		Numeral: &Numeral{Zero: "zero", Succ: "succ"},
		Constructors: []*Constructor{
			{Name: "zero"},
			{Name: "succ", Args: []Param{{Name: "n", Type: natRef}}},
		},
	}
}

func vec() *InductiveType {
	return &InductiveType{
		Name:    "Vec",
		Params:  []ast.Identifier{"A"},
		Indices: []Param{{Name: "n", Type: natRef}},
		Constructors: []*Constructor{
			{Name: "vnil", Result: []term.Term{term.Ctor{Name: "zero"}}},
			{
				Name: "vcons",
				Args: []Param{
					{Name: "x", Type: TypeRef{Name: "A"}},
					{Name: "n", Type: natRef},
					{Name: "xs", Type: TypeRef{Name: "Vec", Args: []term.Term{term.Var{Name: "A"}, term.Var{Name: "n"}}}},
				},
				Result: []term.Term{term.Ctor{Name: "succ", Args: []term.Term{term.Var{Name: "n"}}}},
			},
		},
	}
}

func TestDeclare(t *testing.T) {
	table := NewTable()
	if err := table.Declare(nat()); err != nil {
		t.Fatal(err)
	}
	if err := table.Declare(vec()); err != nil {
		t.Fatal(err)
	}

	c, ok := table.Constructor("vcons")
	if !ok || c.Owner.Name != "Vec" {
		t.Fatalf("constructor owner is not set")
	}
	if table.MaxArity() != 3 {
		t.Fatalf("%d != 3", table.MaxArity())
	}

	rejected := []struct {
		name string
		it   *InductiveType
	}{
		{"duplicate type", &InductiveType{Name: "Nat"}},
		{"constructor declared elsewhere", &InductiveType{Name: "Bin", Constructors: []*Constructor{{Name: "zero"}}}},
		{"duplicate constructor", &InductiveType{Name: "Bool", Constructors: []*Constructor{{Name: "b"}, {Name: "b"}}}},
		{"wrong index count", &InductiveType{
			Name:         "Fin",
			Indices:      []Param{{Name: "n", Type: natRef}},
			Constructors: []*Constructor{{Name: "fzero"}},
		}},
		{"second numeral", &InductiveType{
			Name:         "Unary",
			Numeral:      &Numeral{Zero: "z", Succ: "s"},
			Constructors: []*Constructor{{Name: "z"}, {Name: "s", Args: []Param{{Name: "u", Type: TypeRef{Name: "Unary"}}}}},
		}},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			if err := table.Declare(tt.it); err == nil {
				t.Fatalf("expected %s to be rejected", tt.it.Name)
			}
			if _, ok := table.Type(tt.it.Name); ok && tt.it.Name != "Nat" {
				t.Fatalf("rejected type `%s` was declared", tt.it.Name)
			}
		})
	}

	names := common.Map(func(it *InductiveType) ast.TypeIdentifier { return it.Name }, table.Types())
	if !reflect.DeepEqual(names, []ast.TypeIdentifier{"Nat", "Vec"}) {
		t.Fatalf("%#v != %#v", names, []ast.TypeIdentifier{"Nat", "Vec"})
	}
}

func TestNumeralShape(t *testing.T) {
	bad := &InductiveType{
		Name:         "Nat",
		Numeral:      &Numeral{Zero: "zero", Succ: "succ"},
		Constructors: []*Constructor{{Name: "zero"}, {Name: "succ"}},
	}
	if err := NewTable().Declare(bad); err == nil {
		t.Fatalf("a successor without argument must be rejected")
	}
}

func TestNumerals(t *testing.T) {
	table := NewTable()
	if _, ok := table.ExpandNumeral(1); ok {
		t.Fatalf("no numeral type is declared yet")
	}
	if err := table.Declare(nat()); err != nil {
		t.Fatal(err)
	}

	if _, ok := table.ExpandNumeral(term.MaxNumeral + 1); ok {
		t.Fatalf("numerals beyond the limit must not expand")
	}
	two, _ := table.ExpandNumeral(2)
	if two.String() != "succ (succ zero)" {
		t.Fatalf("unexpected %s", two)
	}
	if n, ok := table.AsNumeral(term.Ctor{Name: "succ", Args: []term.Term{term.Lit{Value: 4}}}); !ok || n != 5 {
		t.Fatalf("%d != 5", n)
	}
	open := term.Ctor{Name: "succ", Args: []term.Term{term.Var{Name: "n"}}}
	if _, ok := table.AsNumeral(open); ok {
		t.Fatalf("`%s` is not a closed numeral", open)
	}
	pair := term.Ctor{Name: "pair", Args: []term.Term{two, open}}
	if got := table.Pretty(pair).String(); got != "pair 2 (succ n)" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestInstantiate(t *testing.T) {
	table := NewTable()
	_ = table.Declare(nat())
	_ = table.Declare(vec())
	vcons, _ := table.Constructor("vcons")

	argTypes, produced := vcons.Instantiate([]term.Term{term.Var{Name: "Nat"}}, []ast.Identifier{"h", "k", "t"})
	expected := []string{"Nat", "Nat", "Vec Nat k"}
	for i, a := range argTypes {
		if a.String() != expected[i] {
			t.Fatalf("%s != %s", a, expected[i])
		}
	}
	if len(produced) != 1 || produced[0].String() != "succ k" {
		t.Fatalf("unexpected %v", produced)
	}

	vecNat := TypeRef{Name: "Vec", Args: []term.Term{term.Var{Name: "Nat"}, term.Lit{Value: 2}}}
	it, _ := table.Type("Vec")
	params, indices := it.SplitArgs(vecNat)
	if len(params) != 1 || len(indices) != 1 || indices[0].String() != "2" {
		t.Fatalf("unexpected split %v %v", params, indices)
	}
}
