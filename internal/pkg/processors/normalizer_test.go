package processors

import (
	"errors"
	"reflect"
	"testing"

	"depmatch/internal/pkg/ast/pattern"
	"depmatch/internal/pkg/ast/signature"
	"depmatch/internal/pkg/ast/term"
	"depmatch/internal/pkg/common"
	"github.com/davecgh/go-spew/spew"
)

func TestNormalize(t *testing.T) {
	env := newTestEnvironment(t)
	compileAdd(t, env)
	n := NewNormalizer(env, NewEvaluator(env))
	d := def("f", nil, []signature.Param{param("a", natRef), param("b", natRef)}, natRef)

	eqs := equations(
		eq(lit(0), plit(2), pany()),
		eq(v("x"), pterm(call("add", v("x"), lit(1))), pc("zero")),
	)
	normalized, errs := n.Normalize(d, eqs)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors %s", spew.Sdump(errs))
	}

	expected := [][]string{
		{"succ (succ zero)", "_"},
		{"succ x", "zero"},
	}
	got := common.Map(func(eq *pattern.Equation) []string { return pattern.PatternStrings(eq.Patterns) }, normalized)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("%#v != %#v", got, expected)
	}
	if eqs[0].Patterns[0].String() != "2" {
		t.Fatalf("input equations must not be mutated")
	}

	t.Run("idempotent", func(t *testing.T) {
		again, errs := n.Normalize(d, normalized)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors %s", spew.Sdump(errs))
		}
		for i := range again {
			if !reflect.DeepEqual(again[i].Patterns, normalized[i].Patterns) {
				t.Fatalf("%s != %s", spew.Sdump(again[i].Patterns), spew.Sdump(normalized[i].Patterns))
			}
		}
	})
}

func TestNormalizeErrors(t *testing.T) {
	env := newTestEnvironment(t)
	compileAdd(t, env)
	n := NewNormalizer(env, NewEvaluator(env))
	natNat := def("f", nil, []signature.Param{param("a", natRef), param("b", natRef)}, natRef)
	list := def("l", []signature.Param{param("A", typeRef)}, []signature.Param{param("xs", ref("List", v("A")))}, natRef)

	t.Run("literal on a non-numeral type", func(t *testing.T) {
		_, err := n.NormalizeEquation(list, equations(eq(lit(0), plit(0)))[0])
		var e common.IrreduciblePatternError
		if !errors.As(err, &e) || e.Subterm != "0" {
			t.Fatalf("unexpected error %v", err)
		}
	})

	t.Run("stuck term pattern", func(t *testing.T) {
		_, err := n.NormalizeEquation(natNat, equations(eq(lit(0), pterm(call("add", lit(1), v("x"))), pany()))[0])
		var e common.IrreduciblePatternError
		if !errors.As(err, &e) || e.Subterm != "add (succ zero) x" || e.Equation != 0 {
			t.Fatalf("unexpected error %#v", err)
		}
	})

	t.Run("non-linear", func(t *testing.T) {
		_, err := n.NormalizeEquation(natNat, equations(eq(lit(0), pv("x"), pc("succ", pv("x"))))[0])
		var e common.NonLinearPatternError
		if !errors.As(err, &e) || e.Variable != "x" {
			t.Fatalf("unexpected error %v", err)
		}
	})

	t.Run("numeral beyond the limit", func(t *testing.T) {
		for _, x := range []*pattern.Equation{
			eq(lit(0), plit(term.MaxNumeral+1), pany()),
			eq(lit(term.MaxNumeral+1), pany(), pany()),
		} {
			_, err := n.NormalizeEquation(natNat, equations(x)[0])
			var e common.NumeralTooLargeError
			if !errors.As(err, &e) || e.Value != term.MaxNumeral+1 {
				t.Fatalf("unexpected error %v", err)
			}
		}
	})

	plain := []struct {
		name string
		eq   *pattern.Equation
	}{
		{"arity", eq(lit(0), pv("x"))},
		{"constructor of another type", eq(lit(0), pc("nil"), pany())},
		{"constructor arity", eq(lit(0), pc("succ"), pany())},
		{"unknown constructor", eq(lit(0), pc("three"), pany())},
		{"unbound variable", eq(v("z"), pv("x"), pv("y"))},
		{"unknown function", eq(call("mul", v("x"), v("y")), pv("x"), pv("y"))},
		{"inaccessible out of scope", eq(lit(0), pin(v("q")), pany())},
	}
	for _, tt := range plain {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.NormalizeEquation(natNat, equations(tt.eq)[0])
			var e common.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected a located error, got %#v", err)
			}
		})
	}

	t.Run("errors are collected per equation", func(t *testing.T) {
		normalized, errs := n.Normalize(natNat, equations(
			eq(lit(0), pv("x"), pv("y")),
			eq(lit(0), pv("x")),
			eq(lit(0), pv("x"), pv("x")),
		))
		if len(normalized) != 1 || len(errs) != 2 {
			t.Fatalf("expected 1 equation and 2 errors, got %d and %s", len(normalized), spew.Sdump(errs))
		}
	})
}

func TestNormalizeTermToVariable(t *testing.T) {
	env := newTestEnvironment(t)
	compileAdd(t, env)
	n := NewNormalizer(env, NewEvaluator(env))
	d := def("id", nil, []signature.Param{param("a", natRef)}, natRef)

	got, err := n.NormalizeEquation(d, equations(eq(v("y"), pterm(call("add", v("y"), lit(0)))))[0])
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Patterns[0].(*pattern.PVar); !ok {
		t.Fatalf("expected a variable pattern, got %s", got.Patterns[0])
	}
	if !got.RHS.EqualsTo(term.Var{Name: "y"}) {
		t.Fatalf("unexpected right-hand side %s", got.RHS)
	}
}
