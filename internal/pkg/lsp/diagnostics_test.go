package lsp

import (
	"errors"
	"reflect"
	"testing"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/common"
	"github.com/davecgh/go-spew/spew"
	"pkg.nimblebun.works/go-lsp"
)

func TestDiagnostics(t *testing.T) {
	log := &common.LogWriter{}
	log.Err(
		common.NonExhaustiveMatchError{
			Location:           ast.NewLocation("/src/b.yaml", 3, 5),
			ScrutineePath:      "a",
			MissingConstructor: "succ",
			Missing:            []string{"succ _"},
		},
		common.Error{
			Location: ast.NewLocation("/src/a.yaml", 1, 1),
			Extra:    []ast.Location{ast.NewLocation("/src/a.yaml", 7, 3)},
			Message:  "function `f` is already declared",
		},
		errors.New("disk on fire"),
	)
	log.Warn(common.RedundantEquationWarning{Location: ast.NewLocation("/src/b.yaml", 10, 14), Equation: 2})

	params, unlocated := Diagnostics(log)
	if len(unlocated) != 1 || unlocated[0].Error() != "disk on fire" {
		t.Fatalf("unexpected unlocated errors %v", unlocated)
	}
	if len(params) != 2 || params[0].URI != "file:///src/a.yaml" || params[1].URI != "file:///src/b.yaml" {
		t.Fatalf("unexpected documents %s", spew.Sdump(params))
	}

	a := params[0].Diagnostics
	if len(a) != 1 || len(a[0].RelatedInformation) != 1 ||
		a[0].RelatedInformation[0].Location.Range.Start != (lsp.Position{Line: 6, Character: 2}) {
		t.Fatalf("unexpected diagnostics %s", spew.Sdump(a))
	}

	b := params[1].Diagnostics
	expected := []lsp.Diagnostic{
		{
			Range: lsp.Range{
				Start: lsp.Position{Line: 2, Character: 4},
				End:   lsp.Position{Line: 2, Character: 5},
			},
			Severity: lsp.DSError,
			Message: "pattern matching is not exhaustive, `a` is not covered for constructor `succ`, " +
				"missing patterns: \n\tsucc _",
			RelatedInformation: []lsp.DiagnosticRelatedInformation{},
		},
		{
			Range: lsp.Range{
				Start: lsp.Position{Line: 9, Character: 13},
				End:   lsp.Position{Line: 9, Character: 14},
			},
			Severity:           lsp.DSWarning,
			Message:            "equation 3 is redundant",
			RelatedInformation: []lsp.DiagnosticRelatedInformation{},
		},
	}
	if !reflect.DeepEqual(b, expected) {
		t.Fatalf("%s != %s", spew.Sdump(b), spew.Sdump(expected))
	}
}
