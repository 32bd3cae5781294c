package depmatch

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"depmatch/internal/pkg/common"
	"depmatch/internal/pkg/processors"
	"github.com/davecgh/go-spew/spew"
)

func TestCompileFile(t *testing.T) {
	log := &common.LogWriter{}
	program := CompileFile("testdata/vectors.yaml", processors.Options{}, log)
	if log.HasErrors() || len(log.Warnings()) > 0 {
		t.Fatalf("unexpected diagnostics %s", spew.Sdump(log.Errors(), log.Warnings()))
	}
	if len(program.Functions) != 5 {
		t.Fatalf("expected 5 functions, got %d", len(program.Functions))
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"[add, 2, 3]", "5"},
		{"[append, [cons, 1, [cons, 2, [cons, 3, nil]]], [cons, 4, [cons, 5, nil]]]",
			"cons 1 (cons 2 (cons 3 (cons 4 (cons 5 nil))))"},
		{"[f, 0, 4]", "0"},
		{"[f, 4, 0]", "1"},
		{"[f, 4, 4]", "2"},
		{"[head, [vcons, 9, 0, vnil]]", "9"},
		{"[pred, 2, [vcons, 1, 1, [vcons, 2, 0, vnil]]]", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := program.Eval(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got.String() != tt.expected {
				t.Fatalf("%s != %s", got, tt.expected)
			}
		})
	}

	if _, err := program.Eval("[head, vnil]"); !errors.Is(err, processors.ErrContradiction) {
		t.Fatalf("expected a contradiction, got %v", err)
	}
	if _, err := program.Eval("[add, x, 1]"); err == nil {
		t.Fatalf("open terms must be rejected")
	}

	out := &bytes.Buffer{}
	log.Flush(out)
	if !strings.Contains(out.String(), "compiled `head`: 1 splits, 1 contradictions\n") {
		t.Fatalf("unexpected summary %q", out.String())
	}
}

func TestCompileFileDiagnostics(t *testing.T) {
	log := &common.LogWriter{}
	program := CompileFile("testdata/broken.yaml", processors.Options{}, log)

	if len(program.Functions) != 1 || program.Functions[0].Name() != "g" {
		t.Fatalf("only `g` should compile")
	}
	if report := program.Reports["g"]; report == nil || len(report.Redundant) != 1 || report.Redundant[0] != 2 {
		t.Fatalf("unexpected report %s", spew.Sdump(program.Reports["g"]))
	}

	var w common.RedundantEquationWarning
	if len(log.Warnings()) != 1 || !errors.As(log.Warnings()[0], &w) {
		t.Fatalf("unexpected warnings %s", spew.Sdump(log.Warnings()))
	}
	if line, _ := w.Location.GetLineAndColumn(); line != 18 {
		t.Fatalf("warning reported at line %d", line)
	}

	var e common.NonExhaustiveMatchError
	if len(log.Errors()) != 1 || !errors.As(log.Errors()[0], &e) {
		t.Fatalf("unexpected errors %s", spew.Sdump(log.Errors()))
	}
	if line, col := e.Location.GetLineAndColumn(); line != 21 || col != 11 {
		t.Fatalf("error reported at %d:%d", line, col)
	}
	if e.Error() != "testdata/broken.yaml:21:11 pattern matching is not exhaustive, "+
		"`a` is not covered for constructor `succ`, missing patterns: \n\tsucc _" {
		t.Fatalf("unexpected message %q", e.Error())
	}
}
