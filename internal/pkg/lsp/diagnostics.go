package lsp

import (
	"errors"
	"strings"

	"depmatch/internal/pkg/ast"
	"depmatch/internal/pkg/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"pkg.nimblebun.works/go-lsp"
)

func DocumentURI(filePath string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + filePath)
}

// Diagnostics converts the errors and warnings of log into one publish
// notification per document, ordered by URI. Errors without a source
// position are returned separately.
func Diagnostics(log *common.LogWriter) ([]lsp.PublishDiagnosticsParams, []error) {
	data := map[lsp.DocumentURI][]lsp.Diagnostic{}
	var unlocated []error

	insert := func(err error, severity lsp.DiagnosticSeverity) {
		var located common.Located
		if !errors.As(err, &located) {
			unlocated = append(unlocated, err)
			return
		}
		loc := located.GetLocation()
		var extra []ast.Location
		var e common.Error
		if errors.As(err, &e) {
			extra = e.Extra
		}
		if loc.IsEmpty() && len(extra) > 0 {
			loc, extra = extra[0], extra[1:]
		}
		if loc.IsEmpty() {
			unlocated = append(unlocated, err)
			return
		}

		uri := DocumentURI(loc.FilePath())
		data[uri] = append(data[uri], lsp.Diagnostic{
			Range:    rangeOf(loc),
			Severity: severity,
			Message:  strings.TrimPrefix(located.Error(), loc.CursorString()+" "),
			RelatedInformation: common.Map(func(l ast.Location) lsp.DiagnosticRelatedInformation {
				return lsp.DiagnosticRelatedInformation{
					Location: lsp.Location{URI: DocumentURI(l.FilePath()), Range: rangeOf(l)},
					Message:  "also declared here",
				}
			}, extra),
		})
	}

	for _, err := range log.Errors() {
		insert(err, lsp.DSError)
	}
	for _, err := range log.Warnings() {
		insert(err, lsp.DSWarning)
	}

	uris := maps.Keys(data)
	slices.Sort(uris)
	return common.Map(func(uri lsp.DocumentURI) lsp.PublishDiagnosticsParams {
		return lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: data[uri]}
	}, uris), unlocated
}

func rangeOf(loc ast.Location) lsp.Range {
	line, c := loc.GetLineAndColumn()
	return lsp.Range{
		Start: lsp.Position{Line: line - 1, Character: c - 1},
		End:   lsp.Position{Line: line - 1, Character: c},
	}
}
