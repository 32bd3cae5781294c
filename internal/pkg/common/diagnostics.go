package common

import (
	"fmt"
	"strings"

	"depmatch/internal/pkg/ast"
)

type IrreduciblePatternError struct {
	Location ast.Location
	Equation int
	Subterm  string
}

func (e IrreduciblePatternError) GetLocation() ast.Location {
	return e.Location
}

func (e IrreduciblePatternError) Error() string {
	return Error{
		Location: e.Location,
		Message: fmt.Sprintf(
			"equation %d: pattern `%s` does not reduce to a constructor application", e.Equation+1, e.Subterm),
	}.Error()
}

type NonExhaustiveMatchError struct {
	Location           ast.Location
	ScrutineePath      string
	MissingConstructor ast.ConstructorIdentifier
	Missing            []string
}

func (e NonExhaustiveMatchError) GetLocation() ast.Location {
	return e.Location
}

func (e NonExhaustiveMatchError) Error() string {
	msg := "pattern matching is not exhaustive"
	if e.ScrutineePath != "" {
		msg += fmt.Sprintf(", `%s` is not covered for constructor `%s`", e.ScrutineePath, e.MissingConstructor)
	}
	if len(e.Missing) > 0 {
		msg += ", missing patterns: \n\t" + strings.Join(e.Missing, "\n\t")
	}
	return Error{Location: e.Location, Message: msg}.Error()
}

type RedundantEquationWarning struct {
	Location ast.Location
	Equation int
}

func (e RedundantEquationWarning) GetLocation() ast.Location {
	return e.Location
}

func (e RedundantEquationWarning) Error() string {
	return Error{
		Location: e.Location,
		Message:  fmt.Sprintf("equation %d is redundant", e.Equation+1),
	}.Error()
}

type RecursionLimitExceeded struct {
	Location ast.Location
	Limit    int
}

func (e RecursionLimitExceeded) GetLocation() ast.Location {
	return e.Location
}

func (e RecursionLimitExceeded) Error() string {
	return Error{
		Location: e.Location,
		Message:  fmt.Sprintf("case tree exceeds recursion limit of %d splits", e.Limit),
	}.Error()
}

type InaccessibleMismatchError struct {
	Location ast.Location
	Equation int
	Expected string
	Actual   string
}

func (e InaccessibleMismatchError) GetLocation() ast.Location {
	return e.Location
}

func (e InaccessibleMismatchError) Error() string {
	return Error{
		Location: e.Location,
		Message: fmt.Sprintf(
			"equation %d: inaccessible pattern `.(%s)` does not match forced value `%s`",
			e.Equation+1, e.Expected, e.Actual),
	}.Error()
}

type NonLinearPatternError struct {
	Location ast.Location
	Equation int
	Variable ast.Identifier
}

func (e NonLinearPatternError) GetLocation() ast.Location {
	return e.Location
}

func (e NonLinearPatternError) Error() string {
	return Error{
		Location: e.Location,
		Message: fmt.Sprintf(
			"equation %d: variable `%s` is bound more than once, mark one occurrence inaccessible",
			e.Equation+1, e.Variable),
	}.Error()
}

type NumeralTooLargeError struct {
	Location ast.Location
	Value    uint64
	Limit    uint64
}

func (e NumeralTooLargeError) GetLocation() ast.Location {
	return e.Location
}

func (e NumeralTooLargeError) Error() string {
	return Error{
		Location: e.Location,
		Message:  fmt.Sprintf("numeral %d exceeds the limit of %d", e.Value, e.Limit),
	}.Error()
}
