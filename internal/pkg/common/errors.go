package common

import (
	"fmt"
	"runtime"
	"strings"

	"depmatch/internal/pkg/ast"
	"golang.org/x/exp/slices"
)

// Located is implemented by every diagnostic that points at a source position.
type Located interface {
	error
	GetLocation() ast.Location
}

type Error struct {
	Location ast.Location
	Extra    []ast.Location
	Message  string
}

func NewErrorAt(loc ast.Location, format string, args ...any) Error {
	return Error{Location: loc, Message: fmt.Sprintf(format, args...)}
}

func (e Error) GetLocation() ast.Location {
	return e.Location
}

func (e Error) Error() string {
	sb := strings.Builder{}
	cursorString := e.Location.CursorString()
	if cursorString != "" {
		sb.WriteString(fmt.Sprintf("%s %s", cursorString, e.Message))
	} else {
		sb.WriteString(e.Message)
	}

	var uniqueExtra []ast.Location
	for _, e := range e.Extra {
		if !slices.ContainsFunc(uniqueExtra, func(x ast.Location) bool {
			return x.EqualsTo(e)
		}) {
			uniqueExtra = append(uniqueExtra, e)
		}
	}

	for _, extra := range uniqueExtra {
		sb.WriteString(fmt.Sprintf("\n+ %s", extra.CursorString()))
	}
	return sb.String()
}

func NewSystemError(err error) error {
	return systemError{inner: err}
}

type systemError struct {
	inner error
}

func (e systemError) Error() string {
	return fmt.Sprintf("system error: %v", e.inner)
}

func (e systemError) Unwrap() error {
	return e.inner
}

// NewCompilerError reports a broken internal invariant; it records the caller position.
func NewCompilerError(message string) error {
	_, file, line, _ := runtime.Caller(1)
	return CompilerError{Message: message, file: file, line: line}
}

type CompilerError struct {
	Message string
	file    string
	line    int
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("%s at %s:%d", e.Message, e.file, e.line)
}
