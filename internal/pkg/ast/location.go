package ast

import "fmt"

type Location struct {
	filePath string
	line     int
	column   int
}

func NewLocation(filePath string, line int, column int) Location {
	return Location{
		filePath: filePath,
		line:     line,
		column:   column,
	}
}

func (loc Location) EqualsTo(other Location) bool {
	return loc.filePath == other.filePath && loc.line == other.line && loc.column == other.column
}

func (loc Location) IsEmpty() bool {
	return loc.filePath == "" && loc.line == 0
}

func (loc Location) CursorString() string {
	if loc.IsEmpty() {
		return ""
	}
	line, col := loc.GetLineAndColumn()
	return fmt.Sprintf("%s:%d:%d", loc.filePath, line, col)
}

// GetLineAndColumn returns 1-based coordinates; an unknown column reports as 1.
func (loc Location) GetLineAndColumn() (line, column int) {
	line, column = loc.line, loc.column
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	return
}

func (loc Location) FilePath() string {
	return loc.filePath
}
