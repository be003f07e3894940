package compiler

import (
	"fmt"
	"strings"
)

// Error is a single compile diagnostic.
type Error struct {
	Line    int
	Where   string // " at 'x'", " at end", or empty for lexer errors
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// Errors collects every diagnostic reported while compiling one source.
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}
