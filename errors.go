package grammar

import (
	"fmt"

	"golang.org/x/xerrors"
)

// GrammarError reports a malformed grammar: an unknown symbol at expansion
// time, a range inversion in a built-in generator, a missing required
// attribute, or a failure inside a user-defined callback.
type GrammarError struct {
	msg   string
	frame xerrors.Frame
}

func newGrammarError(format string, a ...interface{}) *GrammarError {
	return &GrammarError{
		msg:   xerrors.Errorf(format, a...).Error(),
		frame: xerrors.Caller(1),
	}
}

func (e *GrammarError) Error() string { return e.msg }

func (e *GrammarError) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }

func (e *GrammarError) FormatError(p xerrors.Printer) error {
	p.Print(e.msg)
	e.frame.Format(p)
	return nil
}

// RecursionError reports that the maximum recursion depth (Grammar.recursionMax)
// was reached while expanding a symbol.
type RecursionError struct {
	symbol string
	frame  xerrors.Frame
}

func newRecursionError(symbol string) *RecursionError {
	return &RecursionError{symbol: symbol, frame: xerrors.Caller(1)}
}

func (e *RecursionError) Error() string {
	return "maximum recursion level reached while creating object of type " + e.symbol
}

func (e *RecursionError) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }

func (e *RecursionError) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return nil
}
