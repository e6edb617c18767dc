package lower

import (
	"fmt"

	"github.com/wheellang/wheel/compiler/span"
)

type (
	UndefinedIdentifierError struct {
		Name string
		Pos  span.Pos
	}

	UnknownFunctionError struct {
		Name string
		Pos  span.Pos
	}

	ArityMismatchError struct {
		Name string
		Want int
		Got  int
		Pos  span.Pos
	}

	// TypeMismatchError is reserved. The language has a single
	// scalar type today, so nothing produces it yet.
	TypeMismatchError struct {
		Want string
		Got  string
		Pos  span.Pos
	}

	MissingReturnError struct {
		Func string
		Pos  span.Pos
	}

	UnreachableCodeError struct {
		Pos span.Pos
	}

	RedeclaredError struct {
		Name string
		Pos  span.Pos
	}
)

func NewUndefinedIdentifier(name string, pos span.Pos) UndefinedIdentifierError {
	return UndefinedIdentifierError{Name: name, Pos: pos}
}

func (e UndefinedIdentifierError) Error() string {
	return fmt.Sprintf("undefined identifier: %v", e.Name)
}

func NewUnknownFunction(name string, pos span.Pos) UnknownFunctionError {
	return UnknownFunctionError{Name: name, Pos: pos}
}

func (e UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %v", e.Name)
}

func NewArityMismatch(name string, want, got int, pos span.Pos) ArityMismatchError {
	return ArityMismatchError{Name: name, Want: want, Got: got, Pos: pos}
}

func (e ArityMismatchError) Error() string {
	return fmt.Sprintf("function %v takes %d arguments, got %d", e.Name, e.Want, e.Got)
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %v, got %v", e.Want, e.Got)
}

func NewMissingReturn(fn string, pos span.Pos) MissingReturnError {
	return MissingReturnError{Func: fn, Pos: pos}
}

func (e MissingReturnError) Error() string {
	return fmt.Sprintf("function %v body produces no value", e.Func)
}

func NewUnreachableCode(pos span.Pos) UnreachableCodeError {
	return UnreachableCodeError{Pos: pos}
}

func (e UnreachableCodeError) Error() string {
	return "unreachable code after return"
}

func NewRedeclared(name string, pos span.Pos) RedeclaredError {
	return RedeclaredError{Name: name, Pos: pos}
}

func (e RedeclaredError) Error() string {
	return fmt.Sprintf("name redefined: %v", e.Name)
}
