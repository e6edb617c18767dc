package compiler

import (
	stderrors "errors"
	"fmt"

	"github.com/wheellang/wheel/compiler/front"
	"github.com/wheellang/wheel/compiler/lower"
	"github.com/wheellang/wheel/compiler/span"
)

type (
	Stage int

	// Diagnostic is the single structured failure surface of a
	// compilation: the first error of the failing stage with its
	// precise source position.
	Diagnostic struct {
		Stage Stage
		Kind  string
		Msg   string
		Line  int
		Col   int
	}
)

const (
	StageLex Stage = iota
	StageParse
	StageLower
)

// Diagnose maps a Compile error back to its structured diagnostic.
// It reports false for errors that did not come from a compile
// stage, such as file reading.
func Diagnose(err error) (d Diagnostic, ok bool) {
	var (
		lexErr   front.LexError
		parseErr front.ParseError

		undefErr  lower.UndefinedIdentifierError
		unkErr    lower.UnknownFunctionError
		arityErr  lower.ArityMismatchError
		typeErr   lower.TypeMismatchError
		noRetErr  lower.MissingReturnError
		unreach   lower.UnreachableCodeError
		redeclErr lower.RedeclaredError
	)

	switch {
	case stderrors.As(err, &lexErr):
		return diag(StageLex, "LexError", lexErr, lexErr.Pos), true
	case stderrors.As(err, &parseErr):
		return diag(StageParse, "ParseError", parseErr, parseErr.Pos), true
	case stderrors.As(err, &undefErr):
		return diag(StageLower, "UndefinedIdentifier", undefErr, undefErr.Pos), true
	case stderrors.As(err, &unkErr):
		return diag(StageLower, "UnknownFunction", unkErr, unkErr.Pos), true
	case stderrors.As(err, &arityErr):
		return diag(StageLower, "ArityMismatch", arityErr, arityErr.Pos), true
	case stderrors.As(err, &typeErr):
		return diag(StageLower, "TypeMismatch", typeErr, typeErr.Pos), true
	case stderrors.As(err, &noRetErr):
		return diag(StageLower, "MissingReturn", noRetErr, noRetErr.Pos), true
	case stderrors.As(err, &unreach):
		return diag(StageLower, "UnreachableCode", unreach, unreach.Pos), true
	case stderrors.As(err, &redeclErr):
		return diag(StageLower, "Redeclared", redeclErr, redeclErr.Pos), true
	}

	return d, false
}

func diag(st Stage, kind string, err error, pos span.Pos) Diagnostic {
	return Diagnostic{
		Stage: st,
		Kind:  kind,
		Msg:   err.Error(),
		Line:  pos.Line,
		Col:   pos.Col,
	}
}

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "Lex"
	case StageParse:
		return "Parse"
	case StageLower:
		return "Lower"
	}

	return fmt.Sprintf("Stage(%d)", int(s))
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v:%v: %v: %v", d.Line, d.Col, d.Stage, d.Msg)
}
