package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/wheellang/wheel/compiler/ast"
	"github.com/wheellang/wheel/compiler/front"
	"github.com/wheellang/wheel/compiler/ir"
	"github.com/wheellang/wheel/compiler/lower"
)

func CompileFile(ctx context.Context, name string) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile runs the whole pipeline over an in-memory buffer and
// returns the canonical textual form of the Wheel IR. On failure the
// returned error carries exactly one stage diagnostic, see Diagnose.
func Compile(ctx context.Context, name string, text []byte) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	m, err := Build(ctx, text)
	if err != nil {
		return nil, err
	}

	obj, err = ir.Text(m)
	if err != nil {
		return nil, errors.Wrap(err, "print")
	}

	return obj, nil
}

// Build stops before serialization and returns the in-memory module.
func Build(ctx context.Context, text []byte) (m *ir.Module, err error) {
	prog, err := ParseProgram(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	m, err = lower.Lower(ctx, prog)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	return m, nil
}

func ParseProgram(ctx context.Context, text []byte) (*ast.Program, error) {
	return front.Parse(ctx, text)
}
