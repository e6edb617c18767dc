package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/wheellang/wheel/compiler"
	"github.com/wheellang/wheel/compiler/front"
)

func main() {
	tokensCmd := &cli.Command{
		Name:   "tokens",
		Action: tokensAct,
		Args:   cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "wheel",
		Description: "wheel is a tool for managing wheel source code",
		Commands: []*cli.Command{
			tokensCmd,
			parseCmd,
			compileCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func tokensAct(c *cli.Command) (err error) {
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		tks, err := front.Tokenize(ctx, text)
		if err != nil {
			return report(err, "tokenize %v", a)
		}

		for _, tk := range tks {
			fmt.Printf("%v: %v\n", tk.Pos, tk)
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		x, err := compiler.ParseProgram(ctx, text)
		if err != nil {
			return report(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", x)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a)
		if err != nil {
			return report(err, "compile %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}

func report(err error, f string, args ...interface{}) error {
	if d, ok := compiler.Diagnose(err); ok {
		fmt.Fprintf(os.Stderr, "%v\n", d)
	}

	return errors.Wrap(err, f, args...)
}
