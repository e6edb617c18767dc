package lower

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/wheellang/wheel/compiler/ast"
	"github.com/wheellang/wheel/compiler/ir"
)

type (
	progContext struct {
		funcs map[string]sig
		types map[string]struct{}

		nextLabel int
	}

	sig struct {
		arity int
	}

	funcContext struct {
		f *ir.Func

		// slots is the append-only table of every slot ever
		// created in this function. binds maps a source name to
		// its most recent slot, so shadowing rebinds the name
		// while old slots stay valid.
		slots []slotDef
		binds map[string]ir.Slot

		temps int
	}

	slotDef struct {
		Name string
		Slot ir.Slot
	}
)

// Lower turns the syntax tree into Wheel IR, one function at a time
// in declaration order. The first failure aborts the whole program,
// nothing is kept of the failed function.
func Lower(ctx context.Context, prog *ast.Program) (m *ir.Module, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower program", "items", len(prog.Items))
	defer tr.Finish("err", &err)

	p := &progContext{
		funcs: make(map[string]sig),
		types: make(map[string]struct{}),
	}

	m = &ir.Module{}

	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FuncDecl:
			if _, ok := p.funcs[d.Name]; ok {
				return nil, NewRedeclared(d.Name, d.Pos)
			}

			// registered before the body so the function can call itself
			p.funcs[d.Name] = sig{arity: len(d.Params)}

			f, err := p.lowerFunc(ctx, d)
			if err != nil {
				return nil, errors.Wrap(err, "func %v", d.Name)
			}

			m.Funcs = append(m.Funcs, f)
		case *ast.StructDecl:
			if _, ok := p.types[d.Name]; ok {
				return nil, NewRedeclared(d.Name, d.Pos)
			}

			p.types[d.Name] = struct{}{}

			// type metadata only, no instructions
			m.Types = append(m.Types, lowerStruct(d))
		default:
			panic(d)
		}
	}

	return m, nil
}

func (p *progContext) lowerFunc(ctx context.Context, d *ast.FuncDecl) (_ *ir.Func, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower function", "name", d.Name, "label", p.nextLabel)
	defer tr.Finish("err", &err)

	fc := &funcContext{
		f: &ir.Func{
			Name: d.Name,
			In:   len(d.Params),
		},
		binds: make(map[string]ir.Slot),
	}

	fc.emit(ir.Label{Index: p.nextLabel})
	p.nextLabel++

	for _, prm := range d.Params {
		fc.newSlot(prm.Name)
	}

	last := len(d.Body.Stmts) - 1

	for i, st := range d.Body.Stmts {
		switch st := st.(type) {
		case *ast.Let:
			t, err := p.lowerExpr(fc, st.Expr)
			if err != nil {
				return nil, err
			}

			s := fc.newSlot(st.Name)
			fc.emit(ir.Store{Dst: s, Src: t})

			if i == last {
				return nil, NewMissingReturn(d.Name, st.Pos)
			}
		case *ast.Return:
			if i != last {
				return nil, NewUnreachableCode(d.Body.Stmts[i+1].Position())
			}

			t, err := p.lowerExpr(fc, st.Expr)
			if err != nil {
				return nil, err
			}

			fc.emit(ir.Ret{Src: t})
		case *ast.ExprStmt:
			t, err := p.lowerExpr(fc, st.Expr)
			if err != nil {
				return nil, err
			}

			// a trailing expression is the block's value,
			// any other bare expression result is dropped
			if i == last {
				fc.emit(ir.Ret{Src: t})
			}
		default:
			panic(st)
		}
	}

	if len(d.Body.Stmts) == 0 {
		return nil, NewMissingReturn(d.Name, d.Body.Pos)
	}

	tr.Printw("lowered", "instrs", len(fc.f.Code), "slots", len(fc.slots), "temps", fc.temps)

	return fc.f, nil
}

func (p *progContext) lowerExpr(fc *funcContext, x ast.Expr) (_ ir.Temp, err error) {
	switch x := x.(type) {
	case *ast.IntLit:
		t := fc.temp()
		fc.emit(ir.Const{Dst: t, Value: x.Value})

		return t, nil
	case *ast.Ident:
		s, ok := fc.binds[x.Name]
		if !ok {
			return 0, NewUndefinedIdentifier(x.Name, x.Pos)
		}

		t := fc.temp()
		fc.emit(ir.Load{Dst: t, Src: s})

		return t, nil
	case *ast.BinOp:
		// left fully before right, evaluation order is observable
		l, err := p.lowerExpr(fc, x.Left)
		if err != nil {
			return 0, errors.Wrap(err, "left")
		}

		r, err := p.lowerExpr(fc, x.Right)
		if err != nil {
			return 0, errors.Wrap(err, "right")
		}

		t := fc.temp()
		fc.emit(ir.BinOp{Dst: t, Op: ir.Op(x.Op), Left: l, Right: r})

		return t, nil
	case *ast.Call:
		f, ok := p.funcs[x.Name]
		if !ok {
			return 0, NewUnknownFunction(x.Name, x.Pos)
		}

		if f.arity != len(x.Args) {
			return 0, NewArityMismatch(x.Name, f.arity, len(x.Args), x.Pos)
		}

		args := make([]ir.Temp, len(x.Args))

		for i, a := range x.Args {
			args[i], err = p.lowerExpr(fc, a)
			if err != nil {
				return 0, errors.Wrap(err, "call %v", x.Name)
			}
		}

		t := fc.temp()
		fc.emit(ir.Call{Dst: t, Func: x.Name, Args: args})

		return t, nil
	default:
		panic(x)
	}
}

func lowerStruct(d *ast.StructDecl) *ir.TypeDecl {
	t := &ir.TypeDecl{
		Name:       d.Name,
		Positional: d.Positional,
	}

	for _, f := range d.Fields {
		t.Fields = append(t.Fields, ir.FieldDecl{
			Name: f.Name,
			Type: f.Type.Name,
		})
	}

	return t
}

func (fc *funcContext) emit(x ir.Instr) {
	fc.f.Code = append(fc.f.Code, x)
}

func (fc *funcContext) temp() ir.Temp {
	t := ir.Temp(fc.temps)
	fc.temps++

	return t
}

func (fc *funcContext) newSlot(name string) ir.Slot {
	s := ir.Slot(len(fc.slots))

	fc.slots = append(fc.slots, slotDef{Name: name, Slot: s})
	fc.binds[name] = s

	return s
}
