package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/wheellang/wheel/compiler/ast"
	"github.com/wheellang/wheel/compiler/span"
)

type (
	// Parser is a one-token-lookahead recursive descent parser
	// over a complete token stream.
	Parser struct {
		tks []Token
		i   int
	}

	ParseError struct {
		Expected string
		Found    Token
		Pos      span.Pos
	}
)

// Parse tokenizes and parses the whole buffer.
// The first mismatch aborts with no partial tree.
func Parse(ctx context.Context, text []byte) (p *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: parse", "size", len(text))
	defer tr.Finish("err", &err)

	tks, err := Tokenize(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "tokenize")
	}

	tr.Printw("tokenized", "tokens", len(tks))

	return NewParser(tks).Program(ctx)
}

func NewParser(tks []Token) *Parser {
	if len(tks) == 0 || tks[len(tks)-1].Kind != EOF {
		panic("token stream must end in EOF")
	}

	return &Parser{tks: tks}
}

func (p *Parser) Program(ctx context.Context) (*ast.Program, error) {
	prog := &ast.Program{}

	for p.cur().Kind != EOF {
		item, err := p.item(ctx)
		if err != nil {
			return nil, err
		}

		prog.Items = append(prog.Items, item)
	}

	return prog, nil
}

func (p *Parser) item(ctx context.Context) (ast.Item, error) {
	switch p.cur().Kind {
	case KwFn:
		return p.funcDecl(ctx)
	case KwStruct:
		return p.structDecl(ctx)
	default:
		return nil, p.unexpected("'fn' or 'struct'")
	}
}

func (p *Parser) funcDecl(ctx context.Context) (f *ast.FuncDecl, err error) {
	kw, _ := p.expect(KwFn)

	name, err := p.expect(Ident)
	if err != nil {
		return nil, errors.Wrap(err, "function name")
	}

	f = &ast.FuncDecl{
		Base: base(kw.Pos),
		Name: name.Text,
	}

	_, err = p.expect(LParen)
	if err != nil {
		return nil, err
	}

	for p.cur().Kind != RParen {
		prm, err := p.param()
		if err != nil {
			return nil, errors.Wrap(err, "parameter")
		}

		f.Params = append(f.Params, prm)

		if p.cur().Kind != Comma {
			break
		}

		p.next()
	}

	_, err = p.expect(RParen)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(Arrow)
	if err != nil {
		return nil, err
	}

	f.Ret, err = p.typ()
	if err != nil {
		return nil, errors.Wrap(err, "return type")
	}

	f.Body, err = p.block(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", f.Name)
	}

	tlog.SpanFromContext(ctx).Printw("func decl", "name", f.Name, "params", len(f.Params), "stmts", len(f.Body.Stmts))

	return f, nil
}

func (p *Parser) param() (prm ast.Param, err error) {
	name, err := p.expect(Ident)
	if err != nil {
		return prm, err
	}

	_, err = p.expect(Colon)
	if err != nil {
		return prm, err
	}

	typ, err := p.typ()
	if err != nil {
		return prm, err
	}

	return ast.Param{
		Base: base(name.Pos),
		Name: name.Text,
		Type: typ,
	}, nil
}

// structDecl parses either field form. The forms never mix:
// braces take named fields only, parens positional only.
func (p *Parser) structDecl(ctx context.Context) (d *ast.StructDecl, err error) {
	kw, _ := p.expect(KwStruct)

	name, err := p.expect(Ident)
	if err != nil {
		return nil, errors.Wrap(err, "struct name")
	}

	d = &ast.StructDecl{
		Base: base(kw.Pos),
		Name: name.Text,
	}

	switch p.cur().Kind {
	case LBrace:
		p.next()

		for p.cur().Kind != RBrace {
			f, err := p.namedField()
			if err != nil {
				return nil, errors.Wrap(err, "struct %v", d.Name)
			}

			d.Fields = append(d.Fields, f)

			if p.cur().Kind != Comma {
				break
			}

			p.next()
		}

		_, err = p.expect(RBrace)
		if err != nil {
			return nil, err
		}
	case LParen:
		p.next()
		d.Positional = true

		for p.cur().Kind != RParen {
			typ, err := p.typ()
			if err != nil {
				return nil, errors.Wrap(err, "struct %v", d.Name)
			}

			d.Fields = append(d.Fields, ast.Field{
				Base: base(typ.Pos),
				Type: typ,
			})

			if p.cur().Kind != Comma {
				break
			}

			p.next()
		}

		_, err = p.expect(RParen)
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("'{' or '('")
	}

	if p.cur().Kind == Semi {
		p.next()
	}

	tlog.SpanFromContext(ctx).Printw("struct decl", "name", d.Name, "fields", len(d.Fields), "positional", d.Positional)

	return d, nil
}

func (p *Parser) namedField() (f ast.Field, err error) {
	name, err := p.expect(Ident)
	if err != nil {
		return f, err
	}

	_, err = p.expect(Colon)
	if err != nil {
		return f, err
	}

	typ, err := p.typ()
	if err != nil {
		return f, err
	}

	return ast.Field{
		Base: base(name.Pos),
		Name: name.Text,
		Type: typ,
	}, nil
}

func (p *Parser) typ() (t ast.Type, err error) {
	name, err := p.expect(Ident)
	if err != nil {
		return t, errors.Wrap(err, "type")
	}

	return ast.Type{
		Base: base(name.Pos),
		Name: name.Text,
	}, nil
}

func (p *Parser) block(ctx context.Context) (b *ast.Block, err error) {
	lb, err := p.expect(LBrace)
	if err != nil {
		return nil, err
	}

	b = &ast.Block{Base: base(lb.Pos)}

	for p.cur().Kind != RBrace {
		st, err := p.stmt(ctx)
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, st)
	}

	p.next()

	return b, nil
}

func (p *Parser) stmt(ctx context.Context) (st ast.Stmt, err error) {
	switch tk := p.cur(); tk.Kind {
	case KwLet:
		st, err = p.letStmt()
	case KwReturn:
		p.next()

		var x ast.Expr
		x, err = p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "return value")
		}

		st = &ast.Return{Base: base(tk.Pos), Expr: x}
	default:
		var x ast.Expr
		x, err = p.expr()
		if err != nil {
			return nil, err
		}

		st = &ast.ExprStmt{Base: base(x.Position()), Expr: x}
	}

	if err != nil {
		return nil, err
	}

	_, err = p.expect(Semi)
	if err != nil {
		return nil, err
	}

	return st, nil
}

func (p *Parser) letStmt() (st ast.Stmt, err error) {
	kw, _ := p.expect(KwLet)

	name, err := p.expect(Ident)
	if err != nil {
		return nil, errors.Wrap(err, "let name")
	}

	_, err = p.expect(Colon)
	if err != nil {
		return nil, err
	}

	typ, err := p.typ()
	if err != nil {
		return nil, err
	}

	_, err = p.expect(Assign)
	if err != nil {
		return nil, err
	}

	x, err := p.expr()
	if err != nil {
		return nil, errors.Wrap(err, "let value")
	}

	return &ast.Let{
		Base: base(kw.Pos),
		Name: name.Text,
		Type: typ,
		Expr: x,
	}, nil
}

// expr := term { "+" term }
func (p *Parser) expr() (x ast.Expr, err error) {
	x, err = p.term()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == Plus {
		op := p.cur()
		p.next()

		y, err := p.term()
		if err != nil {
			return nil, err
		}

		x = &ast.BinOp{
			Base:  base(op.Pos),
			Op:    ast.Add,
			Left:  x,
			Right: y,
		}
	}

	return x, nil
}

// term := factor { "*" factor }
func (p *Parser) term() (x ast.Expr, err error) {
	x, err = p.factor()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == Star {
		op := p.cur()
		p.next()

		y, err := p.factor()
		if err != nil {
			return nil, err
		}

		x = &ast.BinOp{
			Base:  base(op.Pos),
			Op:    ast.Mul,
			Left:  x,
			Right: y,
		}
	}

	return x, nil
}

// factor := int-lit | ident | call | "(" expr ")"
func (p *Parser) factor() (x ast.Expr, err error) {
	switch tk := p.cur(); tk.Kind {
	case IntLit:
		p.next()

		return &ast.IntLit{Base: base(tk.Pos), Value: tk.Int}, nil
	case Ident:
		p.next()

		if p.cur().Kind != LParen {
			return &ast.Ident{Base: base(tk.Pos), Name: tk.Text}, nil
		}

		return p.call(tk)
	case LParen:
		p.next()

		x, err = p.expr()
		if err != nil {
			return nil, err
		}

		_, err = p.expect(RParen)
		if err != nil {
			return nil, err
		}

		return x, nil
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) call(name Token) (x ast.Expr, err error) {
	p.next() // (

	c := &ast.Call{
		Base: base(name.Pos),
		Name: name.Text,
	}

	for p.cur().Kind != RParen {
		arg, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "call %v", c.Name)
		}

		c.Args = append(c.Args, arg)

		if p.cur().Kind != Comma {
			break
		}

		p.next()
	}

	_, err = p.expect(RParen)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (p *Parser) cur() Token {
	return p.tks[p.i]
}

func (p *Parser) next() {
	if p.i+1 < len(p.tks) {
		p.i++
	}
}

func (p *Parser) expect(k Kind) (tk Token, err error) {
	tk = p.cur()
	if tk.Kind != k {
		return tk, p.unexpected(k.String())
	}

	p.next()

	return tk, nil
}

func (p *Parser) unexpected(expected string) error {
	tk := p.cur()

	return NewParseError(expected, tk)
}

func base(pos span.Pos) ast.Base {
	return ast.Base{Pos: pos}
}

func NewParseError(expected string, found Token) ParseError {
	return ParseError{
		Expected: expected,
		Found:    found,
		Pos:      found.Pos,
	}
}

func (e ParseError) Error() string {
	return fmt.Sprintf("expected %v, found %v", e.Expected, e.Found)
}
