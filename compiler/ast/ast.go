package ast

import "github.com/wheellang/wheel/compiler/span"

type (
	Node interface {
		Position() span.Pos
	}

	Base struct {
		Pos span.Pos
	}

	// Program is an ordered sequence of top level items.
	Program struct {
		Items []Item
	}

	Item interface {
		Node
		item()
	}

	FuncDecl struct {
		Base

		Name   string
		Params []Param
		Ret    Type
		Body   *Block
	}

	Param struct {
		Base

		Name string
		Type Type
	}

	// StructDecl records an aggregate type.
	// Fields are either all named or all positional, never mixed.
	StructDecl struct {
		Base

		Name       string
		Fields     []Field
		Positional bool
	}

	Field struct {
		Base

		Name string // empty for positional fields
		Type Type
	}

	Type struct {
		Base

		Name string
	}

	Block struct {
		Base

		Stmts []Stmt
	}

	Stmt interface {
		Node
		stmt()
	}

	Let struct {
		Base

		Name string
		Type Type
		Expr Expr
	}

	Return struct {
		Base

		Expr Expr
	}

	ExprStmt struct {
		Base

		Expr Expr
	}

	Expr interface {
		Node
		expr()
	}

	IntLit struct {
		Base

		Value int32
	}

	Ident struct {
		Base

		Name string
	}

	BinOp struct {
		Base

		Op    Op
		Left  Expr
		Right Expr
	}

	Call struct {
		Base

		Name string
		Args []Expr
	}

	Op byte
)

const (
	Add Op = '+'
	Mul Op = '*'
)

func (b Base) Position() span.Pos { return b.Pos }

func (*FuncDecl) item()   {}
func (*StructDecl) item() {}

func (*Let) stmt()      {}
func (*Return) stmt()   {}
func (*ExprStmt) stmt() {}

func (*IntLit) expr() {}
func (*Ident) expr()  {}
func (*BinOp) expr()  {}
func (*Call) expr()   {}

func (op Op) String() string { return string(byte(op)) }
