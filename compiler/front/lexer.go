package front

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/wheellang/wheel/compiler/span"
)

type (
	Kind int

	Token struct {
		Kind Kind
		Text string
		Int  int32 // value of an IntLit token
		Pos  span.Pos
	}

	Lexer struct {
		b []byte
		i int

		line, col int
	}

	LexError struct {
		Char byte   // offending character
		Lit  string // offending literal, if the character itself was fine
		Pos  span.Pos
	}
)

const (
	EOF Kind = iota
	Ident
	IntLit

	KwFn
	KwStruct
	KwLet
	KwReturn

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon
	Semi
	Arrow
	Plus
	Star
	Assign
)

// Tokenize consumes the whole buffer and returns the token stream,
// EOF marker included. The first bad character aborts lexing.
func Tokenize(ctx context.Context, text []byte) (tks []Token, err error) {
	l := NewLexer(text)

	for {
		tk, err := l.Next(ctx)
		if err != nil {
			return nil, err
		}

		tks = append(tks, tk)

		if tk.Kind == EOF {
			return tks, nil
		}
	}
}

func NewLexer(text []byte) *Lexer {
	return &Lexer{
		b:    text,
		line: 1,
		col:  1,
	}
}

func (l *Lexer) Next(ctx context.Context) (tk Token, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("token") {
		defer func() {
			tr.Printw("next token", "tk", tk, "err", err, "from", loc.Callers(1, 3))
		}()
	}

	l.skipSpaces()

	tk.Pos = l.pos()

	if l.i == len(l.b) {
		tk.Kind = EOF
		return tk, nil
	}

	c := l.b[l.i]

	switch {
	case c >= '0' && c <= '9':
		return l.number()
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		return l.word()
	}

	switch c {
	case '(':
		tk.Kind = LParen
	case ')':
		tk.Kind = RParen
	case '{':
		tk.Kind = LBrace
	case '}':
		tk.Kind = RBrace
	case ',':
		tk.Kind = Comma
	case ':':
		tk.Kind = Colon
	case ';':
		tk.Kind = Semi
	case '+':
		tk.Kind = Plus
	case '*':
		tk.Kind = Star
	case '=':
		tk.Kind = Assign
	case '-':
		// only valid as part of `->`
		if l.i+1 == len(l.b) || l.b[l.i+1] != '>' {
			return tk, NewLexError(c, tk.Pos)
		}

		l.step()
		tk.Kind = Arrow
	default:
		return tk, NewLexError(c, tk.Pos)
	}

	tk.Text = string(l.b[tk.Pos.Off : l.i+1])
	l.step()

	return tk, nil
}

func (l *Lexer) word() (tk Token, err error) {
	tk.Pos = l.pos()

	st := l.i
	for l.i < len(l.b) && isWordByte(l.b[l.i]) {
		l.step()
	}

	tk.Text = string(l.b[st:l.i])

	switch tk.Text {
	case "fn":
		tk.Kind = KwFn
	case "struct":
		tk.Kind = KwStruct
	case "let":
		tk.Kind = KwLet
	case "return":
		tk.Kind = KwReturn
	default:
		tk.Kind = Ident
	}

	return tk, nil
}

func (l *Lexer) number() (tk Token, err error) {
	tk.Pos = l.pos()
	tk.Kind = IntLit

	st := l.i
	for l.i < len(l.b) && l.b[l.i] >= '0' && l.b[l.i] <= '9' {
		l.step()
	}

	tk.Text = string(l.b[st:l.i])

	v, err := strconv.ParseInt(tk.Text, 10, 32)
	if err != nil {
		return tk, errors.Wrap(NewLitError(tk.Text, tk.Pos), "parse int")
	}

	tk.Int = int32(v)

	return tk, nil
}

func (l *Lexer) skipSpaces() {
	for l.i < len(l.b) {
		switch l.b[l.i] {
		case ' ', '\t', '\r', '\n':
			l.step()
		default:
			return
		}
	}
}

func (l *Lexer) step() {
	if l.b[l.i] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.i++
}

func (l *Lexer) pos() span.Pos {
	return span.Pos{Off: l.i, Line: l.line, Col: l.col}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func NewLexError(c byte, pos span.Pos) LexError {
	return LexError{Char: c, Pos: pos}
}

func NewLitError(lit string, pos span.Pos) LexError {
	return LexError{Lit: lit, Pos: pos}
}

func (e LexError) Error() string {
	if e.Lit != "" {
		return fmt.Sprintf("integer literal out of range: %v", e.Lit)
	}

	return fmt.Sprintf("unexpected character %q", e.Char)
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case KwFn:
		return "'fn'"
	case KwStruct:
		return "'struct'"
	case KwLet:
		return "'let'"
	case KwReturn:
		return "'return'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case Semi:
		return "';'"
	case Arrow:
		return "'->'"
	case Plus:
		return "'+'"
	case Star:
		return "'*'"
	case Assign:
		return "'='"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (tk Token) String() string {
	switch tk.Kind {
	case Ident, IntLit:
		return fmt.Sprintf("%v %v", tk.Kind, tk.Text)
	}

	return tk.Kind.String()
}
