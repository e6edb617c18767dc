package ir

import (
	"io"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

// Text renders the canonical textual form of the module: one block
// per function in declaration order, every line padded so that
// instructions align under the widest label prefix.
func Text(m *Module) ([]byte, error) {
	return AppendText(nil, m)
}

func AppendText(b []byte, m *Module) (_ []byte, err error) {
	pad := padding(m)

	for _, f := range m.Funcs {
		b, err = appendFunc(b, f, pad)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func Fprint(w io.Writer, m *Module) error {
	b, err := Text(m)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

func appendFunc(b []byte, f *Func, pad int) (_ []byte, err error) {
	inline := false

	for _, x := range f.Code {
		if lb, ok := x.(Label); ok {
			if inline {
				b = append(b, '\n')
			}

			b = append(b, lb.Name()...)
			b = append(b, ':')

			for n := len(lb.Name()) + 1; n < pad; n++ {
				b = append(b, ' ')
			}

			inline = true

			continue
		}

		if !inline {
			for n := 0; n < pad; n++ {
				b = append(b, ' ')
			}
		}

		b, err = appendInstr(b, x)
		if err != nil {
			return nil, err
		}

		b = append(b, '\n')
		inline = false
	}

	if inline {
		b = append(b, '\n')
	}

	return b, nil
}

func appendInstr(b []byte, x Instr) ([]byte, error) {
	switch x := x.(type) {
	case Const:
		b = hfmt.Appendf(b, "%v = %d", x.Dst, x.Value)
	case Load:
		b = hfmt.Appendf(b, "%v = %v", x.Dst, x.Src)
	case BinOp:
		b = hfmt.Appendf(b, "%v = %v %v %v", x.Dst, x.Left, x.Op, x.Right)
	case Call:
		b = hfmt.Appendf(b, "%v = %v(", x.Dst, x.Func)

		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "%v", a)
		}

		b = append(b, ')')
	case Store:
		b = hfmt.Appendf(b, "%v = %v", x.Dst, x.Src)
	case Ret:
		b = hfmt.Appendf(b, "ret %v", x.Src)
	default:
		return nil, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}

// padding is the label column width, wide enough for the last
// label of the module plus the colon and a space.
func padding(m *Module) int {
	last := 0

	for _, f := range m.Funcs {
		for _, x := range f.Code {
			if lb, ok := x.(Label); ok && lb.Index > last {
				last = lb.Index
			}
		}
	}

	return len(Label{Index: last}.Name()) + 2
}
