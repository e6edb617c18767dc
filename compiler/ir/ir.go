package ir

import "strconv"

type (
	// Temp is an anonymous single-assignment value, t-indexed.
	Temp int

	// Slot is a once-assigned named storage location, x-indexed.
	// Rebinding a source name makes a new slot, it never reuses one.
	Slot int

	Op byte

	// Instr is one Wheel IR instruction. Instructions are appended
	// in emission order and never rewritten.
	Instr interface{}

	Module struct {
		Funcs []*Func
		Types []*TypeDecl
	}

	Func struct {
		Name string
		In   int // parameter slots, x0..x(In-1)

		Code []Instr
	}

	// TypeDecl is recorded struct metadata. It is never lowered,
	// a later backend is the consumer.
	TypeDecl struct {
		Name       string
		Fields     []FieldDecl
		Positional bool
	}

	FieldDecl struct {
		Name string // empty for positional fields
		Type string
	}

	Label struct {
		Index int
	}

	Const struct {
		Dst   Temp
		Value int32
	}

	Load struct {
		Dst Temp
		Src Slot
	}

	BinOp struct {
		Dst   Temp
		Op    Op
		Left  Temp
		Right Temp
	}

	Call struct {
		Dst  Temp
		Func string
		Args []Temp
	}

	Store struct {
		Dst Slot
		Src Temp
	}

	Ret struct {
		Src Temp
	}
)

const (
	Add Op = '+'
	Mul Op = '*'
)

func (t Temp) String() string { return "t" + strconv.Itoa(int(t)) }
func (s Slot) String() string { return "x" + strconv.Itoa(int(s)) }

func (l Label) Name() string { return "L" + strconv.Itoa(l.Index) }

func (op Op) String() string { return string(byte(op)) }
