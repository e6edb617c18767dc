package span

import "fmt"

type (
	// Pos is a location in the source buffer.
	// Line and Col start at 1, Off is a byte offset.
	Pos struct {
		Off  int
		Line int
		Col  int
	}
)

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
