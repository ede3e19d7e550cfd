package lexer

import "fmt"

// Position locates a token in the template source. All
// fields are zero-based. Offset is a byte offset, Column
// counts runes since the last newline.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders the position as a 1-based line:column
// pair, the form editors expect.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// advance returns the position following r, which
// occupies width bytes.
func (p Position) advance(r rune, width int) Position {
	next := Position{
		Offset: p.Offset + width,
		Line:   p.Line,
		Column: p.Column + 1,
	}

	if r == '\n' {
		next.Line++
		next.Column = 0
	}

	return next
}
