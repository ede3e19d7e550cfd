package semantic

import (
	"fmt"

	"github.com/byte4ever/interpol/lexer"
)

// Kind classifies a semantic token.
type Kind int

const (
	// Text is literal output.
	Text Kind = iota
	// Variable is a reference resolved at render time.
	Variable
)

// String returns the upper-case kind name.
func (k Kind) String() string {
	switch k {
	case Text:
		return "TEXT"
	case Variable:
		return "VARIABLE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a grammar-validated unit. For Text, Value is
// the literal; for Variable, Value is the raw captured
// name, before any normalization.
type Token struct {
	Kind     Kind           `json:"kind"`
	Value    string         `json:"value"`
	Position lexer.Position `json:"position"`
}
