package lexer

import "fmt"

// Kind classifies a raw token.
type Kind int

const (
	// Text is ordinary content.
	Text Kind = iota
	// DelimStart opens an interpolation region.
	DelimStart
	// DelimEnd closes an interpolation region.
	DelimEnd
)

var kindNames = [...]string{
	Text:       "TEXT",
	DelimStart: "DELIM_START",
	DelimEnd:   "DELIM_END",
}

// String returns the upper-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler so token
// dumps carry readable kind names.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RawToken is a contiguous lexical unit identified by the
// tokenizer, prior to grammar validation.
type RawToken struct {
	Kind     Kind     `json:"kind"`
	Fragment string   `json:"fragment"`
	Position Position `json:"position"`
}

// String returns a compact debug representation.
func (t RawToken) String() string {
	return fmt.Sprintf("%s %q @ %s", t.Kind, t.Fragment, t.Position)
}
