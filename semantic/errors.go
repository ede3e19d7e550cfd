package semantic

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/byte4ever/interpol/lexer"
)

// excerptRunes caps the fragment shown by Report.
const excerptRunes = 50

// SyntaxError reports a raw token sequence that breaks
// the grammar. Token is nil when the input ended while a
// variable was still open.
type SyntaxError struct {
	Token    *lexer.RawToken
	Expected []lexer.Kind
}

func newSyntaxError(
	token *lexer.RawToken,
	expected ...lexer.Kind,
) *SyntaxError {
	err := &SyntaxError{
		Expected: append([]lexer.Kind(nil), expected...),
	}

	if token != nil {
		tk := *token
		err.Token = &tk
	}

	return err
}

// IsEndOfInput reports whether the sequence ended
// prematurely.
func (e *SyntaxError) IsEndOfInput() bool {
	return e.Token == nil
}

// Error returns a single-line description with the
// 1-based location of the offending token.
func (e *SyntaxError) Error() string {
	var sb strings.Builder

	if e.Token == nil {
		sb.WriteString("unexpected end of input")
	} else {
		fmt.Fprintf(
			&sb, "unexpected token %s at %s",
			e.Token.Kind, e.Token.Position,
		)
	}

	if len(e.Expected) > 0 {
		sb.WriteString(", expected ")
		sb.WriteString(joinKinds(e.Expected))
	}

	return sb.String()
}

// Report renders Error followed by an excerpt of the
// offending fragment and a caret line underneath it.
func (e *SyntaxError) Report() string {
	if e.Token == nil {
		return e.Error()
	}

	excerpt := e.Token.Fragment
	if runes := []rune(excerpt); len(runes) > excerptRunes {
		excerpt = string(runes[:excerptRunes])
	}

	excerpt = strings.NewReplacer("\n", " ", "\t", " ").Replace(excerpt)

	width := max(runewidth.StringWidth(excerpt), 1)

	return fmt.Sprintf(
		"%s\n\tat %s\n\t%s\n\t%s",
		e.Error(),
		e.Token.Position,
		excerpt,
		strings.Repeat("^", width),
	)
}

func joinKinds(kinds []lexer.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	return strings.Join(names, ", ")
}
