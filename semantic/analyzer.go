package semantic

import "github.com/byte4ever/interpol/lexer"

// state is the analyzer's position in the grammar: either
// noTarget or pendingVariable.
type state interface {
	isState()
}

// noTarget is ready to start a new semantic token.
type noTarget struct{}

// pendingVariable is mid-way through a VARIABLE. remaining
// lists the raw token kinds still required, in order; a
// mismatch reports the whole queue, unmet kind first.
type pendingVariable struct {
	start     lexer.Position
	value     string
	remaining []lexer.Kind
}

func (noTarget) isState() {}

func (pendingVariable) isState() {}

// Analyze validates tokens and returns the semantic
// tokens they form. On failure it returns a *SyntaxError
// and no tokens.
func Analyze(tokens []lexer.RawToken) ([]Token, error) {
	out := make([]Token, 0, len(tokens))

	var st state = noTarget{}

	for i := range tokens {
		raw := &tokens[i]

		switch cur := st.(type) {
		case noTarget:
			switch raw.Kind {
			case lexer.Text:
				out = append(out, Token{
					Kind:     Text,
					Value:    raw.Fragment,
					Position: raw.Position,
				})
			case lexer.DelimStart:
				st = pendingVariable{
					start: raw.Position,
					remaining: []lexer.Kind{
						lexer.Text, lexer.DelimEnd,
					},
				}
			default:
				return nil, newSyntaxError(
					raw, lexer.DelimStart, lexer.Text,
				)
			}

		case pendingVariable:
			if raw.Kind != cur.remaining[0] {
				return nil, newSyntaxError(raw, cur.remaining...)
			}

			cur.remaining = cur.remaining[1:]

			if raw.Kind == lexer.Text {
				cur.value = raw.Fragment
			}

			if len(cur.remaining) > 0 {
				st = cur

				continue
			}

			out = append(out, Token{
				Kind:     Variable,
				Value:    cur.value,
				Position: cur.start,
			})
			st = noTarget{}
		}
	}

	if cur, ok := st.(pendingVariable); ok {
		return nil, newSyntaxError(nil, cur.remaining...)
	}

	return out, nil
}
