package templating

import (
	"fmt"
	"io"
	"strings"

	"github.com/byte4ever/interpol/lexer"
	"github.com/byte4ever/interpol/semantic"
)

// Template is a parsed template. It is immutable and safe
// for concurrent use by any number of Render calls.
type Template struct {
	cfg    Config
	tokens []semantic.Token
	index  map[string]semantic.Token
	names  []string
}

// Parse tokenizes and validates input. A syntax error is
// returned unchanged as *semantic.SyntaxError.
func Parse(input string, cfg Config) (*Template, error) {
	const errCtx = "parsing template"

	ms, err := lexer.NewMatcherSet(cfg.Delimiters())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tokens, err := semantic.Analyze(lexer.New(ms).Tokenize(input))
	if err != nil {
		return nil, err //nolint:wrapcheck // *semantic.SyntaxError as is
	}

	tpl := &Template{
		cfg:    cfg,
		tokens: tokens,
		index:  make(map[string]semantic.Token),
	}

	for _, tk := range tokens {
		if tk.Kind != semantic.Variable {
			continue
		}

		name := cfg.NormalizeName(tk.Value)
		if _, seen := tpl.index[name]; !seen {
			tpl.names = append(tpl.names, name)
		}

		// Later occurrences win; only presence is
		// observable.
		tpl.index[name] = tk
	}

	return tpl, nil
}

// MustParse is like Parse but panics on error. It suits
// package-level templates known at compile time.
func MustParse(input string, cfg Config) *Template {
	tpl, err := Parse(input, cfg)
	if err != nil {
		panic(err)
	}

	return tpl
}

// Config returns the configuration the template was
// parsed with.
func (t *Template) Config() Config {
	return t.cfg
}

// HasVariable reports whether the template references
// name, compared under the template's name policy.
func (t *Template) HasVariable(name string) bool {
	_, ok := t.index[t.cfg.NormalizeName(name)]

	return ok
}

// Variables returns the distinct normalized variable names
// in order of first appearance.
func (t *Template) Variables() []string {
	return append([]string(nil), t.names...)
}

// Tokens returns a copy of the semantic token sequence.
func (t *Template) Tokens() []semantic.Token {
	return append([]semantic.Token(nil), t.tokens...)
}

// Render substitutes bindings into the template. Lookup is
// presence based: a key bound to "" counts as bound. An
// unbound variable yields *UnboundVariableError unless
// IgnoreUndefinedVariables is set. Values are inserted
// verbatim and never re-interpolated.
func (t *Template) Render(bindings map[string]string) (string, error) {
	values := t.normalizeBindings(bindings)

	var sb strings.Builder

	for _, tk := range t.tokens {
		if tk.Kind == semantic.Text {
			sb.WriteString(tk.Value)

			continue
		}

		name := t.cfg.NormalizeName(tk.Value)

		val, ok := values[name]
		if !ok {
			if t.cfg.IgnoreUndefinedVariables {
				continue
			}

			return "", &UnboundVariableError{
				Name:     name,
				Position: tk.Position,
			}
		}

		sb.WriteString(val)
	}

	return sb.String(), nil
}

// Execute renders the template and writes the result to
// w. Nothing is written when rendering fails.
func (t *Template) Execute(
	w io.Writer,
	bindings map[string]string,
) (int64, error) {
	const errCtx = "executing template"

	out, err := t.Render(bindings)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errCtx, err)
	}

	n, err := io.WriteString(w, out)
	if err != nil {
		return int64(n), fmt.Errorf("%s: %w", errCtx, err)
	}

	return int64(n), nil
}

// normalizeBindings keys bindings by normalized name. When
// several keys collide the lexicographically greatest
// original key wins, so the outcome does not depend on map
// iteration order.
func (t *Template) normalizeBindings(
	bindings map[string]string,
) map[string]string {
	values := make(map[string]string, len(bindings))
	origins := make(map[string]string, len(bindings))

	for key, val := range bindings {
		name := t.cfg.NormalizeName(key)

		if prev, ok := origins[name]; ok && prev > key {
			continue
		}

		origins[name] = key
		values[name] = val
	}

	return values
}
