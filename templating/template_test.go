package templating_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/interpol/lexer"
	"github.com/byte4ever/interpol/semantic"
	"github.com/byte4ever/interpol/templating"
)

func render(
	tb testing.TB,
	input string,
	cfg templating.Config,
	bindings map[string]string,
) (string, error) {
	tb.Helper()

	tpl, err := templating.Parse(input, cfg)
	require.NoError(tb, err)

	return tpl.Render(bindings)
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		cfg      templating.Config
		bindings map[string]string
		want     string
	}{
		{
			name:  "empty template",
			input: "",
			want:  "",
		},
		{
			name:  "text only",
			input: "Lorem ipsum dolor sit amet, { consectetur } adipiscing.",
			want:  "Lorem ipsum dolor sit amet, { consectetur } adipiscing.",
		},
		{
			name:     "single variable",
			input:    "Hello, {{name}}!",
			bindings: map[string]string{"name": "World"},
			want:     "Hello, World!",
		},
		{
			name:  "multiple variables",
			input: "{{greeting}}, {{name}}!",
			bindings: map[string]string{
				"greeting": "Hi", "name": "Bob",
			},
			want: "Hi, Bob!",
		},
		{
			name:  "repeated variables trimmed",
			input: "{{ aa }}!{{ bb }}{{ bb }}",
			bindings: map[string]string{
				"aa": "test", "bb": "this",
			},
			want: "test!thisthis",
		},
		{
			name:     "case insensitive by default",
			input:    "{{Name}}",
			bindings: map[string]string{"NAME": "World"},
			want:     "World",
		},
		{
			name:     "ignore undefined",
			input:    "Hello, {{name}}!",
			cfg:      templating.Config{IgnoreUndefinedVariables: true},
			bindings: map[string]string{},
			want:     "Hello, !",
		},
		{
			name:     "empty name is a key",
			input:    "{{ }}",
			bindings: map[string]string{"": "test"},
			want:     "test",
		},
		{
			name:     "empty value counts as bound",
			input:    "[{{v}}]",
			bindings: map[string]string{"v": ""},
			want:     "[]",
		},
		{
			name:     "values are not re-interpolated",
			input:    "{{a}}",
			bindings: map[string]string{"a": "{{b}}", "b": "no"},
			want:     "{{b}}",
		},
		{
			name:     "binding keys are normalized",
			input:    "{{name}}",
			bindings: map[string]string{"  NAME ": "x"},
			want:     "x",
		},
		{
			name:     "custom tags",
			input:    "Hello <%name%>, {{name}}",
			cfg:      templating.Config{StartTag: "<%", EndTag: "%>"},
			bindings: map[string]string{"name": "World"},
			want:     "Hello World, {{name}}",
		},
		{
			name:     "single brace tags",
			input:    "{BUILD_USER}@{HOST}",
			cfg:      templating.Config{StartTag: "{", EndTag: "}"},
			bindings: map[string]string{"build_user": "alice", "host": "ci"},
			want:     "alice@ci",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := render(t, tc.input, tc.cfg, tc.bindings)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRender_unbound_variable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		cfg      templating.Config
		bindings map[string]string
		wantName string
		wantPos  lexer.Position
	}{
		{
			name:     "missing",
			input:    "Hello, {{name}}!",
			bindings: map[string]string{},
			wantName: "name",
			wantPos:  lexer.Position{Offset: 7, Column: 7},
		},
		{
			name:     "case mismatch",
			input:    "{{Name}}",
			cfg:      templating.Config{CaseSensitive: true},
			bindings: map[string]string{"name": "World"},
			wantName: "Name",
		},
		{
			name:     "untrimmed name",
			input:    "{{ name }}",
			cfg:      templating.Config{SkipVariableContentTrimming: true},
			bindings: map[string]string{"name": "World"},
			wantName: " name ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := render(t, tc.input, tc.cfg, tc.bindings)
			assert.Empty(t, got)

			var unbound *templating.UnboundVariableError
			require.True(t, errors.As(err, &unbound))

			assert.Equal(t, tc.wantName, unbound.Name)
			assert.Equal(t, tc.wantPos, unbound.Position)
			assert.Contains(
				t, err.Error(),
				`variable "`+tc.wantName+`" is not defined`,
			)
		})
	}
}

func TestRender_collision_is_deterministic(t *testing.T) {
	t.Parallel()

	bindings := map[string]string{
		"NAME": "upper",
		"name": "lower",
		"Name": "title",
	}

	for range 20 {
		got, err := render(t, "{{name}}", templating.Config{}, bindings)

		require.NoError(t, err)
		assert.Equal(t, "lower", got)
	}
}

func TestParse_syntax_error(t *testing.T) {
	t.Parallel()

	tpl, err := templating.Parse("Hello {{ name", templating.Config{})
	assert.Nil(t, tpl)

	synErr, ok := err.(*semantic.SyntaxError) //nolint:errorlint // returned unwrapped
	require.True(t, ok, "got %T", err)
	assert.True(t, synErr.IsEndOfInput())
	assert.Equal(t, "unexpected end of input, expected DELIM_END", err.Error())
}

func TestParse_invalid_tags(t *testing.T) {
	t.Parallel()

	_, err := templating.Parse("x", templating.Config{
		StartTag: "##", EndTag: "##",
	})

	require.ErrorIs(t, err, lexer.ErrInvalidDelimiters)
}

func TestMustParse_panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		templating.MustParse("}}", templating.Config{})
	})
}

func TestHasVariable(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse("{{var1}} {{ Var2 }}", templating.Config{})

	assert.True(t, tpl.HasVariable("var1"))
	assert.True(t, tpl.HasVariable("VAR2"))
	assert.True(t, tpl.HasVariable(" var2"))
	assert.False(t, tpl.HasVariable("var3"))
}

func TestHasVariable_case_sensitive(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse(
		"{{Var}}", templating.Config{CaseSensitive: true},
	)

	assert.True(t, tpl.HasVariable("Var"))
	assert.False(t, tpl.HasVariable("var"))
}

func TestVariables_first_occurrence_order(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse(
		"{{ b }}{{a}}{{B}}{{c}}", templating.Config{},
	)

	assert.Equal(t, []string{"b", "a", "c"}, tpl.Variables())
}

func TestTokens_returns_copy(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse("a{{b}}", templating.Config{})

	tokens := tpl.Tokens()
	require.Len(t, tokens, 2)

	tokens[0].Value = "changed"

	assert.Equal(t, "a", tpl.Tokens()[0].Value)
}

func TestExecute(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse("Hi {{who}}", templating.Config{})

	var buf bytes.Buffer

	n, err := tpl.Execute(&buf, map[string]string{"who": "there"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "Hi there", buf.String())

	buf.Reset()

	_, err = tpl.Execute(&buf, nil)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestNormalizeName_idempotent(t *testing.T) {
	t.Parallel()

	policies := []templating.Config{
		{},
		{CaseSensitive: true},
		{SkipVariableContentTrimming: true},
		{CaseSensitive: true, SkipVariableContentTrimming: true},
	}

	names := []string{"", " ", "Name", "  MiXeD Case  ", "\tx\n", "ÄÖÜ"}

	for _, cfg := range policies {
		for _, name := range names {
			once := cfg.NormalizeName(name)

			assert.Equal(t, once, cfg.NormalizeName(once), "%+v %q", cfg, name)
		}
	}
}

func TestRender_concurrent(t *testing.T) {
	t.Parallel()

	tpl := templating.MustParse("{{a}}-{{b}}", templating.Config{})

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			val := strings.Repeat("x", i)

			got, err := tpl.Render(map[string]string{"a": val, "b": val})
			assert.NoError(t, err)
			assert.Equal(t, val+"-"+val, got)
		}()
	}

	wg.Wait()
}

func TestRender_matches_fasttemplate(t *testing.T) {
	t.Parallel()

	bindings := map[string]string{
		"user": "alice", "host": "ci-01", "sha": "deadbeef",
	}

	ctx := make(map[string]interface{}, len(bindings))
	for key, val := range bindings {
		ctx[key] = val
	}

	inputs := []string{
		"{{user}}@{{host}}",
		"commit {{sha}} by {{user}}\n",
		"plain text",
		"{{sha}}{{sha}}{{sha}}",
		"{ not a tag } {{host}}",
	}

	for _, input := range inputs {
		got, err := render(t, input, templating.Config{}, bindings)
		require.NoError(t, err)

		want := fasttemplate.ExecuteString(input, "{{", "}}", ctx)

		assert.Equal(t, want, got, input)
	}
}

func FuzzRender_delimiter_free_identity(f *testing.F) {
	f.Add("Hello World")
	f.Add("{ } { }")
	f.Add("")
	f.Add("line\nbreak\t{x}")

	f.Fuzz(func(t *testing.T, input string) {
		if strings.Contains(input, "{{") || strings.Contains(input, "}}") {
			return
		}

		tpl, err := templating.Parse(input, templating.Config{})
		require.NoError(t, err)

		got, err := tpl.Render(map[string]string{"any": "value"})
		require.NoError(t, err)
		require.Equal(t, input, got)
	})
}
