package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/byte4ever/interpol/templating"
)

// dumpTemplateTokens prints the semantic tokens of tpl in
// the requested format.
func dumpTemplateTokens(
	w io.Writer,
	tpl *templating.Template,
	format string,
) error {
	const errCtx = "dumping tokens"

	tokens := tpl.Tokens()

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(tokens); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil

	case "table":
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"#", "Kind", "Value", "Position"})

		for i, tok := range tokens {
			tw.AppendRow(table.Row{
				i, tok.Kind, fmt.Sprintf("%q", tok.Value), tok.Position,
			})
		}

		tw.Render()

		return nil

	default:
		return fmt.Errorf(
			"%s: unsupported format %q, want table or json",
			errCtx, format,
		)
	}
}
