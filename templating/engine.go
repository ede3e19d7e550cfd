package templating

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/byte4ever/interpol/bindings"
	"github.com/byte4ever/interpol/source"
)

// defaultParallelism bounds ExpandAll when Parallelism is
// not set.
const defaultParallelism = 4

// Engine expands template files using stamp info files,
// explicit variables and imported partials.
type Engine struct {
	// Config is applied to templates and imports.
	Config Config

	// StampInfoFiles are workspace status files
	// forming the base binding context.
	StampInfoFiles []string

	// Source reads templates and imports. Nil means
	// source.Local.
	Source source.Fetcher

	// Stdout receives output when a job has no
	// OutputPath. Nil means os.Stdout.
	Stdout io.Writer

	// Parallelism bounds concurrent jobs in
	// ExpandAll.
	Parallelism int
}

// Job describes one template expansion. Use a Job instead
// of many arguments.
type Job struct {
	// TemplatePath is handed to the Source; empty
	// reads stdin with the local source.
	TemplatePath string

	// OutputPath is the file to write; empty writes
	// to Stdout.
	OutputPath string

	// Variables are NAME=VALUE pairs. Values may use
	// single-brace {STAMP} references.
	Variables []string

	// Imports are NAME=path pairs of partials
	// rendered against the context first.
	Imports []string

	// Bindings override stamps; variables and imports
	// override bindings.
	Bindings bindings.Bindings

	// Executable sets mode 0777 instead of 0666 on
	// the output file.
	Executable bool
}

// Expand renders one job.
//
// Processing order:
//  1. Load stamp files into a stamp map; it forms the
//     base context.
//  2. Job.Bindings override stamps.
//  3. For each variable NAME=VALUE, expand VALUE against
//     stamps using single-brace tags, then store it as
//     both "NAME" and "variables.NAME".
//  4. For each import NAME=path, fetch the partial,
//     render it against the context and store it as
//     "imports.NAME".
//  5. Render the template against the context.
func (en *Engine) Expand(ctx context.Context, job Job) error {
	const errCtx = "expanding template"

	stamps, err := bindings.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplCtx, err := en.buildContext(ctx, job, stamps)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl, err := en.load(ctx, job.TemplatePath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := tpl.Render(tplCtx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.writeOutput(job, out); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ExpandAll renders jobs concurrently, at most
// Parallelism at a time, and returns the first error.
func (en *Engine) ExpandAll(ctx context.Context, jobs []Job) error {
	const errCtx = "expanding templates"

	limit := en.Parallelism
	if limit <= 0 {
		limit = defaultParallelism
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return en.Expand(gctx, job)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Parse fetches and parses a template with the engine's
// configuration.
func (en *Engine) Parse(
	ctx context.Context,
	path string,
) (*Template, error) {
	return en.load(ctx, path)
}

// buildContext layers stamps, job bindings, variables and
// imports into the render context.
func (en *Engine) buildContext(
	ctx context.Context,
	job Job,
	stamps bindings.Bindings,
) (bindings.Bindings, error) {
	const errCtx = "building context"

	vars, err := bindings.ParseAssignments(job.Variables, stamps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	prefixed := make(bindings.Bindings, len(vars))
	for name, val := range vars {
		prefixed["variables."+name] = val
	}

	tplCtx := bindings.Merge(stamps, job.Bindings, vars, prefixed)

	for _, im := range job.Imports {
		name, path, ok := strings.Cut(im, "=")
		if !ok {
			return nil, fmt.Errorf(
				"%s: import must be NAME=filename, got %s",
				errCtx, im,
			)
		}

		partial, err := en.load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: import %s: %w", errCtx, name, err,
			)
		}

		val, err := partial.Render(tplCtx)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: import %s: %w", errCtx, name, err,
			)
		}

		tplCtx["imports."+name] = val
	}

	return tplCtx, nil
}

// load fetches path through the configured source and
// parses it.
func (en *Engine) load(
	ctx context.Context,
	path string,
) (*Template, error) {
	const errCtx = "loading template"

	src := en.Source
	if src == nil {
		src = source.Local{}
	}

	content, err := src.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl, err := Parse(string(content), en.Config)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return tpl, nil
}

// writeOutput writes the rendered text to the job's output
// file, or to Stdout when OutputPath is empty.
func (en *Engine) writeOutput(job Job, out string) error {
	const errCtx = "writing output"

	if job.OutputPath == "" {
		w := en.Stdout
		if w == nil {
			w = os.Stdout
		}

		if _, err := io.WriteString(w, out); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	var perm os.FileMode = 0o666
	if job.Executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		job.OutputPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := io.WriteString(fi, out); err != nil {
		_ = fi.Close() //nolint:errcheck // write error wins

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := fi.Close(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"rendered template",
		"template", job.TemplatePath,
		"output", job.OutputPath,
		"bytes", len(out),
	)

	return nil
}
