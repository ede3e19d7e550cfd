// Package templating parses and renders flat "{{ name }}" templates.
//
// Parse runs the lexer and the semantic analyzer once and returns an
// immutable Template indexed by normalized variable name. Render then
// substitutes caller-supplied bindings any number of times, concurrently if
// needed. Config selects the delimiters and the name policy: case folding,
// whitespace trimming, and whether undefined variables fail the render.
//
// Engine wraps Template for file based expansion: it merges workspace
// status stamps, explicit NAME=VALUE variables and imported partials into a
// single binding context, reads templates through a source.Fetcher and
// writes the output, optionally for many jobs in parallel.
package templating
