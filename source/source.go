package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Pattern: Strategy -- swap template storage without
// changing expansion logic.

// ErrNotFound is wrapped by fetchers when the requested
// path does not exist.
var ErrNotFound = errors.New("template source not found")

// Fetcher returns the content stored at path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher
// interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch delegates to the wrapped function.
func (f FetcherFunc) Fetch(
	ctx context.Context,
	path string,
) ([]byte, error) {
	return f(ctx, path)
}

// Local reads files from the local file system. An empty
// path or "-" reads Stdin, or os.Stdin when Stdin is nil.
type Local struct {
	Stdin io.Reader
}

// Fetch reads the whole file or stdin.
func (l Local) Fetch(
	_ context.Context,
	path string,
) ([]byte, error) {
	const errCtx = "reading local source"

	if path == "" || path == "-" {
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}

		content, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: reading stdin: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(
			"%s: %w: %s", errCtx, ErrNotFound, path,
		)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return content, nil
}
