package bindings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"
)

// ErrMalformedAssignment is returned for a NAME=VALUE
// argument without "=".
var ErrMalformedAssignment = errors.New("malformed assignment")

// Bindings maps variable names to values.
type Bindings = map[string]string

// Merge flattens layers into a new map. Keys of later
// layers override earlier ones.
func Merge(layers ...Bindings) Bindings {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}

	out := make(Bindings, size)

	for _, layer := range layers {
		for key, val := range layer {
			out[key] = val
		}
	}

	return out
}

// ParseAssignments parses NAME=VALUE arguments. Each value
// is first expanded against stamps using single-brace
// {KEY} tags; unknown stamp references are kept as-is.
// Later assignments of the same name win.
func ParseAssignments(
	assigns []string,
	stamps Bindings,
) (Bindings, error) {
	const errCtx = "parsing assignments"

	ctx := make(map[string]interface{}, len(stamps))
	for key, val := range stamps {
		ctx[key] = val
	}

	out := make(Bindings, len(assigns))

	for _, assign := range assigns {
		name, value, ok := strings.Cut(assign, "=")
		if !ok {
			return nil, fmt.Errorf(
				"%s: %w: want NAME=VALUE, got %q",
				errCtx, ErrMalformedAssignment, assign,
			)
		}

		out[name] = fasttemplate.ExecuteStringStd(
			value, "{", "}", ctx,
		)
	}

	return out, nil
}
