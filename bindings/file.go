package bindings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// Format identifies a bindings file encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

var (
	// ErrUnsupportedFormat is returned for unknown file
	// extensions or formats.
	ErrUnsupportedFormat = errors.New("unsupported bindings format")

	// ErrNotFlat is returned when a value is a list or an
	// object; bindings hold scalars only.
	ErrNotFlat = errors.New("bindings must be a flat object of scalars")
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf(
			"%w: %q", ErrUnsupportedFormat, path,
		)
	}
}

// Load reads a bindings file. A path may carry a gjson
// selector after '#', e.g. "values.json#env.prod", which
// is only valid for JSON files.
func Load(path string) (Bindings, error) {
	const errCtx = "loading bindings"

	file, selector, _ := strings.Cut(path, "#")

	format, err := FormatOf(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	content, err := os.ReadFile(file) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if selector != "" {
		if format != JSON {
			return nil, fmt.Errorf(
				"%s: %w: selector %q needs a JSON file",
				errCtx, ErrUnsupportedFormat, selector,
			)
		}

		content, err = Select(content, selector)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", errCtx, file, err)
		}
	}

	out, err := Decode(content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, file, err)
	}

	return out, nil
}

// Select returns the raw JSON of the object found at a
// gjson path.
func Select(data []byte, path string) ([]byte, error) {
	const errCtx = "selecting bindings"

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON document", errCtx)
	}

	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, fmt.Errorf(
			"%s: path %q not found", errCtx, path,
		)
	}

	if !res.IsObject() {
		return nil, fmt.Errorf(
			"%s: %w: %q is %s",
			errCtx, ErrNotFlat, path, res.Type,
		)
	}

	return []byte(res.Raw), nil
}

// Decode parses a flat object. Strings are kept, numbers
// and booleans are formatted, null becomes "".
func Decode(data []byte, format Format) (Bindings, error) {
	const errCtx = "decoding bindings"

	raw := make(map[string]interface{})

	var err error

	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case YAML:
		err = yaml.Unmarshal(data, &raw)
	case TOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf(
			"%s: %w: %q", errCtx, ErrUnsupportedFormat, format,
		)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	out := make(Bindings, len(raw))

	for key, val := range raw {
		str, err := scalar(val)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: key %q: %w", errCtx, key, err,
			)
		}

		out[key] = str
	}

	return out, nil
}

// scalar formats a decoded value as a binding string.
func scalar(val interface{}) (string, error) {
	switch typed := val.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case json.Number:
		return typed.String(), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case uint64:
		return strconv.FormatUint(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case fmt.Stringer:
		return typed.String(), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrNotFlat, val)
	}
}
