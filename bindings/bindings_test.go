package bindings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/interpol/bindings"
)

func TestMerge_later_layers_win(t *testing.T) {
	t.Parallel()

	got := bindings.Merge(
		bindings.Bindings{"a": "1", "b": "1"},
		nil,
		bindings.Bindings{"b": "2", "c": "2"},
	)

	assert.Equal(t, bindings.Bindings{"a": "1", "b": "2", "c": "2"}, got)
}

func TestMerge_does_not_alias(t *testing.T) {
	t.Parallel()

	base := bindings.Bindings{"a": "1"}

	got := bindings.Merge(base)
	got["a"] = "changed"

	assert.Equal(t, "1", base["a"])
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	got, err := bindings.ParseAssignments(
		[]string{"APP=myapp", "URL=http://x/?a=b", "EMPTY="},
		nil,
	)

	require.NoError(t, err)
	assert.Equal(t, bindings.Bindings{
		"APP":   "myapp",
		"URL":   "http://x/?a=b",
		"EMPTY": "",
	}, got)
}

func TestParseAssignments_expands_stamps(t *testing.T) {
	t.Parallel()

	got, err := bindings.ParseAssignments(
		[]string{"AUTHOR={BUILD_USER}", "TAG={UNKNOWN}-x"},
		bindings.Bindings{"BUILD_USER": "alice"},
	)

	require.NoError(t, err)
	assert.Equal(t, "alice", got["AUTHOR"])
	assert.Equal(t, "{UNKNOWN}-x", got["TAG"])
}

func TestParseAssignments_later_wins(t *testing.T) {
	t.Parallel()

	got, err := bindings.ParseAssignments(
		[]string{"V=1", "V=2"}, nil,
	)

	require.NoError(t, err)
	assert.Equal(t, "2", got["V"])
}

func TestParseAssignments_malformed(t *testing.T) {
	t.Parallel()

	_, err := bindings.ParseAssignments([]string{"NOEQUALS"}, nil)

	require.ErrorIs(t, err, bindings.ErrMalformedAssignment)
	assert.ErrorContains(t, err, "NAME=VALUE")
}
