package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	want := []string{"burn", "convert", "adjust", "trim", "screenshot", "extract-audio", "info", "probe"}
	var got []string
	for _, c := range root.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}

func TestBurnCommandFlags(t *testing.T) {
	cmd := newBurnCmd()

	for _, flag := range []string{
		"input", "subtitles", "output", "codec", "preset", "quality",
		"force-cpu", "require-gpu", "font", "font-size", "color",
		"outline-color", "border", "opacity", "offset-x", "offset-y", "margin",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}

	require.NoError(t, cmd.Flags().Set("opacity", "75"))
	v, err := cmd.Flags().GetInt("opacity")
	require.NoError(t, err)
	assert.Equal(t, 75, v)
}

func TestBurnCommandRequiredFlags(t *testing.T) {
	cmd := newBurnCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
