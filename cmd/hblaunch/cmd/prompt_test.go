package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPasswordNotATerminal(t *testing.T) {
	in, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer in.Close()

	var out bytes.Buffer
	password, ok, err := terminalPassword(in, &out, "Password: ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, password)
	assert.Empty(t, out.String())

	_, ok, err = terminalPassword(nil, &out, "Password: ")
	require.NoError(t, err)
	assert.False(t, ok)
}
