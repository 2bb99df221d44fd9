package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "lakecat", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "entries")
	assert.Contains(t, names, "catalogs")
	assert.Contains(t, names, "plugins")
	assert.Contains(t, names, "version")
}

func TestServeCmd_RequiresArgs(t *testing.T) {
	err := serveCmd.Args(serveCmd, nil)
	require.Error(t, err)

	err = serveCmd.Args(serveCmd, []string{"catalog.yml"})
	require.NoError(t, err)
}
