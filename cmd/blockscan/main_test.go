package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "watch", "blocks", "txs", "providers"})

	for _, flag := range []string{"config", "provider", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("terminal"))
	assert.NoError(t, checkFormat("json"))
	assert.Error(t, checkFormat("yaml"))
}

func TestSetup_ViewOptionsFromConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "blockscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - name: local
    url: http://localhost:8545
defaults:
  timeout: 2s
  concurrency: 4
dashboard:
  block_count: 10
  revalidate:
    enabled: true
    interval: 5s
`), 0o600))

	a, err := setup(&globalFlags{configPath: path, logLevel: "error"})
	require.NoError(t, err)

	opts := a.viewOptions()
	assert.Equal(t, 10, opts.BlockCount)
	assert.True(t, opts.Revalidate.Enabled)
	assert.Equal(t, "5s", opts.Revalidate.Interval.String())

	c, err := a.client(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, "local", c.Name())

	_, err = a.client(t.Context(), "missing")
	assert.Error(t, err)
}
