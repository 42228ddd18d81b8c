package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiresSubcommands(t *testing.T) {
	t.Setenv("EMBER_CREDENTIALS_DIR", t.TempDir())

	root := newRootCmd()

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"login", "logout", "status", "listen", "buy"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestWireAppAppliesConfig(t *testing.T) {
	t.Setenv("EMBER_CREDENTIALS_DIR", t.TempDir())
	t.Setenv("EMBER_API_URL", "https://test.ember.example.com/v1")

	app, err := wireApp("")
	require.NoError(t, err)

	assert.Equal(t, "https://test.ember.example.com/v1", app.cfg.API.BaseURL)
	assert.NotNil(t, app.api)
	assert.NotNil(t, app.realtime)
	assert.NotNil(t, app.balances)
}
