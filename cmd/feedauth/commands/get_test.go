package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/systmms/feedauth/internal/config"
	"github.com/systmms/feedauth/internal/keyringsource"
	"github.com/systmms/feedauth/internal/logging"
)

func TestGetCommand_NoCredentialsAnywhere(t *testing.T) {
	isolateDiscovery(t)
	keyring.MockInit()

	cfg := writeTestConfig(t, &config.Definition{Version: 0})

	cmd := NewGetCommand(cfg)
	cmd.SetArgs([]string{"--source", "https://feed.example/v3/index.json"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No credentials available")
}

func TestGetCommand_KeyringFallback(t *testing.T) {
	isolateDiscovery(t)
	keyring.MockInit()

	logger := logging.New(false, true, true)
	require.NoError(t, keyringsource.New(logger).Set("https://feed.example/v3/index.json", "ci-bot", "hunter2"))

	cfg := writeTestConfig(t, &config.Definition{
		Version:    0,
		UseKeyring: true,
	})

	cmd := NewGetCommand(cfg)
	cmd.SetArgs([]string{"--source", "https://feed.example/v3/index.json"})

	err := cmd.Execute()
	require.NoError(t, err)
}

func TestGetCommand_RejectsBadVerbosity(t *testing.T) {
	isolateDiscovery(t)

	cfg := writeTestConfig(t, &config.Definition{Version: 0})

	cmd := NewGetCommand(cfg)
	cmd.SetArgs([]string{
		"--source", "https://feed.example/v3/index.json",
		"--verbosity", "chatty",
	})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestBuildSources_KeyringToggle(t *testing.T) {
	logger := logging.New(false, true, true)

	cfg := &config.Config{
		Logger:     logger,
		Definition: &config.Definition{},
	}
	sources, err := buildSources(cfg, false, "")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "plugin", sources[0].Name())

	cfg.Definition.UseKeyring = true
	sources, err = buildSources(cfg, false, "")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "keyring", sources[1].Name())
}
