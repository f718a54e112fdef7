package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/systmms/feedauth/internal/config"
	"github.com/systmms/feedauth/internal/logging"
)

// writeTestConfig marshals a Definition into a temp feedauth.yaml and
// returns a Config pointing at it.
func writeTestConfig(t *testing.T, def *config.Definition) *config.Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "feedauth.yaml")
	configBytes, err := yaml.Marshal(def)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, configBytes, 0644))

	return &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true, true),
	}
}

// writeTestProvider drops an executable provider stub into dir.
func writeTestProvider(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("provider stubs rely on the unix executable bit")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 1\n"), 0o755))
	return path
}

func TestProvidersCommand_ExecutesSuccessfully(t *testing.T) {
	cfg := writeTestConfig(t, &config.Definition{Version: 0})

	cmd := NewProvidersCommand(cfg)

	err := cmd.Execute()
	require.NoError(t, err)
}

func TestProvidersCommand_ListsConfiguredPath(t *testing.T) {
	providerDir := t.TempDir()
	writeTestProvider(t, providerDir, "CredentialProviderTest")

	cfg := writeTestConfig(t, &config.Definition{
		Version:       0,
		ProviderPaths: []string{providerDir},
	})

	cmd := NewProvidersCommand(cfg)

	err := cmd.Execute()
	require.NoError(t, err)
}

func TestProvidersCommand_MissingConfigIsFine(t *testing.T) {
	cfg := &config.Config{
		Path:   filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		Logger: logging.New(false, true, true),
	}

	cmd := NewProvidersCommand(cfg)

	err := cmd.Execute()
	require.NoError(t, err)
}
