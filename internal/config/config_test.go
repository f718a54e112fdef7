package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedauth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfig_Load(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, `
version: 1
provider_paths:
  - /opt/feedauth/providers
timeout_ms: 30000
verbosity: Verbose
use_keyring: true
`)}

	require.NoError(t, cfg.Load())
	assert.Equal(t, []string{"/opt/feedauth/providers"}, cfg.ProviderPaths())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "Verbose", cfg.Verbosity())
	assert.True(t, cfg.UseKeyring())
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, 10*time.Minute, cfg.Timeout())
	assert.Empty(t, cfg.ProviderPaths())
	assert.False(t, cfg.UseKeyring())
}

func TestConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "version: [unclosed")}
	assert.Error(t, cfg.Load())
}

func TestConfig_NegativeTimeoutRejected(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: writeConfig(t, "timeout_ms: -5")}
	assert.Error(t, cfg.Load())
}
